package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"abroad-compass/backend/pkg/jwt"
	"abroad-compass/backend/pkg/redis"
	"abroad-compass/backend/pkg/response"
)

const (
	// ContextUserID 当前用户 ID 在 gin.Context 中的键
	ContextUserID = "user_id"
	// ContextClaims 当前 Token 声明在 gin.Context 中的键
	ContextClaims = "claims"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token；
// rdb 不为 nil 时检查 Token 黑名单，Redis 出错时降级放行
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, 10002, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "Invalid token type")
			c.Abort()
			return
		}

		if rdb != nil && claims.ID != "" {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("检查 Token 黑名单失败，降级放行", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "Token has been revoked")
				c.Abort()
				return
			}
		}

		// 将用户信息注入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}
