package handler

import (
	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/api/middleware"
	"abroad-compass/backend/pkg/jwt"
	"abroad-compass/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, 10002, "Not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "Not authenticated")
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中提取当前 Token 声明（登出时使用）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		response.Unauthorized(c, 10002, "Not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "Not authenticated")
		return nil, false
	}
	return claims, true
}
