package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/api/handler"
	"abroad-compass/backend/internal/api/middleware"
	"abroad-compass/backend/pkg/jwt"
	"abroad-compass/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时 Token 黑名单与限流不生效
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	dbPing handler.Pinger,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Trace.Enabled {
		r.Use(otelgin.Middleware(cfg.Trace.ServiceName))
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", handler.Health(dbPing))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 引导 / 档案
			onboarding := authorized.Group("/onboarding")
			{
				onboarding.POST("", h.Onboarding.Complete)
				onboarding.PATCH("", h.Onboarding.Patch)
				onboarding.GET("/status", h.Onboarding.Status)
			}

			authorized.GET("/stage", h.Stage.Get)
			authorized.GET("/dashboard", h.Dashboard.Get)

			// 院校
			universities := authorized.Group("/universities")
			{
				universities.GET("", h.University.List)
				universities.GET("/recommendations", h.University.Recommendations)
				universities.POST("/shortlist", h.University.Shortlist)
				universities.GET("/shortlisted", h.University.Shortlisted)
				universities.DELETE("/shortlist/:id", h.University.Remove)
				universities.POST("/lock", h.University.Lock)
				universities.POST("/unlock", h.University.Unlock)
				universities.GET("/locked", h.University.Locked)
			}

			// 任务
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.List)
				tasks.POST("", h.Task.Create)
				tasks.POST("/generate", h.Task.Generate)
				tasks.PATCH("/:id", h.Task.UpdateStatus)
			}

			authorized.POST("/actions", h.Action.Execute)

			// AI 顾问（按用户限流）
			authorized.POST("/counsellor/chat",
				middleware.RateLimit(rdb, cfg.RateLimit.ChatPerMinute, time.Minute),
				h.Counsellor.Chat,
			)

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/plan", h.Export.ExportPlan)
				export.GET("/tasks.ics", h.Export.ExportTasksICS)
			}
		}
	}

	return r
}
