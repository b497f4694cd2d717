package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"abroad-compass/backend/internal/api/handler"
	"abroad-compass/backend/internal/api/router"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/oracle"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/internal/tasktemplate"
	"abroad-compass/backend/pkg/database"
	"abroad-compass/backend/pkg/jwt"
	"abroad-compass/backend/pkg/redis"
	"abroad-compass/backend/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// 1. 配置 / 日志 / 数据库
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db)

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 2. 链路追踪
	shutdownTrace, err := telemetry.Init(cmd.Context(), &cfg.Trace, logger)
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTrace(ctx); err != nil {
			logger.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}()

	// 3. 数据库迁移
	if err := database.Migrate(db, cfg.Database.Driver, logger, model.All()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，目录缓存、限流与 Token 黑名单将不可用", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// 5. JWT / 大模型 / 任务模板
	jwtMgr := jwt.NewManager(&cfg.Auth)

	orc, err := oracle.New(cmd.Context(), &cfg.Oracle, logger)
	if err != nil {
		logger.Warn("大模型客户端初始化失败，对话功能不可用", zap.Error(err))
		orc = oracle.Unconfigured{}
	}

	templates, err := tasktemplate.Load()
	if err != nil {
		return fmt.Errorf("加载任务模板失败: %w", err)
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, orc, templates, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	pinger := func(ctx context.Context) error { return database.Ping(ctx, db) }
	engine := router.Setup(cfg, h, jwtMgr, rdb, pinger, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	// 对话请求需等待大模型返回，写超时按 oracle.timeout 放宽
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Oracle.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr), zap.String("oracle", orc.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("HTTP 服务器异常", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}
