package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"abroad-compass/backend/config"
)

// NewLogger 根据配置初始化 Zap 日志实例
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}

	return logger, nil
}

// GormLevel 将应用日志级别映射为 gorm 日志级别
// debug 输出全部 SQL；info/warn 只输出慢查询与错误；更高级别仅输出错误
func GormLevel(level string) gormlogger.LogLevel {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return gormlogger.Warn
	}
	switch {
	case lvl <= zapcore.DebugLevel:
		return gormlogger.Info
	case lvl <= zapcore.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}
