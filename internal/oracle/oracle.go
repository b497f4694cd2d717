// Package oracle 大模型调用。返回内容视为不可信文本，由调用方解析校验。
package oracle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"abroad-compass/backend/config"
)

var (
	ErrNotConfigured    = errors.New("oracle is not configured")
	ErrRateLimited      = errors.New("oracle rate limited")
	ErrModelUnavailable = errors.New("no supported oracle model available")
	ErrEmptyResponse    = errors.New("oracle returned an empty response")
)

// Request 单次生成请求
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	JSON        bool // 要求返回 JSON
}

// Oracle 大模型后端
type Oracle interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// New 按配置组装后端：Gemini 为主，配置了备用接口时在限流时切换一次
func New(ctx context.Context, cfg *config.OracleConfig, logger *zap.Logger) (Oracle, error) {
	var secondary Oracle
	if cfg.Fallback.Enabled && cfg.Fallback.APIKey != "" {
		secondary = NewOpenAIOracle(cfg.Fallback, cfg.Timeout)
	}

	if cfg.Gemini.APIKey == "" {
		if secondary != nil {
			logger.Warn("未配置 Gemini 密钥，仅使用备用模型", zap.String("oracle", secondary.Name()))
			return secondary, nil
		}
		logger.Warn("未配置任何大模型密钥，对话接口将不可用")
		return Unconfigured{}, nil
	}

	primary, err := NewGeminiOracle(ctx, cfg.Gemini, logger)
	if err != nil {
		return nil, err
	}
	if secondary == nil {
		return primary, nil
	}
	return &Fallback{Primary: primary, Secondary: secondary, Logger: logger}, nil
}

// Unconfigured 未配置密钥时的占位实现
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, Request) (string, error) { return "", ErrNotConfigured }
func (Unconfigured) Name() string                                      { return "unconfigured" }

// Fallback 主后端限流时改用备用后端，只尝试一次
type Fallback struct {
	Primary   Oracle
	Secondary Oracle
	Logger    *zap.Logger
}

func (f *Fallback) Name() string { return f.Primary.Name() + "+" + f.Secondary.Name() }

func (f *Fallback) Generate(ctx context.Context, req Request) (string, error) {
	out, err := f.Primary.Generate(ctx, req)
	if err == nil || !errors.Is(err, ErrRateLimited) {
		return out, err
	}

	if f.Logger != nil {
		f.Logger.Warn("主模型限流，切换备用模型",
			zap.String("primary", f.Primary.Name()),
			zap.String("secondary", f.Secondary.Name()),
		)
	}
	return f.Secondary.Generate(ctx, req)
}
