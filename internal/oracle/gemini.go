package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"abroad-compass/backend/config"
)

// 配置模型不可用时依次尝试
var defaultGeminiModels = []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"}

// contentGenerator *genai.Models 的最小子集
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOracle 基于 google.golang.org/genai 的主后端
type GeminiOracle struct {
	models     contentGenerator
	candidates []string
	logger     *zap.Logger
}

// NewGeminiOracle 创建 Gemini 客户端
func NewGeminiOracle(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiOracle, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}
	return newGeminiOracle(client.Models, cfg.Models, logger), nil
}

func newGeminiOracle(models contentGenerator, configured []string, logger *zap.Logger) *GeminiOracle {
	return &GeminiOracle{
		models:     models,
		candidates: candidateModels(configured),
		logger:     logger,
	}
}

func (g *GeminiOracle) Name() string { return "gemini" }

// Generate 按候选顺序调用，模型不存在时换下一个
func (g *GeminiOracle) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	for _, model := range g.candidates {
		resp, err := g.models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			switch classifyGeminiError(err) {
			case http.StatusNotFound:
				g.logger.Warn("Gemini 模型不可用，尝试下一个", zap.String("model", model), zap.Error(err))
				continue
			case http.StatusTooManyRequests:
				return "", fmt.Errorf("gemini %s: %w", model, ErrRateLimited)
			}
			return "", fmt.Errorf("gemini %s: %w", model, err)
		}

		text := ""
		if resp != nil {
			text = strings.TrimSpace(resp.Text())
		}
		if text == "" {
			return "", fmt.Errorf("gemini %s: %w", model, ErrEmptyResponse)
		}
		return text, nil
	}

	return "", ErrModelUnavailable
}

// classifyGeminiError 归类为 404 / 429，其余返回 0
func classifyGeminiError(err error) int {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return 0
	}

	switch {
	case apiErr.Code == http.StatusNotFound || apiErr.Status == "NOT_FOUND":
		return http.StatusNotFound
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		return http.StatusTooManyRequests
	}
	return 0
}

func candidateModels(configured []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range append(append([]string{}, configured...), defaultGeminiModels...) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
