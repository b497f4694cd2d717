package dto

// ── 认证模块响应 ──

// TokenResponse Token 响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	CurrentStage        string `json:"current_stage"`
	CreatedAt           string `json:"created_at,omitempty"`
}
