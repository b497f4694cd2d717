package dto

import "encoding/json"

// ── 院校 / 动作 DTO ──

// ShortlistRequest 收藏请求；category 为空时按推荐分组决定
type ShortlistRequest struct {
	UniversityID int    `json:"university_id" binding:"required,min=1"`
	Category     string `json:"category"      binding:"omitempty,oneof=Dream Target Safe"`
}

// UniversityIDRequest 锁定 / 解锁请求
type UniversityIDRequest struct {
	UniversityID int `json:"university_id" binding:"required,min=1"`
}

// ShortlistedUniversity 收藏条目（分类为用户收藏时保存的分类）
type ShortlistedUniversity struct {
	UniversityID         int      `json:"university_id"`
	UniversityName       string   `json:"university_name"`
	Country              string   `json:"country"`
	AvgCost              int      `json:"avg_cost"`
	Fields               []string `json:"fields"`
	Category             string   `json:"category"`
	Locked               bool     `json:"locked"`
	Score                int      `json:"score,omitempty"`
	CostFit              string   `json:"cost_fit,omitempty"`
	RiskLevel            string   `json:"risk_level,omitempty"`
	AcceptanceLikelihood string   `json:"acceptance_likelihood,omitempty"`
}

// ActionRequest 直接提交的动作对象，与对话中大模型返回的格式一致
type ActionRequest = json.RawMessage
