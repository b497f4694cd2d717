package dto

// ── 阶段 DTO ──

// StageInfo 阶段信息
// CurrentStage 为持久化值，CalculatedStage 为按当前计数重新计算的值
type StageInfo struct {
	CurrentStage        string `json:"current_stage"`
	StageName           string `json:"stage_name"`
	CalculatedStage     string `json:"calculated_stage"`
	NeedsUpdate         bool   `json:"needs_update"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	ShortlistCount      int64  `json:"shortlist_count"`
	LockedCount         int64  `json:"locked_count"`
}

// StageSummary 对外展示的阶段摘要
type StageSummary struct {
	CurrentStage        string `json:"current_stage"`
	StageName           string `json:"stage_name"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	ShortlistCount      int64  `json:"shortlist_count"`
	LockedCount         int64  `json:"locked_count"`
}

// Summary 转为摘要
func (i *StageInfo) Summary() StageSummary {
	return StageSummary{
		CurrentStage:        i.CurrentStage,
		StageName:           i.StageName,
		OnboardingCompleted: i.OnboardingCompleted,
		ShortlistCount:      i.ShortlistCount,
		LockedCount:         i.LockedCount,
	}
}
