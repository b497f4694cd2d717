package dto

// ── 引导 / 档案 DTO ──

// ProfileRequest 档案字段；POST 时整体写入，PATCH 时仅更新非 nil 字段
type ProfileRequest struct {
	EducationLevel *string  `json:"education_level" binding:"omitempty,max=100"`
	Major          *string  `json:"major"           binding:"omitempty,max=200"`
	GraduationYear *int     `json:"graduation_year" binding:"omitempty,min=1950,max=2100"`
	AcademicScore  *string  `json:"academic_score"  binding:"omitempty,max=50"`
	TargetDegree   *string  `json:"target_degree"   binding:"omitempty,max=100"`
	Field          *string  `json:"field"           binding:"omitempty,max=200"`
	IntakeYear     *int     `json:"intake_year"     binding:"omitempty,min=2000,max=2100"`
	Countries      []string `json:"countries"       binding:"omitempty,max=20,dive,max=100"`
	BudgetRange    *string  `json:"budget_range"    binding:"omitempty,max=50"`
	FundingType    *string  `json:"funding_type"    binding:"omitempty,max=50"`
	IELTSStatus    *string  `json:"ielts_status"    binding:"omitempty,max=50"`
	GREStatus      *string  `json:"gre_status"      binding:"omitempty,max=50"`
	SOPStatus      *string  `json:"sop_status"      binding:"omitempty,max=50"`
}

// OnboardingResponse 引导完成 / 档案更新响应
type OnboardingResponse struct {
	Message             string `json:"message"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	CurrentStage        string `json:"current_stage"`
	StageName           string `json:"stage_name"`
}

// ProfileSummary 档案摘要
type ProfileSummary struct {
	EducationLevel string `json:"education_level"`
	Major          string `json:"major"`
	TargetDegree   string `json:"target_degree"`
	Field          string `json:"field"`
}

// OnboardingStatusResponse 引导状态
type OnboardingStatusResponse struct {
	OnboardingCompleted bool            `json:"onboarding_completed"`
	HasProfile          bool            `json:"has_profile"`
	Profile             *ProfileSummary `json:"profile"`
}
