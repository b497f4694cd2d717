package dto

// ── 仪表盘 DTO ──

// ProfileDetail 完整档案
type ProfileDetail struct {
	EducationLevel string   `json:"education_level"`
	Major          string   `json:"major"`
	GraduationYear *int     `json:"graduation_year"`
	AcademicScore  string   `json:"academic_score"`
	TargetDegree   string   `json:"target_degree"`
	Field          string   `json:"field"`
	IntakeYear     *int     `json:"intake_year"`
	Countries      []string `json:"countries"`
	BudgetRange    string   `json:"budget_range"`
	FundingType    string   `json:"funding_type"`
	IELTSStatus    string   `json:"ielts_status"`
	GREStatus      string   `json:"gre_status"`
	SOPStatus      string   `json:"sop_status"`
}

// DashboardResponse 仪表盘
type DashboardResponse struct {
	Profile                 *ProfileDetail          `json:"profile"`
	Stage                   StageSummary            `json:"stage"`
	Tasks                   []TaskInfo              `json:"tasks"`
	ShortlistedUniversities []ShortlistedUniversity `json:"shortlisted_universities"`
}
