package model

// Profile 用户档案表 — 对应 profiles，与 users 一对一
type Profile struct {
	UserID string `gorm:"type:varchar(36);primaryKey" json:"user_id"`

	// 学术背景
	EducationLevel string `gorm:"type:varchar(100)" json:"education_level"`
	Major          string `gorm:"type:varchar(200)" json:"major"`
	GraduationYear *int   `json:"graduation_year,omitempty"`
	AcademicScore  string `gorm:"type:varchar(50)" json:"academic_score"`

	// 留学目标
	TargetDegree string    `gorm:"type:varchar(100)" json:"target_degree"`
	Field        string    `gorm:"type:varchar(200)" json:"field"`
	IntakeYear   *int      `json:"intake_year,omitempty"`
	Countries    StringSet `json:"countries"`

	// 预算
	BudgetRange string `gorm:"type:varchar(50)" json:"budget_range"`
	FundingType string `gorm:"type:varchar(50)" json:"funding_type"`

	// 准备情况
	IELTSStatus string `gorm:"column:ielts_status;type:varchar(50)" json:"ielts_status"`
	GREStatus   string `gorm:"column:gre_status;type:varchar(50)"   json:"gre_status"`
	SOPStatus   string `gorm:"column:sop_status;type:varchar(50)"   json:"sop_status"`

	BaseModel
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }
