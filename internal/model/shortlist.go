package model

// 院校分类
const (
	CategoryDream  = "Dream"
	CategoryTarget = "Target"
	CategorySafe   = "Safe"
)

// ValidCategory 判断分类是否合法
func ValidCategory(c string) bool {
	switch c {
	case CategoryDream, CategoryTarget, CategorySafe:
		return true
	}
	return false
}

// Shortlist 院校收藏表 — 对应 shortlists，(user_id, university_id) 联合主键
type Shortlist struct {
	UserID       string `gorm:"type:varchar(36);primaryKey"      json:"user_id"`
	UniversityID int    `gorm:"primaryKey"                       json:"university_id"`
	Category     string `gorm:"type:varchar(20);not null"        json:"category"`
	Locked       bool   `gorm:"not null;default:false;index"     json:"locked"`
	BaseModel

	University *University `gorm:"foreignKey:UniversityID;references:ID" json:"university,omitempty"`
}

// TableName 指定表名
func (Shortlist) TableName() string { return "shortlists" }
