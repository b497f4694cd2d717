package model

import "gorm.io/gorm"

// User 用户表 — 对应 users
// CurrentStage 只由阶段引擎写入
type User struct {
	UserID              string `gorm:"type:varchar(36);primaryKey"                        json:"user_id"`
	Name                string `gorm:"type:varchar(100);not null"                         json:"name"`
	Email               string `gorm:"type:varchar(255);not null;uniqueIndex"             json:"email"`
	PasswordHash        string `gorm:"type:varchar(255);not null"                         json:"-"`
	OnboardingCompleted bool   `gorm:"not null;default:false"                             json:"onboarding_completed"`
	CurrentStage        string `gorm:"type:varchar(32);not null;default:'STAGE_1_PROFILE'" json:"current_stage"`
	Version             int    `gorm:"not null;default:1"                                 json:"version"`
	BaseModel

	Profile *Profile `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(*gorm.DB) error {
	newUUID(&u.UserID)
	return nil
}
