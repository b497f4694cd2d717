package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StringSet 字符串集合列（Postgres 为 jsonb，sqlite 为 JSON 文本）
type StringSet = datatypes.JSONSlice[string]

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// newUUID 主键为空时生成 UUID，两种驱动行为一致
func newUUID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All 返回需要 AutoMigrate 的全部模型（仅 sqlite 开发环境使用）
func All() []any {
	return []any{&User{}, &Profile{}, &University{}, &Shortlist{}, &Task{}}
}
