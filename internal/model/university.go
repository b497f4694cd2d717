package model

// 院校申请难度
const (
	DifficultyLow    = "Low"
	DifficultyMedium = "Medium"
	DifficultyHigh   = "High"
)

// University 院校目录表 — 对应 universities，业务侧只读
type University struct {
	ID         int       `gorm:"primaryKey;autoIncrement"              json:"id"             yaml:"id"`
	Name       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"           yaml:"name"`
	Country    string    `gorm:"type:varchar(100);not null;index"       json:"country"        yaml:"country"`
	AvgCost    int       `gorm:"not null"                               json:"avg_cost"       yaml:"avg_cost"`
	Difficulty string    `gorm:"type:varchar(20);not null"              json:"difficulty"     yaml:"difficulty"`
	Fields     StringSet `json:"fields"         yaml:"fields"`
	BaseModel  `yaml:"-"`
}

// TableName 指定表名
func (University) TableName() string { return "universities" }
