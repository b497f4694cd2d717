package model

// 任务状态
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// ValidTaskStatus 判断任务状态是否合法
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task 待办任务表 — 对应 tasks
type Task struct {
	ID     int    `gorm:"primaryKey;autoIncrement"            json:"id"`
	UserID string `gorm:"type:varchar(36);not null;index"     json:"user_id"`
	Title  string `gorm:"type:varchar(500);not null"          json:"title"`
	Stage  string `gorm:"type:varchar(32);not null"           json:"stage"`
	Status string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	BaseModel
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
