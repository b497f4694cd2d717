package dto

// 动作执行结果状态
const (
	ActionExecuted = "executed"
	ActionSkipped  = "skipped"
	ActionFailed   = "failed"
)

// ActionResult 单个动作的执行结果
type ActionResult struct {
	Type         string `json:"type"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	UniversityID *int   `json:"university_id,omitempty"`
	TaskID       *int   `json:"task_id,omitempty"`
	Warning      string `json:"warning,omitempty"`
}
