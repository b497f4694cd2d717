package dto

// ── 任务 DTO ──

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required,max=500"`
	Stage string `json:"stage" binding:"omitempty,oneof=STAGE_1_PROFILE STAGE_2_DISCOVERY STAGE_3_LOCKING STAGE_4_APPLICATION"`
}

// UpdateTaskRequest 更新任务状态请求
type UpdateTaskRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed"`
}

// TaskInfo 任务信息
type TaskInfo struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Stage  string `json:"stage"`
	Status string `json:"status"`
}

// GenerateTasksResponse 生成默认任务结果
type GenerateTasksResponse struct {
	Stage   string     `json:"stage"`
	Created int        `json:"created"`
	Message string     `json:"message"`
	Tasks   []TaskInfo `json:"tasks"`
}
