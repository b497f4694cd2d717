package dto

// ── 对话 DTO ──

// ChatRequest 对话请求
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// RecommendedIDs 大模型给出的推荐院校 ID（已过滤为实际推荐结果中存在的 ID）
type RecommendedIDs struct {
	Dream  []int `json:"dream"`
	Target []int `json:"target"`
	Safe   []int `json:"safe"`
}

// ChatResponse 对话响应，快照均为执行动作之后重新读取
type ChatResponse struct {
	Intent                  string                  `json:"intent"`
	Reply                   string                  `json:"reply"`
	Recommendations         RecommendedIDs          `json:"recommendations"`
	Actions                 []ActionResult          `json:"actions"`
	LockedUniversities      []ShortlistedUniversity `json:"locked_universities"`
	ShortlistedUniversities []ShortlistedUniversity `json:"shortlisted_universities"`
	Tasks                   []TaskInfo              `json:"tasks,omitempty"`
	Stage                   StageSummary            `json:"stage"`
}

