package handler

import "abroad-compass/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Onboarding *OnboardingHandler
	Stage      *StageHandler
	Dashboard  *DashboardHandler
	University *UniversityHandler
	Task       *TaskHandler
	Action     *ActionHandler
	Counsellor *CounsellorHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Onboarding: NewOnboardingHandler(svc.Onboarding),
		Stage:      NewStageHandler(svc.Stage),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		University: NewUniversityHandler(svc.University),
		Task:       NewTaskHandler(svc.Task),
		Action:     NewActionHandler(svc.Action),
		Counsellor: NewCounsellorHandler(svc.Counsellor),
		Export:     NewExportHandler(svc.Export),
	}
}
