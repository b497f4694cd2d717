package service

import (
	"go.uber.org/zap"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/oracle"
	"abroad-compass/backend/internal/recommend"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/tasktemplate"
	"abroad-compass/backend/pkg/jwt"
	"abroad-compass/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth           AuthService
	Stage          StageService
	Onboarding     OnboardingService
	Catalog        CatalogService
	Recommendation RecommendationService
	University     UniversityService
	Action         ActionService
	Task           TaskService
	Counsellor     CounsellorService
	Dashboard      DashboardService
	Export         ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时目录缓存与 Token 黑名单降级为直连数据库 / 不生效
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	orc oracle.Oracle,
	templates tasktemplate.Set,
	logger *zap.Logger,
) *Service {
	engine := recommend.New(cfg.Recommend.LoanTolerance)

	stageSvc := NewStageService(repo, logger)
	catalogSvc := NewCatalogService(&cfg.Redis, repo, rdb, logger)
	recSvc := NewRecommendationService(repo, catalogSvc, engine, logger)
	taskSvc := NewTaskService(&cfg.Feature, repo, templates, logger)
	actionSvc := NewActionService(repo, stageSvc, taskSvc, recSvc, logger)
	uniSvc := NewUniversityService(repo, catalogSvc, recSvc, actionSvc, engine, logger)

	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Stage:          stageSvc,
		Onboarding:     NewOnboardingService(repo, stageSvc, logger),
		Catalog:        catalogSvc,
		Recommendation: recSvc,
		University:     uniSvc,
		Action:         actionSvc,
		Task:           taskSvc,
		Counsellor:     NewCounsellorService(cfg, repo, stageSvc, recSvc, uniSvc, taskSvc, actionSvc, orc, logger),
		Dashboard:      NewDashboardService(repo, stageSvc, taskSvc, engine, logger),
		Export:         NewExportService(repo, uniSvc, taskSvc, logger),
	}
}
