package service

import (
	"context"

	"go.uber.org/zap"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/recommend"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// DashboardService 仪表盘：档案 + 阶段 + 任务 + 收藏
type DashboardService interface {
	Get(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	stage  StageService
	tasks  TaskService
	engine *recommend.Engine
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(
	repo *repository.Repository,
	stage StageService,
	tasks TaskService,
	engine *recommend.Engine,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{repo: repo, stage: stage, tasks: tasks, engine: engine, logger: logger}
}

func (s *dashboardService) Get(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	info, err := s.stage.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{Stage: info.Summary()}

	var profile *recommend.Profile
	p, err := loadProfile(ctx, s.repo, userID)
	switch {
	case err == nil:
		resp.Profile = toProfileDetail(p)
		rp := toRecommendProfile(p)
		profile = &rp
	case pkgerrors.Is(err, pkgerrors.KindPersistence):
		return nil, err
	}

	if resp.Tasks, err = s.tasks.List(ctx, userID); err != nil {
		return nil, err
	}

	entries, err := s.repo.Shortlist.ListByUser(ctx, userID, false)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Persistence("failed to list shortlist", err)
	}
	resp.ShortlistedUniversities = shortlistView(s.engine, profile, entries)
	return resp, nil
}
