package service

import (
	"context"

	"go.uber.org/zap"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/stage"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// StageService 阶段计算与持久化
//
// 所有修改档案或收藏状态的路径在返回前都必须调用 Apply，
// 保证 users.current_stage 始终等于按当前计数计算出的阶段。
type StageService interface {
	// Recompute 只读：返回持久化阶段与重新计算的阶段
	Recompute(ctx context.Context, userID string) (*dto.StageInfo, error)
	// Apply 重新计算并通过给定 Repository（可为事务）写回，已一致时不写
	Apply(ctx context.Context, repo *repository.Repository, userID string) (stage.Stage, error)
}

type stageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStageService 创建 StageService 实例
func NewStageService(repo *repository.Repository, logger *zap.Logger) StageService {
	return &stageService{repo: repo, logger: logger}
}

func (s *stageService) Recompute(ctx context.Context, userID string) (*dto.StageInfo, error) {
	user, counts, err := loadCounts(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	calculated := stage.Compute(counts)
	current := stage.Stage(user.CurrentStage)
	return &dto.StageInfo{
		CurrentStage:        string(current),
		StageName:           current.Name(),
		CalculatedStage:     string(calculated),
		NeedsUpdate:         current != calculated,
		OnboardingCompleted: counts.OnboardingCompleted,
		ShortlistCount:      counts.ShortlistCount,
		LockedCount:         counts.LockedCount,
	}, nil
}

func (s *stageService) Apply(ctx context.Context, repo *repository.Repository, userID string) (stage.Stage, error) {
	user, counts, err := loadCounts(ctx, repo, userID)
	if err != nil {
		return "", err
	}
	next := stage.Compute(counts)
	if user.CurrentStage == string(next) {
		return next, nil
	}
	if err := repo.User.UpdateStage(ctx, userID, string(next)); err != nil {
		s.logger.Error("更新阶段失败", zap.String("user_id", userID), zap.Error(err))
		return "", pkgerrors.Persistence("failed to update stage", err)
	}
	s.logger.Info("用户阶段变更",
		zap.String("user_id", userID),
		zap.String("from", user.CurrentStage),
		zap.String("to", string(next)),
	)
	return next, nil
}

func loadCounts(ctx context.Context, repo *repository.Repository, userID string) (*model.User, stage.Counts, error) {
	user, err := repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, stage.Counts{}, ErrUserNotFound
		}
		return nil, stage.Counts{}, pkgerrors.Persistence("failed to load user", err)
	}
	total, locked, err := repo.Shortlist.Counts(ctx, userID)
	if err != nil {
		return nil, stage.Counts{}, pkgerrors.Persistence("failed to count shortlist", err)
	}
	return user, stage.Counts{
		OnboardingCompleted: user.OnboardingCompleted,
		ShortlistCount:      total,
		LockedCount:         locked,
	}, nil
}
