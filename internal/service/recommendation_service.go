package service

import (
	"context"

	"go.uber.org/zap"

	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/recommend"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// ErrProfileRequired 推荐、收藏与对话都需要已填写的档案
var ErrProfileRequired = pkgerrors.Validation("Profile not completed. Please complete onboarding first.")

// RecommendationService 基于档案与院校目录的推荐
type RecommendationService interface {
	Recommend(ctx context.Context, userID string) (*recommend.Buckets, error)
	// CategoryLookup 院校 ID → 当前推荐分组，用于收藏动作未指定分类时的默认值
	CategoryLookup(ctx context.Context, userID string) (map[int]string, error)
}

type recommendationService struct {
	repo    *repository.Repository
	catalog CatalogService
	engine  *recommend.Engine
	logger  *zap.Logger
}

// NewRecommendationService 创建 RecommendationService 实例
func NewRecommendationService(
	repo *repository.Repository,
	catalog CatalogService,
	engine *recommend.Engine,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{repo: repo, catalog: catalog, engine: engine, logger: logger}
}

func (s *recommendationService) Recommend(ctx context.Context, userID string) (*recommend.Buckets, error) {
	profile, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	unis, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	buckets := s.engine.Recommend(toRecommendProfile(profile), toRecommendUniversities(unis))
	return &buckets, nil
}

func (s *recommendationService) CategoryLookup(ctx context.Context, userID string) (map[int]string, error) {
	buckets, err := s.Recommend(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recommend.CategoryLookup(*buckets), nil
}

// loadProfile 读取档案，不存在时返回 ErrProfileRequired
func loadProfile(ctx context.Context, repo *repository.Repository, userID string) (*model.Profile, error) {
	profile, err := repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProfileRequired
		}
		return nil, pkgerrors.Persistence("failed to load profile", err)
	}
	return profile, nil
}

// ── 模型转换 ──

func toRecommendProfile(p *model.Profile) recommend.Profile {
	return recommend.Profile{
		AcademicScore: p.AcademicScore,
		Major:         p.Major,
		Field:         p.Field,
		Countries:     []string(p.Countries),
		BudgetRange:   p.BudgetRange,
		FundingType:   p.FundingType,
		IELTSStatus:   p.IELTSStatus,
		GREStatus:     p.GREStatus,
		SOPStatus:     p.SOPStatus,
	}
}

func toRecommendUniversity(u *model.University) recommend.University {
	return recommend.University{
		ID:         u.ID,
		Name:       u.Name,
		Country:    u.Country,
		AvgCost:    u.AvgCost,
		Difficulty: u.Difficulty,
		Fields:     []string(u.Fields),
	}
}

func toRecommendUniversities(unis []model.University) []recommend.University {
	out := make([]recommend.University, 0, len(unis))
	for i := range unis {
		out = append(out, toRecommendUniversity(&unis[i]))
	}
	return out
}
