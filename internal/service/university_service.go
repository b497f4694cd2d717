package service

import (
	"context"

	"go.uber.org/zap"

	"abroad-compass/backend/internal/action"
	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/recommend"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// ErrOnboardingRequired 收藏前必须完成引导
var ErrOnboardingRequired = pkgerrors.Conflict("Please complete onboarding before shortlisting universities")

// failed 结果的错误分类，未列出的按参数错误处理
var failureKinds = map[string]pkgerrors.Kind{
	msgMissingUniversityID: pkgerrors.KindValidation,
	msgUniversityNotFound:  pkgerrors.KindNotFound,
	msgNotShortlisted:      pkgerrors.KindNotFound,
	msgNotLocked:           pkgerrors.KindStateConflict,
	msgRemoveLocked:        pkgerrors.KindStateConflict,
}

// ResultError 将非 executed 的动作结果转为分类错误（REST 接口使用）
// skipped 视为状态冲突
func ResultError(res *dto.ActionResult) error {
	switch res.Status {
	case dto.ActionExecuted:
		return nil
	case dto.ActionSkipped:
		return pkgerrors.New(pkgerrors.KindStateConflict, res.Message, nil)
	}
	kind, ok := failureKinds[res.Message]
	if !ok {
		kind = pkgerrors.KindValidation
	}
	return pkgerrors.New(kind, res.Message, nil)
}

// UniversityService 院校目录、推荐与收藏
// 收藏的增删改统一经过 ActionService，与对话动作共享同一套校验
type UniversityService interface {
	List(ctx context.Context) ([]model.University, error)
	Recommendations(ctx context.Context, userID string) (*recommend.Buckets, error)
	Shortlist(ctx context.Context, userID string, req *dto.ShortlistRequest) (*dto.ActionResult, error)
	Lock(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error)
	Unlock(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error)
	Remove(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error)
	// Shortlisted 收藏列表，分类为收藏时保存的分类
	Shortlisted(ctx context.Context, userID string) ([]dto.ShortlistedUniversity, error)
	Locked(ctx context.Context, userID string) ([]dto.ShortlistedUniversity, error)
}

type universityService struct {
	repo    *repository.Repository
	catalog CatalogService
	recs    RecommendationService
	actions ActionService
	engine  *recommend.Engine
	logger  *zap.Logger
}

// NewUniversityService 创建 UniversityService 实例
func NewUniversityService(
	repo *repository.Repository,
	catalog CatalogService,
	recs RecommendationService,
	actions ActionService,
	engine *recommend.Engine,
	logger *zap.Logger,
) UniversityService {
	return &universityService{
		repo:    repo,
		catalog: catalog,
		recs:    recs,
		actions: actions,
		engine:  engine,
		logger:  logger,
	}
}

func (s *universityService) List(ctx context.Context) ([]model.University, error) {
	return s.catalog.List(ctx)
}

func (s *universityService) Recommendations(ctx context.Context, userID string) (*recommend.Buckets, error) {
	return s.recs.Recommend(ctx, userID)
}

func (s *universityService) Shortlist(ctx context.Context, userID string, req *dto.ShortlistRequest) (*dto.ActionResult, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Persistence("failed to load user", err)
	}
	if !user.OnboardingCompleted {
		return nil, ErrOnboardingRequired
	}

	var lookup map[int]string
	if !model.ValidCategory(req.Category) {
		lookup, err = s.recs.CategoryLookup(ctx, userID)
		if err != nil && pkgerrors.Is(err, pkgerrors.KindPersistence) {
			return nil, err
		}
	}
	return s.run(ctx, userID, action.Shortlist{UniversityID: req.UniversityID, Category: req.Category}, lookup)
}

func (s *universityService) Lock(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error) {
	return s.run(ctx, userID, action.Lock{UniversityID: universityID}, nil)
}

func (s *universityService) Unlock(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error) {
	return s.run(ctx, userID, action.Unlock{UniversityID: universityID}, nil)
}

func (s *universityService) Remove(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error) {
	return s.run(ctx, userID, action.Remove{UniversityID: universityID}, nil)
}

func (s *universityService) run(ctx context.Context, userID string, a action.Action, lookup map[int]string) (*dto.ActionResult, error) {
	res, err := s.actions.Execute(ctx, userID, a, lookup)
	if err != nil {
		return nil, err
	}
	if err := ResultError(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *universityService) Shortlisted(ctx context.Context, userID string) ([]dto.ShortlistedUniversity, error) {
	return s.listShortlist(ctx, userID, false)
}

func (s *universityService) Locked(ctx context.Context, userID string) ([]dto.ShortlistedUniversity, error) {
	return s.listShortlist(ctx, userID, true)
}

func (s *universityService) listShortlist(ctx context.Context, userID string, lockedOnly bool) ([]dto.ShortlistedUniversity, error) {
	entries, err := s.repo.Shortlist.ListByUser(ctx, userID, lockedOnly)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Persistence("failed to list shortlist", err)
	}

	// 没有档案时只返回基础信息，不打分
	var profile *recommend.Profile
	if p, err := loadProfile(ctx, s.repo, userID); err == nil {
		rp := toRecommendProfile(p)
		profile = &rp
	} else if pkgerrors.Is(err, pkgerrors.KindPersistence) {
		return nil, err
	}

	return shortlistView(s.engine, profile, entries), nil
}

// shortlistView 渲染收藏条目，分类保留收藏时的值
func shortlistView(engine *recommend.Engine, profile *recommend.Profile, entries []model.Shortlist) []dto.ShortlistedUniversity {
	out := make([]dto.ShortlistedUniversity, 0, len(entries))
	for _, e := range entries {
		if e.University == nil {
			continue
		}
		item := dto.ShortlistedUniversity{
			UniversityID:   e.University.ID,
			UniversityName: e.University.Name,
			Country:        e.University.Country,
			AvgCost:        e.University.AvgCost,
			Fields:         []string(e.University.Fields),
			Category:       e.Category,
			Locked:         e.Locked,
		}
		if profile != nil && engine != nil {
			card := engine.CardWithCategory(*profile, toRecommendUniversity(e.University), e.Category)
			item.Category = card.Category
			item.Score = card.Score
			item.CostFit = card.CostFit
			item.RiskLevel = card.RiskLevel
			item.AcceptanceLikelihood = card.AcceptanceLikelihood
		}
		out = append(out, item)
	}
	return out
}
