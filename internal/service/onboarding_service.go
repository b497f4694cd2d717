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

// ── 引导模块业务错误 ──

var (
	ErrOnboardingCompleted = pkgerrors.Conflict("Onboarding already completed")
	ErrProfileNotFound     = pkgerrors.NotFound("Profile not found. Please complete onboarding first.")
)

// OnboardingService 引导与档案维护，档案写入后在同一事务内重新计算阶段
type OnboardingService interface {
	// Complete 首次完成引导：写入完整档案并标记完成，已完成时拒绝
	Complete(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.OnboardingResponse, error)
	// Patch 仅更新请求中出现的字段
	Patch(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.OnboardingResponse, error)
	Status(ctx context.Context, userID string) (*dto.OnboardingStatusResponse, error)
}

type onboardingService struct {
	repo   *repository.Repository
	stage  StageService
	logger *zap.Logger
}

// NewOnboardingService 创建 OnboardingService 实例
func NewOnboardingService(repo *repository.Repository, stage StageService, logger *zap.Logger) OnboardingService {
	return &onboardingService{repo: repo, stage: stage, logger: logger}
}

func (s *onboardingService) Complete(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.OnboardingResponse, error) {
	var next stage.Stage
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return pkgerrors.Persistence("failed to load user", err)
		}
		if user.OnboardingCompleted {
			return ErrOnboardingCompleted
		}

		profile, err := tx.Profile.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			*profile = profileFromRequest(userID, req)
			err = tx.Profile.Save(ctx, profile)
		case repository.IsNotFound(err):
			p := profileFromRequest(userID, req)
			err = tx.Profile.Create(ctx, &p)
		}
		if err != nil {
			return pkgerrors.Persistence("failed to save profile", err)
		}

		if err := tx.User.SetOnboardingCompleted(ctx, userID, true); err != nil {
			return pkgerrors.Persistence("failed to complete onboarding", err)
		}
		next, err = s.stage.Apply(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("用户完成引导", zap.String("user_id", userID), zap.String("stage", string(next)))
	return &dto.OnboardingResponse{
		Message:             "Onboarding completed successfully",
		OnboardingCompleted: true,
		CurrentStage:        string(next),
		StageName:           next.Name(),
	}, nil
}

func (s *onboardingService) Patch(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.OnboardingResponse, error) {
	var (
		next      stage.Stage
		completed bool
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		profile, err := tx.Profile.GetByUserID(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrProfileNotFound
			}
			return pkgerrors.Persistence("failed to load profile", err)
		}
		applyProfilePatch(profile, req)
		if err := tx.Profile.Save(ctx, profile); err != nil {
			return pkgerrors.Persistence("failed to save profile", err)
		}

		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return pkgerrors.Persistence("failed to load user", err)
		}
		completed = user.OnboardingCompleted

		next, err = s.stage.Apply(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.OnboardingResponse{
		Message:             "Profile updated successfully",
		OnboardingCompleted: completed,
		CurrentStage:        string(next),
		StageName:           next.Name(),
	}, nil
}

func (s *onboardingService) Status(ctx context.Context, userID string) (*dto.OnboardingStatusResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Persistence("failed to load user", err)
	}

	resp := &dto.OnboardingStatusResponse{OnboardingCompleted: user.OnboardingCompleted}
	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		resp.HasProfile = true
		resp.Profile = &dto.ProfileSummary{
			EducationLevel: profile.EducationLevel,
			Major:          profile.Major,
			TargetDegree:   profile.TargetDegree,
			Field:          profile.Field,
		}
	case !repository.IsNotFound(err):
		return nil, pkgerrors.Persistence("failed to load profile", err)
	}
	return resp, nil
}

// ── 辅助函数 ──

func profileFromRequest(userID string, req *dto.ProfileRequest) model.Profile {
	p := model.Profile{UserID: userID, Countries: model.StringSet{}}
	applyProfilePatch(&p, req)
	return p
}

func applyProfilePatch(p *model.Profile, req *dto.ProfileRequest) {
	setString(&p.EducationLevel, req.EducationLevel)
	setString(&p.Major, req.Major)
	setString(&p.AcademicScore, req.AcademicScore)
	setString(&p.TargetDegree, req.TargetDegree)
	setString(&p.Field, req.Field)
	setString(&p.BudgetRange, req.BudgetRange)
	setString(&p.FundingType, req.FundingType)
	setString(&p.IELTSStatus, req.IELTSStatus)
	setString(&p.GREStatus, req.GREStatus)
	setString(&p.SOPStatus, req.SOPStatus)
	if req.GraduationYear != nil {
		y := *req.GraduationYear
		p.GraduationYear = &y
	}
	if req.IntakeYear != nil {
		y := *req.IntakeYear
		p.IntakeYear = &y
	}
	if req.Countries != nil {
		p.Countries = append(model.StringSet{}, req.Countries...)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func toProfileDetail(p *model.Profile) *dto.ProfileDetail {
	countries := []string(p.Countries)
	if countries == nil {
		countries = []string{}
	}
	return &dto.ProfileDetail{
		EducationLevel: p.EducationLevel,
		Major:          p.Major,
		GraduationYear: p.GraduationYear,
		AcademicScore:  p.AcademicScore,
		TargetDegree:   p.TargetDegree,
		Field:          p.Field,
		IntakeYear:     p.IntakeYear,
		Countries:      countries,
		BudgetRange:    p.BudgetRange,
		FundingType:    p.FundingType,
		IELTSStatus:    p.IELTSStatus,
		GREStatus:      p.GREStatus,
		SOPStatus:      p.SOPStatus,
	}
}
