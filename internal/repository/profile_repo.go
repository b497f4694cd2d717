package repository

import (
	"context"

	"gorm.io/gorm"

	"abroad-compass/backend/internal/model"
)

// ProfileRepository 用户档案数据访问接口
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Save(ctx context.Context, profile *model.Profile) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) Save(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
