package repository

import (
	"context"

	"gorm.io/gorm"

	"abroad-compass/backend/internal/model"
)

// ShortlistRepository 院校收藏数据访问接口
type ShortlistRepository interface {
	Get(ctx context.Context, userID string, universityID int) (*model.Shortlist, error)
	// ListByUser 按收藏时间排序，lockedOnly 为 true 时只返回已锁定
	ListByUser(ctx context.Context, userID string, lockedOnly bool) ([]model.Shortlist, error)
	Create(ctx context.Context, s *model.Shortlist) error
	SetLocked(ctx context.Context, userID string, universityID int, locked bool) error
	Delete(ctx context.Context, userID string, universityID int) error
	// Counts 返回收藏总数与锁定数
	Counts(ctx context.Context, userID string) (total int64, locked int64, err error)
}

type shortlistRepo struct {
	db *gorm.DB
}

// NewShortlistRepo 创建 ShortlistRepository 实例
func NewShortlistRepo(db *gorm.DB) ShortlistRepository {
	return &shortlistRepo{db: db}
}

func (r *shortlistRepo) Get(ctx context.Context, userID string, universityID int) (*model.Shortlist, error) {
	var s model.Shortlist
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND university_id = ?", userID, universityID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shortlistRepo) ListByUser(ctx context.Context, userID string, lockedOnly bool) ([]model.Shortlist, error) {
	var list []model.Shortlist
	db := r.db.WithContext(ctx).Preload("University").Where("user_id = ?", userID)
	if lockedOnly {
		db = db.Where("locked = ?", true)
	}
	err := db.Order("created_at ASC, university_id ASC").Find(&list).Error
	return list, err
}

func (r *shortlistRepo) Create(ctx context.Context, s *model.Shortlist) error {
	return r.db.WithContext(ctx).Omit("University").Create(s).Error
}

func (r *shortlistRepo) SetLocked(ctx context.Context, userID string, universityID int, locked bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Shortlist{}).
		Where("user_id = ? AND university_id = ?", userID, universityID).
		Update("locked", locked).Error
}

func (r *shortlistRepo) Delete(ctx context.Context, userID string, universityID int) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND university_id = ?", userID, universityID).
		Delete(&model.Shortlist{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shortlistRepo) Counts(ctx context.Context, userID string) (int64, int64, error) {
	var row struct {
		Total  int64
		Locked int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Shortlist{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN locked THEN 1 ELSE 0 END), 0) AS locked").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Locked, nil
}
