package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"abroad-compass/backend/internal/model"
)

// UniversityRepository 院校目录数据访问接口
type UniversityRepository interface {
	List(ctx context.Context) ([]model.University, error)
	GetByID(ctx context.Context, id int) (*model.University, error)
	// Upsert 按名称插入或更新（目录导入使用）
	Upsert(ctx context.Context, u *model.University) error
}

type universityRepo struct {
	db *gorm.DB
}

// NewUniversityRepo 创建 UniversityRepository 实例
func NewUniversityRepo(db *gorm.DB) UniversityRepository {
	return &universityRepo{db: db}
}

func (r *universityRepo) List(ctx context.Context) ([]model.University, error) {
	var list []model.University
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *universityRepo) GetByID(ctx context.Context, id int) (*model.University, error) {
	var u model.University
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *universityRepo) Upsert(ctx context.Context, u *model.University) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"country", "avg_cost", "difficulty", "fields", "updated_at"}),
		}).
		Create(u).Error
}
