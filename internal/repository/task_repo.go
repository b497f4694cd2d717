package repository

import (
	"context"

	"gorm.io/gorm"

	"abroad-compass/backend/internal/model"
)

// TaskRepository 任务数据访问接口，所有查询均限定在用户范围内
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, userID string, id int) (*model.Task, error)
	ListByUser(ctx context.Context, userID string) ([]model.Task, error)
	ListByUserAndStage(ctx context.Context, userID, stage string) ([]model.Task, error)
	UpdateStatus(ctx context.Context, userID string, id int, status string) error
}

type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, userID string, id int) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var list []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *taskRepo) ListByUserAndStage(ctx context.Context, userID, stage string) ([]model.Task, error) {
	var list []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stage = ?", userID, stage).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *taskRepo) UpdateStatus(ctx context.Context, userID string, id int, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
