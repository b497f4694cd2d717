package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/stage"
	"abroad-compass/backend/internal/tasktemplate"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// ── 任务模块业务错误 ──

const maxTaskTitleLen = 500

var (
	ErrTaskTitleRequired = pkgerrors.Validation("Missing task title")
	ErrTaskTitleTooLong  = pkgerrors.Validation("Task title must be at most %d characters", maxTaskTitleLen)
	ErrInvalidTaskStage  = pkgerrors.Validation("Invalid task stage")
	ErrInvalidTaskStatus = pkgerrors.Validation("Invalid task status")
	ErrTaskNotFound      = pkgerrors.NotFound("Task not found")
)

// TaskService 任务业务接口，所有操作限定在用户范围内
type TaskService interface {
	List(ctx context.Context, userID string) ([]dto.TaskInfo, error)
	// Create 创建任务；stage 为空时使用用户当前阶段
	Create(ctx context.Context, userID, title, stage string) (*dto.TaskInfo, error)
	UpdateStatus(ctx context.Context, userID string, taskID int, status string) (*dto.TaskInfo, error)
	// GenerateForStage 为用户当前阶段插入默认任务
	GenerateForStage(ctx context.Context, userID string) (*dto.GenerateTasksResponse, error)
}

type taskService struct {
	repo      *repository.Repository
	templates tasktemplate.Set
	dedup     bool
	logger    *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(
	cfg *config.FeatureConfig,
	repo *repository.Repository,
	templates tasktemplate.Set,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		repo:      repo,
		templates: templates,
		dedup:     cfg.GenerateTasksDedup,
		logger:    logger,
	}
}

func (s *taskService) List(ctx context.Context, userID string) ([]dto.TaskInfo, error) {
	tasks, err := s.repo.Task.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Persistence("failed to list tasks", err)
	}
	return toTaskInfos(tasks), nil
}

func (s *taskService) Create(ctx context.Context, userID, title, stageName string) (*dto.TaskInfo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTaskTitleLen {
		return nil, ErrTaskTitleTooLong
	}

	stageName = strings.TrimSpace(stageName)
	if stageName == "" {
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, pkgerrors.Persistence("failed to load user", err)
		}
		stageName = user.CurrentStage
	} else if !stage.Valid(stageName) {
		return nil, ErrInvalidTaskStage
	}

	task := &model.Task{
		UserID: userID,
		Title:  title,
		Stage:  stageName,
		Status: model.TaskPending,
	}
	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Persistence("failed to create task", err)
	}
	info := toTaskInfo(task)
	return &info, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, userID string, taskID int, status string) (*dto.TaskInfo, error) {
	status = strings.TrimSpace(status)
	if !model.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}
	if taskID <= 0 {
		return nil, ErrTaskNotFound
	}
	if err := s.repo.Task.UpdateStatus(ctx, userID, taskID, status); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("更新任务状态失败", zap.Int("task_id", taskID), zap.Error(err))
		return nil, pkgerrors.Persistence("failed to update task", err)
	}
	task, err := s.repo.Task.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, pkgerrors.Persistence("failed to load task", err)
	}
	info := toTaskInfo(task)
	return &info, nil
}

func (s *taskService) GenerateForStage(ctx context.Context, userID string) (*dto.GenerateTasksResponse, error) {
	var resp *dto.GenerateTasksResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return pkgerrors.Persistence("failed to load user", err)
		}
		current := stage.Stage(user.CurrentStage)

		existing := make(map[string]struct{})
		if s.dedup {
			tasks, err := tx.Task.ListByUserAndStage(ctx, userID, string(current))
			if err != nil {
				return pkgerrors.Persistence("failed to list tasks", err)
			}
			for _, t := range tasks {
				existing[t.Title] = struct{}{}
			}
		}

		created := make([]dto.TaskInfo, 0)
		for _, title := range s.templates.For(current) {
			if _, ok := existing[title]; ok {
				continue
			}
			task := &model.Task{UserID: userID, Title: title, Stage: string(current), Status: model.TaskPending}
			if err := tx.Task.Create(ctx, task); err != nil {
				return pkgerrors.Persistence("failed to create task", err)
			}
			existing[title] = struct{}{}
			created = append(created, toTaskInfo(task))
		}

		resp = &dto.GenerateTasksResponse{
			Stage:   string(current),
			Created: len(created),
			Message: generatedMessage(len(created), current),
			Tasks:   created,
		}
		return nil
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.KindPersistence) {
			s.logger.Error("生成任务失败", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("生成阶段任务",
		zap.String("user_id", userID),
		zap.String("stage", resp.Stage),
		zap.Int("created", resp.Created),
	)
	return resp, nil
}

func generatedMessage(n int, st stage.Stage) string {
	switch n {
	case 0:
		return fmt.Sprintf("All default tasks for %s already exist", st.Name())
	case 1:
		return fmt.Sprintf("Generated 1 task for %s", st.Name())
	default:
		return fmt.Sprintf("Generated %d tasks for %s", n, st.Name())
	}
}

// ── 辅助函数 ──

func toTaskInfo(t *model.Task) dto.TaskInfo {
	return dto.TaskInfo{ID: t.ID, Title: t.Title, Stage: t.Stage, Status: t.Status}
}

func toTaskInfos(tasks []model.Task) []dto.TaskInfo {
	out := make([]dto.TaskInfo, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskInfo(&tasks[i]))
	}
	return out
}
