package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"abroad-compass/backend/internal/action"
	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// 动作结果提示
const (
	msgMissingUniversityID   = "Missing university_id"
	msgUniversityNotFound    = "University not found"
	msgAlreadyShortlisted    = "University already shortlisted"
	msgShortlisted           = "University shortlisted"
	msgNotShortlisted        = "University not shortlisted"
	msgAlreadyLocked         = "University already locked"
	msgLocked                = "University locked"
	msgNotLocked             = "University is not locked"
	msgUnlocked              = "University unlocked"
	msgNoLocksRemain         = "You have no locked universities. Please lock at least one to proceed with applications."
	msgRemoveLocked          = "Cannot remove locked university. Please unlock it first."
	msgRemoved               = "University removed from shortlist"
	msgTaskCreated           = "Task created"
	msgTaskUpdated           = "Task updated"
	msgUnknownAction         = "Unknown action"
	msgTasksGeneratedDefault = "Tasks generated"
)

// errConcurrentInsert 事务内检测到唯一约束冲突，用于回滚后报告 skipped
var errConcurrentInsert = errors.New("concurrent duplicate insert")

// ActionService 校验并执行单个动作
//
// 每个动作在一个事务内重新读取实时状态，最多执行一次修改；
// 收藏相关修改在同一事务内重新计算阶段后提交。
// 前置条件不满足时返回 failed/skipped 结果，error 仅用于存储层故障。
type ActionService interface {
	Execute(ctx context.Context, userID string, a action.Action, lookup map[int]string) (*dto.ActionResult, error)
	// ExecuteRaw 解析客户端提交的原始动作对象；收藏未指定分类时按实时推荐结果取默认分类
	ExecuteRaw(ctx context.Context, userID string, raw json.RawMessage) (*dto.ActionResult, error)
}

type actionService struct {
	repo   *repository.Repository
	stage  StageService
	tasks  TaskService
	recs   RecommendationService
	logger *zap.Logger
}

// NewActionService 创建 ActionService 实例
func NewActionService(
	repo *repository.Repository,
	stage StageService,
	tasks TaskService,
	recs RecommendationService,
	logger *zap.Logger,
) ActionService {
	return &actionService{repo: repo, stage: stage, tasks: tasks, recs: recs, logger: logger}
}

func (s *actionService) ExecuteRaw(ctx context.Context, userID string, raw json.RawMessage) (*dto.ActionResult, error) {
	a := action.Parse(raw)

	var lookup map[int]string
	if sl, ok := a.(action.Shortlist); ok && sl.UniversityID > 0 && !model.ValidCategory(sl.Category) {
		l, err := s.recs.CategoryLookup(ctx, userID)
		switch {
		case err == nil:
			lookup = l
		case pkgerrors.Is(err, pkgerrors.KindPersistence):
			return nil, err
		}
	}
	return s.Execute(ctx, userID, a, lookup)
}

func (s *actionService) Execute(ctx context.Context, userID string, a action.Action, lookup map[int]string) (*dto.ActionResult, error) {
	var (
		res *dto.ActionResult
		err error
	)
	switch v := a.(type) {
	case action.Shortlist:
		res, err = s.shortlist(ctx, userID, v, lookup)
	case action.Lock:
		res, err = s.lock(ctx, userID, v)
	case action.Unlock:
		res, err = s.unlock(ctx, userID, v)
	case action.Remove:
		res, err = s.remove(ctx, userID, v)
	case action.CreateTask:
		res, err = s.createTask(ctx, userID, v)
	case action.UpdateTask:
		res, err = s.updateTask(ctx, userID, v)
	case action.GenerateTasks:
		res, err = s.generateTasks(ctx, userID)
	case action.Unrecognized:
		msg := msgUnknownAction
		if v.Reason != "" {
			msg += ": " + v.Reason
		}
		res = failed(v.Type(), msg)
	default:
		res = failed(action.TypeUnknown, msgUnknownAction)
	}
	if err != nil {
		s.logger.Error("执行动作失败",
			zap.String("user_id", userID),
			zap.String("type", a.Type()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("动作执行结果",
		zap.String("user_id", userID),
		zap.String("type", res.Type),
		zap.String("status", res.Status),
	)
	return res, nil
}

// ── 院校动作 ──

func (s *actionService) shortlist(ctx context.Context, userID string, a action.Shortlist, lookup map[int]string) (*dto.ActionResult, error) {
	if a.UniversityID <= 0 {
		return failed(a.Type(), msgMissingUniversityID), nil
	}

	var res *dto.ActionResult
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.University.GetByID(ctx, a.UniversityID); err != nil {
			if repository.IsNotFound(err) {
				res = failed(a.Type(), msgUniversityNotFound)
				return nil
			}
			return pkgerrors.Persistence("failed to load university", err)
		}

		if _, err := tx.Shortlist.Get(ctx, userID, a.UniversityID); err == nil {
			res = skipped(a.Type(), msgAlreadyShortlisted)
			return nil
		} else if !repository.IsNotFound(err) {
			return pkgerrors.Persistence("failed to load shortlist", err)
		}

		entry := &model.Shortlist{
			UserID:       userID,
			UniversityID: a.UniversityID,
			Category:     resolveCategory(a.Category, lookup[a.UniversityID]),
		}
		if err := tx.Shortlist.Create(ctx, entry); err != nil {
			if repository.IsDuplicateKey(err) {
				return errConcurrentInsert
			}
			return pkgerrors.Persistence("failed to create shortlist", err)
		}
		if _, err := s.stage.Apply(ctx, tx, userID); err != nil {
			return err
		}
		res = executed(a.Type(), msgShortlisted)
		return nil
	})
	if errors.Is(err, errConcurrentInsert) {
		res, err = skipped(a.Type(), msgAlreadyShortlisted), nil
	}
	if err != nil {
		return nil, err
	}
	return withUniversity(res, a.UniversityID), nil
}

func (s *actionService) lock(ctx context.Context, userID string, a action.Lock) (*dto.ActionResult, error) {
	if a.UniversityID <= 0 {
		return failed(a.Type(), msgMissingUniversityID), nil
	}

	var res *dto.ActionResult
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		entry, err := tx.Shortlist.Get(ctx, userID, a.UniversityID)
		if err != nil {
			if repository.IsNotFound(err) {
				res = failed(a.Type(), msgNotShortlisted)
				return nil
			}
			return pkgerrors.Persistence("failed to load shortlist", err)
		}
		if entry.Locked {
			res = skipped(a.Type(), msgAlreadyLocked)
			return nil
		}
		if err := tx.Shortlist.SetLocked(ctx, userID, a.UniversityID, true); err != nil {
			return pkgerrors.Persistence("failed to lock university", err)
		}
		if _, err := s.stage.Apply(ctx, tx, userID); err != nil {
			return err
		}
		res = executed(a.Type(), msgLocked)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withUniversity(res, a.UniversityID), nil
}

func (s *actionService) unlock(ctx context.Context, userID string, a action.Unlock) (*dto.ActionResult, error) {
	if a.UniversityID <= 0 {
		return failed(a.Type(), msgMissingUniversityID), nil
	}

	var res *dto.ActionResult
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		entry, err := tx.Shortlist.Get(ctx, userID, a.UniversityID)
		if err != nil {
			if repository.IsNotFound(err) {
				res = failed(a.Type(), msgNotShortlisted)
				return nil
			}
			return pkgerrors.Persistence("failed to load shortlist", err)
		}
		if !entry.Locked {
			res = failed(a.Type(), msgNotLocked)
			return nil
		}
		if err := tx.Shortlist.SetLocked(ctx, userID, a.UniversityID, false); err != nil {
			return pkgerrors.Persistence("failed to unlock university", err)
		}
		if _, err := s.stage.Apply(ctx, tx, userID); err != nil {
			return err
		}
		_, locked, err := tx.Shortlist.Counts(ctx, userID)
		if err != nil {
			return pkgerrors.Persistence("failed to count shortlist", err)
		}
		res = executed(a.Type(), msgUnlocked)
		if locked == 0 {
			res.Warning = msgNoLocksRemain
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withUniversity(res, a.UniversityID), nil
}

func (s *actionService) remove(ctx context.Context, userID string, a action.Remove) (*dto.ActionResult, error) {
	if a.UniversityID <= 0 {
		return failed(a.Type(), msgMissingUniversityID), nil
	}

	var res *dto.ActionResult
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		entry, err := tx.Shortlist.Get(ctx, userID, a.UniversityID)
		if err != nil {
			if repository.IsNotFound(err) {
				res = failed(a.Type(), msgNotShortlisted)
				return nil
			}
			return pkgerrors.Persistence("failed to load shortlist", err)
		}
		if entry.Locked {
			res = failed(a.Type(), msgRemoveLocked)
			return nil
		}
		if err := tx.Shortlist.Delete(ctx, userID, a.UniversityID); err != nil {
			if repository.IsNotFound(err) {
				res = failed(a.Type(), msgNotShortlisted)
				return nil
			}
			return pkgerrors.Persistence("failed to remove shortlist", err)
		}
		if _, err := s.stage.Apply(ctx, tx, userID); err != nil {
			return err
		}
		res = executed(a.Type(), msgRemoved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withUniversity(res, a.UniversityID), nil
}

// ── 任务动作 ──

func (s *actionService) createTask(ctx context.Context, userID string, a action.CreateTask) (*dto.ActionResult, error) {
	task, err := s.tasks.Create(ctx, userID, a.Title, a.Stage)
	if err != nil {
		return taskFailure(a.Type(), err)
	}
	res := executed(a.Type(), msgTaskCreated)
	res.TaskID = &task.ID
	return res, nil
}

func (s *actionService) updateTask(ctx context.Context, userID string, a action.UpdateTask) (*dto.ActionResult, error) {
	task, err := s.tasks.UpdateStatus(ctx, userID, a.TaskID, a.Status)
	if err != nil {
		return taskFailure(a.Type(), err)
	}
	res := executed(a.Type(), msgTaskUpdated)
	res.TaskID = &task.ID
	return res, nil
}

func (s *actionService) generateTasks(ctx context.Context, userID string) (*dto.ActionResult, error) {
	out, err := s.tasks.GenerateForStage(ctx, userID)
	if err != nil {
		return taskFailure(action.TypeGenerateTasks, err)
	}
	msg := out.Message
	if msg == "" {
		msg = msgTasksGeneratedDefault
	}
	return executed(action.TypeGenerateTasks, msg), nil
}

// taskFailure 校验类错误转为 failed 结果，存储错误原样返回
func taskFailure(actionType string, err error) (*dto.ActionResult, error) {
	var kerr *pkgerrors.Error
	if errors.As(err, &kerr) && kerr.Kind != pkgerrors.KindPersistence {
		return failed(actionType, kerr.Message), nil
	}
	return nil, err
}

// resolveCategory 显式合法分类优先，其次为推荐分组，最后默认 Target
func resolveCategory(explicit, fromLookup string) string {
	if model.ValidCategory(explicit) {
		return explicit
	}
	if model.ValidCategory(fromLookup) {
		return fromLookup
	}
	return model.CategoryTarget
}

// ── 结果构造 ──

func executed(actionType, msg string) *dto.ActionResult {
	return &dto.ActionResult{Type: actionType, Status: dto.ActionExecuted, Message: msg}
}

func skipped(actionType, msg string) *dto.ActionResult {
	return &dto.ActionResult{Type: actionType, Status: dto.ActionSkipped, Message: msg}
}

func failed(actionType, msg string) *dto.ActionResult {
	return &dto.ActionResult{Type: actionType, Status: dto.ActionFailed, Message: msg}
}

func withUniversity(res *dto.ActionResult, id int) *dto.ActionResult {
	res.UniversityID = &id
	return res
}
