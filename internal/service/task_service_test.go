package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/stage"
	"abroad-compass/backend/internal/tasktemplate"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

func TestTask_CreateDefaultsToCurrentStage(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	ctx := context.Background()

	info, err := svc.Task.Create(ctx, testUserID, "  Book IELTS exam  ", "")
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if info.Title != "Book IELTS exam" || info.Stage != string(stage.Discovery) || info.Status != model.TaskPending {
		t.Errorf("任务不符合预期: %+v", info)
	}

	info, err = svc.Task.Create(ctx, testUserID, "Draft SOP", string(stage.Application))
	if err != nil || info.Stage != string(stage.Application) {
		t.Errorf("显式阶段应被保留: %+v err=%v", info, err)
	}
}

func TestTask_CreateValidation(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)

	tests := []struct {
		name    string
		title   string
		stage   string
		wantErr error
	}{
		{"空标题", "   ", "", ErrTaskTitleRequired},
		{"标题过长", strings.Repeat("x", maxTaskTitleLen+1), "", ErrTaskTitleTooLong},
		{"非法阶段", "Visit campus", "STAGE_9", ErrInvalidTaskStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Task.Create(context.Background(), testUserID, tt.title, tt.stage)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际=%v", tt.wantErr, err)
			}
			if !pkgerrors.Is(err, pkgerrors.KindValidation) {
				t.Errorf("应为校验错误，实际 kind=%v", pkgerrors.KindOf(err))
			}
		})
	}
	if len(m.tasks.tasks) != 0 {
		t.Error("校验失败时不应写入任务")
	}
}

func TestTask_CreatePersistenceError(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	m.tasks.createErr = errStoreDown

	_, err := svc.Task.Create(context.Background(), testUserID, "Request transcripts", "")
	if !pkgerrors.Is(err, pkgerrors.KindPersistence) || !errors.Is(err, errStoreDown) {
		t.Errorf("期望包装存储错误，实际=%v", err)
	}
}

func TestTask_UpdateStatus(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	createUser(m, "user-2", true)
	ctx := context.Background()

	created, err := svc.Task.Create(ctx, testUserID, "Shortlist universities", "")
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	info, err := svc.Task.UpdateStatus(ctx, testUserID, created.ID, model.TaskCompleted)
	if err != nil || info.Status != model.TaskCompleted {
		t.Fatalf("期望 completed，实际=%+v err=%v", info, err)
	}

	if _, err := svc.Task.UpdateStatus(ctx, testUserID, created.ID, "done"); !errors.Is(err, ErrInvalidTaskStatus) {
		t.Errorf("非法状态应返回 ErrInvalidTaskStatus，实际=%v", err)
	}
	if _, err := svc.Task.UpdateStatus(ctx, "user-2", created.ID, model.TaskPending); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("他人任务应返回 ErrTaskNotFound，实际=%v", err)
	}
	if _, err := svc.Task.UpdateStatus(ctx, testUserID, 0, model.TaskPending); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("非法 ID 应返回 ErrTaskNotFound，实际=%v", err)
	}
}

func TestTask_ListScopedToUser(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	createUser(m, "user-2", true)
	ctx := context.Background()

	for _, title := range []string{"A", "B"} {
		if _, err := svc.Task.Create(ctx, testUserID, title, ""); err != nil {
			t.Fatalf("Create 失败: %v", err)
		}
	}
	if _, err := svc.Task.Create(ctx, "user-2", "C", ""); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	list, err := svc.Task.List(ctx, testUserID)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 2 || list[0].Title != "A" || list[1].Title != "B" {
		t.Errorf("列表不符合预期: %+v", list)
	}

	empty, err := svc.Task.List(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("无任务时应返回空切片，实际=%v err=%v", empty, err)
	}
}

func TestTask_GenerateForStage(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	ctx := context.Background()
	want := tasktemplate.MustLoad().For(stage.Discovery)

	resp, err := svc.Task.GenerateForStage(ctx, testUserID)
	if err != nil {
		t.Fatalf("GenerateForStage 失败: %v", err)
	}
	if resp.Stage != string(stage.Discovery) || resp.Created != len(want) || len(resp.Tasks) != len(want) {
		t.Errorf("首次生成结果不符合预期: %+v", resp)
	}
	for i, task := range resp.Tasks {
		if task.Title != want[i] || task.Stage != string(stage.Discovery) {
			t.Errorf("第 %d 个任务不符合预期: %+v", i, task)
		}
	}

	again, err := svc.Task.GenerateForStage(ctx, testUserID)
	if err != nil {
		t.Fatalf("重复生成失败: %v", err)
	}
	if again.Created != 0 || len(again.Tasks) != 0 {
		t.Errorf("开启去重时不应重复生成: %+v", again)
	}
	if !strings.Contains(again.Message, "already exist") {
		t.Errorf("提示信息不符合预期: %q", again.Message)
	}
	if len(m.tasks.tasks) != len(want) {
		t.Errorf("期望共 %d 个任务，实际=%d", len(want), len(m.tasks.tasks))
	}
}

func TestTask_GenerateUnknownUser(t *testing.T) {
	svc, _, _ := setupTestService()

	if _, err := svc.Task.GenerateForStage(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}
