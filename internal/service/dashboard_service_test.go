package service

import (
	"context"
	"testing"

	"abroad-compass/backend/internal/action"
	"abroad-compass/backend/internal/stage"
)

func TestDashboard_Get(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	execute(t, svc, shortlistAction(2), nil)
	execute(t, svc, action.GenerateTasks{}, nil)

	d, err := svc.Dashboard.Get(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Dashboard 失败: %v", err)
	}
	if d.Profile == nil || d.Profile.Field != "Computer Science / IT" {
		t.Errorf("应返回完整档案，实际=%+v", d.Profile)
	}
	if d.Stage.CurrentStage != string(stage.Locking) || d.Stage.ShortlistCount != 1 {
		t.Errorf("阶段摘要不符合预期: %+v", d.Stage)
	}
	if len(d.ShortlistedUniversities) != 1 || d.ShortlistedUniversities[0].UniversityName != "Northern University" {
		t.Errorf("收藏列表不符合预期: %+v", d.ShortlistedUniversities)
	}
	if len(d.Tasks) == 0 {
		t.Error("应返回已生成的任务")
	}
}

func TestDashboard_NewUser(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, false)

	d, err := svc.Dashboard.Get(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Dashboard 失败: %v", err)
	}
	if d.Profile != nil {
		t.Error("没有档案时 profile 应为 null")
	}
	if d.Stage.CurrentStage != string(stage.Profile) {
		t.Errorf("期望档案阶段，实际=%s", d.Stage.CurrentStage)
	}
	if d.Tasks == nil || d.ShortlistedUniversities == nil {
		t.Error("列表字段应为空数组而非 null")
	}
}
