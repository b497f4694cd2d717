package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"abroad-compass/backend/internal/action"
	"abroad-compass/backend/internal/model"
)

func fixedClock(svc *Service) {
	svc.Export.(*exportService).now = func() time.Time {
		return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	}
}

func TestExport_Plan(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	fixedClock(svc)
	execute(t, svc, action.Shortlist{UniversityID: 1, Category: model.CategoryTarget}, nil)
	execute(t, svc, action.Lock{UniversityID: 1}, nil)
	execute(t, svc, action.CreateTask{Title: "Draft SOP"}, nil)

	buf, filename, err := svc.Export.ExportPlan(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ExportPlan 失败: %v", err)
	}
	if filename != "application_plan_20260315.xlsx" {
		t.Errorf("文件名不符合预期: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应为合法 xlsx: %v", err)
	}
	defer f.Close()

	cases := []struct {
		sheet, cell, want string
	}{
		{"Shortlist", "A1", "University"},
		{"Shortlist", "A2", "Maple Tech"},
		{"Shortlist", "D2", model.CategoryTarget},
		{"Shortlist", "E2", "Yes"},
		{"Tasks", "B2", "Draft SOP"},
		{"Tasks", "D2", model.TaskPending},
	}
	for _, c := range cases {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("读取 %s!%s 失败: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s 期望 %q，实际 %q", c.sheet, c.cell, c.want, got)
		}
	}
}

func TestExport_PlanUnknownUser(t *testing.T) {
	svc, _, _ := setupTestService()
	if _, _, err := svc.Export.ExportPlan(context.Background(), "ghost"); err != ErrUserNotFound {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}

func TestExport_TasksICS(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	fixedClock(svc)
	done := execute(t, svc, action.CreateTask{Title: "Book IELTS"}, nil)
	execute(t, svc, action.CreateTask{Title: "Draft SOP"}, nil)
	execute(t, svc, action.UpdateTask{TaskID: *done.TaskID, Status: model.TaskCompleted}, nil)

	body, filename, err := svc.Export.ExportTasksICS(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ExportTasksICS 失败: %v", err)
	}
	if filename != "tasks.ics" {
		t.Errorf("文件名不符合预期: %s", filename)
	}

	out := string(body)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VTODO",
		"SUMMARY:Book IELTS",
		"SUMMARY:Draft SOP",
		"STATUS:COMPLETED",
		"STATUS:NEEDS-ACTION",
		"task-1@abroad-compass",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS 输出缺少 %q", want)
		}
	}
	if n := strings.Count(out, "BEGIN:VTODO"); n != 2 {
		t.Errorf("期望 2 个 VTODO，实际 %d", n)
	}
}
