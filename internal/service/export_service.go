package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/stage"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("failed to generate export file")

// ExportService 导出业务接口
//
//   - 申请计划导出为 Excel (.xlsx)：Sheet "Shortlist" 与 "Tasks"
//   - 任务导出为 iCalendar VTODO，供日历客户端订阅
//   - 导出以字节返回，由 Handler 层设置响应头后写入
type ExportService interface {
	ExportPlan(ctx context.Context, userID string) (*bytes.Buffer, string, error)
	ExportTasksICS(ctx context.Context, userID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	unis   UniversityService
	tasks  TaskService
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(
	repo *repository.Repository,
	unis UniversityService,
	tasks TaskService,
	logger *zap.Logger,
) ExportService {
	return &exportService{repo: repo, unis: unis, tasks: tasks, now: time.Now, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportPlan 收藏院校 + 任务导出为 Excel
// ═══════════════════════════════════════════════════════════

var (
	shortlistHeaders = []string{"University", "Country", "Avg Cost", "Category", "Locked", "Score", "Cost Fit", "Risk", "Acceptance"}
	taskHeaders      = []string{"ID", "Title", "Stage", "Status"}
)

func (s *exportService) ExportPlan(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", pkgerrors.Persistence("failed to load user", err)
	}
	shortlisted, err := s.unis.Shortlisted(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	tasks, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Sheet 1: 收藏院校
	const shortlistSheet = "Shortlist"
	if err := f.SetSheetName("Sheet1", shortlistSheet); err != nil {
		s.logger.Error("重命名 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	writeHeader(f, shortlistSheet, shortlistHeaders, headerStyle)
	f.SetColWidth(shortlistSheet, "A", "A", 36)
	f.SetColWidth(shortlistSheet, "B", "I", 14)
	for i, u := range shortlisted {
		row := i + 2
		values := []any{
			u.UniversityName, u.Country, u.AvgCost, u.Category, yesNo(u.Locked),
			u.Score, u.CostFit, u.RiskLevel, u.AcceptanceLikelihood,
		}
		for j, v := range values {
			f.SetCellValue(shortlistSheet, cellName(j, row), v)
		}
	}

	// Sheet 2: 任务
	const taskSheet = "Tasks"
	if _, err := f.NewSheet(taskSheet); err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	writeHeader(f, taskSheet, taskHeaders, headerStyle)
	f.SetColWidth(taskSheet, "A", "A", 8)
	f.SetColWidth(taskSheet, "B", "B", 60)
	f.SetColWidth(taskSheet, "C", "D", 22)
	for i, t := range tasks {
		row := i + 2
		f.SetCellValue(taskSheet, cellName(0, row), t.ID)
		f.SetCellValue(taskSheet, cellName(1, row), t.Title)
		f.SetCellValue(taskSheet, cellName(2, row), stage.Stage(t.Stage).Name())
		f.SetCellValue(taskSheet, cellName(3, row), t.Status)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("application_plan_%s.xlsx", s.now().Format("20060102"))
	s.logger.Info("导出申请计划",
		zap.String("user_id", user.UserID),
		zap.Int("shortlisted", len(shortlisted)),
		zap.Int("tasks", len(tasks)),
	)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTasksICS 任务导出为 iCalendar VTODO
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTasksICS(ctx context.Context, userID string) ([]byte, string, error) {
	tasks, err := s.repo.Task.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", pkgerrors.Persistence("failed to list tasks", err)
	}

	now := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//abroad-compass//tasks//EN")
	cal.SetXWRCalName("Application Tasks")

	for i := range tasks {
		t := &tasks[i]
		todo := cal.AddTodo(fmt.Sprintf("task-%d@abroad-compass", t.ID))
		todo.SetSummary(t.Title)
		todo.SetDescription(stage.Stage(t.Stage).Name())
		todo.SetDtStampTime(now)
		if !t.CreatedAt.IsZero() {
			todo.SetCreatedTime(t.CreatedAt)
		}
		if !t.UpdatedAt.IsZero() {
			todo.SetModifiedAt(t.UpdatedAt)
		}
		todo.SetStatus(todoStatus(t.Status))
	}

	return []byte(cal.Serialize()), "tasks.ics", nil
}

// ── 辅助函数 ──

func todoStatus(status string) ics.ObjectStatus {
	switch status {
	case model.TaskCompleted:
		return ics.ObjectStatusCompleted
	case model.TaskInProgress:
		return ics.ObjectStatusInProcess
	default:
		return ics.ObjectStatusNeedsAction
	}
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i, 1), h)
	}
	f.SetCellStyle(sheet, cellName(0, 1), cellName(len(headers)-1, 1), style)
}

func cellName(colIdx, row int) string {
	name, _ := excelize.CoordinatesToCellName(colIdx+1, row)
	return name
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

