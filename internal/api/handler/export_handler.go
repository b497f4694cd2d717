package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportPlan 导出收藏院校与任务
// GET /api/v1/export/plan
func (h *ExportHandler) ExportPlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportPlan(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportTasksICS 导出任务日历
// GET /api/v1/export/tasks.ics
func (h *ExportHandler) ExportTasksICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, filename, err := h.exportSvc.ExportTasksICS(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, icsContentType, body)
}

// attachment 设置下载响应头
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		writeError(c, err)
	}
}
