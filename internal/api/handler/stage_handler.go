package handler

import (
	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

// StageHandler 阶段查询
type StageHandler struct {
	stageSvc service.StageService
}

// NewStageHandler 创建 StageHandler
func NewStageHandler(stageSvc service.StageService) *StageHandler {
	return &StageHandler{stageSvc: stageSvc}
}

// Get 返回持久化阶段与按当前计数计算的阶段
// GET /api/v1/stage
func (h *StageHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	info, err := h.stageSvc.Recompute(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, info)
}

// DashboardHandler 仪表盘
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Get 仪表盘汇总
// GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}
