package handler

import (
	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

// OnboardingHandler 引导 / 档案 HTTP 处理器
type OnboardingHandler struct {
	onboardingSvc service.OnboardingService
}

// NewOnboardingHandler 创建 OnboardingHandler
func NewOnboardingHandler(onboardingSvc service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingSvc: onboardingSvc}
}

// Complete 完成引导
// POST /api/v1/onboarding
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.onboardingSvc.Complete(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Patch 部分更新档案
// PATCH /api/v1/onboarding
func (h *OnboardingHandler) Patch(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.onboardingSvc.Patch(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Status 引导状态
// GET /api/v1/onboarding/status
func (h *OnboardingHandler) Status(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.onboardingSvc.Status(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}
