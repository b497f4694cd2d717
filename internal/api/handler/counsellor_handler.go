package handler

import (
	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

// CounsellorHandler AI 顾问对话
type CounsellorHandler struct {
	counsellorSvc service.CounsellorService
}

// NewCounsellorHandler 创建 CounsellorHandler
func NewCounsellorHandler(counsellorSvc service.CounsellorService) *CounsellorHandler {
	return &CounsellorHandler{counsellorSvc: counsellorSvc}
}

// Chat 对话
// POST /api/v1/counsellor/chat
func (h *CounsellorHandler) Chat(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.counsellorSvc.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}
