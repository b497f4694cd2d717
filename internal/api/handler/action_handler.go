package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/api/middleware"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

// ActionHandler 直接执行单个动作（与对话中的动作格式一致）
type ActionHandler struct {
	actionSvc service.ActionService
}

// NewActionHandler 创建 ActionHandler
func NewActionHandler(actionSvc service.ActionService) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc}
}

// Execute 执行动作；failed / skipped 结果同样以 200 返回，由 status 字段区分
// POST /api/v1/actions
func (h *ActionHandler) Execute(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
			return
		}
		response.BadRequest(c, codeValidation, "Invalid request")
		return
	}
	if !json.Valid(body) {
		response.BadRequest(c, codeValidation, "Request body must be a JSON object")
		return
	}

	result, err := h.actionSvc.ExecuteRaw(c.Request.Context(), userID, json.RawMessage(body))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}
