package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

// UniversityHandler 院校目录、推荐与收藏 HTTP 处理器
type UniversityHandler struct {
	universitySvc service.UniversityService
}

// NewUniversityHandler 创建 UniversityHandler
func NewUniversityHandler(universitySvc service.UniversityService) *UniversityHandler {
	return &UniversityHandler{universitySvc: universitySvc}
}

// List 院校目录
// GET /api/v1/universities
func (h *UniversityHandler) List(c *gin.Context) {
	list, err := h.universitySvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, list)
}

// Recommendations 按档案分组推荐
// GET /api/v1/universities/recommendations
func (h *UniversityHandler) Recommendations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buckets, err := h.universitySvc.Recommendations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, buckets)
}

// Shortlist 收藏院校
// POST /api/v1/universities/shortlist
func (h *UniversityHandler) Shortlist(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ShortlistRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.universitySvc.Shortlist(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, result)
}

// Shortlisted 收藏列表
// GET /api/v1/universities/shortlisted
func (h *UniversityHandler) Shortlisted(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.universitySvc.Shortlisted(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, list)
}

// Locked 已锁定列表
// GET /api/v1/universities/locked
func (h *UniversityHandler) Locked(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.universitySvc.Locked(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, list)
}

// Lock 锁定已收藏院校
// POST /api/v1/universities/lock
func (h *UniversityHandler) Lock(c *gin.Context) {
	h.mutate(c, h.universitySvc.Lock)
}

// Unlock 解除锁定
// POST /api/v1/universities/unlock
func (h *UniversityHandler) Unlock(c *gin.Context) {
	h.mutate(c, h.universitySvc.Unlock)
}

// Remove 移出收藏
// DELETE /api/v1/universities/shortlist/:id
func (h *UniversityHandler) Remove(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, codeValidation, "Invalid university id")
		return
	}

	result, err := h.universitySvc.Remove(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *UniversityHandler) mutate(c *gin.Context, fn func(ctx context.Context, userID string, universityID int) (*dto.ActionResult, error)) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UniversityIDRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := fn(c.Request.Context(), userID, req.UniversityID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}
