package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/api/middleware"
	"abroad-compass/backend/internal/oracle"
	pkgerrors "abroad-compass/backend/pkg/errors"
	"abroad-compass/backend/pkg/response"
)

// 业务码
const (
	codeValidation    = 10001
	codeUnauthorized  = 10002
	codeNotFound      = 20001
	codeStateConflict = 20002

	codeOracleNotConfigured = 30003
)

// bindJSON 绑定请求体，失败时写入 400（请求体超限时写入 413）
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "Invalid request", err.Error())
		return false
	}
	return true
}

// writeError 按错误分类写入响应
//
//	validation     → 400
//	state_conflict → 409
//	not_found      → 404
//	upstream       → 502（details 为底层原因；未配置大模型时业务码 30003）
//	persistence    → 503
//	其他           → 500
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, oracle.ErrNotConfigured) {
		response.Error(c, http.StatusBadGateway, codeOracleNotConfigured, "AI counsellor is not configured")
		return
	}

	var kerr *pkgerrors.Error
	if !errors.As(err, &kerr) {
		response.InternalError(c)
		return
	}

	switch kerr.Kind {
	case pkgerrors.KindValidation:
		response.BadRequest(c, codeValidation, kerr.Message)
	case pkgerrors.KindStateConflict:
		response.Conflict(c, codeStateConflict, kerr.Message)
	case pkgerrors.KindNotFound:
		response.NotFound(c, codeNotFound, kerr.Message)
	case pkgerrors.KindUpstreamOracle:
		details := ""
		if kerr.Err != nil {
			details = kerr.Err.Error()
		}
		response.BadGateway(c, kerr.Message, details)
	case pkgerrors.KindPersistence:
		response.ServiceUnavailable(c, "Storage temporarily unavailable")
	default:
		response.InternalError(c)
	}
}
