package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"abroad-compass/backend/config"
	"abroad-compass/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "middleware-test-secret-0123", AccessTokenTTL: time.Hour})
}

func TestJWTAuth(t *testing.T) {
	mgr := newJWT()
	token, err := mgr.GenerateAccessToken("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret-0123456789"})
	forged, _ := other.GenerateAccessToken("user-1", "a@example.com")

	r := gin.New()
	r.GET("/me", JWTAuth(mgr, nil, zap.NewNop()), func(c *gin.Context) {
		claims := c.MustGet(ContextClaims).(*jwt.Claims)
		c.String(http.StatusOK, c.GetString(ContextUserID)+"|"+claims.Email)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"缺少认证头", "", http.StatusUnauthorized},
		{"格式错误", "Token " + token, http.StatusUnauthorized},
		{"签名不匹配", "Bearer " + forged, http.StatusUnauthorized},
		{"合法 Token", "Bearer " + token, http.StatusOK},
		{"小写 bearer", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d，实际 %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != "user-1|a@example.com" {
				t.Errorf("上下文注入不正确: %s", w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get(requestIDHeader) != "abc-123" {
		t.Errorf("应沿用客户端传入的 Request-ID，实际=%s", w.Body.String())
	}

	for _, bad := range []string{"", strings.Repeat("a", requestIDMaxLen+1), "line\nbreak"} {
		if validRequestID(bad) {
			t.Errorf("%q 不应被接受", bad)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/x", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			if IsBodyTooLarge(err) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/x", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/x", strings.NewReader(`{"a":1}`)))
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("未配置 Redis 时应放行，实际 %d", w.Code)
		}
	}
}
