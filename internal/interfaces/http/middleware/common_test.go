package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSWithConfig(cfg))
	r.GET("/api/batches/:batchCode", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestCORSWithConfig(t *testing.T) {
	allowList := DefaultCORSConfig()
	allowList.AllowOrigins = []string{"https://portal.agritrace.lr"}

	wildcard := DefaultCORSConfig()
	wildcard.AllowOrigins = []string{"*"}

	tests := []struct {
		name        string
		cfg         CORSConfig
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantCreds   string
		wantMethods bool
	}{
		{
			name:       "empty allow list sets no headers",
			cfg:        DefaultCORSConfig(),
			method:     http.MethodGet,
			origin:     "https://portal.agritrace.lr",
			wantStatus: http.StatusOK,
		},
		{
			name:        "listed origin is echoed with credentials",
			cfg:         allowList,
			method:      http.MethodGet,
			origin:      "https://portal.agritrace.lr",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://portal.agritrace.lr",
			wantCreds:   "true",
			wantMethods: true,
		},
		{
			name:       "unlisted origin gets nothing",
			cfg:        allowList,
			method:     http.MethodGet,
			origin:     "https://evil.example",
			wantStatus: http.StatusOK,
		},
		{
			name:        "wildcard never sends credentials",
			cfg:         wildcard,
			method:      http.MethodGet,
			origin:      "https://anyone.example",
			wantStatus:  http.StatusOK,
			wantOrigin:  "*",
			wantMethods: true,
		},
		{
			name:        "preflight is answered with 204",
			cfg:         allowList,
			method:      http.MethodOptions,
			origin:      "https://portal.agritrace.lr",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "https://portal.agritrace.lr",
			wantCreds:   "true",
			wantMethods: true,
		},
		{
			name:       "preflight from unknown origin is still 204",
			cfg:        allowList,
			method:     http.MethodOptions,
			origin:     "https://evil.example",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCORSRouter(tt.cfg)
			req := httptest.NewRequest(tt.method, "/api/batches/B1", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantMethods {
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Actor")
				assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("reuses the inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	})

	t.Run("mints an id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Len(t, seen, 32)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("truncates an oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 500))
		r.ServeHTTP(httptest.NewRecorder(), req)
		assert.Len(t, seen, MaxRequestIDLength)
	})
}

func TestGenerateRequestID(t *testing.T) {
	a, b := generateRequestID(), generateRequestID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}

func TestSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Secure())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}
