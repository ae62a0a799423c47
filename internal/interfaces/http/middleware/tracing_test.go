package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func findSpan(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func spanAttr(s sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, a := range s.Attributes() {
		if string(a.Key) == key {
			return a.Value.Emit(), true
		}
	}
	return "", false
}

func tracedRouter(status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test"}),
		SpanErrorMarker(), TracingAttributeInjector())
	r.POST("/api/farmers/lot-proposals/:batchCode/accept", func(c *gin.Context) {
		c.Status(status)
	})
	return r
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_TagsRequestAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/farmers/lot-proposals/BATCH-1/accept", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	req.Header.Set(logger.ActorHeader, "buyer:BUY-1")
	w := httptest.NewRecorder()
	tracedRouter(http.StatusOK).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	span := findSpan(sr.Ended(), "POST /api/farmers/lot-proposals/:batchCode/accept")
	require.NotNil(t, span, "server span not found")

	got, ok := spanAttr(span, "request_id")
	assert.True(t, ok)
	assert.Equal(t, "req-7", got)
	got, _ = spanAttr(span, "agritrace.actor")
	assert.Equal(t, "buyer:BUY-1", got)
	got, _ = spanAttr(span, "agritrace.batch_code")
	assert.Equal(t, "BATCH-1", got)
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status int
		desc   string
	}{
		{http.StatusConflict, "Conflict"},
		{http.StatusNotFound, "Not Found"},
		{http.StatusBadRequest, "Client Error"},
		{http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sr := setupTestTracer(t)
			w := httptest.NewRecorder()
			tracedRouter(tt.status).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/farmers/lot-proposals/B/accept", nil))

			span := findSpan(sr.Ended(), "POST /api/farmers/lot-proposals/:batchCode/accept")
			require.NotNil(t, span)
			assert.Equal(t, codes.Error, span.Status().Code)
			if tt.status < http.StatusInternalServerError {
				// otelgin rewrites the status of 5xx spans itself
				assert.Equal(t, tt.desc, span.Status().Description)
			}
		})
	}
}

func TestSpanErrorMarker_WithNoSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SpanErrorMarker(), TracingAttributeInjector())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() { r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil)) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
