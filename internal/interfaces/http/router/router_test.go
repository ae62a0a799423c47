package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/api", r.basePath)
	assert.Empty(t, r.registrars)
}

func TestRouterWithBasePath(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/internal"))

	assert.Equal(t, "/internal", r.basePath)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("batches", "/batches").
		GET("/:batchCode", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("batchCode"))
		})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/batches/BATCH-1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BATCH-1", w.Body.String())
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	handler := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

	group := NewDomainGroup("farmers", "/farmers").
		GET("/:farmerId/crop-schedules", handler).
		POST("/crop-schedules", handler).
		PUT("/crop-schedules/:id/status", handler)
	NewRouter(engine).Register(group).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/farmers/FARMER-1/crop-schedules"},
		{http.MethodPost, "/api/farmers/crop-schedules"},
		{http.MethodPut, "/api/farmers/crop-schedules/SCH-001/status"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	var called bool

	group := NewDomainGroup("warehouse", "/warehouse").
		Use(func(c *gin.Context) {
			called = true
			c.Next()
		}).
		POST("/qr-batch-approval", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/warehouse/qr-batch-approval", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, called)
}

func TestDomainGroupSubgroup(t *testing.T) {
	engine := gin.New()
	ddgots := NewDomainGroup("ddgots", "/ddgots")
	ddgots.Group("reports", "/reports").
		GET("/traceability.xlsx", func(c *gin.Context) { c.Status(http.StatusOK) })
	NewRouter(engine).Register(ddgots).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ddgots/reports/traceability.xlsx", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"GET /ddgots/reports/traceability.xlsx"}, ddgots.Routes())
}

func TestDomainGroupAccessors(t *testing.T) {
	group := NewDomainGroup("buyer", "/buyer").
		POST("/marketplace-listing", func(c *gin.Context) {})

	assert.Equal(t, "buyer", group.Name())
	assert.Equal(t, "/buyer", group.Prefix())
	assert.Equal(t, []string{"POST /buyer/marketplace-listing"}, group.Routes())
}

func TestGroupsCoverEveryPortal(t *testing.T) {
	groups := Groups(Handlers{})

	names := make([]string, 0, len(groups))
	var routes []string
	for _, g := range groups {
		names = append(names, g.Name())
		routes = append(routes, g.Routes()...)
	}

	assert.Equal(t, []string{
		"farmers", "warehouse", "land-inspector", "buyer", "exporter",
		"ddgots", "port-inspector", "batches", "notifications",
	}, names)
	assert.Contains(t, routes, "PUT /farmers/crop-schedules/:id/harvest")
	assert.Contains(t, routes, "POST /farmers/lot-proposals/:batchCode/accept")
	assert.Contains(t, routes, "POST /land-inspector/compliance-data")
	assert.Contains(t, routes, "POST /buyer/export-proposals/:batchCode/accept")
	assert.Contains(t, routes, "POST /exporter/fee-payment")
	assert.Contains(t, routes, "POST /ddgots/batches/:batchCode/withdraw")
	assert.Contains(t, routes, "POST /port-inspector/inspection-report")
	assert.Contains(t, routes, "GET /batches/:batchCode")
	assert.Len(t, routes, 34)
}
