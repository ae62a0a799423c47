package handler

import (
	"github.com/gin-gonic/gin"
	complianceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/compliance"
)

// ComplianceHandler serves the land inspector upload and the DDGOTS review
type ComplianceHandler struct {
	BaseHandler
	compliance *complianceapp.Service
}

// NewComplianceHandler creates a new ComplianceHandler
func NewComplianceHandler(compliance *complianceapp.Service) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance}
}

// complianceListQuery is the query string of the regulator listing
type complianceListQuery struct {
	FarmerID string `form:"farmerId"`
	PlotID   string `form:"plotId"`
	Status   string `form:"status" binding:"omitempty,oneof=received reviewed approved"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Submit handles POST /land-inspector/compliance-data
func (h *ComplianceHandler) Submit(c *gin.Context) {
	var req complianceapp.SubmitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, receipt, err := h.compliance.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp, receipt)
}

// List handles GET /ddgots/compliance-data
func (h *ComplianceHandler) List(c *gin.Context) {
	var q complianceListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.compliance.List(c.Request.Context(), complianceapp.ListFilter{
		FarmerID: q.FarmerID,
		PlotID:   q.PlotID,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Get handles GET /ddgots/compliance-data/:recordId
func (h *ComplianceHandler) Get(c *gin.Context) {
	resp, err := h.compliance.Get(c.Request.Context(), c.Param("recordId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Review handles POST /ddgots/compliance-data/:recordId/review
func (h *ComplianceHandler) Review(c *gin.Context) {
	var req complianceapp.ReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, receipt, err := h.compliance.Review(c.Request.Context(), c.Param("recordId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}
