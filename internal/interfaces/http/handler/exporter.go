package handler

import (
	"github.com/gin-gonic/gin"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
)

// ExporterHandler serves the exporter portal
type ExporterHandler struct {
	BaseHandler
	workflow *traceapp.WorkflowService
	registry *traceapp.RegistryService
}

// NewExporterHandler creates a new ExporterHandler
func NewExporterHandler(workflow *traceapp.WorkflowService, registry *traceapp.RegistryService) *ExporterHandler {
	return &ExporterHandler{workflow: workflow, registry: registry}
}

// ActiveListings handles GET /exporter/marketplace-listings
func (h *ExporterHandler) ActiveListings(c *gin.Context) {
	var q traceapp.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.registry.ExporterActiveListings(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ConfirmReceipt handles POST /exporter/receipt-confirmation
func (h *ExporterHandler) ConfirmReceipt(c *gin.Context) {
	var req traceapp.ReceiptConfirmationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.CompleteReceipt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// ConfirmPayment handles POST /exporter/payment-confirmation
func (h *ExporterHandler) ConfirmPayment(c *gin.Context) {
	var req traceapp.ExportPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.ConfirmExportPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// PayFees handles POST /exporter/fee-payment
func (h *ExporterHandler) PayFees(c *gin.Context) {
	var req traceapp.FeePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.PayFees(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}
