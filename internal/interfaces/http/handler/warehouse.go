package handler

import (
	"github.com/gin-gonic/gin"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
)

// WarehouseHandler serves the warehouse inspector: intake, packaging,
// storage registration and the dispatch to the exporter
type WarehouseHandler struct {
	BaseHandler
	workflow *traceapp.WorkflowService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(workflow *traceapp.WorkflowService) *WarehouseHandler {
	return &WarehouseHandler{workflow: workflow}
}

// RegisterDelivery handles POST /warehouse/delivery-registration
func (h *WarehouseHandler) RegisterDelivery(c *gin.Context) {
	var req traceapp.WarehouseDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.RegisterWarehouseDelivery(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// ApproveQRBatch handles POST /warehouse/qr-batch-approval
func (h *WarehouseHandler) ApproveQRBatch(c *gin.Context) {
	var req traceapp.QRBatchApprovalRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.ApproveQRBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// RegisterProduct handles POST /warehouse/product-registration
func (h *WarehouseHandler) RegisterProduct(c *gin.Context) {
	var req traceapp.ProductRegistrationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.RegisterWarehouseProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// AuthorizeDelivery handles POST /warehouse/delivery-authorization
func (h *WarehouseHandler) AuthorizeDelivery(c *gin.Context) {
	var req traceapp.DeliveryAuthorizationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.AuthorizeDelivery(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// InitiateDelivery handles POST /warehouse/delivery-initiation
func (h *WarehouseHandler) InitiateDelivery(c *gin.Context) {
	var req traceapp.DeliveryInitiationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.InitiateDelivery(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}
