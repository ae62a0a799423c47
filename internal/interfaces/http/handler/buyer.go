package handler

import (
	"github.com/gin-gonic/gin"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
)

// BuyerHandler serves the buyer portal: stored stock, marketplace listings
// and the exporter proposal
type BuyerHandler struct {
	BaseHandler
	workflow *traceapp.WorkflowService
	registry *traceapp.RegistryService
}

// NewBuyerHandler creates a new BuyerHandler
func NewBuyerHandler(workflow *traceapp.WorkflowService, registry *traceapp.RegistryService) *BuyerHandler {
	return &BuyerHandler{workflow: workflow, registry: registry}
}

// CreateMarketplaceListing handles POST /buyer/marketplace-listing
func (h *BuyerHandler) CreateMarketplaceListing(c *gin.Context) {
	var req traceapp.MarketplaceListingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.CreateMarketplaceListing(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// WarehouseProducts handles GET /buyer/:buyerId/warehouse-products
func (h *BuyerHandler) WarehouseProducts(c *gin.Context) {
	var q traceapp.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.registry.BuyerWarehouseProducts(c.Request.Context(), c.Param("buyerId"), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// MarketplaceListings handles GET /buyer/:buyerId/marketplace-listings
func (h *BuyerHandler) MarketplaceListings(c *gin.Context) {
	var q traceapp.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.registry.BuyerMarketplaceListings(c.Request.Context(), c.Param("buyerId"), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// AcceptExportProposal handles POST /buyer/export-proposals/:batchCode/accept
func (h *BuyerHandler) AcceptExportProposal(c *gin.Context) {
	var req traceapp.ExportProposalRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.AcceptExportProposal(c.Request.Context(), c.Param("batchCode"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}
