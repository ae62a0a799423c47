package handler

import (
	"github.com/gin-gonic/gin"
	farmapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/farm"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
)

// FarmerHandler serves the farmer portal: crop schedules, crop listings,
// harvest, lot acceptance and the buyer's payment confirmation
type FarmerHandler struct {
	BaseHandler
	farm     *farmapp.Service
	workflow *traceapp.WorkflowService
}

// NewFarmerHandler creates a new FarmerHandler
func NewFarmerHandler(farm *farmapp.Service, workflow *traceapp.WorkflowService) *FarmerHandler {
	return &FarmerHandler{farm: farm, workflow: workflow}
}

// ListSchedules handles GET /farmers/:farmerId/crop-schedules
func (h *FarmerHandler) ListSchedules(c *gin.Context) {
	var q farmapp.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.farm.ListSchedules(c.Request.Context(), c.Param("farmerId"), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// CreateSchedule handles POST /farmers/crop-schedules
func (h *FarmerHandler) CreateSchedule(c *gin.Context) {
	var req farmapp.CreateScheduleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.farm.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp, nil)
}

// AdvanceSchedule handles PUT /farmers/crop-schedules/:id/status
func (h *FarmerHandler) AdvanceSchedule(c *gin.Context) {
	var req farmapp.AdvanceScheduleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.farm.AdvanceSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, nil)
}

// Harvest handles PUT /farmers/crop-schedules/:id/harvest and mints the batch
func (h *FarmerHandler) Harvest(c *gin.Context) {
	var req traceapp.HarvestRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.Harvest(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// ListListings handles GET /farmers/:farmerId/crop-listings
func (h *FarmerHandler) ListListings(c *gin.Context) {
	var q farmapp.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.farm.ListListings(c.Request.Context(), c.Param("farmerId"), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// CreateListing handles POST /farmers/crop-listings
func (h *FarmerHandler) CreateListing(c *gin.Context) {
	var req farmapp.CreateListingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.farm.CreateListing(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp, nil)
}

// HarvestAlerts handles GET /farmers/:farmerId/harvest-alerts
func (h *FarmerHandler) HarvestAlerts(c *gin.Context) {
	alerts, err := h.farm.HarvestAlerts(c.Request.Context(), c.Param("farmerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// AcceptLot handles POST /farmers/lot-proposals/:batchCode/accept. The first
// proposal wins; every later one gets 409 with the winning buyer.
func (h *FarmerHandler) AcceptLot(c *gin.Context) {
	var req traceapp.ProposeLotRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.ProposeLot(c.Request.Context(), c.Param("batchCode"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// ConfirmPayment handles POST /farmers/payment-confirmation
func (h *FarmerHandler) ConfirmPayment(c *gin.Context) {
	var req traceapp.ConfirmPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}
