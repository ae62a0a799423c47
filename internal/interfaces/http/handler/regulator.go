package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/report"
)

// RegulatorHandler serves DDGOTS and the port inspector: clearance,
// fees, document release, withdrawal and the traceability export
type RegulatorHandler struct {
	BaseHandler
	workflow *traceapp.WorkflowService
	registry *traceapp.RegistryService
	clock    shared.Clock
}

// NewRegulatorHandler creates a new RegulatorHandler
func NewRegulatorHandler(workflow *traceapp.WorkflowService, registry *traceapp.RegistryService, clock shared.Clock) *RegulatorHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &RegulatorHandler{workflow: workflow, registry: registry, clock: clock}
}

// AssignPortInspection handles POST /ddgots/port-inspections
func (h *RegulatorHandler) AssignPortInspection(c *gin.Context) {
	var req traceapp.PortInspectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.AssignPortInspection(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// SubmitInspectionReport handles POST /port-inspector/inspection-report
func (h *RegulatorHandler) SubmitInspectionReport(c *gin.Context) {
	var req traceapp.InspectionReportRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.SubmitInspectionReport(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// IntimateFees handles POST /ddgots/fee-intimation
func (h *RegulatorHandler) IntimateFees(c *gin.Context) {
	var req traceapp.FeeIntimationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.IntimateFees(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// ReleaseDocuments handles POST /ddgots/document-release
func (h *RegulatorHandler) ReleaseDocuments(c *gin.Context) {
	var req traceapp.DocumentReleaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.Actor = getActor(c)
	resp, receipt, err := h.workflow.ReleaseDocuments(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// Withdraw handles POST /ddgots/batches/:batchCode/withdraw
func (h *RegulatorHandler) Withdraw(c *gin.Context) {
	var req traceapp.WithdrawRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.Actor == "" {
		req.Actor = getActor(c)
	}
	resp, receipt, err := h.workflow.Withdraw(c.Request.Context(), c.Param("batchCode"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Transition(c, resp, receipt)
}

// TraceabilityReport handles GET /ddgots/reports/traceability.xlsx
func (h *RegulatorHandler) TraceabilityReport(c *gin.Context) {
	var q traceapp.ReportQuery
	if !h.BindQuery(c, &q) {
		return
	}
	rows, err := h.registry.TraceabilityReport(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	now := h.clock.Now()
	data, err := report.WriteTraceabilityWorkbook(rows, now)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filename := "traceability-" + now.Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("X-Report-Rows", strconv.Itoa(len(rows)))
	c.Data(http.StatusOK, report.ContentTypeXLSX, data)
}
