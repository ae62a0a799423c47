package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/notification"
	traceapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
)

// BatchHandler serves the cross-role reads: the batch trace and the
// notification inbox
type BatchHandler struct {
	BaseHandler
	workflow *traceapp.WorkflowService
	inbox    *notificationapp.InboxService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(workflow *traceapp.WorkflowService, inbox *notificationapp.InboxService) *BatchHandler {
	return &BatchHandler{workflow: workflow, inbox: inbox}
}

type inboxQuery struct {
	Role        string `form:"role"`
	RecipientID string `form:"recipientId"`
	BatchCode   string `form:"batchCode"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// Trace handles GET /batches/:batchCode
func (h *BatchHandler) Trace(c *gin.Context) {
	resp, err := h.workflow.Trace(c.Request.Context(), c.Param("batchCode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Notifications handles GET /notifications
func (h *BatchHandler) Notifications(c *gin.Context) {
	var q inboxQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.inbox.List(c.Request.Context(), notificationapp.InboxFilter{
		Role:        q.Role,
		RecipientID: q.RecipientID,
		BatchCode:   q.BatchCode,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}
