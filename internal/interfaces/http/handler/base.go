package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/logger"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/dto"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getActor returns the optional X-Actor header
func getActor(c *gin.Context) string {
	return c.GetHeader(logger.ActorHeader)
}

// Success sends a read response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessPage sends one page of a collection with pagination meta
func SuccessPage[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(page.Items, page.Total, page.Page, page.PageSize))
}

// Transition sends the result of a write together with the notified roles
func (h *BaseHandler) Transition(c *gin.Context, data any, receipt notification.Receipt) {
	c.JSON(http.StatusOK, dto.NewTransitionResponse(data, receipt))
}

// Created sends a 201 for a new record
func (h *BaseHandler) Created(c *gin.Context, data any, receipt notification.Receipt) {
	c.JSON(http.StatusCreated, dto.NewTransitionResponse(data, receipt))
}

// BindJSON binds the body and answers the failure itself
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}

// BindQuery binds the query string and answers the failure itself
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}

// HandleError converts an error to its HTTP answer. Domain errors keep
// their message; anything else is logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var soldOut *traceability.SoldOutError
	if errors.As(err, &soldOut) {
		c.JSON(http.StatusConflict, dto.NewSoldOutResponse(soldOut.Message, requestID, soldOut.WinningBuyer))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	fields := []zap.Field{zap.Error(err)}
	if code := c.Param("batchCode"); code != "" {
		fields = append(fields, zap.String("batch_code", code))
	}
	logger.GetGinLogger(c).Error("request failed", fields...)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, dto.GenericInternalMessage, requestID))
}
