package dto

import "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"

// Response is the envelope of every API answer. Successful transitions carry
// the role receipt in Notifications; reads omit it. Failures carry a flat
// error message and code.
type Response struct {
	Success       bool                  `json:"success"`
	Data          any                   `json:"data,omitempty"`
	Notifications *notification.Receipt `json:"notifications,omitempty"`
	Meta          *Meta                 `json:"meta,omitempty"`

	Error     string             `json:"error,omitempty"`
	Code      string             `json:"code,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`

	// set on a lost lot race only
	Accepted     *bool  `json:"accepted,omitempty"`
	Reason       string `json:"reason,omitempty"`
	WinningBuyer string `json:"winningBuyer,omitempty"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a read response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewTransitionResponse creates a write response carrying the notified roles.
// An empty receipt is rendered as {} so the field is always present.
func NewTransitionResponse(data any, receipt notification.Receipt) Response {
	if receipt == nil {
		receipt = notification.Receipt{}
	}
	return Response{
		Success:       true,
		Data:          data,
		Notifications: &receipt,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success:   false,
		Error:     message,
		Code:      code,
		RequestID: requestID,
	}
}

// NewValidationErrorResponse creates a 400 body listing the rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponse(ErrCodeValidation, message, requestID)
	resp.Details = details
	return resp
}

// NewSoldOutResponse is the answer to a proposal that lost the lot race
func NewSoldOutResponse(message, requestID, winningBuyer string) Response {
	accepted := false
	resp := NewErrorResponse(ErrCodeSoldOut, message, requestID)
	resp.Accepted = &accepted
	resp.Reason = "sold_out"
	resp.WinningBuyer = winningBuyer
	return resp
}
