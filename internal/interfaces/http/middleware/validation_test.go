package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerRequest struct {
	BuyerID string          `json:"buyerId" binding:"required"`
	Price   decimal.Decimal `json:"offerPrice" binding:"decimal_gt0"`
	Grade   string          `json:"grade" binding:"omitempty,oneof=A B"`
}

func bindOffer(t *testing.T, body string) (*httptest.ResponseRecorder, *offerRequest) {
	t.Helper()
	SetupValidator()
	gin.SetMode(gin.TestMode)

	var bound *offerRequest
	r := gin.New()
	r.Use(RequestID())
	r.POST("/offer", func(c *gin.Context) {
		var req offerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		bound = &req
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w, bound
}

func TestSetupValidator_DecimalGreaterThanZero(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"positive number", `{"buyerId":"B1","offerPrice":2.5}`, http.StatusOK},
		{"positive string", `{"buyerId":"B1","offerPrice":"0.01"}`, http.StatusOK},
		{"zero", `{"buyerId":"B1","offerPrice":0}`, http.StatusBadRequest},
		{"negative", `{"buyerId":"B1","offerPrice":"-4"}`, http.StatusBadRequest},
		{"missing", `{"buyerId":"B1"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, bound := bindOffer(t, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				require.NotNil(t, bound)
				assert.True(t, bound.Price.IsPositive())
			}
		})
	}
}

func TestHandleBindError(t *testing.T) {
	t.Run("field errors use json names", func(t *testing.T) {
		w, _ := bindOffer(t, `{"offerPrice":0,"grade":"C"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, dto.ErrCodeValidation, body.Code)
		assert.NotEmpty(t, body.RequestID)

		fields := map[string]string{}
		for _, d := range body.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", fields["buyerId"])
		assert.Equal(t, "Must be a number greater than 0", fields["offerPrice"])
		assert.Equal(t, "Must be one of: A B", fields["grade"])
		assert.Equal(t, "buyerId: This field is required", body.Error)
	})

	t.Run("malformed json is a validation error", func(t *testing.T) {
		w, _ := bindOffer(t, `{"buyerId":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
		assert.Contains(t, w.Body.String(), `"code":"VALIDATION_ERROR"`)
	})
}
