package traceability

import (
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentKind distinguishes the farmer lot payment from the exporter payment
type PaymentKind string

const (
	PaymentKindLot    PaymentKind = "lot"
	PaymentKindExport PaymentKind = "export"
)

// PaymentStatusConfirmed is the only status a payment record carries
const PaymentStatusConfirmed = "payment_confirmed"

// FarmerConfirmation is the farmer's acknowledgement of receipt
type FarmerConfirmation struct {
	Confirmed bool   `json:"confirmed"`
	Method    string `json:"method,omitempty"`
}

// PaymentRecord is append-only: corrections are new records, never edits
type PaymentRecord struct {
	ID                 uuid.UUID
	PaymentCode        string
	Kind               PaymentKind
	TransactionCode    string
	BatchCode          string
	PayerID            string
	Amount             decimal.Decimal
	Currency           string
	Method             string
	Reference          string
	FarmerConfirmation FarmerConfirmation
	Status             string
	ConfirmedAt        time.Time
}

// PaymentInput carries a payment confirmation request
type PaymentInput struct {
	TransactionCode    string
	Amount             decimal.Decimal
	Currency           string
	Method             string
	Reference          string
	FarmerConfirmation FarmerConfirmation
}

func newPaymentRecord(kind PaymentKind, batchCode, payerID string, in PaymentInput, now time.Time) (*PaymentRecord, error) {
	if !in.Amount.IsPositive() {
		return nil, shared.NewValidationError("amount must be greater than zero")
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	prefix := "PAY"
	if kind == PaymentKindExport {
		prefix = "EXPAY"
	}
	return &PaymentRecord{
		ID:                 uuid.New(),
		PaymentCode:        newCode(prefix, now),
		Kind:               kind,
		TransactionCode:    in.TransactionCode,
		BatchCode:          batchCode,
		PayerID:            payerID,
		Amount:             in.Amount,
		Currency:           currency,
		Method:             in.Method,
		Reference:          in.Reference,
		FarmerConfirmation: in.FarmerConfirmation,
		Status:             PaymentStatusConfirmed,
		ConfirmedAt:        now,
	}, nil
}
