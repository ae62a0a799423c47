package traceability

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LotStatus of a ledger entry. Only accepted entries are ever written.
type LotStatus string

const LotStatusAccepted LotStatus = "accepted"

// ReasonSoldOut is reported to every proposal that loses the race
const ReasonSoldOut = "sold_out"

// LotTransaction is the ledger entry recording which buyer acquired a batch
type LotTransaction struct {
	ID              uuid.UUID
	TransactionCode string
	BatchCode       string
	BuyerID         string
	Status          LotStatus
	OfferPrice      decimal.Decimal
	AcceptedAt      time.Time
}

// NewLotTransaction prepares a candidate entry for a proposal
func NewLotTransaction(batchCode, buyerID string, offerPrice decimal.Decimal, now time.Time) (*LotTransaction, error) {
	if strings.TrimSpace(batchCode) == "" {
		return nil, shared.NewValidationError("batchCode is required")
	}
	if strings.TrimSpace(buyerID) == "" {
		return nil, shared.NewValidationError("buyerId is required")
	}
	if offerPrice.IsNegative() {
		return nil, shared.NewValidationError("offerPrice cannot be negative")
	}
	return &LotTransaction{
		ID:              uuid.New(),
		TransactionCode: newCode("TXN", now),
		BatchCode:       batchCode,
		BuyerID:         strings.TrimSpace(buyerID),
		Status:          LotStatusAccepted,
		OfferPrice:      offerPrice,
		AcceptedAt:      now,
	}, nil
}

// LotOutcome is the result of a lot proposal
type LotOutcome struct {
	Accepted        bool   `json:"accepted"`
	TransactionCode string `json:"transactionCode,omitempty"`
	Reason          string `json:"reason,omitempty"`
	WinningBuyer    string `json:"winningBuyer,omitempty"`
}

// SoldOutError is the expected conflict returned to losing proposals
type SoldOutError struct {
	*shared.DomainError
	BatchCode    string
	WinningBuyer string
}

// NewSoldOutError names the buyer holding the batch
func NewSoldOutError(batchCode, winningBuyer string) *SoldOutError {
	return &SoldOutError{
		DomainError: shared.NewDomainError(shared.CodeSoldOut,
			fmt.Sprintf("lot %s is sold out to buyer %s", batchCode, winningBuyer)),
		BatchCode:    batchCode,
		WinningBuyer: winningBuyer,
	}
}

// Unwrap exposes the DomainError for errors.As
func (e *SoldOutError) Unwrap() error {
	return e.DomainError
}

// Outcome renders the error as a lost proposal
func (e *SoldOutError) Outcome() LotOutcome {
	return LotOutcome{Accepted: false, Reason: ReasonSoldOut, WinningBuyer: e.WinningBuyer}
}
