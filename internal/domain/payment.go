package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money moved from an account to a credit service.
type Payment struct {
	ID            int64           `json:"id"`
	AccountNumber int64           `json:"account_number"`
	ServiceNumber int64           `json:"service_number"`
	ServiceKind   ServiceKind     `json:"service_kind"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreatePaymentParams is the input data for the payment transaction.
type CreatePaymentParams struct {
	AccountNumber int64
	ServiceNumber int64
	ServiceKind   ServiceKind
	Amount        decimal.Decimal
}

// PaymentResult is the result of the payment transaction.
type PaymentResult struct {
	Payment        Payment         `json:"payment"`
	Account        Account         `json:"account"`
	ServiceBalance decimal.Decimal `json:"service_balance"`
}
