package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const cardValidityYears = 3

var (
	// DefaultMinimumPayment is the minimum payment floor used when none is given.
	DefaultMinimumPayment = decimal.NewFromInt(25)

	cashAdvanceShare   = decimal.NewFromInt(4)
	minimumPaymentPart = decimal.NewFromInt(10)
)

// CreditCard is a revolving credit service with separate purchase and cash advance limits.
type CreditCard struct {
	Service
	CreditLimit         decimal.Decimal `json:"credit_limit"`
	CashAdvanceLimit    decimal.Decimal `json:"cash_advance_limit"`
	MinimumPaymentFloor decimal.Decimal `json:"minimum_payment_floor"`
	ExpirationDate      civil.Date      `json:"expiration_date"`
}

// CreditCardParams is the input data to open a credit card.
//
// Zero values of CashAdvanceLimit, MinimumPayment and OpenDate are replaced by defaults.
type CreditCardParams struct {
	Owner            int64
	Number           int64
	InterestRate     decimal.Decimal
	CreditLimit      decimal.Decimal
	CashAdvanceLimit decimal.Decimal
	OpenDate         civil.Date
	MinimumPayment   decimal.Decimal
	Balance          decimal.Decimal
}

// OpenCreditCard validates arg and returns the credit card it describes.
func OpenCreditCard(arg CreditCardParams) (CreditCard, error) {
	if !arg.CreditLimit.IsPositive() {
		return CreditCard{}, fmt.Errorf("%w: credit limit must be positive", ErrInvalidArgument)
	}

	if arg.InterestRate.IsNegative() {
		return CreditCard{}, fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidArgument)
	}

	if arg.CashAdvanceLimit.IsNegative() || arg.CashAdvanceLimit.GreaterThan(arg.CreditLimit) {
		return CreditCard{}, fmt.Errorf("%w: cash advance limit must be between 0 and the credit limit", ErrInvalidArgument)
	}

	if arg.MinimumPayment.IsNegative() {
		return CreditCard{}, fmt.Errorf("%w: minimum payment cannot be negative", ErrInvalidArgument)
	}

	if arg.Balance.IsNegative() {
		return CreditCard{}, ErrInvalidAmount
	}

	cashLimit := arg.CashAdvanceLimit
	if cashLimit.IsZero() {
		cashLimit = arg.CreditLimit.Div(cashAdvanceShare)
	}

	minPayment := arg.MinimumPayment
	if minPayment.IsZero() {
		minPayment = DefaultMinimumPayment
	}

	openDate := orToday(arg.OpenDate)

	return CreditCard{
		Service: Service{
			Number:       arg.Number,
			Owner:        arg.Owner,
			Balance:      arg.Balance,
			InterestRate: arg.InterestRate,
			OpenDate:     openDate,
		},
		CreditLimit:         arg.CreditLimit,
		CashAdvanceLimit:    cashLimit,
		MinimumPaymentFloor: minPayment,
		ExpirationDate:      AdvanceDate(openDate, cardValidityYears),
	}, nil
}

// Kind implements CreditService.
func (c CreditCard) Kind() ServiceKind {
	return KindCreditCard
}

// Charge adds a purchase to the balance and returns the new balance.
func (c *CreditCard) Charge(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return c.Balance, ErrInvalidAmount
	}

	if c.Balance.Add(amount).GreaterThan(c.CreditLimit) {
		return c.Balance, ErrCreditLimitExceeded
	}

	c.Balance = c.Balance.Add(amount)

	return c.Balance, nil
}

// AdvanceCash adds a cash advance to the balance and returns the new balance.
func (c *CreditCard) AdvanceCash(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return c.Balance, ErrInvalidAmount
	}

	if c.Balance.Add(amount).GreaterThan(c.CashAdvanceLimit) {
		return c.Balance, ErrCashAdvanceLimitExceeded
	}

	c.Balance = c.Balance.Add(amount)

	return c.Balance, nil
}

// ChargeInterest adds one month of interest to the balance and returns the new balance.
func (c *CreditCard) ChargeInterest() decimal.Decimal {
	c.Balance = accrue(c.Balance, c.InterestRate)
	return c.Balance
}

// MinimumPayment is the larger of the stored floor and a tenth of the balance.
func (c CreditCard) MinimumPayment() decimal.Decimal {
	return decimal.Max(c.MinimumPaymentFloor, c.Balance.Div(minimumPaymentPart)).Round(PaymentPlaces)
}

// AvailableCredit is what can still be charged before the credit limit is reached.
func (c CreditCard) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.Balance)
}

// CreateCreditCardParams is the input data to open a credit card as received from a client.
//
// Empty CashAdvanceLimit and MinimumPayment select the defaults.
type CreateCreditCardParams struct {
	Owner            int64
	InterestRate     string
	CreditLimit      string
	CashAdvanceLimit string
	MinimumPayment   string
}
