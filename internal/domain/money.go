package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// BalancePlaces is the precision balances are rounded to after interest is applied.
	BalancePlaces = 4
	// PaymentPlaces is the precision of computed payments.
	PaymentPlaces = 2

	powPlaces = 20
)

var (
	monthsInYear = decimal.NewFromInt(1200)
	one          = decimal.NewFromInt(1)
)

// MonthlyRate converts an annual percentage rate to the fraction applied each month.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(monthsInYear)
}

// InterestFactor returns the multiplier that applies one month of interest at the annual rate.
func InterestFactor(annual decimal.Decimal) decimal.Decimal {
	return one.Add(MonthlyRate(annual))
}

// ParseAmount parses a non-negative money amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}

	return amount, nil
}

// ParseRate parses a non-negative annual percentage rate.
func ParseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	rate, err := decimal.NewFromString(s)
	if err != nil || rate.IsNegative() {
		return decimal.Zero, ErrInvalidArgument
	}

	return rate, nil
}

func accrue(balance, annual decimal.Decimal) decimal.Decimal {
	if annual.IsZero() {
		return balance
	}

	return balance.Mul(InterestFactor(annual)).Round(BalancePlaces)
}

// pow raises base to a non-negative integer power by squaring.
func pow(base decimal.Decimal, n int) decimal.Decimal {
	result := one

	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(powPlaces)
		}

		base = base.Mul(base).Round(powPlaces)
		n >>= 1
	}

	return result
}
