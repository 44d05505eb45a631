package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountKind is the kind of a deposit account.
type AccountKind string

// Supported account kinds.
const (
	Checking AccountKind = "checking"
	Savings  AccountKind = "savings"
)

// ParseAccountKind returns the account kind named by s, ignoring case.
func ParseAccountKind(s string) (AccountKind, error) {
	switch k := AccountKind(strings.ToLower(strings.TrimSpace(s))); k {
	case Checking, Savings:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q is not a valid account type", ErrInvalidArgument, s)
	}
}

// Account holds the balance of a customer's checking or savings account.
type Account struct {
	Number       int64           `json:"number"`
	Owner        int64           `json:"owner"`
	Kind         AccountKind     `json:"kind"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// OpenAccount returns a new account with a zero balance.
//
// Savings accounts must carry a positive interest rate.
func OpenAccount(owner, number int64, kind AccountKind, annualRate decimal.Decimal) (Account, error) {
	kind, err := ParseAccountKind(string(kind))
	if err != nil {
		return Account{}, err
	}

	if annualRate.IsNegative() {
		return Account{}, fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidArgument)
	}

	if kind == Savings && annualRate.IsZero() {
		return Account{}, fmt.Errorf("%w: savings accounts must have an interest rate", ErrInvalidArgument)
	}

	return Account{
		Number:       number,
		Owner:        owner,
		Kind:         kind,
		Balance:      decimal.Zero,
		InterestRate: annualRate,
	}, nil
}

// Deposit adds amount to the balance and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return a.Balance, ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)

	return a.Balance, nil
}

// Withdraw takes amount out of the balance and returns the new balance.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return a.Balance, ErrInvalidAmount
	}

	if amount.GreaterThan(a.Balance) {
		return a.Balance, ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)

	return a.Balance, nil
}

// PayInterest credits one month of interest and returns the new balance.
//
// The caller is expected to invoke it once a month; no clock is kept.
func (a *Account) PayInterest() decimal.Decimal {
	a.Balance = accrue(a.Balance, a.InterestRate)
	return a.Balance
}

// CreateAccountParams is the input data to open an account as received from a client.
//
// Empty InterestRate and InitialDeposit mean zero.
type CreateAccountParams struct {
	Owner          int64
	Kind           string
	InterestRate   string
	InitialDeposit string
}
