package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ServiceKind tells credit cards and loans apart.
type ServiceKind string

// Supported service kinds.
const (
	KindCreditCard ServiceKind = "credit_card"
	KindLoan       ServiceKind = "loan"
)

// Valid reports whether k is a known service kind.
func (k ServiceKind) Valid() bool {
	return k == KindCreditCard || k == KindLoan
}

// Service holds the fields shared by every credit service.
type Service struct {
	Number       int64           `json:"number"`
	Owner        int64           `json:"owner"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	OpenDate     civil.Date      `json:"open_date"`
}

// CreditService is implemented by CreditCard and Loan.
type CreditService interface {
	Kind() ServiceKind
	Base() *Service
}

// Base returns the shared service fields.
func (s *Service) Base() *Service {
	return s
}

// MakePayment moves money from account to the service and returns the new service balance.
//
// The amount is checked against the account balance first. Anything above the
// service balance is not taken from the account. Either both balances change or neither does.
func (s *Service) MakePayment(amount decimal.Decimal, account *Account) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return s.Balance, ErrInvalidAmount
	}

	if amount.GreaterThan(account.Balance) {
		return s.Balance, ErrInsufficientFunds
	}

	effective := decimal.Min(amount, s.Balance)

	if _, err := account.Withdraw(effective); err != nil {
		return s.Balance, err
	}

	s.Balance = s.Balance.Sub(effective)

	return s.Balance, nil
}
