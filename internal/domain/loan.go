package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const (
	// DefaultLoanTerm is the loan term in years used when none is given.
	DefaultLoanTerm = 30
	// MaxLoanTerm is the longest loan term in years.
	MaxLoanTerm = 50
	// MaxPayments bounds the number of monthly payments an amortization can span.
	MaxPayments = MaxLoanTerm * 12
)

// Loan is a fixed-payment amortizing credit service.
type Loan struct {
	Service
	TermYears      int             `json:"term_years"`
	MaturityDate   civil.Date      `json:"maturity_date"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// LoanParams is the input data to open a loan.
//
// Zero values of OpenDate, TermYears and MaturityDate are replaced by defaults.
// A nil MonthlyPayment is computed by amortizing the balance over the term.
type LoanParams struct {
	Owner          int64
	Number         int64
	Balance        decimal.Decimal
	InterestRate   decimal.Decimal
	OpenDate       civil.Date
	TermYears      int
	MaturityDate   civil.Date
	MonthlyPayment *decimal.Decimal
}

// OpenLoan validates arg and returns the loan it describes.
func OpenLoan(arg LoanParams) (Loan, error) {
	if arg.Balance.IsNegative() {
		return Loan{}, ErrInvalidAmount
	}

	if arg.InterestRate.IsNegative() {
		return Loan{}, fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidArgument)
	}

	term := arg.TermYears
	if term == 0 {
		term = DefaultLoanTerm
	}

	if term < 0 {
		return Loan{}, fmt.Errorf("%w: term must be positive", ErrInvalidArgument)
	}

	if term > MaxLoanTerm {
		return Loan{}, fmt.Errorf("%w: term must be at most %d years", ErrInvalidArgument, MaxLoanTerm)
	}

	openDate := orToday(arg.OpenDate)

	maturity := arg.MaturityDate
	if maturity.IsZero() {
		maturity = AdvanceDate(openDate, term)
	}

	l := Loan{
		Service: Service{
			Number:       arg.Number,
			Owner:        arg.Owner,
			Balance:      arg.Balance,
			InterestRate: arg.InterestRate,
			OpenDate:     openDate,
		},
		TermYears:    term,
		MaturityDate: maturity,
	}

	if arg.MonthlyPayment != nil {
		if arg.MonthlyPayment.IsNegative() {
			return Loan{}, ErrInvalidAmount
		}

		l.MonthlyPayment = *arg.MonthlyPayment

		return l, nil
	}

	payment, err := l.CalculateAmortization(term * 12)
	if err != nil {
		return Loan{}, err
	}

	l.MonthlyPayment = payment

	return l, nil
}

// Kind implements CreditService.
func (l Loan) Kind() ServiceKind {
	return KindLoan
}

// CalculateAmortization returns the fixed payment that retires the balance in numPayments months.
//
// A zero rate splits the balance evenly.
func (l Loan) CalculateAmortization(numPayments int) (decimal.Decimal, error) {
	if numPayments <= 0 {
		return decimal.Zero, fmt.Errorf("%w: number of payments must be positive", ErrInvalidArgument)
	}

	if numPayments > MaxPayments {
		return decimal.Zero, fmt.Errorf("%w: number of payments must be at most %d", ErrInvalidArgument, MaxPayments)
	}

	n := decimal.NewFromInt(int64(numPayments))

	if l.InterestRate.IsZero() {
		return l.Balance.Div(n).Round(PaymentPlaces), nil
	}

	r := MonthlyRate(l.InterestRate)
	growth := pow(one.Add(r), numPayments)

	// balance*r / (1 - (1+r)^-n) == balance*r*(1+r)^n / ((1+r)^n - 1)
	payment := l.Balance.Mul(r).Mul(growth).Div(growth.Sub(one))

	return payment.Round(PaymentPlaces), nil
}

// Recalculate re-amortizes the current balance over numPayments months and stores the new payment.
func (l *Loan) Recalculate(numPayments int) (decimal.Decimal, error) {
	payment, err := l.CalculateAmortization(numPayments)
	if err != nil {
		return l.MonthlyPayment, err
	}

	l.MonthlyPayment = payment

	return l.MonthlyPayment, nil
}

// RemainingPayments counts the monthly installments left between on and the maturity date.
func (l Loan) RemainingPayments(on civil.Date) int {
	months := (l.MaturityDate.Year-on.Year)*12 + int(l.MaturityDate.Month-on.Month)
	if months < 0 {
		return 0
	}

	return months
}

// CreateLoanParams is the input data to open a loan as received from a client.
//
// A zero TermYears selects DefaultLoanTerm.
type CreateLoanParams struct {
	Owner        int64
	Principal    string
	InterestRate string
	TermYears    int
}
