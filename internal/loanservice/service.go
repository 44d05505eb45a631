// Package loanservice manages business logic layer of loans.
package loanservice

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// Repo provides data access layer interface needed by loan service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package loanservice
type Repo interface {
	Create(ctx context.Context, l domain.Loan) (domain.Loan, error)
	Get(ctx context.Context, number int64) (domain.Loan, error)
	ListByOwner(ctx context.Context, owner int64) ([]domain.Loan, error)
	Mutate(ctx context.Context, number int64, fn func(l *domain.Loan) error) (domain.Loan, error)
}

const maxNumberAttempts = 5

// Service facilitates loan service layer logic.
type Service struct {
	repo      Repo
	newNumber func() int64
	today     func() civil.Date
}

// New returns loan service struct to manage loan bussines logic.
func New(lr Repo) *Service {
	return &Service{
		repo:      lr,
		newNumber: randompkg.AccountNumber,
		today:     domain.Today,
	}
}

// Open validates arg and books a loan whose monthly payment amortizes the principal over the term.
func (s *Service) Open(ctx context.Context, arg domain.CreateLoanParams) (domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	principal, err := domain.ParseAmount(arg.Principal)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Loan{}, err
	}

	rate, err := domain.ParseRate(arg.InterestRate)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Loan{}, err
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		loan, err := domain.OpenLoan(domain.LoanParams{
			Owner:        arg.Owner,
			Number:       s.newNumber(),
			Balance:      principal,
			InterestRate: rate,
			OpenDate:     s.today(),
			TermYears:    arg.TermYears,
		})
		if err != nil {
			l.Info().Err(err).Send()
			return domain.Loan{}, err
		}

		created, err := s.repo.Create(ctx, loan)
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			l.Warn().Int64("number", loan.Number).Msg("loan number taken, retrying")
			continue
		}

		return created, err
	}

	return domain.Loan{}, domain.ErrAccountNumberTaken
}

// Get returns loan for the given number.
func (s *Service) Get(ctx context.Context, number int64) (domain.Loan, error) {
	return s.repo.Get(ctx, number)
}

// List returns loans that are owned by the given customer.
func (s *Service) List(ctx context.Context, owner int64) ([]domain.Loan, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Quote returns the payment that would retire the current balance in numPayments months.
//
// A zero numPayments quotes the installments left until maturity. The loan is not changed.
func (s *Service) Quote(ctx context.Context, number int64, numPayments int) (decimal.Decimal, error) {
	loan, err := s.repo.Get(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}

	if numPayments == 0 {
		numPayments = loan.RemainingPayments(s.today())
	}

	payment, err := loan.CalculateAmortization(numPayments)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		return decimal.Zero, err
	}

	return payment, nil
}

// Recalculate re-amortizes the current balance over numPayments months and stores the new payment.
//
// A zero numPayments uses the installments left until maturity.
func (s *Service) Recalculate(ctx context.Context, number int64, numPayments int) (domain.Loan, error) {
	return s.repo.Mutate(ctx, number, func(l *domain.Loan) error {
		n := numPayments
		if n == 0 {
			n = l.RemainingPayments(s.today())
		}

		_, err := l.Recalculate(n)

		return err
	})
}
