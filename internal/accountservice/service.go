// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
	Get(ctx context.Context, number int64) (domain.Account, error)
	ListByOwner(ctx context.Context, owner int64) ([]domain.Account, error)
	ListAccruing(ctx context.Context) ([]domain.Account, error)
	Mutate(ctx context.Context, number int64, fn func(a *domain.Account) error) (domain.Account, error)
}

// maxNumberAttempts bounds the retries when a generated account number is taken.
const maxNumberAttempts = 5

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	newNumber func() int64
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{
		repo:      ar,
		newNumber: randompkg.AccountNumber,
	}
}

// Open validates arg, opens the account under a fresh 10-digit number and deposits the initial amount.
func (s *Service) Open(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	kind, err := domain.ParseAccountKind(arg.Kind)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, err
	}

	rate, err := domain.ParseRate(arg.InterestRate)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, err
	}

	deposit := arg.InitialDeposit
	if deposit == "" {
		deposit = "0"
	}

	amount, err := domain.ParseAmount(deposit)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, err
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		account, err := domain.OpenAccount(arg.Owner, s.newNumber(), kind, rate)
		if err != nil {
			l.Info().Err(err).Send()
			return domain.Account{}, err
		}

		if _, err := account.Deposit(amount); err != nil {
			return domain.Account{}, err
		}

		created, err := s.repo.Create(ctx, account)
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			l.Warn().Int64("number", account.Number).Msg("account number taken, retrying")
			continue
		}

		return created, err
	}

	return domain.Account{}, domain.ErrAccountNumberTaken
}

// Get returns account for the given account number.
func (s *Service) Get(ctx context.Context, number int64) (domain.Account, error) {
	return s.repo.Get(ctx, number)
}

// List returns accounts that are owned by the given customer.
func (s *Service) List(ctx context.Context, owner int64) ([]domain.Account, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Deposit adds amount to the account balance.
func (s *Service) Deposit(ctx context.Context, number int64, amount string) (domain.Account, error) {
	return s.move(ctx, number, amount, (*domain.Account).Deposit)
}

// Withdraw takes amount from the account balance.
func (s *Service) Withdraw(ctx context.Context, number int64, amount string) (domain.Account, error) {
	return s.move(ctx, number, amount, (*domain.Account).Withdraw)
}

func (s *Service) move(ctx context.Context, number int64, amount string,
	op func(*domain.Account, decimal.Decimal) (decimal.Decimal, error)) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	value, err := domain.ParseAmount(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, err
	}

	return s.repo.Mutate(ctx, number, func(a *domain.Account) error {
		_, err := op(a, value)
		return err
	})
}

// PayInterest credits one month of interest to the account.
func (s *Service) PayInterest(ctx context.Context, number int64) (domain.Account, error) {
	return s.repo.Mutate(ctx, number, func(a *domain.Account) error {
		a.PayInterest()
		return nil
	})
}

// AccrueAll credits one month of interest to every interest-bearing account.
//
// A failure on one account is logged and does not stop the run. It returns the
// number of accounts credited.
func (s *Service) AccrueAll(ctx context.Context) (int, error) {
	l := zerolog.Ctx(ctx)

	accounts, err := s.repo.ListAccruing(ctx)
	if err != nil {
		return 0, err
	}

	credited := 0

	for i := range accounts {
		if _, err := s.PayInterest(ctx, accounts[i].Number); err != nil {
			l.Error().Err(err).Int64("account", accounts[i].Number).Msg("pay interest")
			continue
		}

		credited++
	}

	return credited, nil
}
