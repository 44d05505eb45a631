// Package cardservice manages business logic layer of credit cards.
package cardservice

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// Repo provides data access layer interface needed by credit card service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package cardservice
type Repo interface {
	Create(ctx context.Context, c domain.CreditCard) (domain.CreditCard, error)
	Get(ctx context.Context, number int64) (domain.CreditCard, error)
	ListByOwner(ctx context.Context, owner int64) ([]domain.CreditCard, error)
	ListAccruing(ctx context.Context) ([]domain.CreditCard, error)
	Mutate(ctx context.Context, number int64, fn func(c *domain.CreditCard) error) (domain.CreditCard, error)
}

const maxNumberAttempts = 5

// Service facilitates credit card service layer logic.
type Service struct {
	repo      Repo
	newNumber func() int64
	today     func() civil.Date
}

// New returns credit card service struct to manage credit card bussines logic.
func New(cr Repo) *Service {
	return &Service{
		repo:      cr,
		newNumber: randompkg.AccountNumber,
		today:     domain.Today,
	}
}

func optionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	return domain.ParseAmount(s)
}

func (s *Service) params(arg domain.CreateCreditCardParams) (domain.CreditCardParams, error) {
	rate, err := domain.ParseRate(arg.InterestRate)
	if err != nil {
		return domain.CreditCardParams{}, err
	}

	limit, err := domain.ParseAmount(arg.CreditLimit)
	if err != nil {
		return domain.CreditCardParams{}, err
	}

	cashLimit, err := optionalAmount(arg.CashAdvanceLimit)
	if err != nil {
		return domain.CreditCardParams{}, err
	}

	minPayment, err := optionalAmount(arg.MinimumPayment)
	if err != nil {
		return domain.CreditCardParams{}, err
	}

	return domain.CreditCardParams{
		Owner:            arg.Owner,
		InterestRate:     rate,
		CreditLimit:      limit,
		CashAdvanceLimit: cashLimit,
		MinimumPayment:   minPayment,
		OpenDate:         s.today(),
	}, nil
}

// Open validates arg and issues a credit card under a fresh 10-digit number, expiring in three years.
func (s *Service) Open(ctx context.Context, arg domain.CreateCreditCardParams) (domain.CreditCard, error) {
	l := zerolog.Ctx(ctx)

	p, err := s.params(arg)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.CreditCard{}, err
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		p.Number = s.newNumber()

		card, err := domain.OpenCreditCard(p)
		if err != nil {
			l.Info().Err(err).Send()
			return domain.CreditCard{}, err
		}

		created, err := s.repo.Create(ctx, card)
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			l.Warn().Int64("number", card.Number).Msg("card number taken, retrying")
			continue
		}

		return created, err
	}

	return domain.CreditCard{}, domain.ErrAccountNumberTaken
}

// Get returns credit card for the given number.
func (s *Service) Get(ctx context.Context, number int64) (domain.CreditCard, error) {
	return s.repo.Get(ctx, number)
}

// List returns credit cards that are owned by the given customer.
func (s *Service) List(ctx context.Context, owner int64) ([]domain.CreditCard, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Charge records a purchase on the card.
func (s *Service) Charge(ctx context.Context, number int64, amount string) (domain.CreditCard, error) {
	return s.draw(ctx, number, amount, (*domain.CreditCard).Charge)
}

// AdvanceCash records a cash advance on the card.
func (s *Service) AdvanceCash(ctx context.Context, number int64, amount string) (domain.CreditCard, error) {
	return s.draw(ctx, number, amount, (*domain.CreditCard).AdvanceCash)
}

func (s *Service) draw(ctx context.Context, number int64, amount string,
	op func(*domain.CreditCard, decimal.Decimal) (decimal.Decimal, error)) (domain.CreditCard, error) {
	l := zerolog.Ctx(ctx)

	value, err := domain.ParseAmount(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.CreditCard{}, err
	}

	return s.repo.Mutate(ctx, number, func(c *domain.CreditCard) error {
		_, err := op(c, value)
		return err
	})
}

// ChargeInterest adds one month of interest to the card balance.
func (s *Service) ChargeInterest(ctx context.Context, number int64) (domain.CreditCard, error) {
	return s.repo.Mutate(ctx, number, func(c *domain.CreditCard) error {
		c.ChargeInterest()
		return nil
	})
}

// AccrueAll charges one month of interest on every card carrying a balance.
//
// A failure on one card is logged and does not stop the run.
func (s *Service) AccrueAll(ctx context.Context) (int, error) {
	l := zerolog.Ctx(ctx)

	cards, err := s.repo.ListAccruing(ctx)
	if err != nil {
		return 0, err
	}

	charged := 0

	for i := range cards {
		if _, err := s.ChargeInterest(ctx, cards[i].Number); err != nil {
			l.Error().Err(err).Int64("card", cards[i].Number).Msg("charge interest")
			continue
		}

		charged++
	}

	return charged, nil
}
