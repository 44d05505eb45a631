// Package customerservice manages business logic layer of customers.
package customerservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by customer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package customerservice
type Repo interface {
	Save(ctx context.Context, c domain.Customer) (domain.Customer, error)
	Get(ctx context.Context, number int64) (domain.Customer, error)
	Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Customer, error)
}

// AccountRepo lists the accounts of a customer.
type AccountRepo interface {
	ListByOwner(ctx context.Context, owner int64) ([]domain.Account, error)
}

// CardRepo lists the credit cards of a customer.
type CardRepo interface {
	ListByOwner(ctx context.Context, owner int64) ([]domain.CreditCard, error)
}

// LoanRepo lists the loans of a customer.
type LoanRepo interface {
	ListByOwner(ctx context.Context, owner int64) ([]domain.Loan, error)
}

// Service facilitates customer service layer logic.
type Service struct {
	repo     Repo
	accounts AccountRepo
	cards    CardRepo
	loans    LoanRepo
}

// New returns customer service struct to manage customer bussines logic.
func New(cr Repo, ar AccountRepo, cardRepo CardRepo, lr LoanRepo) *Service {
	return &Service{
		repo:     cr,
		accounts: ar,
		cards:    cardRepo,
		loans:    lr,
	}
}

// Register validates arg and saves a new customer.
func (s *Service) Register(ctx context.Context, arg domain.CreatePersonParams) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	p, err := domain.NewPerson(arg)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Customer{}, err
	}

	return s.repo.Save(ctx, domain.Customer{Person: p})
}

// Get returns the customer together with the accounts, credit cards and loans it owns.
func (s *Service) Get(ctx context.Context, number int64) (domain.Customer, error) {
	c, err := s.repo.Get(ctx, number)
	if err != nil {
		return domain.Customer{}, err
	}

	accounts, err := s.accounts.ListByOwner(ctx, number)
	if err != nil {
		return domain.Customer{}, err
	}

	cards, err := s.cards.ListByOwner(ctx, number)
	if err != nil {
		return domain.Customer{}, err
	}

	loans, err := s.loans.ListByOwner(ctx, number)
	if err != nil {
		return domain.Customer{}, err
	}

	c.Accounts = make([]domain.Account, 0, len(accounts))
	c.Services = make([]domain.CreditService, 0, len(cards)+len(loans))

	for _, a := range accounts {
		if err := c.OpenAccount(a); err != nil {
			return domain.Customer{}, err
		}
	}

	for i := range cards {
		if err := c.OpenCreditCard(&cards[i]); err != nil {
			return domain.Customer{}, err
		}
	}

	for i := range loans {
		if err := c.OpenLoan(&loans[i]); err != nil {
			return domain.Customer{}, err
		}
	}

	return c, nil
}

// Find returns the customers matching the criteria without their accounts and services.
func (s *Service) Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	if err := arg.Validate(); err != nil {
		l.Info().Err(err).Send()
		return nil, err
	}

	return s.repo.Find(ctx, arg)
}

// UpdateContact replaces the contact information of the customer.
func (s *Service) UpdateContact(ctx context.Context, number int64, contact domain.Contact) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	if err := contact.Validate(); err != nil {
		l.Info().Err(err).Send()
		return domain.Customer{}, err
	}

	c, err := s.repo.Get(ctx, number)
	if err != nil {
		return domain.Customer{}, err
	}

	c.Contact = contact

	return s.repo.Save(ctx, c)
}
