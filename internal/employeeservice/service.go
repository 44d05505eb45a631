// Package employeeservice manages business logic layer of employees.
package employeeservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by employee service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package employeeservice
type Repo interface {
	Save(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Get(ctx context.Context, number int64) (domain.Employee, error)
	Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Employee, error)
}

// Service facilitates employee service layer logic.
type Service struct {
	repo Repo
}

// New returns employee service struct to manage employee bussines logic.
func New(er Repo) *Service {
	return &Service{repo: er}
}

// Register validates arg and saves a new employee.
func (s *Service) Register(ctx context.Context, arg domain.CreatePersonParams) (domain.Employee, error) {
	l := zerolog.Ctx(ctx)

	p, err := domain.NewPerson(arg)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Employee{}, err
	}

	return s.repo.Save(ctx, domain.Employee{Person: p})
}

// Get returns employee for the given number.
func (s *Service) Get(ctx context.Context, number int64) (domain.Employee, error) {
	return s.repo.Get(ctx, number)
}

// Find returns the employees matching the criteria.
func (s *Service) Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Employee, error) {
	if err := arg.Validate(); err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		return nil, err
	}

	return s.repo.Find(ctx, arg)
}
