// Package paymentservice manages business logic layer of payments to credit services.
package paymentservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by payment service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package paymentservice
type Repo interface {
	Pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentResult, error)
	ListByService(ctx context.Context, kind domain.ServiceKind, number int64) ([]domain.Payment, error)
}

// Service facilitates payment service layer logic.
type Service struct {
	repo Repo
}

// New returns payment service struct to manage payment bussines logic.
func New(pr Repo) *Service {
	return &Service{repo: pr}
}

func parseKind(kind string) (domain.ServiceKind, error) {
	k := domain.ServiceKind(kind)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown service kind %q", domain.ErrInvalidArgument, kind)
	}

	return k, nil
}

// Pay moves amount from the account to the credit card or loan.
//
// Anything above the service balance stays in the account; the result reports the amount taken.
func (s *Service) Pay(ctx context.Context, accountNumber, serviceNumber int64, kind, amount string) (domain.PaymentResult, error) {
	l := zerolog.Ctx(ctx)

	k, err := parseKind(kind)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.PaymentResult{}, err
	}

	value, err := domain.ParseAmount(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.PaymentResult{}, err
	}

	result, err := s.repo.Pay(ctx, domain.CreatePaymentParams{
		AccountNumber: accountNumber,
		ServiceNumber: serviceNumber,
		ServiceKind:   k,
		Amount:        value,
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	return result, nil
}

// List returns the payments made to the given credit card or loan.
func (s *Service) List(ctx context.Context, kind string, serviceNumber int64) ([]domain.Payment, error) {
	k, err := parseKind(kind)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		return nil, err
	}

	return s.repo.ListByService(ctx, k, serviceNumber)
}
