// Package paymentrepo manages repository layer of payments.
package paymentrepo

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/cardrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/loanrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates payment repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns payment RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns payment RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, account_number, service_number, service_kind, amount, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Payment, error) {
	var p domain.Payment

	err := row.Scan(
		&p.ID,
		&p.AccountNumber,
		&p.ServiceNumber,
		&p.ServiceKind,
		&p.Amount,
		&p.CreatedAt,
	)

	return p, err
}

const createQuery = `
INSERT INTO
    payments (account_number, service_number, service_kind, amount)
VALUES
    ($1, $2, $3, $4)
RETURNING ` + columns

// Create records the payment and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreatePaymentParams) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.AccountNumber, arg.ServiceNumber, arg.ServiceKind, arg.Amount)

	p, err := scan(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		switch dbpkg.Constraint(err) {
		case "payments_account_number_fkey":
			return domain.Payment{}, domain.ErrAccountNotFound
		case "payments_amount_check":
			return domain.Payment{}, domain.ErrInvalidAmount
		}

		return domain.Payment{}, errorspkg.ErrInternal
	}

	return p, nil
}

// Pay moves arg.Amount from the account to the credit service in one transaction.
//
// The account row is locked before the service row. The recorded payment
// carries the amount actually taken, which never exceeds the service balance.
func (r *RepoPGS) Pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentResult, error) {
	if r.conn == nil {
		return r.pay(ctx, arg)
	}

	var result domain.PaymentResult

	err := dbpkg.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		var err error
		result, err = NewTxRepoPGS(tx).pay(ctx, arg)

		return err
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	return result, nil
}

func (r *RepoPGS) pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentResult, error) {
	accounts := accountrepo.NewTxRepoPGS(r.db)

	account, err := accounts.GetForUpdate(ctx, arg.AccountNumber)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	var (
		before  = account.Balance
		balance decimal.Decimal
	)

	switch arg.ServiceKind {
	case domain.KindCreditCard:
		balance, err = payCard(ctx, cardrepo.NewTxRepoPGS(r.db), arg, &account)
	case domain.KindLoan:
		balance, err = payLoan(ctx, loanrepo.NewTxRepoPGS(r.db), arg, &account)
	default:
		err = domain.ErrInvalidArgument
	}

	if err != nil {
		return domain.PaymentResult{}, err
	}

	account, err = accounts.Save(ctx, account)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	payment, err := r.Create(ctx, domain.CreatePaymentParams{
		AccountNumber: arg.AccountNumber,
		ServiceNumber: arg.ServiceNumber,
		ServiceKind:   arg.ServiceKind,
		Amount:        before.Sub(account.Balance),
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	return domain.PaymentResult{
		Payment:        payment,
		Account:        account,
		ServiceBalance: balance,
	}, nil
}

func payCard(ctx context.Context, cards *cardrepo.RepoPGS, arg domain.CreatePaymentParams, account *domain.Account) (decimal.Decimal, error) {
	card, err := cards.GetForUpdate(ctx, arg.ServiceNumber)
	if err != nil {
		return decimal.Zero, err
	}

	if err := settle(&card, arg.Amount, account); err != nil {
		return decimal.Zero, err
	}

	card, err = cards.Save(ctx, card)
	if err != nil {
		return decimal.Zero, err
	}

	return card.Balance, nil
}

func payLoan(ctx context.Context, loans *loanrepo.RepoPGS, arg domain.CreatePaymentParams, account *domain.Account) (decimal.Decimal, error) {
	loan, err := loans.GetForUpdate(ctx, arg.ServiceNumber)
	if err != nil {
		return decimal.Zero, err
	}

	if err := settle(&loan, arg.Amount, account); err != nil {
		return decimal.Zero, err
	}

	loan, err = loans.Save(ctx, loan)
	if err != nil {
		return decimal.Zero, err
	}

	return loan.Balance, nil
}

func settle(svc domain.CreditService, amount decimal.Decimal, account *domain.Account) error {
	base := svc.Base()

	if base.Owner != account.Owner {
		return domain.ErrOwnerMismatch
	}

	_, err := base.MakePayment(amount, account)

	return err
}

const listByServiceQuery = `
SELECT ` + columns + `
FROM payments
WHERE service_kind = $1 AND service_number = $2
ORDER BY id
`

// ListByService returns the payments made to the given credit service.
func (r *RepoPGS) ListByService(ctx context.Context, kind domain.ServiceKind, number int64) ([]domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByServiceQuery, kind, number)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Payment{}

	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, p)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
