// Package cardrepo manages repository layer of credit cards.
package cardrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates credit card repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns credit card RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns credit card RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `number, owner, balance, interest_rate, open_date,
    credit_limit, cash_advance_limit, minimum_payment_floor, expiration_date`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.CreditCard, error) {
	var (
		c                  domain.CreditCard
		opened, expiration time.Time
	)

	err := row.Scan(
		&c.Number,
		&c.Owner,
		&c.Balance,
		&c.InterestRate,
		&opened,
		&c.CreditLimit,
		&c.CashAdvanceLimit,
		&c.MinimumPaymentFloor,
		&expiration,
	)
	if err != nil {
		return domain.CreditCard{}, err
	}

	c.OpenDate = civil.DateOf(opened)
	c.ExpirationDate = civil.DateOf(expiration)

	return c, nil
}

func mapError(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrServiceNotFound
	}

	switch dbpkg.Constraint(err) {
	case "credit_cards_pkey":
		return domain.ErrAccountNumberTaken
	case "credit_cards_owner_fkey":
		return domain.ErrCustomerNotFound
	case "credit_cards_balance_check":
		return domain.ErrInvalidAmount
	}

	return errorspkg.ErrInternal
}

const insertQuery = `
INSERT INTO
    credit_cards (number, owner, balance, interest_rate, open_date,
        credit_limit, cash_advance_limit, minimum_payment_floor, expiration_date)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const createQuery = insertQuery + `RETURNING ` + columns

// Create inserts a new credit card and then returns it.
func (r *RepoPGS) Create(ctx context.Context, c domain.CreditCard) (domain.CreditCard, error) {
	row := r.db.QueryRowContext(ctx, createQuery, args(c)...)

	created, err := scan(row)
	if err != nil {
		return domain.CreditCard{}, mapError(zerolog.Ctx(ctx), err)
	}

	return created, nil
}

const saveQuery = insertQuery + `ON CONFLICT (number) DO UPDATE
SET balance = EXCLUDED.balance,
    interest_rate = EXCLUDED.interest_rate,
    credit_limit = EXCLUDED.credit_limit,
    cash_advance_limit = EXCLUDED.cash_advance_limit,
    minimum_payment_floor = EXCLUDED.minimum_payment_floor
RETURNING ` + columns

// Save inserts the credit card if it is new and updates its balance and terms otherwise.
func (r *RepoPGS) Save(ctx context.Context, c domain.CreditCard) (domain.CreditCard, error) {
	row := r.db.QueryRowContext(ctx, saveQuery, args(c)...)

	saved, err := scan(row)
	if err != nil {
		return domain.CreditCard{}, mapError(zerolog.Ctx(ctx), err)
	}

	return saved, nil
}

func args(c domain.CreditCard) []any {
	return []any{
		c.Number,
		c.Owner,
		c.Balance,
		c.InterestRate,
		c.OpenDate.In(time.UTC),
		c.CreditLimit,
		c.CashAdvanceLimit,
		c.MinimumPaymentFloor,
		c.ExpirationDate.In(time.UTC),
	}
}

const getQuery = `
SELECT ` + columns + `
FROM credit_cards
WHERE number = $1
`

// Get returns the credit card with the given number.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.CreditCard, error) {
	c, err := scan(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		return domain.CreditCard{}, mapError(zerolog.Ctx(ctx), err)
	}

	return c, nil
}

// GetForUpdate returns the credit card and locks its row until the transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, number int64) (domain.CreditCard, error) {
	c, err := scan(r.db.QueryRowContext(ctx, getQuery+"FOR UPDATE", number))
	if err != nil {
		return domain.CreditCard{}, mapError(zerolog.Ctx(ctx), err)
	}

	return c, nil
}

// Mutate applies fn to the locked credit card and saves the result in one transaction.
//
// Errors returned by fn are passed through unchanged and nothing is saved.
func (r *RepoPGS) Mutate(ctx context.Context, number int64, fn func(c *domain.CreditCard) error) (domain.CreditCard, error) {
	if r.conn == nil {
		return r.mutate(ctx, number, fn)
	}

	var result domain.CreditCard

	err := dbpkg.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		var err error
		result, err = NewTxRepoPGS(tx).mutate(ctx, number, fn)

		return err
	})
	if err != nil {
		return domain.CreditCard{}, err
	}

	return result, nil
}

func (r *RepoPGS) mutate(ctx context.Context, number int64, fn func(c *domain.CreditCard) error) (domain.CreditCard, error) {
	c, err := r.GetForUpdate(ctx, number)
	if err != nil {
		return domain.CreditCard{}, err
	}

	if err := fn(&c); err != nil {
		return domain.CreditCard{}, err
	}

	return r.Save(ctx, c)
}

const listByOwnerQuery = `
SELECT ` + columns + `
FROM credit_cards
WHERE owner = $1
ORDER BY number
`

// ListByOwner returns the credit cards owned by the given customer.
func (r *RepoPGS) ListByOwner(ctx context.Context, owner int64) ([]domain.CreditCard, error) {
	return r.list(ctx, listByOwnerQuery, owner)
}

const listAccruingQuery = `
SELECT ` + columns + `
FROM credit_cards
WHERE interest_rate > 0 AND balance > 0
ORDER BY number
`

// ListAccruing returns the credit cards that carry a balance and charge interest.
func (r *RepoPGS) ListAccruing(ctx context.Context) ([]domain.CreditCard, error) {
	return r.list(ctx, listAccruingQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.CreditCard, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.CreditCard{}

	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
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
