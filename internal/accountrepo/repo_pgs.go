// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns account RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns account RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `number, owner, kind, balance, interest_rate`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Owner,
		&a.Kind,
		&a.Balance,
		&a.InterestRate,
	)

	return a, err
}

func mapError(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAccountNotFound
	}

	switch dbpkg.Constraint(err) {
	case "accounts_pkey":
		return domain.ErrAccountNumberTaken
	case "accounts_owner_fkey":
		return domain.ErrCustomerNotFound
	case "accounts_balance_check":
		return domain.ErrInsufficientFunds
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    accounts (number, owner, kind, balance, interest_rate)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING ` + columns

// Create inserts a new account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, createQuery, a.Number, a.Owner, a.Kind, a.Balance, a.InterestRate)

	created, err := scan(row)
	if err != nil {
		return domain.Account{}, mapError(zerolog.Ctx(ctx), err)
	}

	return created, nil
}

const saveQuery = `
INSERT INTO
    accounts (number, owner, kind, balance, interest_rate)
VALUES
    ($1, $2, $3, $4, $5)
ON CONFLICT (number) DO UPDATE
SET balance = EXCLUDED.balance, interest_rate = EXCLUDED.interest_rate
RETURNING ` + columns

// Save inserts the account if it is new and updates its balance and rate otherwise.
func (r *RepoPGS) Save(ctx context.Context, a domain.Account) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, saveQuery, a.Number, a.Owner, a.Kind, a.Balance, a.InterestRate)

	saved, err := scan(row)
	if err != nil {
		return domain.Account{}, mapError(zerolog.Ctx(ctx), err)
	}

	return saved, nil
}

const getQuery = `
SELECT ` + columns + `
FROM accounts
WHERE number = $1
`

// Get returns the account with the given number.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.Account, error) {
	a, err := scan(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		return domain.Account{}, mapError(zerolog.Ctx(ctx), err)
	}

	return a, nil
}

// GetForUpdate returns the account and locks its row until the transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, number int64) (domain.Account, error) {
	a, err := scan(r.db.QueryRowContext(ctx, getQuery+"FOR UPDATE", number))
	if err != nil {
		return domain.Account{}, mapError(zerolog.Ctx(ctx), err)
	}

	return a, nil
}

// Mutate applies fn to the locked account and saves the result in one transaction.
//
// Errors returned by fn are passed through unchanged and nothing is saved.
func (r *RepoPGS) Mutate(ctx context.Context, number int64, fn func(a *domain.Account) error) (domain.Account, error) {
	if r.conn == nil {
		return r.mutate(ctx, number, fn)
	}

	var result domain.Account

	err := dbpkg.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		var err error
		result, err = NewTxRepoPGS(tx).mutate(ctx, number, fn)

		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	return result, nil
}

func (r *RepoPGS) mutate(ctx context.Context, number int64, fn func(a *domain.Account) error) (domain.Account, error) {
	a, err := r.GetForUpdate(ctx, number)
	if err != nil {
		return domain.Account{}, err
	}

	if err := fn(&a); err != nil {
		return domain.Account{}, err
	}

	return r.Save(ctx, a)
}

const listByOwnerQuery = `
SELECT ` + columns + `
FROM accounts
WHERE owner = $1
ORDER BY number
`

// ListByOwner returns the accounts owned by the given customer.
func (r *RepoPGS) ListByOwner(ctx context.Context, owner int64) ([]domain.Account, error) {
	return r.list(ctx, listByOwnerQuery, owner)
}

const listAccruingQuery = `
SELECT ` + columns + `
FROM accounts
WHERE interest_rate > 0
ORDER BY number
`

// ListAccruing returns the accounts that earn interest.
func (r *RepoPGS) ListAccruing(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, listAccruingQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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
