// Package loanrepo manages repository layer of loans.
package loanrepo

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

// RepoPGS facilitates loan repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns loan RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns loan RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `number, owner, balance, interest_rate, open_date,
    term_years, maturity_date, monthly_payment`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Loan, error) {
	var (
		loan             domain.Loan
		opened, maturity time.Time
	)

	err := row.Scan(
		&loan.Number,
		&loan.Owner,
		&loan.Balance,
		&loan.InterestRate,
		&opened,
		&loan.TermYears,
		&maturity,
		&loan.MonthlyPayment,
	)
	if err != nil {
		return domain.Loan{}, err
	}

	loan.OpenDate = civil.DateOf(opened)
	loan.MaturityDate = civil.DateOf(maturity)

	return loan, nil
}

func mapError(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrServiceNotFound
	}

	switch dbpkg.Constraint(err) {
	case "loans_pkey":
		return domain.ErrAccountNumberTaken
	case "loans_owner_fkey":
		return domain.ErrCustomerNotFound
	case "loans_balance_check":
		return domain.ErrInvalidAmount
	}

	return errorspkg.ErrInternal
}

const insertQuery = `
INSERT INTO
    loans (number, owner, balance, interest_rate, open_date,
        term_years, maturity_date, monthly_payment)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
`

const createQuery = insertQuery + `RETURNING ` + columns

// Create inserts a new loan and then returns it.
func (r *RepoPGS) Create(ctx context.Context, l domain.Loan) (domain.Loan, error) {
	row := r.db.QueryRowContext(ctx, createQuery, args(l)...)

	created, err := scan(row)
	if err != nil {
		return domain.Loan{}, mapError(zerolog.Ctx(ctx), err)
	}

	return created, nil
}

const saveQuery = insertQuery + `ON CONFLICT (number) DO UPDATE
SET balance = EXCLUDED.balance,
    interest_rate = EXCLUDED.interest_rate,
    monthly_payment = EXCLUDED.monthly_payment
RETURNING ` + columns

// Save inserts the loan if it is new and updates its balance and terms otherwise.
func (r *RepoPGS) Save(ctx context.Context, l domain.Loan) (domain.Loan, error) {
	row := r.db.QueryRowContext(ctx, saveQuery, args(l)...)

	saved, err := scan(row)
	if err != nil {
		return domain.Loan{}, mapError(zerolog.Ctx(ctx), err)
	}

	return saved, nil
}

func args(l domain.Loan) []any {
	return []any{
		l.Number,
		l.Owner,
		l.Balance,
		l.InterestRate,
		l.OpenDate.In(time.UTC),
		l.TermYears,
		l.MaturityDate.In(time.UTC),
		l.MonthlyPayment,
	}
}

const getQuery = `
SELECT ` + columns + `
FROM loans
WHERE number = $1
`

// Get returns the loan with the given number.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.Loan, error) {
	loan, err := scan(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		return domain.Loan{}, mapError(zerolog.Ctx(ctx), err)
	}

	return loan, nil
}

// GetForUpdate returns the loan and locks its row until the transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, number int64) (domain.Loan, error) {
	loan, err := scan(r.db.QueryRowContext(ctx, getQuery+"FOR UPDATE", number))
	if err != nil {
		return domain.Loan{}, mapError(zerolog.Ctx(ctx), err)
	}

	return loan, nil
}

// Mutate applies fn to the locked loan and saves the result in one transaction.
//
// Errors returned by fn are passed through unchanged and nothing is saved.
func (r *RepoPGS) Mutate(ctx context.Context, number int64, fn func(l *domain.Loan) error) (domain.Loan, error) {
	if r.conn == nil {
		return r.mutate(ctx, number, fn)
	}

	var result domain.Loan

	err := dbpkg.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		var err error
		result, err = NewTxRepoPGS(tx).mutate(ctx, number, fn)

		return err
	})
	if err != nil {
		return domain.Loan{}, err
	}

	return result, nil
}

func (r *RepoPGS) mutate(ctx context.Context, number int64, fn func(l *domain.Loan) error) (domain.Loan, error) {
	loan, err := r.GetForUpdate(ctx, number)
	if err != nil {
		return domain.Loan{}, err
	}

	if err := fn(&loan); err != nil {
		return domain.Loan{}, err
	}

	return r.Save(ctx, loan)
}

const listByOwnerQuery = `
SELECT ` + columns + `
FROM loans
WHERE owner = $1
ORDER BY number
`

// ListByOwner returns the loans owned by the given customer.
func (r *RepoPGS) ListByOwner(ctx context.Context, owner int64) ([]domain.Loan, error) {
	return r.list(ctx, listByOwnerQuery, owner)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Loan{}

	for rows.Next() {
		loan, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, loan)
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
