// Package employeerepo manages repository layer of employees.
package employeerepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates employee repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns employee RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `number, first_name, last_name, address, city, state, zipcode, email`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Employee, error) {
	var e domain.Employee

	err := row.Scan(
		&e.Number,
		&e.FirstName,
		&e.LastName,
		&e.Contact.Address,
		&e.Contact.City,
		&e.Contact.State,
		&e.Contact.Zipcode,
		&e.Contact.Email,
	)

	return e, err
}

const insertQuery = `
INSERT INTO
    employees (first_name, last_name, address, city, state, zipcode, email)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + columns

const updateQuery = `
UPDATE employees
SET first_name = $2, last_name = $3, address = $4, city = $5, state = $6, zipcode = $7, email = $8
WHERE number = $1
RETURNING ` + columns

// Save inserts the employee when it has no number yet and updates it otherwise.
func (r *RepoPGS) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	l := zerolog.Ctx(ctx)

	var row *sql.Row

	if e.Number == 0 {
		row = r.db.QueryRowContext(ctx, insertQuery,
			e.FirstName, e.LastName,
			e.Contact.Address, e.Contact.City, e.Contact.State, e.Contact.Zipcode, e.Contact.Email,
		)
	} else {
		row = r.db.QueryRowContext(ctx, updateQuery, e.Number,
			e.FirstName, e.LastName,
			e.Contact.Address, e.Contact.City, e.Contact.State, e.Contact.Zipcode, e.Contact.Email,
		)
	}

	saved, err := scan(row)
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return domain.Employee{}, domain.ErrEmployeeNotFound
		}

		return domain.Employee{}, errorspkg.ErrInternal
	}

	return saved, nil
}

const getQuery = `
SELECT ` + columns + `
FROM employees
WHERE number = $1
`

// Get returns the employee with the given number.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.Employee, error) {
	l := zerolog.Ctx(ctx)

	e, err := scan(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return domain.Employee{}, domain.ErrEmployeeNotFound
		}

		return domain.Employee{}, errorspkg.ErrInternal
	}

	return e, nil
}

const findQuery = `
SELECT ` + columns + `
FROM employees
WHERE ($1::bigint = 0 OR number = $1::bigint)
  AND ($2::text = '' OR (first_name = $2::text AND last_name = $3::text))
ORDER BY number
`

// Find returns the employees matching the criteria.
func (r *RepoPGS) Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Employee, error) {
	l := zerolog.Ctx(ctx)

	if err := arg.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, findQuery, arg.Number, arg.FirstName, arg.LastName)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Employee{}

	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
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
