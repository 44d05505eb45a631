// Package customerrepo manages repository layer of customers.
package customerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates customer repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns customer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `number, first_name, last_name, address, city, state, zipcode, email`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Customer, error) {
	var c domain.Customer

	err := row.Scan(
		&c.Number,
		&c.FirstName,
		&c.LastName,
		&c.Contact.Address,
		&c.Contact.City,
		&c.Contact.State,
		&c.Contact.Zipcode,
		&c.Contact.Email,
	)

	return c, err
}

const insertQuery = `
INSERT INTO
    customers (first_name, last_name, address, city, state, zipcode, email)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + columns

const updateQuery = `
UPDATE customers
SET first_name = $2, last_name = $3, address = $4, city = $5, state = $6, zipcode = $7, email = $8
WHERE number = $1
RETURNING ` + columns

// Save inserts the customer when it has no number yet and updates it otherwise.
//
// The saved customer carries the generated number; owned accounts and services are not touched.
func (r *RepoPGS) Save(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	var row *sql.Row

	if c.Number == 0 {
		row = r.db.QueryRowContext(ctx, insertQuery,
			c.FirstName, c.LastName,
			c.Contact.Address, c.Contact.City, c.Contact.State, c.Contact.Zipcode, c.Contact.Email,
		)
	} else {
		row = r.db.QueryRowContext(ctx, updateQuery, c.Number,
			c.FirstName, c.LastName,
			c.Contact.Address, c.Contact.City, c.Contact.State, c.Contact.Zipcode, c.Contact.Email,
		)
	}

	saved, err := scan(row)
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}

		return domain.Customer{}, errorspkg.ErrInternal
	}

	saved.Accounts, saved.Services = c.Accounts, c.Services

	return saved, nil
}

const getQuery = `
SELECT ` + columns + `
FROM customers
WHERE number = $1
`

// Get returns the customer with the given number without accounts and services.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	c, err := scan(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}

		return domain.Customer{}, errorspkg.ErrInternal
	}

	return c, nil
}

const findQuery = `
SELECT ` + columns + `
FROM customers
WHERE ($1::bigint = 0 OR number = $1::bigint)
  AND ($2::text = '' OR (first_name = $2::text AND last_name = $3::text))
ORDER BY number
`

// Find returns the customers matching the criteria.
func (r *RepoPGS) Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Customer, error) {
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

	items := []domain.Customer{}

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
