package dbpkg

import (
	"context"
)

// Schema creates every table of the ledger if it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
    number     BIGSERIAL PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    address    TEXT NOT NULL DEFAULT '',
    city       TEXT NOT NULL DEFAULT '',
    state      VARCHAR(2) NOT NULL DEFAULT '',
    zipcode    VARCHAR(5) NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS customers_name_idx ON customers (first_name, last_name);

CREATE TABLE IF NOT EXISTS employees (
    number     BIGSERIAL PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    address    TEXT NOT NULL DEFAULT '',
    city       TEXT NOT NULL DEFAULT '',
    state      VARCHAR(2) NOT NULL DEFAULT '',
    zipcode    VARCHAR(5) NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS employees_name_idx ON employees (first_name, last_name);

CREATE TABLE IF NOT EXISTS accounts (
    number        BIGINT PRIMARY KEY,
    owner         BIGINT NOT NULL REFERENCES customers (number),
    kind          TEXT NOT NULL CHECK (kind IN ('checking', 'savings')),
    balance       NUMERIC(19, 4) NOT NULL DEFAULT 0 CONSTRAINT accounts_balance_check CHECK (balance >= 0),
    interest_rate NUMERIC(9, 4) NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS accounts_owner_idx ON accounts (owner);

CREATE TABLE IF NOT EXISTS credit_cards (
    number                BIGINT PRIMARY KEY,
    owner                 BIGINT NOT NULL REFERENCES customers (number),
    balance               NUMERIC(19, 4) NOT NULL DEFAULT 0 CONSTRAINT credit_cards_balance_check CHECK (balance >= 0),
    interest_rate         NUMERIC(9, 4) NOT NULL,
    open_date             DATE NOT NULL,
    credit_limit          NUMERIC(19, 4) NOT NULL,
    cash_advance_limit    NUMERIC(19, 4) NOT NULL,
    minimum_payment_floor NUMERIC(19, 4) NOT NULL,
    expiration_date       DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS credit_cards_owner_idx ON credit_cards (owner);

CREATE TABLE IF NOT EXISTS loans (
    number          BIGINT PRIMARY KEY,
    owner           BIGINT NOT NULL REFERENCES customers (number),
    balance         NUMERIC(19, 4) NOT NULL DEFAULT 0 CONSTRAINT loans_balance_check CHECK (balance >= 0),
    interest_rate   NUMERIC(9, 4) NOT NULL,
    open_date       DATE NOT NULL,
    term_years      INTEGER NOT NULL,
    maturity_date   DATE NOT NULL,
    monthly_payment NUMERIC(19, 4) NOT NULL
);

CREATE INDEX IF NOT EXISTS loans_owner_idx ON loans (owner);

CREATE TABLE IF NOT EXISTS payments (
    id             BIGSERIAL PRIMARY KEY,
    account_number BIGINT NOT NULL REFERENCES accounts (number),
    service_number BIGINT NOT NULL,
    service_kind   TEXT NOT NULL CHECK (service_kind IN ('credit_card', 'loan')),
    amount         NUMERIC(19, 4) NOT NULL CONSTRAINT payments_amount_check CHECK (amount >= 0),
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS payments_service_idx ON payments (service_kind, service_number);
`

// Migrate applies Schema to the database.
func Migrate(ctx context.Context, db SQLInterface) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
