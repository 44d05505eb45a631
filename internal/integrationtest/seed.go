package integrationtest

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/cardrepo"
	"github.com/go-petr/pet-ledger/internal/customerrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/loanrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// SeedCustomer creates random Customer inside a test transaction.
func SeedCustomer(t *testing.T, tx dbpkg.SQLInterface) domain.Customer {
	t.Helper()

	c := domain.Customer{
		Person: domain.Person{
			FirstName: randompkg.Name(),
			LastName:  randompkg.Name(),
		},
	}
	c.AddContact(randompkg.String(12), randompkg.Name(), "NY", randompkg.Zipcode(), randompkg.Email())

	customer, err := customerrepo.NewRepoPGS(tx).Save(context.Background(), c)
	if err != nil {
		t.Fatalf("customerRepo.Save(context.Background(), %+v) returned error: %v", c, err)
	}

	return customer
}

// SeedAccount creates checking Account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, owner int64, balance string) domain.Account {
	t.Helper()

	a, err := domain.OpenAccount(owner, randompkg.AccountNumber(), domain.Checking, decimal.Zero)
	if err != nil {
		t.Fatalf("domain.OpenAccount returned error: %v", err)
	}

	a.Balance = decimal.RequireFromString(balance)

	account, err := accountrepo.NewTxRepoPGS(tx).Create(context.Background(), a)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", a, err)
	}

	return account
}

// SeedCreditCard creates CreditCard with a 1000 limit and the given balance inside a test transaction.
func SeedCreditCard(t *testing.T, tx dbpkg.SQLInterface, owner int64, balance string) domain.CreditCard {
	t.Helper()

	c, err := domain.OpenCreditCard(domain.CreditCardParams{
		Owner:            owner,
		Number:           randompkg.AccountNumber(),
		InterestRate:     decimal.NewFromInt(18),
		CreditLimit:      decimal.NewFromInt(1000),
		CashAdvanceLimit: decimal.NewFromInt(200),
		OpenDate:         civil.Date{Year: 2021, Month: 3, Day: 15},
		Balance:          decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("domain.OpenCreditCard returned error: %v", err)
	}

	card, err := cardrepo.NewTxRepoPGS(tx).Create(context.Background(), c)
	if err != nil {
		t.Fatalf("cardRepo.Create(context.Background(), %+v) returned error: %v", c, err)
	}

	return card
}

// SeedLoan creates 30 year Loan with the given balance inside a test transaction.
func SeedLoan(t *testing.T, tx dbpkg.SQLInterface, owner int64, balance string) domain.Loan {
	t.Helper()

	l, err := domain.OpenLoan(domain.LoanParams{
		Owner:        owner,
		Number:       randompkg.AccountNumber(),
		Balance:      decimal.RequireFromString(balance),
		InterestRate: decimal.NewFromInt(7),
		OpenDate:     civil.Date{Year: 2021, Month: 3, Day: 15},
	})
	if err != nil {
		t.Fatalf("domain.OpenLoan returned error: %v", err)
	}

	loan, err := loanrepo.NewTxRepoPGS(tx).Create(context.Background(), l)
	if err != nil {
		t.Fatalf("loanRepo.Create(context.Background(), %+v) returned error: %v", l, err)
	}

	return loan
}
