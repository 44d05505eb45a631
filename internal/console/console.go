// Package console implements the interactive teller session for a single customer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// CustomerService finds, registers and loads customers.
//
//go:generate mockgen -source console.go -destination console_mock.go -package console
type CustomerService interface {
	Register(ctx context.Context, arg domain.CreatePersonParams) (domain.Customer, error)
	Get(ctx context.Context, number int64) (domain.Customer, error)
	Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Customer, error)
}

// AccountService opens deposit accounts.
type AccountService interface {
	Open(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
}

// CardService issues credit cards.
type CardService interface {
	Open(ctx context.Context, arg domain.CreateCreditCardParams) (domain.CreditCard, error)
}

// LoanService opens loans.
type LoanService interface {
	Open(ctx context.Context, arg domain.CreateLoanParams) (domain.Loan, error)
}

// PaymentService pays credit services from accounts.
type PaymentService interface {
	Pay(ctx context.Context, accountNumber, serviceNumber int64, kind, amount string) (domain.PaymentResult, error)
}

// Services groups the application services used by the console.
type Services struct {
	Customers CustomerService
	Accounts  AccountService
	Cards     CardService
	Loans     LoanService
	Payments  PaymentService
}

// Choice is a menu entry.
type Choice int

// Menu entries.
const (
	Exit Choice = iota
	ViewAccounts
	OpenAccount
	OpenCreditCard
	OpenLoan
	MakePayment
)

var menu = []struct {
	choice Choice
	label  string
}{
	{ViewAccounts, "See my existing accounts and services"},
	{OpenAccount, "Open a new account"},
	{OpenCreditCard, "Open a new credit card"},
	{OpenLoan, "Open a new loan"},
	{MakePayment, "Make a payment"},
	{Exit, "Exit"},
}

// Console talks to one customer over in and out.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	services Services
	customer domain.Customer
	actions  map[Choice]func(ctx context.Context) error
}

// New returns console reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer, s Services) *Console {
	c := &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		services: s,
	}

	c.actions = map[Choice]func(ctx context.Context) error{
		ViewAccounts:   c.viewAccounts,
		OpenAccount:    c.openAccount,
		OpenCreditCard: c.openCreditCard,
		OpenLoan:       c.openLoan,
		MakePayment:    c.makePayment,
	}

	return c
}

// Run identifies the customer and serves menu choices until Exit or end of input.
func (c *Console) Run(ctx context.Context) error {
	if err := c.identify(ctx); err != nil {
		return ignoreEOF(err)
	}

	for {
		c.println("What would you like to do?")

		for _, item := range menu {
			c.printf("%d. %s\n", item.choice, item.label)
		}

		line, err := c.ask(">>")
		if err != nil {
			return ignoreEOF(err)
		}

		n, err := strconv.Atoi(line)
		if err == nil && Choice(n) == Exit {
			c.println("Pleasure doing business with you. Goodbye!")
			return nil
		}

		action, ok := c.actions[Choice(n)]
		if err != nil || !ok {
			c.println("Sorry, that isn't one of the choices, please try again.")
			continue
		}

		if err := action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			zerolog.Ctx(ctx).Info().Err(err).Int("choice", n).Send()
			c.printf("Sorry, that didn't work: %v\n", err)
		}
	}
}

func (c *Console) identify(ctx context.Context) error {
	first, err := c.ask("What is your first name?")
	if err != nil {
		return err
	}

	last, err := c.ask("What is your last name?")
	if err != nil {
		return err
	}

	found, err := c.services.Customers.Find(ctx, domain.PersonCriteria{FirstName: first, LastName: last})
	if err != nil {
		return err
	}

	if len(found) > 0 {
		c.customer = found[0]
		c.printf("Welcome back, %s!\n", first)

		return nil
	}

	c.println("I didn't find you, let's set you up.")

	for {
		contact, err := c.askContact()
		if err != nil {
			return err
		}

		customer, err := c.services.Customers.Register(ctx, domain.CreatePersonParams{
			FirstName: first,
			LastName:  last,
			Contact:   contact,
		})
		if errors.Is(err, domain.ErrInvalidArgument) {
			c.printf("Sorry, %v. Let's try again.\n", err)
			continue
		}

		if err != nil {
			return err
		}

		c.customer = customer
		c.printf("Thanks %s! You're all set up, your customer number is %d\n", first, customer.Number)

		return nil
	}
}

func (c *Console) askContact() (domain.Contact, error) {
	var (
		contact domain.Contact
		err     error
	)

	questions := []struct {
		prompt string
		dst    *string
	}{
		{"What is your street address?", &contact.Address},
		{"What city do you live in?", &contact.City},
		{"What state do you live in (2-letter postal abbreviation please)?", &contact.State},
		{"What is your zipcode (5 numbers only please)?", &contact.Zipcode},
		{"And finally, what is your email?", &contact.Email},
	}

	for _, q := range questions {
		if *q.dst, err = c.ask(q.prompt); err != nil {
			return domain.Contact{}, err
		}
	}

	return contact, nil
}

func (c *Console) viewAccounts(ctx context.Context) error {
	customer, err := c.services.Customers.Get(ctx, c.customer.Number)
	if err != nil {
		return err
	}

	c.customer = customer

	header := fmt.Sprintf("Accounts for %s:", customer.FullName())
	deco := strings.Repeat("=", len(header))

	c.println(deco)
	c.println(header)
	c.println(deco)

	if len(customer.Accounts) == 0 {
		c.println("No checking or savings accounts on file")
	}

	for _, a := range customer.Accounts {
		c.printf("%s account %d: balance %s, interest rate %s%%\n",
			a.Kind, a.Number, a.Balance.StringFixed(2), a.InterestRate)
	}

	c.println(deco)

	if len(customer.Services) == 0 {
		c.println("No credit cards or loans on file")
	}

	for _, card := range customer.CreditCards() {
		c.printf("Credit card %d: balance %s of %s limit, minimum payment %s, expires %s\n",
			card.Number, card.Balance.StringFixed(2), card.CreditLimit.StringFixed(2),
			card.MinimumPayment().StringFixed(2), card.ExpirationDate)
	}

	for _, loan := range customer.Loans() {
		c.printf("Loan %d: balance %s, monthly payment %s, matures %s\n",
			loan.Number, loan.Balance.StringFixed(2), loan.MonthlyPayment.StringFixed(2), loan.MaturityDate)
	}

	return nil
}

func (c *Console) openAccount(ctx context.Context) error {
	c.println("Which type of account are you opening today?")

	var kind domain.AccountKind

	for kind == "" {
		c.println("C. Checking")
		c.println("S. Savings")

		answer, err := c.ask(">>")
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "c":
			kind = domain.Checking
		case "s":
			kind = domain.Savings
		default:
			c.println("Please type either C for Checking or S for Savings.")
		}
	}

	var rate string

	if kind == domain.Savings {
		var err error
		if rate, err = c.ask("What annual interest rate (percent) does this account earn?"); err != nil {
			return err
		}
	}

	deposit, err := c.ask("How much would you like to deposit to open this account? >>")
	if err != nil {
		return err
	}

	account, err := c.services.Accounts.Open(ctx, domain.CreateAccountParams{
		Owner:          c.customer.Number,
		Kind:           string(kind),
		InterestRate:   rate,
		InitialDeposit: deposit,
	})
	if err != nil {
		return err
	}

	c.printf("Account opened successfully: %s account %d with balance %s\n",
		account.Kind, account.Number, account.Balance.StringFixed(2))

	return nil
}

func (c *Console) openCreditCard(ctx context.Context) error {
	limit, err := c.ask("What credit limit are you requesting?")
	if err != nil {
		return err
	}

	rate, err := c.ask("What is the annual interest rate (percent)?")
	if err != nil {
		return err
	}

	card, err := c.services.Cards.Open(ctx, domain.CreateCreditCardParams{
		Owner:        c.customer.Number,
		InterestRate: rate,
		CreditLimit:  limit,
	})
	if err != nil {
		return err
	}

	c.printf("Credit card issued successfully: %d with %s limit, expires %s\n",
		card.Number, card.CreditLimit.StringFixed(2), card.ExpirationDate)

	return nil
}

func (c *Console) openLoan(ctx context.Context) error {
	principal, err := c.ask("How much would you like to borrow?")
	if err != nil {
		return err
	}

	rate, err := c.ask("What is the annual interest rate (percent)?")
	if err != nil {
		return err
	}

	answer, err := c.ask(fmt.Sprintf("For how many years (blank for %d)?", domain.DefaultLoanTerm))
	if err != nil {
		return err
	}

	var years int

	if answer != "" {
		if years, err = strconv.Atoi(answer); err != nil {
			return fmt.Errorf("%w: %q is not a number of years", domain.ErrInvalidArgument, answer)
		}
	}

	loan, err := c.services.Loans.Open(ctx, domain.CreateLoanParams{
		Owner:        c.customer.Number,
		Principal:    principal,
		InterestRate: rate,
		TermYears:    years,
	})
	if err != nil {
		return err
	}

	c.printf("Loan opened successfully: %d, monthly payment %s until %s\n",
		loan.Number, loan.MonthlyPayment.StringFixed(2), loan.MaturityDate)

	return nil
}

func (c *Console) makePayment(ctx context.Context) error {
	accountNumber, err := c.askNumber("Which account number are you paying from?")
	if err != nil {
		return err
	}

	var kind domain.ServiceKind

	for kind == "" {
		c.println("C. Credit card")
		c.println("L. Loan")

		answer, err := c.ask("What are you paying? >>")
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "c":
			kind = domain.KindCreditCard
		case "l":
			kind = domain.KindLoan
		default:
			c.println("Please type either C for Credit card or L for Loan.")
		}
	}

	serviceNumber, err := c.askNumber("What is its number?")
	if err != nil {
		return err
	}

	amount, err := c.ask("How much would you like to pay?")
	if err != nil {
		return err
	}

	res, err := c.services.Payments.Pay(ctx, accountNumber, serviceNumber, string(kind), amount)
	if err != nil {
		return err
	}

	c.printf("Paid %s. Account balance is now %s, remaining balance is %s\n",
		res.Payment.Amount.StringFixed(2), res.Account.Balance.StringFixed(2), res.ServiceBalance.StringFixed(2))

	if asked, err := decimal.NewFromString(amount); err == nil && res.Payment.Amount.LessThan(asked) {
		c.println("Only the outstanding balance was taken from your account.")
	}

	return nil
}

func (c *Console) askNumber(prompt string) (int64, error) {
	answer, err := c.ask(prompt)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidArgument, answer)
	}

	return n, nil
}

func (c *Console) ask(prompt string) (string, error) {
	c.printf("%s ", prompt)

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
