package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	stateRe   = regexp.MustCompile(`^[A-Za-z]{2}$`)
	zipcodeRe = regexp.MustCompile(`^[0-9]{5}$`)
)

// Contact holds a person's mailing address and email.
type Contact struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
	Email   string `json:"email"`
}

// Validate checks the postal abbreviation and zipcode formats.
//
// An empty contact is valid.
func (c Contact) Validate() error {
	if c.State != "" && !stateRe.MatchString(c.State) {
		return fmt.Errorf("%w: state must be a 2-letter postal abbreviation", ErrInvalidArgument)
	}

	if c.Zipcode != "" && !zipcodeRe.MatchString(c.Zipcode) {
		return fmt.Errorf("%w: zipcode must be 5 digits", ErrInvalidArgument)
	}

	return nil
}

// Person holds the identity shared by customers and employees.
type Person struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Contact   Contact `json:"contact"`
}

// AddContact replaces the person's contact information.
func (p *Person) AddContact(address, city, state, zipcode, email string) {
	p.Contact = Contact{
		Address: address,
		City:    city,
		State:   state,
		Zipcode: zipcode,
		Email:   email,
	}
}

// FullName returns the first and last name separated by a space.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// CreatePersonParams is the input data to register a customer or an employee.
type CreatePersonParams struct {
	FirstName string
	LastName  string
	Contact   Contact
}

// NewPerson validates arg and returns the person it describes.
func NewPerson(arg CreatePersonParams) (Person, error) {
	if strings.TrimSpace(arg.FirstName) == "" || strings.TrimSpace(arg.LastName) == "" {
		return Person{}, fmt.Errorf("%w: first and last name are required", ErrInvalidArgument)
	}

	if err := arg.Contact.Validate(); err != nil {
		return Person{}, err
	}

	return Person{
		FirstName: strings.TrimSpace(arg.FirstName),
		LastName:  strings.TrimSpace(arg.LastName),
		Contact:   arg.Contact,
	}, nil
}

// Employee is a bank employee.
type Employee struct {
	Person
	Number int64 `json:"number"`
}

// Customer owns deposit accounts and credit services.
//
// Accounts and services refer back to the customer by number only.
type Customer struct {
	Person
	Number   int64           `json:"number"`
	Accounts []Account       `json:"accounts"`
	Services []CreditService `json:"services"`
}

// OpenAccount attaches the account to the customer.
func (c *Customer) OpenAccount(a Account) error {
	if a.Owner != c.Number {
		return ErrOwnerMismatch
	}

	c.Accounts = append(c.Accounts, a)

	return nil
}

// OpenCreditCard attaches the credit card to the customer.
func (c *Customer) OpenCreditCard(card *CreditCard) error {
	return c.attach(card)
}

// OpenLoan attaches the loan to the customer.
func (c *Customer) OpenLoan(loan *Loan) error {
	return c.attach(loan)
}

func (c *Customer) attach(s CreditService) error {
	if s.Base().Owner != c.Number {
		return ErrOwnerMismatch
	}

	c.Services = append(c.Services, s)

	return nil
}

// CreditCards returns the customer's credit cards.
func (c Customer) CreditCards() []*CreditCard {
	var cards []*CreditCard

	for _, s := range c.Services {
		if card, ok := s.(*CreditCard); ok {
			cards = append(cards, card)
		}
	}

	return cards
}

// Loans returns the customer's loans.
func (c Customer) Loans() []*Loan {
	var loans []*Loan

	for _, s := range c.Services {
		if loan, ok := s.(*Loan); ok {
			loans = append(loans, loan)
		}
	}

	return loans
}

// customerFields carries Customer fields without its JSON methods.
type customerFields Customer

// taggedService is a credit service labeled with its kind.
type taggedService struct {
	Kind    ServiceKind     `json:"kind"`
	Service json.RawMessage `json:"service"`
}

// MarshalJSON encodes every credit service as {"kind", "service"}.
func (c Customer) MarshalJSON() ([]byte, error) {
	services := make([]taggedService, 0, len(c.Services))

	for _, s := range c.Services {
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}

		services = append(services, taggedService{Kind: s.Kind(), Service: raw})
	}

	return json.Marshal(struct {
		customerFields
		Services []taggedService `json:"services"`
	}{customerFields(c), services})
}

// UnmarshalJSON rebuilds credit services from their kind.
func (c *Customer) UnmarshalJSON(data []byte) error {
	aux := struct {
		*customerFields
		Services []taggedService `json:"services"`
	}{customerFields: (*customerFields)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.Services = nil

	for _, ts := range aux.Services {
		var s CreditService

		switch ts.Kind {
		case KindCreditCard:
			s = &CreditCard{}
		case KindLoan:
			s = &Loan{}
		default:
			return fmt.Errorf("%w: unknown service kind %q", ErrInvalidArgument, ts.Kind)
		}

		if err := json.Unmarshal(ts.Service, s); err != nil {
			return err
		}

		c.Services = append(c.Services, s)
	}

	return nil
}

// PersonCriteria selects customers or employees by number or by full name.
//
// The zero value selects everyone.
type PersonCriteria struct {
	Number    int64
	FirstName string
	LastName  string
}

// Validate rejects a criteria naming only one half of a full name.
func (c PersonCriteria) Validate() error {
	if c.Number != 0 {
		return nil
	}

	if (c.FirstName == "") != (c.LastName == "") {
		return fmt.Errorf("%w: specify no criteria, a number, or both first and last name", ErrInvalidArgument)
	}

	return nil
}
