package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCustomerAggregate(t *testing.T) {
	c := Customer{Person: Person{FirstName: "Ada", LastName: "Lovelace"}, Number: 42}
	c.AddContact("1 Main St", "Springfield", "IL", "62701", "ada@example.com")

	require.Equal(t, "Ada Lovelace", c.FullName())
	require.Equal(t, "62701", c.Contact.Zipcode)
	require.NoError(t, c.Contact.Validate())

	require.NoError(t, c.OpenAccount(Account{Owner: 42, Number: 1, Kind: Checking}))
	require.ErrorIs(t, c.OpenAccount(Account{Owner: 41, Number: 2, Kind: Checking}), ErrOwnerMismatch)
	require.Len(t, c.Accounts, 1)

	card := openTestCard(t, "1000")
	card.Owner = 42
	require.NoError(t, c.OpenCreditCard(&card))

	loan := Loan{Service: Service{Owner: 42, Number: 3}}
	require.NoError(t, c.OpenLoan(&loan))

	stranger := Loan{Service: Service{Owner: 7, Number: 4}}
	require.ErrorIs(t, c.OpenLoan(&stranger), ErrOwnerMismatch)

	require.Len(t, c.Services, 2)
	require.Len(t, c.CreditCards(), 1)
	require.Len(t, c.Loans(), 1)
	require.Equal(t, int64(3), c.Loans()[0].Number)
}

func TestCustomerJSON(t *testing.T) {
	c := Customer{Person: Person{FirstName: "Ada", LastName: "Lovelace"}, Number: 42}

	card := openTestCard(t, "1000")
	card.Owner = 42
	require.NoError(t, c.OpenCreditCard(&card))

	loan := Loan{Service: Service{Owner: 42, Number: 3, Balance: dec("12000")}, TermYears: 1}
	require.NoError(t, c.OpenLoan(&loan))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"credit_card"`)
	require.Contains(t, string(data), `"kind":"loan"`)

	var got Customer
	require.NoError(t, json.Unmarshal(data, &got))

	require.Equal(t, "Ada Lovelace", got.FullName())
	require.Equal(t, int64(42), got.Number)
	require.Len(t, got.Services, 2)
	require.Len(t, got.CreditCards(), 1)
	require.Len(t, got.Loans(), 1)
	require.Equal(t, card.Number, got.CreditCards()[0].Number)
	require.True(t, got.CreditCards()[0].CreditLimit.Equal(card.CreditLimit))
	require.Equal(t, card.ExpirationDate, got.CreditCards()[0].ExpirationDate)
	require.Equal(t, 1, got.Loans()[0].TermYears)
	require.True(t, got.Loans()[0].Balance.Equal(loan.Balance))

	err = json.Unmarshal([]byte(`{"number":1,"services":[{"kind":"mortgage","service":{}}]}`), &got)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestContactValidate(t *testing.T) {
	require.NoError(t, Contact{}.Validate())
	require.ErrorIs(t, Contact{State: "Illinois"}.Validate(), ErrInvalidArgument)
	require.ErrorIs(t, Contact{Zipcode: "6270"}.Validate(), ErrInvalidArgument)
	require.ErrorIs(t, Contact{Zipcode: "62701-1234"}.Validate(), ErrInvalidArgument)
}

func TestPersonCriteriaValidate(t *testing.T) {
	require.NoError(t, PersonCriteria{}.Validate())
	require.NoError(t, PersonCriteria{Number: 5}.Validate())
	require.NoError(t, PersonCriteria{FirstName: "a", LastName: "b"}.Validate())
	require.ErrorIs(t, PersonCriteria{FirstName: "a"}.Validate(), ErrInvalidArgument)
	require.ErrorIs(t, PersonCriteria{LastName: "b"}.Validate(), ErrInvalidArgument)
}

func TestNewPerson(t *testing.T) {
	p, err := NewPerson(CreatePersonParams{FirstName: " Grace ", LastName: "Hopper"})
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", p.FullName())

	_, err = NewPerson(CreatePersonParams{FirstName: "Grace"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewPerson(CreatePersonParams{
		FirstName: "Grace",
		LastName:  "Hopper",
		Contact:   Contact{State: "NYC"},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
