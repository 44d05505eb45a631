// Package domain provides the entities of the ledger and the rules that move their balances.
package domain

import "errors"

var (
	// ErrInvalidArgument indicates malformed construction parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidAmount indicates a negative or malformed money amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the account balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCreditLimitExceeded indicates that a charge would push the card over its credit limit.
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
	// ErrCashAdvanceLimitExceeded indicates that a cash advance would push the card over its cash advance limit.
	ErrCashAdvanceLimitExceeded = errors.New("cash advance limit exceeded")
)

var (
	// ErrCustomerNotFound indicates that the customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrEmployeeNotFound indicates that the employee is not found.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrServiceNotFound indicates that the credit card or loan is not found.
	ErrServiceNotFound = errors.New("service not found")
	// ErrOwnerMismatch indicates that the entity belongs to another customer.
	ErrOwnerMismatch = errors.New("owner mismatch")
	// ErrAccountNumberTaken indicates that the account number is already in use.
	ErrAccountNumberTaken = errors.New("account number already exists")
)
