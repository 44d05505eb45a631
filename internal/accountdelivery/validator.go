package accountdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidAccountKind validates whether the account kind is supported.
var ValidAccountKind validator.Func = func(fl validator.FieldLevel) bool {
	if k, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseAccountKind(k)
		return err == nil
	}
	return false
}
