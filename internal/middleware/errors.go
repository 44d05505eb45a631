package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// StatusCode maps a service layer error to the HTTP status reported to the client.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrOwnerMismatch),
		errors.Is(err, domain.ErrAccountNumberTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCreditLimitExceeded),
		errors.Is(err, domain.ErrCashAdvanceLimitExceeded):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// RespondError writes err in the response envelope with the matching status code.
//
// Unknown errors are reported as errorspkg.ErrInternal.
func RespondError(gctx *gin.Context, err error) {
	code := StatusCode(err)

	if code == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		gctx.JSON(code, web.Error(errorspkg.ErrInternal))

		return
	}

	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(code, web.Error(err))
}

// RespondBindError writes a 400 response describing the first failed validation.
func RespondBindError(gctx *gin.Context, err error) {
	var (
		ve     validator.ValidationErrors
		errMsg string
	)

	if errors.As(err, &ve) {
		field := ve[0]
		errMsg = field.Field() + web.GetErrorMsg(field)
	} else {
		errMsg = "malformed request"
	}

	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})
}
