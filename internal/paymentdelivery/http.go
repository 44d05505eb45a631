// Package paymentdelivery manages delivery layer of payments.
package paymentdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by payment delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package paymentdelivery
type Service interface {
	Pay(ctx context.Context, accountNumber, serviceNumber int64, kind, amount string) (domain.PaymentResult, error)
	List(ctx context.Context, kind string, serviceNumber int64) ([]domain.Payment, error)
}

// Handler facilitates payment delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns payment handler.
func NewHandler(ps Service) Handler {
	return Handler{service: ps}
}

type createRequest struct {
	AccountNumber int64  `json:"account_number" binding:"required,min=1"`
	ServiceNumber int64  `json:"service_number" binding:"required,min=1"`
	ServiceKind   string `json:"service_kind" binding:"required,oneof=credit_card loan"`
	Amount        string `json:"amount" binding:"required"`
}

// Create handles http request to pay a credit card or loan from an account.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	result, err := h.service.Pay(gctx.Request.Context(), req.AccountNumber, req.ServiceNumber, req.ServiceKind, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: result})
}

type listRequest struct {
	ServiceKind   string `form:"service_kind" binding:"required,oneof=credit_card loan"`
	ServiceNumber int64  `form:"service_number" binding:"required,min=1"`
}

type dataPayments struct {
	Payments []domain.Payment `json:"payments"`
}

// List handles http request to list the payments made to a credit card or loan.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	payments, err := h.service.List(gctx.Request.Context(), req.ServiceKind, req.ServiceNumber)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataPayments{payments}})
}
