// Package loandelivery manages delivery layer of loans.
package loandelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by loan delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package loandelivery
type Service interface {
	Open(ctx context.Context, arg domain.CreateLoanParams) (domain.Loan, error)
	Get(ctx context.Context, number int64) (domain.Loan, error)
	List(ctx context.Context, owner int64) ([]domain.Loan, error)
	Quote(ctx context.Context, number int64, numPayments int) (decimal.Decimal, error)
	Recalculate(ctx context.Context, number int64, numPayments int) (domain.Loan, error)
}

// Handler facilitates loan delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns loan handler.
func NewHandler(ls Service) Handler {
	return Handler{service: ls}
}

type data struct {
	Loan domain.Loan `json:"loan"`
}

type createRequest struct {
	Owner        int64  `json:"owner" binding:"required,min=1"`
	Principal    string `json:"principal" binding:"required"`
	InterestRate string `json:"interest_rate"`
	TermYears    int    `json:"term_years" binding:"min=0,max=50"`
}

// Create handles http request to open loan.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	loan, err := h.service.Open(gctx.Request.Context(), domain.CreateLoanParams{
		Owner:        req.Owner,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		TermYears:    req.TermYears,
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{loan}})
}

type numberRequest struct {
	Number int64 `uri:"number" binding:"required,min=1"`
}

// Get handles http request to get loan.
func (h *Handler) Get(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	loan, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{loan}})
}

type listRequest struct {
	Owner int64 `form:"owner" binding:"required,min=1"`
}

type dataLoans struct {
	Loans []domain.Loan `json:"loans"`
}

// List handles http request to list the loans of a customer.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	loans, err := h.service.List(gctx.Request.Context(), req.Owner)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataLoans{loans}})
}

// paymentsRequest leaves Payments at zero to use the installments left until maturity.
type paymentsRequest struct {
	Payments int `form:"payments" json:"payments" binding:"min=0,max=600"`
}

type dataQuote struct {
	Number         int64           `json:"number"`
	Payments       int             `json:"payments"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// Amortization handles http request to quote the monthly payment for a number of payments.
func (h *Handler) Amortization(gctx *gin.Context) {
	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req paymentsRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	payment, err := h.service.Quote(gctx.Request.Context(), uri.Number, req.Payments)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataQuote{
		Number:         uri.Number,
		Payments:       req.Payments,
		MonthlyPayment: payment,
	}})
}

// Recalculate handles http request to re-amortize the loan balance.
func (h *Handler) Recalculate(gctx *gin.Context) {
	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req paymentsRequest
	if gctx.Request.ContentLength != 0 {
		if err := gctx.ShouldBindJSON(&req); err != nil {
			middleware.RespondBindError(gctx, err)
			return
		}
	}

	loan, err := h.service.Recalculate(gctx.Request.Context(), uri.Number, req.Payments)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{loan}})
}
