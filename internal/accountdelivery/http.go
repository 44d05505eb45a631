// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, number int64) (domain.Account, error)
	List(ctx context.Context, owner int64) ([]domain.Account, error)
	Deposit(ctx context.Context, number int64, amount string) (domain.Account, error)
	Withdraw(ctx context.Context, number int64, amount string) (domain.Account, error)
	PayInterest(ctx context.Context, number int64) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type createRequest struct {
	Owner          int64  `json:"owner" binding:"required,min=1"`
	Kind           string `json:"kind" binding:"required,accountkind"`
	InterestRate   string `json:"interest_rate"`
	InitialDeposit string `json:"initial_deposit"`
}

// Create handles http request to open account.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := h.service.Open(gctx.Request.Context(), domain.CreateAccountParams{
		Owner:          req.Owner,
		Kind:           req.Kind,
		InterestRate:   req.InterestRate,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{account}})
}

type numberRequest struct {
	Number int64 `uri:"number" binding:"required,min=1"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

type listRequest struct {
	Owner int64 `form:"owner" binding:"required,min=1"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

// List handles http request to list the accounts of a customer.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	accounts, err := h.service.List(gctx.Request.Context(), req.Owner)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataAccounts{accounts}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Deposit handles http request to deposit money into account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.move(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.move(gctx, h.service.Withdraw)
}

func (h *Handler) move(gctx *gin.Context, op func(ctx context.Context, number int64, amount string) (domain.Account, error)) {
	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := op(gctx.Request.Context(), uri.Number, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

// PayInterest handles http request to credit one month of interest to account.
func (h *Handler) PayInterest(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := h.service.PayInterest(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}
