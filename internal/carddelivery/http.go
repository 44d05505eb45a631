// Package carddelivery manages delivery layer of credit cards.
package carddelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by credit card delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package carddelivery
type Service interface {
	Open(ctx context.Context, arg domain.CreateCreditCardParams) (domain.CreditCard, error)
	Get(ctx context.Context, number int64) (domain.CreditCard, error)
	List(ctx context.Context, owner int64) ([]domain.CreditCard, error)
	Charge(ctx context.Context, number int64, amount string) (domain.CreditCard, error)
	AdvanceCash(ctx context.Context, number int64, amount string) (domain.CreditCard, error)
	ChargeInterest(ctx context.Context, number int64) (domain.CreditCard, error)
}

// Handler facilitates credit card delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns credit card handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

// cardView adds the derived figures a client needs to the stored card.
type cardView struct {
	domain.CreditCard
	MinimumPayment  string `json:"minimum_payment"`
	AvailableCredit string `json:"available_credit"`
}

func view(c domain.CreditCard) cardView {
	return cardView{
		CreditCard:      c,
		MinimumPayment:  c.MinimumPayment().String(),
		AvailableCredit: c.AvailableCredit().String(),
	}
}

type data struct {
	Card cardView `json:"card"`
}

type createRequest struct {
	Owner            int64  `json:"owner" binding:"required,min=1"`
	InterestRate     string `json:"interest_rate"`
	CreditLimit      string `json:"credit_limit" binding:"required"`
	CashAdvanceLimit string `json:"cash_advance_limit"`
	MinimumPayment   string `json:"minimum_payment"`
}

// Create handles http request to issue credit card.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	card, err := h.service.Open(gctx.Request.Context(), domain.CreateCreditCardParams{
		Owner:            req.Owner,
		InterestRate:     req.InterestRate,
		CreditLimit:      req.CreditLimit,
		CashAdvanceLimit: req.CashAdvanceLimit,
		MinimumPayment:   req.MinimumPayment,
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{view(card)}})
}

type numberRequest struct {
	Number int64 `uri:"number" binding:"required,min=1"`
}

// Get handles http request to get credit card.
func (h *Handler) Get(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	card, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{view(card)}})
}

type listRequest struct {
	Owner int64 `form:"owner" binding:"required,min=1"`
}

type dataCards struct {
	Cards []cardView `json:"cards"`
}

// List handles http request to list the credit cards of a customer.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	cards, err := h.service.List(gctx.Request.Context(), req.Owner)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	views := make([]cardView, len(cards))
	for i := range cards {
		views[i] = view(cards[i])
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataCards{views}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Charge handles http request to record a purchase.
func (h *Handler) Charge(gctx *gin.Context) {
	h.draw(gctx, h.service.Charge)
}

// AdvanceCash handles http request to record a cash advance.
func (h *Handler) AdvanceCash(gctx *gin.Context) {
	h.draw(gctx, h.service.AdvanceCash)
}

func (h *Handler) draw(gctx *gin.Context, op func(ctx context.Context, number int64, amount string) (domain.CreditCard, error)) {
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

	card, err := op(gctx.Request.Context(), uri.Number, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{view(card)}})
}

// ChargeInterest handles http request to add one month of interest to the card.
func (h *Handler) ChargeInterest(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	card, err := h.service.ChargeInterest(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{view(card)}})
}
