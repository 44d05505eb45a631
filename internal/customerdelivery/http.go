// Package customerdelivery manages delivery layer of customers.
package customerdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by customer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package customerdelivery
type Service interface {
	Register(ctx context.Context, arg domain.CreatePersonParams) (domain.Customer, error)
	Get(ctx context.Context, number int64) (domain.Customer, error)
	Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Customer, error)
	UpdateContact(ctx context.Context, number int64, contact domain.Contact) (domain.Customer, error)
}

// Handler facilitates customer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns customer handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

// customerView splits the customer's services by kind.
type customerView struct {
	domain.Person
	Number      int64                `json:"number"`
	Accounts    []domain.Account     `json:"accounts"`
	CreditCards []*domain.CreditCard `json:"credit_cards"`
	Loans       []*domain.Loan       `json:"loans"`
}

func view(c domain.Customer) customerView {
	v := customerView{
		Person:      c.Person,
		Number:      c.Number,
		Accounts:    c.Accounts,
		CreditCards: c.CreditCards(),
		Loans:       c.Loans(),
	}

	if v.Accounts == nil {
		v.Accounts = []domain.Account{}
	}

	if v.CreditCards == nil {
		v.CreditCards = []*domain.CreditCard{}
	}

	if v.Loans == nil {
		v.Loans = []*domain.Loan{}
	}

	return v
}

type data struct {
	Customer customerView `json:"customer"`
}

type contactRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state" binding:"omitempty,len=2"`
	Zipcode string `json:"zipcode" binding:"omitempty,numeric,len=5"`
	Email   string `json:"email" binding:"omitempty,email"`
}

func (r contactRequest) contact() domain.Contact {
	return domain.Contact(r)
}

type createRequest struct {
	FirstName string         `json:"first_name" binding:"required"`
	LastName  string         `json:"last_name" binding:"required"`
	Contact   contactRequest `json:"contact"`
}

// Create handles http request to register customer.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	customer, err := h.service.Register(gctx.Request.Context(), domain.CreatePersonParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Contact:   req.Contact.contact(),
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{view(customer)}})
}

type numberRequest struct {
	Number int64 `uri:"number" binding:"required,min=1"`
}

// Get handles http request to get customer with accounts, credit cards and loans.
func (h *Handler) Get(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	customer, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{view(customer)}})
}

type findRequest struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}

type dataCustomers struct {
	Customers []customerView `json:"customers"`
}

// Find handles http request to search customers by full name.
//
// Without query parameters every customer is returned.
func (h *Handler) Find(gctx *gin.Context) {
	var req findRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	customers, err := h.service.Find(gctx.Request.Context(), domain.PersonCriteria{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	views := make([]customerView, len(customers))
	for i := range customers {
		views[i] = view(customers[i])
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataCustomers{views}})
}

// UpdateContact handles http request to replace customer contact information.
func (h *Handler) UpdateContact(gctx *gin.Context) {
	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req contactRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	customer, err := h.service.UpdateContact(gctx.Request.Context(), uri.Number, req.contact())
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{view(customer)}})
}
