// Package employeedelivery manages delivery layer of employees.
package employeedelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by employee delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package employeedelivery
type Service interface {
	Register(ctx context.Context, arg domain.CreatePersonParams) (domain.Employee, error)
	Get(ctx context.Context, number int64) (domain.Employee, error)
	Find(ctx context.Context, arg domain.PersonCriteria) ([]domain.Employee, error)
}

// Handler facilitates employee delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns employee handler.
func NewHandler(es Service) Handler {
	return Handler{service: es}
}

type data struct {
	Employee domain.Employee `json:"employee"`
}

type createRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Contact   struct {
		Address string `json:"address"`
		City    string `json:"city"`
		State   string `json:"state" binding:"omitempty,len=2"`
		Zipcode string `json:"zipcode" binding:"omitempty,numeric,len=5"`
		Email   string `json:"email" binding:"omitempty,email"`
	} `json:"contact"`
}

// Create handles http request to register employee.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	employee, err := h.service.Register(gctx.Request.Context(), domain.CreatePersonParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Contact:   domain.Contact(req.Contact),
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{employee}})
}

type numberRequest struct {
	Number int64 `uri:"number" binding:"required,min=1"`
}

// Get handles http request to get employee.
func (h *Handler) Get(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	employee, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{employee}})
}

type findRequest struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}

type dataEmployees struct {
	Employees []domain.Employee `json:"employees"`
}

// Find handles http request to search employees by full name.
func (h *Handler) Find(gctx *gin.Context) {
	var req findRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	employees, err := h.service.Find(gctx.Request.Context(), domain.PersonCriteria{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataEmployees{employees}})
}
