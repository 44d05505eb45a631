// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/carddelivery"
	"github.com/go-petr/pet-ledger/internal/cardrepo"
	"github.com/go-petr/pet-ledger/internal/cardservice"
	"github.com/go-petr/pet-ledger/internal/customerdelivery"
	"github.com/go-petr/pet-ledger/internal/customerrepo"
	"github.com/go-petr/pet-ledger/internal/customerservice"
	"github.com/go-petr/pet-ledger/internal/employeedelivery"
	"github.com/go-petr/pet-ledger/internal/employeerepo"
	"github.com/go-petr/pet-ledger/internal/employeeservice"
	"github.com/go-petr/pet-ledger/internal/loandelivery"
	"github.com/go-petr/pet-ledger/internal/loanrepo"
	"github.com/go-petr/pet-ledger/internal/loanservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/paymentdelivery"
	"github.com/go-petr/pet-ledger/internal/paymentrepo"
	"github.com/go-petr/pet-ledger/internal/paymentservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

// Services holds the application services shared by the HTTP API and the background jobs.
type Services struct {
	Customers *customerservice.Service
	Employees *employeeservice.Service
	Accounts  *accountservice.Service
	Cards     *cardservice.Service
	Loans     *loanservice.Service
	Payments  *paymentservice.Service
}

// NewServices wires repositories on conn into the application services.
func NewServices(conn *sql.DB) Services {
	customerRepo := customerrepo.NewRepoPGS(conn)
	employeeRepo := employeerepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	cardRepo := cardrepo.NewRepoPGS(conn)
	loanRepo := loanrepo.NewRepoPGS(conn)
	paymentRepo := paymentrepo.NewRepoPGS(conn)

	return Services{
		Customers: customerservice.New(customerRepo, accountRepo, cardRepo, loanRepo),
		Employees: employeeservice.New(employeeRepo),
		Accounts:  accountservice.New(accountRepo),
		Cards:     cardservice.New(cardRepo),
		Loans:     loanservice.New(loanRepo),
		Payments:  paymentservice.New(paymentRepo),
	}
}

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB       *sql.DB
	Engine   *gin.Engine
	Config   configpkg.Config
	Services Services
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	services := NewServices(conn)

	customerHandler := customerdelivery.NewHandler(services.Customers)
	employeeHandler := employeedelivery.NewHandler(services.Employees)
	accountHandler := accountdelivery.NewHandler(services.Accounts)
	cardHandler := carddelivery.NewHandler(services.Cards)
	loanHandler := loandelivery.NewHandler(services.Loans)
	paymentHandler := paymentdelivery.NewHandler(services.Payments)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/customers", customerHandler.Create)
	engine.GET("/customers/:number", customerHandler.Get)
	engine.GET("/customers", customerHandler.Find)
	engine.PUT("/customers/:number/contact", customerHandler.UpdateContact)

	engine.POST("/employees", employeeHandler.Create)
	engine.GET("/employees/:number", employeeHandler.Get)
	engine.GET("/employees", employeeHandler.Find)

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:number", accountHandler.Get)
	engine.GET("/accounts", accountHandler.List)
	engine.POST("/accounts/:number/deposit", accountHandler.Deposit)
	engine.POST("/accounts/:number/withdraw", accountHandler.Withdraw)
	engine.POST("/accounts/:number/interest", accountHandler.PayInterest)

	engine.POST("/cards", cardHandler.Create)
	engine.GET("/cards/:number", cardHandler.Get)
	engine.GET("/cards", cardHandler.List)
	engine.POST("/cards/:number/charge", cardHandler.Charge)
	engine.POST("/cards/:number/advance", cardHandler.AdvanceCash)
	engine.POST("/cards/:number/interest", cardHandler.ChargeInterest)

	engine.POST("/loans", loanHandler.Create)
	engine.GET("/loans/:number", loanHandler.Get)
	engine.GET("/loans", loanHandler.List)
	engine.GET("/loans/:number/amortization", loanHandler.Amortization)
	engine.POST("/loans/:number/recalculate", loanHandler.Recalculate)

	engine.POST("/payments", paymentHandler.Create)
	engine.GET("/payments", paymentHandler.List)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accountkind", accountdelivery.ValidAccountKind)
		if err != nil {
			return nil, errors.New("cannot register account kind validator")
		}
	}

	server := &Server{
		DB:       conn,
		Engine:   engine,
		Config:   config,
		Services: services,
	}

	return server, nil
}
