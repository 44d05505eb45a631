package customerdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

var equateDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func randomCustomer(t *testing.T) domain.Customer {
	t.Helper()

	c := domain.Customer{
		Person: domain.Person{
			FirstName: randompkg.Name(),
			LastName:  randompkg.Name(),
			Contact: domain.Contact{
				Address: "1 Main St",
				City:    "Springfield",
				State:   "IL",
				Zipcode: randompkg.Zipcode(),
				Email:   randompkg.Email(),
			},
		},
		Number: randompkg.IntBetween(1, 1000),
	}

	if err := c.OpenAccount(domain.Account{
		Number:  randompkg.AccountNumber(),
		Owner:   c.Number,
		Kind:    domain.Checking,
		Balance: randompkg.MoneyAmountBetween(0, 1000),
	}); err != nil {
		t.Fatalf("OpenAccount returned error: %v", err)
	}

	card, err := domain.OpenCreditCard(domain.CreditCardParams{
		Owner:        c.Number,
		Number:       randompkg.AccountNumber(),
		InterestRate: decimal.NewFromInt(18),
		CreditLimit:  decimal.NewFromInt(1000),
		OpenDate:     civil.Date{Year: 2021, Month: 3, Day: 15},
	})
	if err != nil {
		t.Fatalf("domain.OpenCreditCard returned error: %v", err)
	}

	if err := c.OpenCreditCard(&card); err != nil {
		t.Fatalf("OpenCreditCard returned error: %v", err)
	}

	loan, err := domain.OpenLoan(domain.LoanParams{
		Owner:        c.Number,
		Number:       randompkg.AccountNumber(),
		Balance:      decimal.NewFromInt(150000),
		InterestRate: decimal.NewFromInt(7),
		OpenDate:     civil.Date{Year: 2021, Month: 3, Day: 15},
	})
	if err != nil {
		t.Fatalf("domain.OpenLoan returned error: %v", err)
	}

	if err := c.OpenLoan(&loan); err != nil {
		t.Fatalf("OpenLoan returned error: %v", err)
	}

	return c
}

func newServer(h Handler) *gin.Engine {
	server := gin.New()
	server.POST("/customers", h.Create)
	server.GET("/customers/:number", h.Get)
	server.GET("/customers", h.Find)
	server.PUT("/customers/:number/contact", h.UpdateContact)

	return server
}

func TestHandlers(t *testing.T) {
	customer := randomCustomer(t)

	type contactBody struct {
		Address string `json:"address,omitempty"`
		City    string `json:"city,omitempty"`
		State   string `json:"state,omitempty"`
		Zipcode string `json:"zipcode,omitempty"`
		Email   string `json:"email,omitempty"`
	}

	type createBody struct {
		FirstName string      `json:"first_name,omitempty"`
		LastName  string      `json:"last_name,omitempty"`
		Contact   contactBody `json:"contact"`
	}

	validContact := contactBody(customer.Contact)

	testCases := []struct {
		name           string
		method         string
		url            string
		body           any
		buildStubs     func(customerService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:   "CreateOK",
			method: http.MethodPost,
			url:    "/customers",
			body:   createBody{FirstName: customer.FirstName, LastName: customer.LastName, Contact: validContact},
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().
					Register(gomock.Any(), gomock.Eq(domain.CreatePersonParams{
						FirstName: customer.FirstName,
						LastName:  customer.LastName,
						Contact:   customer.Contact,
					})).
					Times(1).
					Return(customer, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "CreateMissingFirstName",
			method: http.MethodPost,
			url:    "/customers",
			body:   createBody{LastName: customer.LastName},
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "FirstName field is required",
		},
		{
			name:   "CreateInvalidZipcode",
			method: http.MethodPost,
			url:    "/customers",
			body: createBody{
				FirstName: customer.FirstName,
				LastName:  customer.LastName,
				Contact:   contactBody{Zipcode: "abcde"},
			},
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Zipcode must be numeric",
		},
		{
			name:   "GetOK",
			method: http.MethodGet,
			url:    fmt.Sprintf("/customers/%d", customer.Number),
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Get(gomock.Any(), gomock.Eq(customer.Number)).
					Times(1).
					Return(customer, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "GetNotFound",
			method: http.MethodGet,
			url:    fmt.Sprintf("/customers/%d", customer.Number),
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Get(gomock.Any(), gomock.Eq(customer.Number)).
					Times(1).
					Return(domain.Customer{}, domain.ErrCustomerNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrCustomerNotFound.Error(),
		},
		{
			name:   "GetInvalidNumber",
			method: http.MethodGet,
			url:    "/customers/0",
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Number field is required",
		},
		{
			name:   "UpdateContactOK",
			method: http.MethodPut,
			url:    fmt.Sprintf("/customers/%d/contact", customer.Number),
			body:   validContact,
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().
					UpdateContact(gomock.Any(), gomock.Eq(customer.Number), gomock.Eq(customer.Contact)).
					Times(1).
					Return(customer, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "UpdateContactInvalidEmail",
			method: http.MethodPut,
			url:    fmt.Sprintf("/customers/%d/contact", customer.Number),
			body:   contactBody{Email: "not-an-email"},
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().UpdateContact(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email must be a valid email",
		},
		{
			name:   "UpdateContactInternalError",
			method: http.MethodPut,
			url:    fmt.Sprintf("/customers/%d/contact", customer.Number),
			body:   validContact,
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().UpdateContact(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Customer{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			customerService := NewMockService(ctrl)
			tc.buildStubs(customerService)

			body, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(tc.method, tc.url, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			newServer(NewHandler(customerService)).ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &data{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantError == "" {
				if diff := cmp.Diff(view(customer), got.Customer, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestFind(t *testing.T) {
	customers := []domain.Customer{
		{Person: domain.Person{FirstName: "Ada", LastName: "Lovelace"}, Number: 1},
		{Person: domain.Person{FirstName: "Ada", LastName: "Lovelace"}, Number: 2},
	}

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(customerService *MockService)
		wantStatusCode int
		wantError      string
		wantCount      int
	}{
		{
			name: "ByName",
			url:  "/customers?first_name=Ada&last_name=Lovelace",
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().
					Find(gomock.Any(), gomock.Eq(domain.PersonCriteria{FirstName: "Ada", LastName: "Lovelace"})).
					Times(1).
					Return(customers, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name: "Everyone",
			url:  "/customers",
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Find(gomock.Any(), gomock.Eq(domain.PersonCriteria{})).
					Times(1).
					Return([]domain.Customer{}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "OnlyFirstName",
			url:  "/customers?first_name=Ada",
			buildStubs: func(customerService *MockService) {
				customerService.EXPECT().Find(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrInvalidArgument)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidArgument.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			customerService := NewMockService(ctrl)
			tc.buildStubs(customerService)

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			newServer(NewHandler(customerService)).ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &dataCustomers{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if len(got.Customers) != tc.wantCount {
				t.Errorf("len(Customers)=%d, want %d", len(got.Customers), tc.wantCount)
			}
		})
	}
}
