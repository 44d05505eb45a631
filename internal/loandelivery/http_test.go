package loandelivery

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
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

var equateDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func randomLoan(t *testing.T) domain.Loan {
	t.Helper()

	l, err := domain.OpenLoan(domain.LoanParams{
		Owner:        randompkg.IntBetween(1, 1000),
		Number:       randompkg.AccountNumber(),
		Balance:      randompkg.MoneyAmountBetween(1000, 100_000),
		InterestRate: randompkg.RateBetween(3, 9),
		OpenDate:     civil.Date{Year: 2022, Month: 6, Day: 30},
		TermYears:    15,
	})
	if err != nil {
		t.Fatalf("domain.OpenLoan returned error: %v", err)
	}

	return l
}

func newServer(h Handler) *gin.Engine {
	server := gin.New()
	server.POST("/loans", h.Create)
	server.GET("/loans/:number", h.Get)
	server.GET("/loans", h.List)
	server.GET("/loans/:number/amortization", h.Amortization)
	server.POST("/loans/:number/recalculate", h.Recalculate)

	return server
}

func do(t *testing.T, h Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	newServer(h).ServeHTTP(recorder, req)

	return recorder
}

func TestLoanHandlers(t *testing.T) {
	loan := randomLoan(t)

	type createBody struct {
		Owner        int64  `json:"owner"`
		Principal    string `json:"principal"`
		InterestRate string `json:"interest_rate"`
		TermYears    int    `json:"term_years"`
	}

	testCases := []struct {
		name           string
		method         string
		url            string
		body           any
		buildStubs     func(loanService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:   "CreateOK",
			method: http.MethodPost,
			url:    "/loans",
			body:   createBody{Owner: loan.Owner, Principal: loan.Balance.String(), InterestRate: "5", TermYears: 15},
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().
					Open(gomock.Any(), gomock.Eq(domain.CreateLoanParams{
						Owner:        loan.Owner,
						Principal:    loan.Balance.String(),
						InterestRate: "5",
						TermYears:    15,
					})).
					Times(1).
					Return(loan, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "CreateTermTooLong",
			method: http.MethodPost,
			url:    "/loans",
			body:   createBody{Owner: loan.Owner, Principal: "100", TermYears: 99},
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "TermYears must be at most 50",
		},
		{
			name:   "GetOK",
			method: http.MethodGet,
			url:    fmt.Sprintf("/loans/%d", loan.Number),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Get(gomock.Any(), gomock.Eq(loan.Number)).Times(1).Return(loan, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "GetNotFound",
			method: http.MethodGet,
			url:    fmt.Sprintf("/loans/%d", loan.Number),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Get(gomock.Any(), gomock.Eq(loan.Number)).
					Times(1).
					Return(domain.Loan{}, domain.ErrServiceNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrServiceNotFound.Error(),
		},
		{
			name:   "RecalculateOK",
			method: http.MethodPost,
			url:    fmt.Sprintf("/loans/%d/recalculate", loan.Number),
			body:   map[string]int{"payments": 120},
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Recalculate(gomock.Any(), gomock.Eq(loan.Number), gomock.Eq(120)).
					Times(1).
					Return(loan, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "RecalculateEmptyBody",
			method: http.MethodPost,
			url:    fmt.Sprintf("/loans/%d/recalculate", loan.Number),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Recalculate(gomock.Any(), gomock.Eq(loan.Number), gomock.Eq(0)).
					Times(1).
					Return(loan, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "RecalculateInvalidPayments",
			method: http.MethodPost,
			url:    fmt.Sprintf("/loans/%d/recalculate", loan.Number),
			body:   map[string]int{"payments": 0},
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Recalculate(gomock.Any(), gomock.Eq(loan.Number), gomock.Eq(0)).
					Times(1).
					Return(domain.Loan{}, domain.ErrInvalidArgument)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidArgument.Error(),
		},
		{
			name:   "RecalculateTooManyPayments",
			method: http.MethodPost,
			url:    fmt.Sprintf("/loans/%d/recalculate", loan.Number),
			body:   map[string]int{"payments": 1 << 30},
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Recalculate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Payments must be at most 600",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			loanService := NewMockService(ctrl)
			tc.buildStubs(loanService)

			recorder := do(t, NewHandler(loanService), tc.method, tc.url, tc.body)

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
				if diff := cmp.Diff(loan, got.Loan, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestAmortization(t *testing.T) {
	loan := randomLoan(t)

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(loanService *MockService)
		wantStatusCode int
		wantError      string
		wantPayment    string
	}{
		{
			name: "OK",
			url:  fmt.Sprintf("/loans/%d/amortization?payments=360", loan.Number),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Quote(gomock.Any(), gomock.Eq(loan.Number), gomock.Eq(360)).
					Times(1).
					Return(decimal.RequireFromString("1032.80"), nil)
			},
			wantStatusCode: http.StatusOK,
			wantPayment:    "1032.8",
		},
		{
			name: "NegativePayments",
			url:  fmt.Sprintf("/loans/%d/amortization?payments=-1", loan.Number),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Payments must be at least 0",
		},
		{
			name: "TooManyPayments",
			url:  fmt.Sprintf("/loans/%d/amortization?payments=%d", loan.Number, int64(1)<<40),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Payments must be at most 600",
		},
		{
			name: "NotFound",
			url:  fmt.Sprintf("/loans/%d/amortization?payments=12", loan.Number),
			buildStubs: func(loanService *MockService) {
				loanService.EXPECT().Quote(gomock.Any(), gomock.Eq(loan.Number), gomock.Eq(12)).
					Times(1).
					Return(decimal.Zero, domain.ErrServiceNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrServiceNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			loanService := NewMockService(ctrl)
			tc.buildStubs(loanService)

			recorder := do(t, NewHandler(loanService), http.MethodGet, tc.url, nil)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &dataQuote{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantPayment != "" && !got.MonthlyPayment.Equal(decimal.RequireFromString(tc.wantPayment)) {
				t.Errorf("monthly payment = %s, want %s", got.MonthlyPayment, tc.wantPayment)
			}
		})
	}
}

func TestList(t *testing.T) {
	owner := randompkg.IntBetween(1, 1000)
	loans := []domain.Loan{randomLoan(t), randomLoan(t)}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loanService := NewMockService(ctrl)
	loanService.EXPECT().List(gomock.Any(), gomock.Eq(owner)).Times(1).Return(loans, nil)

	recorder := do(t, NewHandler(loanService), http.MethodGet, fmt.Sprintf("/loans?owner=%d", owner), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
	}

	got := &dataLoans{}
	if err := json.NewDecoder(recorder.Body).Decode(&web.Response{Data: got}); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if diff := cmp.Diff(loans, got.Loans, equateDecimals); diff != "" {
		t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
	}
}
