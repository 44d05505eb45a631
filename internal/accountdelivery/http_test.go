package accountdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
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

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountkind", ValidAccountKind); err != nil {
			fmt.Fprintf(os.Stderr, "cannot register accountkind validator: %v\n", err)
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

func randomAccount() domain.Account {
	return domain.Account{
		Number:       randompkg.AccountNumber(),
		Owner:        randompkg.IntBetween(1, 1000),
		Kind:         domain.Savings,
		Balance:      randompkg.MoneyAmountBetween(100, 1000),
		InterestRate: decimal.RequireFromString("2.5"),
	}
}

func newServer(h Handler) *gin.Engine {
	server := gin.New()
	server.POST("/accounts", h.Create)
	server.GET("/accounts/:number", h.Get)
	server.GET("/accounts", h.List)
	server.POST("/accounts/:number/deposit", h.Deposit)
	server.POST("/accounts/:number/withdraw", h.Withdraw)
	server.POST("/accounts/:number/interest", h.PayInterest)

	return server
}

func serve(t *testing.T, server *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestCreate(t *testing.T) {
	account := randomAccount()

	type requestBody struct {
		Owner          int64  `json:"owner"`
		Kind           string `json:"kind"`
		InterestRate   string `json:"interest_rate"`
		InitialDeposit string `json:"initial_deposit"`
	}

	validBody := requestBody{
		Owner:          account.Owner,
		Kind:           "savings",
		InterestRate:   "2.5",
		InitialDeposit: account.Balance.String(),
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: validBody,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Open(gomock.Any(), gomock.Eq(domain.CreateAccountParams{
						Owner:          validBody.Owner,
						Kind:           validBody.Kind,
						InterestRate:   validBody.InterestRate,
						InitialDeposit: validBody.InitialDeposit,
					})).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:        "UnsupportedKind",
			requestBody: requestBody{Owner: account.Owner, Kind: "brokerage"},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Kind is not supported",
		},
		{
			name:        "MissingOwner",
			requestBody: requestBody{Kind: "checking"},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Owner field is required",
		},
		{
			name:        "OwnerNotFound",
			requestBody: validBody,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Open(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrCustomerNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrCustomerNotFound.Error(),
		},
		{
			name:        "InvalidDeposit",
			requestBody: validBody,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Open(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "InternalServerError",
			requestBody: validBody,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Open(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, fmt.Errorf("connection reset"))
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

			accountService := NewMockService(ctrl)
			tc.buildStubs(accountService)

			recorder := serve(t, newServer(NewHandler(accountService)), http.MethodPost, "/accounts", tc.requestBody)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &struct {
				Account domain.Account `json:"account"`
			}{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusCreated {
				if diff := cmp.Diff(account, got.Account, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	account := randomAccount()

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			url:  fmt.Sprintf("/accounts/%d", account.Number),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(account.Number)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "InvalidNumber",
			url:  "/accounts/0",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Number field is required",
		},
		{
			name: "NotFound",
			url:  fmt.Sprintf("/accounts/%d", account.Number),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(account.Number)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			tc.buildStubs(accountService)

			recorder := serve(t, newServer(NewHandler(accountService)), http.MethodGet, tc.url, nil)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &struct {
				Account domain.Account `json:"account"`
			}{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusOK {
				if diff := cmp.Diff(account, got.Account, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestList(t *testing.T) {
	owner := randompkg.IntBetween(1, 1000)

	accounts := make([]domain.Account, 3)
	for i := range accounts {
		accounts[i] = randomAccount()
		accounts[i].Owner = owner
	}

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			url:  fmt.Sprintf("/accounts?owner=%d", owner),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().List(gomock.Any(), gomock.Eq(owner)).
					Times(1).
					Return(accounts, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "MissingOwner",
			url:  "/accounts",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Owner field is required",
		},
		{
			name: "InternalServerError",
			url:  fmt.Sprintf("/accounts?owner=%d", owner),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().List(gomock.Any(), gomock.Eq(owner)).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
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

			accountService := NewMockService(ctrl)
			tc.buildStubs(accountService)

			recorder := serve(t, newServer(NewHandler(accountService)), http.MethodGet, tc.url, nil)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &struct {
				Accounts []domain.Account `json:"accounts"`
			}{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusOK {
				if diff := cmp.Diff(accounts, got.Accounts, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestMoveMoney(t *testing.T) {
	account := randomAccount()

	type requestBody struct {
		Amount string `json:"amount"`
	}

	testCases := []struct {
		name           string
		url            string
		requestBody    requestBody
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "Deposit",
			url:         fmt.Sprintf("/accounts/%d/deposit", account.Number),
			requestBody: requestBody{Amount: "10"},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Deposit(gomock.Any(), gomock.Eq(account.Number), gomock.Eq("10")).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "Withdraw",
			url:         fmt.Sprintf("/accounts/%d/withdraw", account.Number),
			requestBody: requestBody{Amount: "10"},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Withdraw(gomock.Any(), gomock.Eq(account.Number), gomock.Eq("10")).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "WithdrawInsufficientFunds",
			url:         fmt.Sprintf("/accounts/%d/withdraw", account.Number),
			requestBody: requestBody{Amount: "1000000"},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Withdraw(gomock.Any(), gomock.Eq(account.Number), gomock.Eq("1000000")).
					Times(1).
					Return(domain.Account{}, domain.ErrInsufficientFunds)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name: "MissingAmount",
			url:  fmt.Sprintf("/accounts/%d/deposit", account.Number),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
		{
			name: "PayInterest",
			url:  fmt.Sprintf("/accounts/%d/interest", account.Number),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().PayInterest(gomock.Any(), gomock.Eq(account.Number)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			tc.buildStubs(accountService)

			recorder := serve(t, newServer(NewHandler(accountService)), http.MethodPost, tc.url, tc.requestBody)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &struct {
				Account domain.Account `json:"account"`
			}{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusOK {
				if diff := cmp.Diff(account, got.Account, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
