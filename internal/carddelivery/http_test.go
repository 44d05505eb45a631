package carddelivery

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

func randomCard(t *testing.T) domain.CreditCard {
	t.Helper()

	c, err := domain.OpenCreditCard(domain.CreditCardParams{
		Owner:        randompkg.IntBetween(1, 1000),
		Number:       randompkg.AccountNumber(),
		InterestRate: randompkg.RateBetween(10, 25),
		CreditLimit:  decimal.NewFromInt(5000),
		OpenDate:     civil.Date{Year: 2023, Month: 12, Day: 2},
		Balance:      randompkg.MoneyAmountBetween(0, 1000),
	})
	if err != nil {
		t.Fatalf("domain.OpenCreditCard returned error: %v", err)
	}

	return c
}

func newServer(h Handler) *gin.Engine {
	server := gin.New()
	server.POST("/cards", h.Create)
	server.GET("/cards/:number", h.Get)
	server.GET("/cards", h.List)
	server.POST("/cards/:number/charge", h.Charge)
	server.POST("/cards/:number/advance", h.AdvanceCash)
	server.POST("/cards/:number/interest", h.ChargeInterest)

	return server
}

func TestHandlers(t *testing.T) {
	card := randomCard(t)

	type createBody struct {
		Owner        int64  `json:"owner"`
		InterestRate string `json:"interest_rate"`
		CreditLimit  string `json:"credit_limit"`
	}

	type amountBody struct {
		Amount string `json:"amount"`
	}

	testCases := []struct {
		name           string
		method         string
		url            string
		body           any
		buildStubs     func(cardService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:   "CreateOK",
			method: http.MethodPost,
			url:    "/cards",
			body:   createBody{Owner: card.Owner, InterestRate: "18", CreditLimit: "5000"},
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().
					Open(gomock.Any(), gomock.Eq(domain.CreateCreditCardParams{
						Owner:        card.Owner,
						InterestRate: "18",
						CreditLimit:  "5000",
					})).
					Times(1).
					Return(card, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "CreateMissingLimit",
			method: http.MethodPost,
			url:    "/cards",
			body:   createBody{Owner: card.Owner},
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "CreditLimit field is required",
		},
		{
			name:   "GetOK",
			method: http.MethodGet,
			url:    fmt.Sprintf("/cards/%d", card.Number),
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().Get(gomock.Any(), gomock.Eq(card.Number)).
					Times(1).
					Return(card, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "GetNotFound",
			method: http.MethodGet,
			url:    fmt.Sprintf("/cards/%d", card.Number),
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().Get(gomock.Any(), gomock.Eq(card.Number)).
					Times(1).
					Return(domain.CreditCard{}, domain.ErrServiceNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrServiceNotFound.Error(),
		},
		{
			name:   "ChargeOK",
			method: http.MethodPost,
			url:    fmt.Sprintf("/cards/%d/charge", card.Number),
			body:   amountBody{Amount: "12.34"},
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().Charge(gomock.Any(), gomock.Eq(card.Number), gomock.Eq("12.34")).
					Times(1).
					Return(card, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "ChargeOverLimit",
			method: http.MethodPost,
			url:    fmt.Sprintf("/cards/%d/charge", card.Number),
			body:   amountBody{Amount: "99999"},
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().Charge(gomock.Any(), gomock.Eq(card.Number), gomock.Eq("99999")).
					Times(1).
					Return(domain.CreditCard{}, domain.ErrCreditLimitExceeded)
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      domain.ErrCreditLimitExceeded.Error(),
		},
		{
			name:   "AdvanceOverLimit",
			method: http.MethodPost,
			url:    fmt.Sprintf("/cards/%d/advance", card.Number),
			body:   amountBody{Amount: "2000"},
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().AdvanceCash(gomock.Any(), gomock.Eq(card.Number), gomock.Eq("2000")).
					Times(1).
					Return(domain.CreditCard{}, domain.ErrCashAdvanceLimitExceeded)
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      domain.ErrCashAdvanceLimitExceeded.Error(),
		},
		{
			name:   "ChargeInterestOK",
			method: http.MethodPost,
			url:    fmt.Sprintf("/cards/%d/interest", card.Number),
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().ChargeInterest(gomock.Any(), gomock.Eq(card.Number)).
					Times(1).
					Return(card, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "ChargeInterestInternalError",
			method: http.MethodPost,
			url:    fmt.Sprintf("/cards/%d/interest", card.Number),
			buildStubs: func(cardService *MockService) {
				cardService.EXPECT().ChargeInterest(gomock.Any(), gomock.Eq(card.Number)).
					Times(1).
					Return(domain.CreditCard{}, errorspkg.ErrInternal)
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

			cardService := NewMockService(ctrl)
			tc.buildStubs(cardService)

			body, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(tc.method, tc.url, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			newServer(NewHandler(cardService)).ServeHTTP(recorder, req)

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
				if diff := cmp.Diff(view(card), got.Card, equateDecimals); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestList(t *testing.T) {
	owner := randompkg.IntBetween(1, 1000)
	cards := []domain.CreditCard{randomCard(t), randomCard(t)}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardService := NewMockService(ctrl)
	cardService.EXPECT().List(gomock.Any(), gomock.Eq(owner)).Times(1).Return(cards, nil)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/cards?owner=%d", owner), nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	newServer(NewHandler(cardService)).ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
	}

	got := &dataCards{}
	if err := json.NewDecoder(recorder.Body).Decode(&web.Response{Data: got}); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	want := []cardView{view(cards[0]), view(cards[1])}
	if diff := cmp.Diff(want, got.Cards, equateDecimals); diff != "" {
		t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
	}
}
