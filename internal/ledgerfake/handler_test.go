package ledgerfake

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/middleware"
	"github.com/go-petr/pet-bank-client/pkg/randompkg"
	"github.com/go-petr/pet-bank-client/pkg/tokenpkg"
	"github.com/go-petr/pet-bank-client/pkg/web"
)

func newTestEngine(t *testing.T, store *Store, tokenMaker tokenpkg.Maker) *gin.Engine {
	t.Helper()

	if err := RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators() returned error: %v", err)
	}

	handler := NewHandler(store, tokenMaker, time.Minute)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.POST("/api/login/", handler.Login)

	auth := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	auth.GET("/api/balance/", handler.Balance)
	auth.POST("/api/transactions/", handler.CreateTransfer)

	return engine
}

func TestLoginAPI(t *testing.T) {
	store := NewStore()

	profile, _, err := store.AddUser(domain.Profile{Username: "0911111111", FirstName: "Jane"}, "password")
	if err != nil {
		t.Fatalf("store.AddUser returned error: %v", err)
	}

	tokenMaker, err := tokenpkg.NewJWTMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewJWTMaker returned error: %v", err)
	}

	engine := newTestEngine(t, store, tokenMaker)

	testCases := []struct {
		name           string
		body           string
		wantStatusCode int
		checkBody      func(t *testing.T, body []byte)
	}{
		{
			name:           "OK",
			body:           `{"username":"0911111111","password":"password"}`,
			wantStatusCode: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var got loginResponse
				if err := json.Unmarshal(body, &got); err != nil {
					t.Fatalf("json.Unmarshal returned error: %v", err)
				}

				if diff := cmp.Diff(profile, got.User); diff != "" {
					t.Errorf("user mismatch (-want +got):\n%s", diff)
				}

				payload, err := tokenMaker.VerifyToken(string(got.Tokens.Access))
				if err != nil {
					t.Fatalf("VerifyToken(access) returned error: %v", err)
				}

				if payload.Username != "0911111111" {
					t.Errorf("payload.Username = %q, want %q", payload.Username, "0911111111")
				}

				if got.Tokens.Refresh == "" {
					t.Error("refresh token is empty")
				}
			},
		},
		{
			name:           "WrongPassword",
			body:           `{"username":"0911111111","password":"nope"}`,
			wantStatusCode: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				want := `{"non_field_errors":["Invalid credentials"]}`
				if string(body) != want {
					t.Errorf("body = %s, want %s", body, want)
				}
			},
		},
		{
			name:           "MissingPassword",
			body:           `{"username":"0911111111"}`,
			wantStatusCode: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				want := `{"password":["This field is required."]}`
				if string(body) != want {
					t.Errorf("body = %s, want %s", body, want)
				}
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			req, err := http.NewRequest(http.MethodPost, "/api/login/", bytes.NewBufferString(tc.body))
			if err != nil {
				t.Fatalf("http.NewRequest returned error: %v", err)
			}

			engine.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal", recorder.Code, tc.wantStatusCode)
			}

			tc.checkBody(t, recorder.Body.Bytes())
		})
	}
}

func TestCreateTransferAPI(t *testing.T) {
	store := NewStore()

	user1, acc1, err := store.AddUser(domain.Profile{Username: "0911111111"}, "password")
	if err != nil {
		t.Fatalf("store.AddUser returned error: %v", err)
	}

	_, acc2, err := store.AddUser(domain.Profile{Username: "0922222222"}, "password")
	if err != nil {
		t.Fatalf("store.AddUser returned error: %v", err)
	}

	if _, err := store.Deposit(acc1.Number, decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("store.Deposit returned error: %v", err)
	}

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker returned error: %v", err)
	}

	engine := newTestEngine(t, store, tokenMaker)

	testCases := []struct {
		name           string
		body           map[string]any
		setupAuth      func(t *testing.T, r *http.Request) error
		wantStatusCode int
		checkBody      func(t *testing.T, body []byte)
	}{
		{
			name: "NoAuthorization",
			body: map[string]any{"from_account": acc1.Number, "to_account": acc2.Number, "amount": "10"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			checkBody: func(t *testing.T, body []byte) {
				var got web.DetailError
				_ = json.Unmarshal(body, &got)

				if got.Detail != middleware.ErrAuthHeaderNotFound.Error() {
					t.Errorf("got.Detail = %q, want %q", got.Detail, middleware.ErrAuthHeaderNotFound)
				}
			},
		},
		{
			name: "InvalidFields",
			body: map[string]any{"from_account": "abc", "amount": "ten"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, user1.Username, time.Minute)
			},
			wantStatusCode: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				var got web.FieldErrors
				if err := json.Unmarshal(body, &got); err != nil {
					t.Fatalf("json.Unmarshal returned error: %v", err)
				}

				want := web.FieldErrors{
					"from_account": {"Enter a valid account number."},
					"to_account":   {"This field is required."},
					"amount":       {"A valid number is required."},
				}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("field errors mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "InsufficientFunds",
			body: map[string]any{"from_account": acc1.Number, "to_account": acc2.Number, "amount": "990"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, user1.Username, time.Minute)
			},
			wantStatusCode: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				want := `["Insufficient funds for transfer."]`
				if string(body) != want {
					t.Errorf("body = %s, want %s", body, want)
				}
			},
		},
		{
			name: "OK",
			body: map[string]any{"from_account": acc1.Number, "to_account": acc2.Number, "amount": "100.00"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, user1.Username, time.Minute)
			},
			wantStatusCode: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var got transferResponse
				if err := json.Unmarshal(body, &got); err != nil {
					t.Fatalf("json.Unmarshal returned error: %v", err)
				}

				if got.Message != TransferCreated {
					t.Errorf("got.Message = %q, want %q", got.Message, TransferCreated)
				}

				if got.Transaction.AccountID != acc1.ID {
					t.Errorf("got.Transaction.AccountID = %d, want %d", got.Transaction.AccountID, acc1.ID)
				}

				if fee := got.Transaction.Fee.StringFixed(2); fee != "2.00" {
					t.Errorf("fee = %s, want 2.00", fee)
				}
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("json.Marshal(%v) returned error: %v", tc.body, err)
			}

			req, err := http.NewRequest(http.MethodPost, "/api/transactions/", bytes.NewReader(data))
			if err != nil {
				t.Fatalf("http.NewRequest returned error: %v", err)
			}

			if err := tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal", recorder.Code, tc.wantStatusCode)
			}

			tc.checkBody(t, recorder.Body.Bytes())
		})
	}
}
