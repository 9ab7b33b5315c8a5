package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BladeMcCool/PaymentEngine/diagnostic"
	"github.com/BladeMcCool/PaymentEngine/engine"
	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockLedger provides a mock implementation of Ledger for testing.
type MockLedger struct {
	ProcessToFunc func(ctx context.Context, r io.Reader, extra diagnostic.Sink) (engine.Summary, error)
	AccountsFunc  func() []model.Account
	AccountFunc   func(clientID int64) (model.Account, bool)
}

func (m *MockLedger) ProcessTo(ctx context.Context, r io.Reader, extra diagnostic.Sink) (engine.Summary, error) {
	return m.ProcessToFunc(ctx, r, extra)
}

func (m *MockLedger) Accounts() []model.Account {
	return m.AccountsFunc()
}

func (m *MockLedger) Account(clientID int64) (model.Account, bool) {
	return m.AccountFunc(clientID)
}

func TestGetAccountHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		expected := model.Account{
			ClientID:  55,
			Available: decimal.RequireFromString("1.23"),
			Held:      decimal.Zero,
			Total:     decimal.RequireFromString("1.23"),
		}
		mockLedger := &MockLedger{
			AccountFunc: func(clientID int64) (model.Account, bool) {
				assert.Equal(t, int64(55), clientID)
				return expected, true
			},
		}
		handler := NewAccountHandler(mockLedger, zap.NewNop())
		req := httptest.NewRequest("GET", "/accounts/55", nil)
		rr := httptest.NewRecorder()

		router := mux.NewRouter()
		router.HandleFunc("/accounts/{client_id}", handler.GetAccountHandler)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var result model.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, expected.ClientID, result.ClientID)
		assert.True(t, expected.Available.Equal(result.Available))
		assert.False(t, result.Locked)
	})

	t.Run("not found", func(t *testing.T) {
		mockLedger := &MockLedger{
			AccountFunc: func(clientID int64) (model.Account, bool) {
				return model.Account{}, false
			},
		}
		handler := NewAccountHandler(mockLedger, zap.NewNop())
		req := httptest.NewRequest("GET", "/accounts/404", nil)
		rr := httptest.NewRecorder()

		router := mux.NewRouter()
		router.HandleFunc("/accounts/{client_id}", handler.GetAccountHandler)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := NewAccountHandler(&MockLedger{}, zap.NewNop())
		req := httptest.NewRequest("GET", "/accounts/abc", nil)
		rr := httptest.NewRecorder()

		router := mux.NewRouter()
		router.HandleFunc("/accounts/{client_id}", handler.GetAccountHandler)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListAccountsHandler(t *testing.T) {
	t.Run("keeps ledger order", func(t *testing.T) {
		mockLedger := &MockLedger{
			AccountsFunc: func() []model.Account {
				return []model.Account{{ClientID: 3}, {ClientID: 1}}
			},
		}
		handler := NewAccountHandler(mockLedger, zap.NewNop())
		req := httptest.NewRequest("GET", "/accounts", nil)
		rr := httptest.NewRecorder()

		handler.ListAccountsHandler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var result []model.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		require.Len(t, result, 2)
		assert.Equal(t, int64(3), result[0].ClientID)
		assert.Equal(t, int64(1), result[1].ClientID)
	})

	t.Run("empty ledger is an empty array", func(t *testing.T) {
		mockLedger := &MockLedger{AccountsFunc: func() []model.Account { return nil }}
		handler := NewAccountHandler(mockLedger, zap.NewNop())
		rr := httptest.NewRecorder()

		handler.ListAccountsHandler(rr, httptest.NewRequest("GET", "/accounts", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}
