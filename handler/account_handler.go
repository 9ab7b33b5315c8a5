package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/BladeMcCool/PaymentEngine/diagnostic"
	"github.com/BladeMcCool/PaymentEngine/engine"
	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Ledger is the part of engine.Engine the handlers use.
type Ledger interface {
	ProcessTo(ctx context.Context, r io.Reader, extra diagnostic.Sink) (engine.Summary, error)
	Accounts() []model.Account
	Account(clientID int64) (model.Account, bool)
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	ledger Ledger
	logger *zap.Logger
}

// NewAccountHandler creates a new AccountHandler. A nil logger discards logs.
func NewAccountHandler(ledger Ledger, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{ledger: ledger, logger: orNop(logger)}
}

// ListAccountsHandler returns every account in first-encounter order.
//
// Method: GET
// Path: /accounts
// Success: 200 OK
func (h *AccountHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts := h.ledger.Accounts()
	if accounts == nil {
		accounts = []model.Account{}
	}
	writeJSON(h.logger, w, http.StatusOK, accounts)
}

// GetAccountHandler handles retrieving a specific client's balances.
// It expects a "client_id" URL path parameter.
//
// Method: GET
// Path: /accounts/{client_id}
// Success: 200 OK
// Error: 400 Bad Request (for invalid client ID format)
// Error: 404 Not Found (if the client was never referenced)
func (h *AccountHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr, ok := vars["client_id"]
	if !ok {
		http.Error(w, "Client ID is required", http.StatusBadRequest)
		return
	}

	clientID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid client ID format", http.StatusBadRequest)
		return
	}

	account, found := h.ledger.Account(clientID)
	if !found {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, account)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("could not write JSON response", zap.Error(err))
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
