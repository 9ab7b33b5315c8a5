package handler

import (
	"github.com/BladeMcCool/PaymentEngine/storage"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires every route. Snapshot routes are only registered when a
// store is configured.
func NewRouter(ledger Ledger, store storage.Store, logger *zap.Logger) *mux.Router {
	accountHandler := NewAccountHandler(ledger, logger)
	transactionHandler := NewTransactionHandler(ledger, logger)

	r := mux.NewRouter()
	r.HandleFunc("/transactions", transactionHandler.CreateTransactionsHandler).Methods("POST")
	r.HandleFunc("/accounts", accountHandler.ListAccountsHandler).Methods("GET")
	r.HandleFunc("/accounts/{client_id}", accountHandler.GetAccountHandler).Methods("GET")

	if store != nil {
		snapshotHandler := NewSnapshotHandler(ledger, store, logger)
		r.HandleFunc("/snapshots", snapshotHandler.CreateSnapshotHandler).Methods("POST")
		r.HandleFunc("/snapshots/{run_id}", snapshotHandler.GetSnapshotHandler).Methods("GET")
	}
	return r
}
