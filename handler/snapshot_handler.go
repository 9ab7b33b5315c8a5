package handler

import (
	"errors"
	"net/http"

	"github.com/BladeMcCool/PaymentEngine/model"
	"github.com/BladeMcCool/PaymentEngine/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SnapshotHandler saves and serves persisted account snapshots.
type SnapshotHandler struct {
	ledger Ledger
	store  storage.Store
	logger *zap.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(ledger Ledger, store storage.Store, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{ledger: ledger, store: store, logger: orNop(logger)}
}

// SnapshotResponse is the body returned for a saved or loaded snapshot.
type SnapshotResponse struct {
	RunID    uuid.UUID       `json:"run_id"`
	Accounts []model.Account `json:"accounts"`
}

// CreateSnapshotHandler persists the current accounts under a new run id.
//
// Method: POST
// Path: /snapshots
// Success: 201 Created
// Error: 500 Internal Server Error (for database errors)
func (h *SnapshotHandler) CreateSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	accounts := h.ledger.Accounts()
	if accounts == nil {
		accounts = []model.Account{}
	}
	runID := uuid.New()

	if err := h.store.SaveSnapshot(r.Context(), runID, accounts); err != nil {
		h.logger.Error("could not save snapshot", zap.Stringer("run_id", runID), zap.Error(err))
		http.Error(w, "Failed to save snapshot", http.StatusInternalServerError)
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, SnapshotResponse{RunID: runID, Accounts: accounts})
}

// GetSnapshotHandler returns a previously saved snapshot.
//
// Method: GET
// Path: /snapshots/{run_id}
// Success: 200 OK
// Error: 400 Bad Request (for a malformed run id)
// Error: 404 Not Found (if the run does not exist)
// Error: 500 Internal Server Error (for database errors)
func (h *SnapshotHandler) GetSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(mux.Vars(r)["run_id"])
	if err != nil {
		http.Error(w, "Invalid run ID format", http.StatusBadRequest)
		return
	}

	accounts, err := h.store.GetSnapshot(r.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Snapshot not found", http.StatusNotFound)
		} else {
			h.logger.Error("could not get snapshot", zap.Stringer("run_id", runID), zap.Error(err))
			http.Error(w, "Failed to retrieve snapshot", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, SnapshotResponse{RunID: runID, Accounts: accounts})
}
