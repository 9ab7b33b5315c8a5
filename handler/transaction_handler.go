package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/BladeMcCool/PaymentEngine/diagnostic"
	"github.com/BladeMcCool/PaymentEngine/engine"
	"github.com/BladeMcCool/PaymentEngine/ingest"

	"go.uber.org/zap"
)

// MaxUploadBytes caps the size of one CSV batch.
const MaxUploadBytes = 32 << 20

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	ledger   Ledger
	logger   *zap.Logger
	maxBytes int64
}

// NewTransactionHandler creates a new TransactionHandler. A nil logger
// discards logs.
func NewTransactionHandler(ledger Ledger, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, logger: orNop(logger), maxBytes: MaxUploadBytes}
}

// IngestResponse reports the outcome of one uploaded batch.
type IngestResponse struct {
	engine.Summary
	Diagnostics []string `json:"diagnostics"`
}

// CreateTransactionsHandler applies a CSV batch of transaction records to the
// shared ledger. Rejected records do not fail the request; they are listed in
// the response diagnostics. The body is read in full before the ledger is
// touched, so a slow upload never holds up other requests.
//
// Method: POST
// Path: /transactions
// Success: 200 OK
// Error: 400 Bad Request (for an unreadable body or CSV header)
// Error: 413 Request Entity Too Large (for a body over MaxUploadBytes)
// Error: 500 Internal Server Error (if the batch could not be processed)
func (h *TransactionHandler) CreateTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Could not read request body", http.StatusBadRequest)
		return
	}

	rec := &diagnostic.Recorder{}
	sum, err := h.ledger.ProcessTo(r.Context(), bytes.NewReader(body), rec)
	if err != nil {
		if errors.Is(err, ingest.ErrBadHeader) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("could not process transactions", zap.Int("applied", sum.Applied), zap.Error(err))
		http.Error(w, "Failed to process transactions", http.StatusInternalServerError)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, IngestResponse{Summary: sum, Diagnostics: rec.Lines()})
}
