// Package engine runs raw transaction rows through normalization, validation
// and the ledger, reporting every failure to a diagnostic sink.
package engine

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/BladeMcCool/PaymentEngine/diagnostic"
	"github.com/BladeMcCool/PaymentEngine/ingest"
	"github.com/BladeMcCool/PaymentEngine/ledger"
	"github.com/BladeMcCool/PaymentEngine/model"
)

// Summary counts the outcome of one processed stream.
type Summary struct {
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
}

// Engine owns a ledger and serializes every change to it.
type Engine struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
	sink   diagnostic.Sink
}

// New creates an Engine with an empty ledger. A nil sink discards diagnostics.
func New(sink diagnostic.Sink) *Engine {
	if sink == nil {
		sink = diagnostic.Discard
	}
	return &Engine{ledger: ledger.New(), sink: sink}
}

// ApplyRow normalizes, validates and applies one raw row. The returned error,
// if any, has already been reported to the sink.
func (e *Engine) ApplyRow(row ingest.Row, layout ingest.Layout) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyRow(row, layout, e.sink)
}

// Apply validates and applies an already normalized record.
func (e *Engine) Apply(rec model.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(rec, e.sink)
}

func (e *Engine) applyRow(row ingest.Row, layout ingest.Layout, sink diagnostic.Sink) error {
	rec, err := ingest.Normalize(row.Tokens, layout)
	if err != nil {
		sink.Report(diagnostic.ForRow(row.Line, err))
		return err
	}
	return e.apply(rec, sink)
}

func (e *Engine) apply(rec model.Record, sink diagnostic.Sink) error {
	if err := e.ledger.Apply(rec); err != nil {
		sink.Report(diagnostic.ForRecord(rec, err))
		return err
	}
	return nil
}

// Process reads a CSV transaction stream to the end, applying rows in order.
// Row-level failures are reported and skipped; only an unreadable stream, a
// bad header or a cancelled context stop processing.
func (e *Engine) Process(ctx context.Context, r io.Reader) (Summary, error) {
	return e.ProcessTo(ctx, r, nil)
}

// ProcessTo is Process with an extra sink that receives this stream's
// diagnostics in addition to the Engine's own sink.
func (e *Engine) ProcessTo(ctx context.Context, r io.Reader, extra diagnostic.Sink) (Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sink := e.sink
	if extra != nil {
		sink = diagnostic.Multi(e.sink, extra)
	}

	var sum Summary
	reader := ingest.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			sink.Report(diagnostic.ForRow(perr.Line, err))
			sum.Rejected++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("could not read transactions: %w", err)
		}

		if err := e.applyRow(row, reader.Layout(), sink); err != nil {
			sum.Rejected++
			continue
		}
		sum.Applied++
	}
}

// Accounts returns every account in first-encounter order.
func (e *Engine) Accounts() []model.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Snapshot()
}

// Account returns one client's balances.
func (e *Engine) Account(clientID int64) (model.Account, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Account(clientID)
}

// Transaction returns the stored deposit or withdrawal with id txID.
func (e *Engine) Transaction(txID int64) (ledger.Transaction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Transaction(txID)
}
