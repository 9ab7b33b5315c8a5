// Package diagnostic carries the per-record failure events emitted while
// ingesting a transaction stream, and the sinks that receive them.
package diagnostic

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Diagnostic describes one rejected or unparseable record.
type Diagnostic struct {
	// Record is set when the failing row was parsed into a record.
	Record *model.Record
	// Line is the 1-based input line, or 0 when unknown.
	Line int
	Err  error
}

// ForRecord builds a Diagnostic for a record the validator or ledger rejected.
func ForRecord(rec model.Record, err error) Diagnostic {
	return Diagnostic{Record: &rec, Err: err}
}

// ForRow builds a Diagnostic for a row that never became a record.
func ForRow(line int, err error) Diagnostic {
	return Diagnostic{Line: line, Err: err}
}

// Reason is the failure text without any record context.
func (d Diagnostic) Reason() string {
	if d.Err == nil {
		return "unknown error"
	}
	return d.Err.Error()
}

// Amount returns the amount to report, if any. Zero amounts are not shown.
func (d Diagnostic) Amount() (decimal.Decimal, bool) {
	if d.Record == nil || !d.Record.Kind.CarriesAmount() || d.Record.Amount.IsZero() {
		return decimal.Decimal{}, false
	}
	return d.Record.Amount, true
}

// String renders the human-readable diagnostic line.
func (d Diagnostic) String() string {
	if d.Record == nil {
		return "transaction error: " + d.Reason()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "tx_id %d, client_id %d, failed to apply %s", d.Record.TxID, d.Record.ClientID, d.Record.Kind)
	if amount, ok := d.Amount(); ok {
		fmt.Fprintf(&b, " of $%s", model.FormatAmount(amount))
	}
	b.WriteString(": ")
	b.WriteString(d.Reason())
	return b.String()
}

// Sink receives diagnostics. Report must not fail the caller.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// WriterSink writes one line per diagnostic to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a WriterSink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, d.String())
}

// LogSink mirrors diagnostics to a zap logger as structured warnings.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink. A nil logger discards everything.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Report(d Diagnostic) {
	fields := []zap.Field{zap.String("reason", d.Reason())}
	if d.Record != nil {
		fields = append(fields,
			zap.Int64("tx_id", d.Record.TxID),
			zap.Int64("client_id", d.Record.ClientID),
			zap.String("kind", d.Record.Kind.String()),
		)
		if amount, ok := d.Amount(); ok {
			fields = append(fields, zap.String("amount", model.FormatAmount(amount)))
		}
	}
	if d.Line > 0 {
		fields = append(fields, zap.Int("line", d.Line))
	}
	s.logger.Warn("record rejected", fields...)
}

// Recorder keeps every diagnostic it receives.
type Recorder struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.items...)
}

// Lines returns the rendered form of every recorded diagnostic.
func (r *Recorder) Lines() []string {
	items := r.Diagnostics()
	lines := make([]string, 0, len(items))
	for _, d := range items {
		lines = append(lines, d.String())
	}
	return lines
}

// Multi fans a diagnostic out to every non-nil sink, in order.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(d Diagnostic) {
		for _, s := range live {
			s.Report(d)
		}
	})
}
