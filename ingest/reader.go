package ingest

import (
	"encoding/csv"
	"errors"
	"io"
)

// Row is one raw input row and the line it started on.
type Row struct {
	Line   int
	Tokens []string
}

// Reader yields raw rows from a CSV transaction stream. The first row that
// reads cleanly is inspected once: if it names known columns it sets the
// Layout and is not returned, otherwise DefaultLayout applies and the row is
// data.
type Reader struct {
	csv     *csv.Reader
	layout  Layout
	started bool
	pending *Row
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	return &Reader{csv: cr, layout: DefaultLayout}
}

// Layout returns the field layout in effect. It is final after the first call to Next.
func (r *Reader) Layout() Layout { return r.layout }

// Next returns the next data row, or io.EOF at the end of the stream.
// A *csv.ParseError affects only the current row; callers may keep reading.
func (r *Reader) Next() (Row, error) {
	if !r.started {
		if err := r.detect(); err != nil {
			return Row{}, err
		}
	}

	if r.pending != nil {
		row := *r.pending
		r.pending = nil
		return row, nil
	}
	return r.read()
}

// detect leaves the Reader unstarted when the row fails to parse, so the next
// row still gets a chance to be the header.
func (r *Reader) detect() error {
	row, err := r.read()
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return err
	}
	r.started = true
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	if !IsHeader(row.Tokens) {
		r.pending = &row
		return nil
	}

	layout, err := LayoutFromHeader(row.Tokens)
	if err != nil {
		return err
	}
	r.layout = layout
	return nil
}

func (r *Reader) read() (Row, error) {
	tokens, err := r.csv.Read()
	if err != nil {
		return Row{}, err
	}
	line, _ := r.csv.FieldPos(0)
	return Row{Line: line, Tokens: tokens}, nil
}
