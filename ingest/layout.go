package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadHeader is returned when a header row lacks a required column.
var ErrBadHeader = errors.New("bad header")

// Layout maps the semantic fields of a record to column indexes.
// Amount is -1 when the input has no amount column.
type Layout struct {
	Type   int
	Client int
	Tx     int
	Amount int
}

// DefaultLayout is used when the input has no header row: type,client,tx,amount.
var DefaultLayout = Layout{Type: 0, Client: 1, Tx: 2, Amount: 3}

var columnNames = map[string]string{
	"type":        "type",
	"record_type": "type",
	"client":      "client",
	"client_id":   "client",
	"tx":          "tx",
	"tx_id":       "tx",
	"amount":      "amount",
}

// IsHeader reports whether a row names at least one known column.
func IsHeader(tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := columnNames[strings.ToLower(strings.TrimSpace(tok))]; ok {
			return true
		}
	}
	return false
}

// LayoutFromHeader builds a Layout from a header row. Unknown columns are
// ignored; the first occurrence of a repeated column wins.
func LayoutFromHeader(tokens []string) (Layout, error) {
	found := map[string]int{}
	for i, tok := range tokens {
		name, ok := columnNames[strings.ToLower(strings.TrimSpace(tok))]
		if !ok {
			continue
		}
		if _, seen := found[name]; !seen {
			found[name] = i
		}
	}

	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := found[required]; !ok {
			return Layout{}, fmt.Errorf("%w: no %q column", ErrBadHeader, required)
		}
	}

	layout := Layout{Type: found["type"], Client: found["client"], Tx: found["tx"], Amount: -1}
	if i, ok := found["amount"]; ok {
		layout.Amount = i
	}
	return layout, nil
}
