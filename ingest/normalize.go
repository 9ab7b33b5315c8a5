package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrMalformedID     = errors.New("malformed id")
	ErrMalformedAmount = errors.New("malformed amount")
	ErrNegativeAmount  = errors.New("negative amount")
)

// ParseError reports a row that could not be normalized, with the raw tokens.
type ParseError struct {
	Raw []string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v in record %q", e.Err, strings.Join(e.Raw, ","))
}

func (e *ParseError) Unwrap() error { return e.Err }

// Normalize turns one row of raw tokens into a typed record. Every field is
// trimmed; deposit and withdrawal amounts are truncated to model.AmountScale
// fractional digits. The kind is not checked here.
func Normalize(tokens []string, layout Layout) (model.Record, error) {
	fail := func(err error) (model.Record, error) {
		return model.Record{}, &ParseError{Raw: append([]string(nil), tokens...), Err: err}
	}

	field := func(i int) (string, bool) {
		if i < 0 || i >= len(tokens) {
			return "", false
		}
		return strings.TrimSpace(tokens[i]), true
	}

	kindTok, ok := field(layout.Type)
	if !ok {
		return fail(fmt.Errorf("%w %q", ErrMissingField, "type"))
	}
	clientTok, ok := field(layout.Client)
	if !ok {
		return fail(fmt.Errorf("%w %q", ErrMissingField, "client"))
	}
	txTok, ok := field(layout.Tx)
	if !ok {
		return fail(fmt.Errorf("%w %q", ErrMissingField, "tx"))
	}

	rec := model.Record{Kind: model.ParseKind(kindTok)}

	var err error
	if rec.ClientID, err = parseID(clientTok); err != nil {
		return fail(err)
	}
	if rec.TxID, err = parseID(txTok); err != nil {
		return fail(err)
	}

	if !rec.Kind.CarriesAmount() {
		return rec, nil
	}

	amountTok, ok := field(layout.Amount)
	if !ok || amountTok == "" {
		return fail(fmt.Errorf("%w %q", ErrMissingField, "amount"))
	}
	if rec.Amount, err = ParseAmount(amountTok); err != nil {
		return fail(err)
	}
	return rec, nil
}

func parseID(tok string) (int64, error) {
	id, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrMalformedID, tok)
	}
	return id, nil
}

// ParseAmount parses an exact decimal and truncates it, without rounding, to
// model.AmountScale fractional digits. Negative amounts are rejected.
func ParseAmount(tok string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(tok))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w %q", ErrMalformedAmount, tok)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w %q", ErrNegativeAmount, tok)
	}
	return model.TruncateAmount(d), nil
}
