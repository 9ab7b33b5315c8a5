package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Package model defines the records and account snapshots shared by the payment engine.

// Money is carried as github.com/shopspring/decimal rather than float64.
// Balances are checked for total == available + held after every mutation, and
// binary floating point cannot hold values like 0.1 exactly, so drift would break
// that equality after a handful of deposits and disputes.

// AmountScale is the number of fractional digits kept for every amount.
const AmountScale = 4

// Kind is the type of a transaction record.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind maps a raw token to a Kind. Unrecognized tokens are returned as-is
// so the validator can reject them with their original spelling.
func ParseKind(s string) Kind {
	return Kind(strings.TrimSpace(s))
}

// Valid reports whether k is one of the five recognized record kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return true
	}
	return false
}

// CarriesAmount reports whether records of this kind bring their own amount.
// Dispute, resolve and chargeback reuse the amount of the referenced deposit.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

func (k Kind) String() string { return string(k) }

// Record is one normalized transaction record.
type Record struct {
	Kind     Kind            `json:"type"`
	ClientID int64           `json:"client"`
	TxID     int64           `json:"tx"`
	Amount   decimal.Decimal `json:"amount"`
}

// Account is a read-only snapshot of one client's balances.
type Account struct {
	ClientID  int64           `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// TruncateAmount drops every fractional digit past AmountScale without rounding.
func TruncateAmount(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(AmountScale)
}

// FormatAmount renders an amount with only its significant fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}
