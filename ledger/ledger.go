// Package ledger implements the account state machine behind the payment engine.
//
// A Ledger owns two tables: client id to account balances, and tx id to the
// deposit or withdrawal that created it. Records are applied one at a time in
// stream order; a rejected record leaves both tables exactly as they were.
package ledger

import (
	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/shopspring/decimal"
)

// Transaction is the stored form of a deposit or withdrawal. Owner, Kind and
// Amount never change once recorded; the lifecycle facts only accumulate.
type Transaction struct {
	TxID        int64           `json:"tx"`
	ClientID    int64           `json:"client"`
	Kind        model.Kind      `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Disputed    bool            `json:"disputed"`
	Resolved    bool            `json:"resolved"`
	ChargedBack bool            `json:"charged_back"`
}

type account struct {
	available decimal.Decimal
	held      decimal.Decimal
	total     decimal.Decimal
	locked    bool
}

// Ledger holds the account and transaction tables. It is not safe for
// concurrent use.
type Ledger struct {
	accounts map[int64]*account
	order    []int64
	txs      map[int64]*Transaction
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[int64]*account),
		txs:      make(map[int64]*Transaction),
	}
}

// Apply validates rec and applies it. On any error the ledger is unchanged,
// except that a valid record still materializes its client's account.
func (l *Ledger) Apply(rec model.Record) error {
	if err := Validate(rec); err != nil {
		return err
	}

	acc := l.materialize(rec.ClientID)
	tx := l.txs[rec.TxID]

	if !rec.Kind.CarriesAmount() && tx != nil && tx.ClientID != rec.ClientID {
		return ErrClientMismatch
	}
	if acc.locked {
		return ErrClientLocked
	}

	switch rec.Kind {
	case model.KindDeposit:
		return l.deposit(acc, tx, rec)
	case model.KindWithdrawal:
		return l.withdraw(acc, tx, rec)
	case model.KindDispute:
		return dispute(acc, tx)
	case model.KindResolve:
		return resolve(acc, tx)
	case model.KindChargeback:
		return chargeback(acc, tx)
	}
	return ErrInvalidRecordType
}

func (l *Ledger) materialize(clientID int64) *account {
	acc, ok := l.accounts[clientID]
	if !ok {
		acc = &account{}
		l.accounts[clientID] = acc
		l.order = append(l.order, clientID)
	}
	return acc
}

func (l *Ledger) record(rec model.Record) {
	l.txs[rec.TxID] = &Transaction{
		TxID:     rec.TxID,
		ClientID: rec.ClientID,
		Kind:     rec.Kind,
		Amount:   rec.Amount,
	}
}

func (l *Ledger) deposit(acc *account, tx *Transaction, rec model.Record) error {
	if tx != nil {
		return ErrDuplicateDeposit
	}

	acc.available = acc.available.Add(rec.Amount)
	acc.total = acc.total.Add(rec.Amount)
	l.record(rec)
	return nil
}

func (l *Ledger) withdraw(acc *account, tx *Transaction, rec model.Record) error {
	if tx != nil {
		return ErrDuplicateWithdrawal
	}
	if acc.available.LessThan(rec.Amount) {
		return ErrInsufficientFunds
	}

	acc.available = acc.available.Sub(rec.Amount)
	acc.total = acc.total.Sub(rec.Amount)
	l.record(rec)
	return nil
}

// The three dispute-family handlers keep their checks spelled out one by one:
// when a record breaks several rules, the first check in each list is the
// reason that gets reported.

// dispute holds a deposit's amount. Besides the lifecycle checks it rejects
// with ErrInsufficientFunds when available is below the amount, so available
// never goes negative.
func dispute(acc *account, tx *Transaction) error {
	switch {
	case tx == nil:
		return ErrTxNotFound
	case tx.Kind != model.KindDeposit:
		return ErrTxNotDeposit
	case tx.ChargedBack:
		return ErrTxChargedBack
	case tx.Resolved:
		return ErrTxResolved
	case tx.Disputed:
		return ErrTxAlreadyDisputed
	case acc.available.LessThan(tx.Amount):
		return ErrInsufficientFunds
	}

	acc.available = acc.available.Sub(tx.Amount)
	acc.held = acc.held.Add(tx.Amount)
	tx.Disputed = true
	return nil
}

func resolve(acc *account, tx *Transaction) error {
	switch {
	case tx == nil:
		return ErrTxNotFound
	case tx.Kind != model.KindDeposit:
		return ErrTxNotDeposit
	case !tx.Disputed:
		return ErrTxNotDisputed
	case tx.ChargedBack:
		return ErrTxChargedBack
	case tx.Resolved:
		return ErrTxAlreadyResolved
	}

	acc.held = acc.held.Sub(tx.Amount)
	acc.available = acc.available.Add(tx.Amount)
	tx.Resolved = true
	return nil
}

func chargeback(acc *account, tx *Transaction) error {
	switch {
	case tx == nil:
		return ErrTxNotFound
	case tx.Kind != model.KindDeposit:
		return ErrTxNotDeposit
	case !tx.Disputed:
		return ErrTxNotDisputed
	case tx.ChargedBack:
		return ErrTxAlreadyChargedBack
	case tx.Resolved:
		return ErrTxResolved
	}

	acc.held = acc.held.Sub(tx.Amount)
	acc.total = acc.total.Sub(tx.Amount)
	tx.ChargedBack = true
	acc.locked = true
	return nil
}

// Account returns a snapshot of one client's balances.
func (l *Ledger) Account(clientID int64) (model.Account, bool) {
	acc, ok := l.accounts[clientID]
	if !ok {
		return model.Account{}, false
	}
	return acc.snapshot(clientID), true
}

// Transaction returns a copy of the stored deposit or withdrawal with id txID.
func (l *Ledger) Transaction(txID int64) (Transaction, bool) {
	tx, ok := l.txs[txID]
	if !ok {
		return Transaction{}, false
	}
	return *tx, true
}

// Snapshot returns every account in the order its client was first seen.
func (l *Ledger) Snapshot() []model.Account {
	out := make([]model.Account, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.accounts[id].snapshot(id))
	}
	return out
}

// Len returns the number of accounts.
func (l *Ledger) Len() int { return len(l.order) }

func (a *account) snapshot(clientID int64) model.Account {
	return model.Account{
		ClientID:  clientID,
		Available: a.available,
		Held:      a.held,
		Total:     a.total,
		Locked:    a.locked,
	}
}
