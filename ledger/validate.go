package ledger

import "github.com/BladeMcCool/PaymentEngine/model"

const (
	MinTxID     = 1
	MaxTxID     = 4294967295
	MinClientID = 1
	MaxClientID = 65535
)

// Validate checks the structural and range constraints of a normalized record.
// Only the first failing check is reported: kind, then tx id, then client id.
func Validate(rec model.Record) error {
	if !rec.Kind.Valid() {
		return ErrInvalidRecordType
	}
	if rec.TxID < MinTxID || rec.TxID > MaxTxID {
		return ErrInvalidTxID
	}
	if rec.ClientID < MinClientID || rec.ClientID > MaxClientID {
		return ErrInvalidClientID
	}
	if rec.Kind.CarriesAmount() && rec.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
