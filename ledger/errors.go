package ledger

import "errors"

// Rejection reasons. The error text is the reason printed in diagnostics.
var (
	ErrInvalidRecordType = errors.New("invalid record_type")
	ErrInvalidTxID       = errors.New("invalid tx_id")
	ErrInvalidClientID   = errors.New("invalid client_id")
	ErrNegativeAmount    = errors.New("negative amount")

	ErrClientMismatch = errors.New("tx client_id mismatch")
	ErrClientLocked   = errors.New("client is locked")

	ErrDuplicateDeposit    = errors.New("deposit duplicates existing tx_id")
	ErrDuplicateWithdrawal = errors.New("withdrawal duplicates existing tx_id")
	ErrInsufficientFunds   = errors.New("nsf")

	ErrTxNotFound           = errors.New("tx not found")
	ErrTxNotDeposit         = errors.New("tx is not a deposit")
	ErrTxNotDisputed        = errors.New("tx is not disputed")
	ErrTxAlreadyDisputed    = errors.New("tx is already disputed")
	ErrTxResolved           = errors.New("tx is resolved")
	ErrTxAlreadyResolved    = errors.New("tx is already resolved")
	ErrTxChargedBack        = errors.New("tx is charged back")
	ErrTxAlreadyChargedBack = errors.New("tx is already charged back")
)
