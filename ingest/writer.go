package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/BladeMcCool/PaymentEngine/model"
)

var outputHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes the account snapshot as CSV, one row per account in
// the order given.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outputHeader); err != nil {
		return err
	}
	for _, acc := range accounts {
		row := []string{
			strconv.FormatInt(acc.ClientID, 10),
			model.FormatAmount(acc.Available),
			model.FormatAmount(acc.Held),
			model.FormatAmount(acc.Total),
			strconv.FormatBool(acc.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
