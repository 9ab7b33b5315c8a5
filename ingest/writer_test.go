package ingest

import (
	"bytes"
	"testing"

	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAccounts(t *testing.T) {
	t.Run("significant digits and lowercase booleans", func(t *testing.T) {
		var buf bytes.Buffer
		accounts := []model.Account{
			{ClientID: 1, Available: decimal.RequireFromString("1.5000"), Held: decimal.Zero, Total: decimal.RequireFromString("1.5")},
			{ClientID: 2, Available: decimal.RequireFromString("2.0"), Held: decimal.Zero, Total: decimal.RequireFromString("2")},
			{ClientID: 3, Available: decimal.Zero, Held: decimal.Zero, Total: decimal.Zero, Locked: true},
		}

		err := WriteAccounts(&buf, accounts)

		require.NoError(t, err)
		assert.Equal(t, "client,available,held,total,locked\n1,1.5,0,1.5,false\n2,2,0,2,false\n3,0,0,0,true\n", buf.String())
	})

	t.Run("header only when no accounts", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, WriteAccounts(&buf, nil))

		assert.Equal(t, "client,available,held,total,locked\n", buf.String())
	})
}
