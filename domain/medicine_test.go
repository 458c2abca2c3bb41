package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMedicineCheck(t *testing.T) {
	require.NoError(t, Medicine{Name: "A", Quantity: -3, Price: decimal.Zero}.Check())
	require.NoError(t, Medicine{Name: "A", Quantity: MaxQuantity}.Check())
	require.ErrorIs(t, Medicine{Name: "A", Price: decimal.NewFromInt(-1)}.Check(), ErrNegativePrice)
	require.ErrorIs(t, Medicine{Name: "A", Quantity: MaxQuantity + 1}.Check(), ErrQuantityRange)
	require.ErrorIs(t, Medicine{Name: "A", Quantity: -MaxQuantity - 1}.Check(), ErrQuantityRange)
}
