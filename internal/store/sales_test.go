package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database/dbtest"
	"pharmacy/m/internal/store"
)

func TestSalesPersistItemColumns(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	sales := store.NewSales(db)

	created, err := sales.Create(ctx, domain.Sale{
		SaleDate:    "2024-05-01",
		Medicines:   domain.MedicineIDs{3, 1},
		Quantities:  domain.Quantities{3: 2, 1: 5},
		TotalAmount: decimal.RequireFromString("74.5"),
	})
	require.NoError(t, err)

	var raw struct {
		Medicines  string `db:"medicines"`
		Quantities string `db:"quantities"`
	}
	require.NoError(t, db.Get(&raw, `SELECT medicines, quantities FROM sales WHERE id = ?`, created.ID))
	require.JSONEq(t, `[3,1]`, raw.Medicines)
	require.JSONEq(t, `{"1":5,"3":2}`, raw.Quantities)

	got, err := sales.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MedicineIDs{3, 1}, got.Medicines)
	require.Equal(t, domain.Quantities{3: 2, 1: 5}, got.Quantities)
	require.True(t, got.TotalAmount.Equal(decimal.RequireFromString("74.5")))

	got.Quantities[3] = 1
	_, err = sales.Update(ctx, got)
	require.NoError(t, err)

	list, err := sales.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(1), list[0].Quantities[3])

	require.NoError(t, sales.Delete(ctx, created.ID))
	_, err = sales.Get(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = sales.Update(ctx, got)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSalesListFiltersByID(t *testing.T) {
	ctx := context.Background()
	sales := store.NewSales(dbtest.New(t))

	for i := 0; i < 12; i++ {
		_, err := sales.Create(ctx, domain.Sale{SaleDate: "2024-05-01"})
		require.NoError(t, err)
	}

	matched, err := sales.List(ctx, "1")
	require.NoError(t, err)
	ids := make([]int64, 0, len(matched))
	for _, s := range matched {
		ids = append(ids, s.ID)
	}
	require.Equal(t, []int64{1, 10, 11, 12}, ids)
	require.NotNil(t, matched[0].Medicines)
	require.Empty(t, matched[0].Medicines)
}
