package store_test

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database/dbtest"
	"pharmacy/m/internal/store"
)

func TestMedicinesCRUD(t *testing.T) {
	ctx := context.Background()
	medicines := store.NewMedicines(dbtest.New(t))

	created, err := medicines.Create(ctx, domain.Medicine{
		Name:         "Парацетамол",
		Form:         "таблетки",
		Dosage:       "500 мг",
		Manufacturer: "Фармстандарт",
		ExpiryDate:   "2027-01-31",
		Quantity:     100,
		Price:        decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := medicines.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Парацетамол", got.Name)
	require.Equal(t, int64(100), got.Quantity)
	require.True(t, got.Price.Equal(decimal.RequireFromString("12.5")), got.Price.String())

	got.Quantity = 40
	got.Price = decimal.NewFromInt(15)
	updated, err := medicines.Update(ctx, created.ID, got)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	got, err = medicines.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40), got.Quantity)
	require.True(t, got.Price.Equal(decimal.NewFromInt(15)))

	require.NoError(t, medicines.Delete(ctx, created.ID))
	_, err = medicines.Get(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, medicines.Delete(ctx, created.ID), store.ErrNotFound)

	_, err = medicines.Update(ctx, created.ID, got)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMedicinesListFiltersByName(t *testing.T) {
	ctx := context.Background()
	medicines := store.NewMedicines(dbtest.New(t))

	for _, name := range []string{"Аспирин", "Ибупрофен", "аспирин кардио"} {
		_, err := medicines.Create(ctx, domain.Medicine{Name: name})
		require.NoError(t, err)
	}

	all, err := medicines.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	matched, err := medicines.List(ctx, "АСПИРИН")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	require.Equal(t, "Аспирин", matched[0].Name)
	require.Equal(t, "аспирин кардио", matched[1].Name)

	n, err := medicines.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestAdjustQuantity(t *testing.T) {
	ctx := context.Background()
	medicines := store.NewMedicines(dbtest.New(t))

	m, err := medicines.Create(ctx, domain.Medicine{Name: "Но-шпа", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, medicines.AdjustQuantity(ctx, m.ID, -5))
	got, err := medicines.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(-3), got.Quantity, "stock is not floored at zero")

	require.NoError(t, medicines.AdjustQuantity(ctx, m.ID, 10))
	got, err = medicines.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(7), got.Quantity)

	require.ErrorIs(t, medicines.AdjustQuantity(ctx, m.ID+100, 1), store.ErrNotFound)
}

func TestAdjustQuantityStaysInRange(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	medicines := store.NewMedicines(db)

	m, err := medicines.Create(ctx, domain.Medicine{Name: "Анальгин", Quantity: domain.MaxQuantity - 1})
	require.NoError(t, err)

	require.NoError(t, medicines.AdjustQuantity(ctx, m.ID, 1))
	require.ErrorIs(t, medicines.AdjustQuantity(ctx, m.ID, 1), store.ErrQuantityRange)
	require.ErrorIs(t, medicines.AdjustQuantity(ctx, m.ID, math.MaxInt64), store.ErrQuantityRange)
	require.ErrorIs(t, medicines.AdjustQuantity(ctx, m.ID, math.MinInt64), store.ErrQuantityRange)
	require.ErrorIs(t, medicines.AdjustQuantity(ctx, m.ID+100, math.MaxInt64), store.ErrNotFound)

	got, err := medicines.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(domain.MaxQuantity), got.Quantity)

	var kind string
	require.NoError(t, db.GetContext(ctx, &kind, `SELECT typeof(quantity) FROM medicines WHERE id = ?`, m.ID))
	require.Equal(t, "integer", kind)
}

func TestPricesSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	medicines := store.NewMedicines(dbtest.New(t))

	a, err := medicines.Create(ctx, domain.Medicine{Name: "A", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	b, err := medicines.Create(ctx, domain.Medicine{Name: "B"})
	require.NoError(t, err)

	prices, err := medicines.Prices(ctx, []int64{a.ID, b.ID, 999})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	require.True(t, prices[a.ID].Equal(decimal.NewFromInt(10)))
	require.True(t, prices[b.ID].IsZero())

	empty, err := medicines.Prices(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}
