package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database/dbtest"
	"pharmacy/m/internal/store"
)

func TestClients(t *testing.T) {
	ctx := context.Background()
	clients := store.NewClients(dbtest.New(t))

	c, err := clients.Create(ctx, domain.Client{FullName: "Иванов Иван", PhoneNumber: "+7 900 000 00 00"})
	require.NoError(t, err)
	_, err = clients.Create(ctx, domain.Client{FullName: "Петрова Анна"})
	require.NoError(t, err)

	found, err := clients.List(ctx, "иван")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, c.ID, found[0].ID)

	c.Address = "Москва"
	_, err = clients.Update(ctx, c.ID, c)
	require.NoError(t, err)
	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Москва", got.Address)

	require.NoError(t, clients.Delete(ctx, c.ID))
	_, err = clients.Get(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecipesMatchNumberOrPatient(t *testing.T) {
	ctx := context.Background()
	recipes := store.NewRecipes(dbtest.New(t))

	_, err := recipes.Create(ctx, domain.Recipe{RecipeNumber: "RX-001", PatientName: "Сидоров"})
	require.NoError(t, err)
	_, err = recipes.Create(ctx, domain.Recipe{RecipeNumber: "RX-002", PatientName: "Кузнецова"})
	require.NoError(t, err)

	byNumber, err := recipes.List(ctx, "rx-002")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	require.Equal(t, "Кузнецова", byNumber[0].PatientName)

	byPatient, err := recipes.List(ctx, "сидор")
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
	require.Equal(t, "RX-001", byPatient[0].RecipeNumber)

	_, err = recipes.Update(ctx, 404, domain.Recipe{RecipeNumber: "x"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSupplies(t *testing.T) {
	ctx := context.Background()
	supplies := store.NewSupplies(dbtest.New(t))

	sup, err := supplies.Create(ctx, domain.Supply{SupplyNumber: "П-17", Quantity: 250, Supplier: "Протек"})
	require.NoError(t, err)

	found, err := supplies.List(ctx, "п-1")
	require.NoError(t, err)
	require.Len(t, found, 1)

	sup.Quantity = 300
	_, err = supplies.Update(ctx, sup.ID, sup)
	require.NoError(t, err)
	got, err := supplies.Get(ctx, sup.ID)
	require.NoError(t, err)
	require.Equal(t, int64(300), got.Quantity)

	require.NoError(t, supplies.Delete(ctx, sup.ID))
	require.ErrorIs(t, supplies.Delete(ctx, sup.ID), store.ErrNotFound)
}
