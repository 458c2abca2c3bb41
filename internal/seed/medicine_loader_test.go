package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pharmacy/m/internal/database/dbtest"
	"pharmacy/m/internal/store"
)

func TestLoadMedicines(t *testing.T) {
	ctx := context.Background()
	medicines := store.NewMedicines(dbtest.New(t))

	path := filepath.Join(t.TempDir(), "medicines.csv")
	catalog := "name;form;dosage;manufacturer;expiryDate;quantity;price\n" +
		"Аспирин;таблетки;500 мг;Байер;2026-01-01;30;120.50\n" +
		";капсулы;;;;1;1\n" +
		"Broken;;;;;many;1\n" +
		"Discount;;;;;5;-10\n" +
		"Ношпа;таблетки;40 мг;Хиноин;2025-06-01;12;210\n"
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	n, err := LoadMedicines(ctx, medicines, path, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err := medicines.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Аспирин", all[0].Name)
	require.Equal(t, int64(30), all[0].Quantity)
	require.Equal(t, "Ношпа", all[1].Name)

	// a populated catalog is left alone
	n, err = LoadMedicines(ctx, medicines, path, zerolog.Nop())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLoadMedicinesMissingFile(t *testing.T) {
	medicines := store.NewMedicines(dbtest.New(t))
	_, err := LoadMedicines(context.Background(), medicines, filepath.Join(t.TempDir(), "nope.csv"), zerolog.Nop())
	require.Error(t, err)
}
