package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"pharmacy/m/internal/csvio"
	"pharmacy/m/internal/store"
)

// LoadMedicines ingests the CSV into the medicines table when the table is
// still empty. Rows without a name, with unparsable numbers or breaking the
// medicine rules are skipped.
// It returns the number of rows inserted.
func LoadMedicines(ctx context.Context, medicines *store.Medicines, csvPath string, log zerolog.Logger) (int, error) {
	existing, err := medicines.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count medicines: %w", err)
	}
	if existing > 0 {
		log.Debug().Int64("existing", existing).Msg("medicine catalog already populated, skipping seed")
		return 0, nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open medicine catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	records, err := csvio.Read(file)
	if err != nil {
		return 0, fmt.Errorf("read medicine catalog %s: %w", csvPath, err)
	}

	rows := 0
	for i, rec := range records {
		m, err := csvio.ParseMedicine(rec)
		if err != nil {
			log.Warn().Err(err).Int("row", i+1).Msg("unable to parse medicine row")
			continue
		}
		if m.Name == "" {
			continue
		}
		if err := m.Check(); err != nil {
			log.Warn().Err(err).Int("row", i+1).Str("name", m.Name).Msg("medicine row rejected")
			continue
		}
		if _, err := medicines.Create(ctx, m); err != nil {
			log.Warn().Err(err).Str("name", m.Name).Msg("unable to insert medicine")
			continue
		}
		rows++
	}

	log.Info().Int("rows", rows).Str("path", csvPath).Msg("seeded medicine catalog")
	return rows, nil
}
