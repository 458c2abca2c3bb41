// Package sales keeps medicine stock consistent with the recorded sales.
//
// Every sale mutation runs in a single transaction that covers the sale row
// and each stock adjustment it implies, so a failure leaves neither behind.
// The database pool holds one connection, which serialises these
// transactions; stock writes are relative updates on top of that.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
	"pharmacy/m/internal/common"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/obs"
	"pharmacy/m/internal/store"
)

// Input is the client-supplied part of a sale. TotalAmount is accepted for
// compatibility with the UI payload but always recomputed.
type Input struct {
	SaleDate    string            `json:"saleDate"`
	Medicines   []int64           `json:"medicines"`
	Quantities  domain.Quantities `json:"quantities"`
	TotalAmount *decimal.Decimal  `json:"totalAmount,omitempty"`
}

// Config wires an Engine.
type Config struct {
	DB      *sqlx.DB
	Logger  zerolog.Logger
	Metrics *obs.SalesMetrics
}

// Engine applies sale lifecycle operations to the sale store and the
// medicine ledger.
type Engine struct {
	db        *sqlx.DB
	medicines *store.Medicines
	sales     *store.Sales
	log       zerolog.Logger
	metrics   *obs.SalesMetrics
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.DB == nil {
		return nil, errors.New("sales: database is required")
	}
	return &Engine{
		db:        cfg.DB,
		medicines: store.NewMedicines(cfg.DB),
		sales:     store.NewSales(cfg.DB),
		log:       cfg.Logger.With().Str("component", "sales").Logger(),
		metrics:   cfg.Metrics,
	}, nil
}

func (e *Engine) Get(ctx context.Context, id int64) (domain.Sale, error) {
	sale, err := e.sales.Get(ctx, id)
	if err != nil {
		return domain.Sale{}, saleLookupError(id, err)
	}
	return sale, nil
}

// List returns sales whose id contains query.
func (e *Engine) List(ctx context.Context, query string) ([]domain.Sale, error) {
	sales, err := e.sales.List(ctx, query)
	if err != nil {
		return nil, common.Store("unable to list sales", err)
	}
	return sales, nil
}

// Create records a sale and debits every sold medicine.
func (e *Engine) Create(ctx context.Context, in Input) (domain.Sale, error) {
	items, err := in.items()
	if err != nil {
		e.observe("create", err)
		return domain.Sale{}, err
	}

	var created domain.Sale
	var moved int64
	err = database.InTx(ctx, e.db, func(tx *sqlx.Tx) error {
		medicines := e.medicines.WithTx(tx)
		prices, err := e.resolve(ctx, medicines, items)
		if err != nil {
			return err
		}
		created, err = e.sales.WithTx(tx).Create(ctx, newSale(in.SaleDate, items, prices))
		if err != nil {
			return common.Store("unable to create sale", err)
		}
		moved, err = e.apply(ctx, medicines, items, -1)
		return err
	})
	if err != nil {
		err = asStoreError("unable to create sale", err)
		e.observe("create", err)
		return domain.Sale{}, err
	}

	e.observe("create", nil)
	e.metrics.Stock("debit", moved)
	e.log.Info().
		Int64("sale_id", created.ID).
		Int("items", len(items)).
		Str("total", created.TotalAmount.String()).
		Msg("sale created")
	return created, nil
}

// Update replaces the date and items of a sale. The previous items are
// credited back, the row is rewritten with a recomputed total, then the new
// items are debited. Identical items therefore leave stock unchanged.
// An unknown sale is reported before the input is validated.
func (e *Engine) Update(ctx context.Context, id int64, in Input) (domain.Sale, error) {
	var updated domain.Sale
	var items []domain.SaleItem
	var credited, debited int64
	err := database.InTx(ctx, e.db, func(tx *sqlx.Tx) error {
		sales := e.sales.WithTx(tx)
		medicines := e.medicines.WithTx(tx)

		existing, err := sales.Get(ctx, id)
		if err != nil {
			return saleLookupError(id, err)
		}
		if items, err = in.items(); err != nil {
			return err
		}
		prices, err := e.resolve(ctx, medicines, items)
		if err != nil {
			return err
		}

		if credited, err = e.apply(ctx, medicines, existing.Items(), +1); err != nil {
			return err
		}
		sale := newSale(in.SaleDate, items, prices)
		sale.ID = id
		if updated, err = sales.Update(ctx, sale); err != nil {
			return common.Store("unable to update sale", err)
		}
		debited, err = e.apply(ctx, medicines, items, -1)
		return err
	})
	if err != nil {
		err = asStoreError("unable to update sale", err)
		e.observe("update", err)
		return domain.Sale{}, err
	}

	e.observe("update", nil)
	e.metrics.Stock("credit", credited)
	e.metrics.Stock("debit", debited)
	e.log.Info().
		Int64("sale_id", id).
		Int("items", len(items)).
		Str("total", updated.TotalAmount.String()).
		Msg("sale updated")
	return updated, nil
}

// Delete removes a sale and credits its items back to stock. The removed
// sale is returned.
func (e *Engine) Delete(ctx context.Context, id int64) (domain.Sale, error) {
	var deleted domain.Sale
	var credited int64
	err := database.InTx(ctx, e.db, func(tx *sqlx.Tx) error {
		sales := e.sales.WithTx(tx)

		var err error
		deleted, err = sales.Get(ctx, id)
		if err != nil {
			return saleLookupError(id, err)
		}
		if credited, err = e.apply(ctx, e.medicines.WithTx(tx), deleted.Items(), +1); err != nil {
			return err
		}
		if err := sales.Delete(ctx, id); err != nil {
			return common.Store("unable to delete sale", err)
		}
		return nil
	})
	if err != nil {
		err = asStoreError("unable to delete sale", err)
		e.observe("delete", err)
		return domain.Sale{}, err
	}

	e.observe("delete", nil)
	e.metrics.Stock("credit", credited)
	e.log.Info().Int64("sale_id", id).Msg("sale deleted")
	return deleted, nil
}

// resolve loads unit prices for items and rejects the sale when any
// medicine does not exist.
func (e *Engine) resolve(ctx context.Context, medicines *store.Medicines, items []domain.SaleItem) (map[int64]decimal.Decimal, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.MedicineID
	}
	prices, err := medicines.Prices(ctx, ids)
	if err != nil {
		return nil, common.Store("unable to load medicine prices", err)
	}

	var unknown []int64
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, common.Validation(fmt.Sprintf("unknown medicines: %s", joinIDs(unknown))).
			WithDetails(map[string]any{"medicines": unknown})
	}
	return prices, nil
}

// apply adjusts stock by sign × quantity for each item and returns the
// number of units moved. Credits to medicines that have since been deleted
// are skipped; debits always target medicines checked by resolve within the
// same transaction.
func (e *Engine) apply(ctx context.Context, medicines *store.Medicines, items []domain.SaleItem, sign int64) (int64, error) {
	var moved int64
	for _, item := range items {
		err := medicines.AdjustQuantity(ctx, item.MedicineID, sign*item.Quantity)
		if errors.Is(err, store.ErrNotFound) && sign > 0 {
			e.log.Warn().
				Int64("medicine_id", item.MedicineID).
				Int64("quantity", item.Quantity).
				Msg("skipping credit for deleted medicine")
			continue
		}
		if errors.Is(err, store.ErrQuantityRange) {
			return 0, common.Validation(fmt.Sprintf("stock for medicine %d would leave the range ±%d", item.MedicineID, domain.MaxQuantity)).
				WithDetails(map[string]any{"medicines": []int64{item.MedicineID}})
		}
		if err != nil {
			return 0, common.Store(fmt.Sprintf("unable to adjust stock for medicine %d", item.MedicineID), err)
		}
		moved += item.Quantity
	}
	return moved, nil
}

func (e *Engine) observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = common.CodeStore
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			outcome = appErr.Code
		}
		if outcome == common.CodeStore {
			e.log.Error().Err(err).Str("op", op).Msg("sale operation failed")
		}
	}
	e.metrics.Observe(op, outcome)
}

// items normalises the input into sale lines. The medicine list decides
// which lines exist and their order; when it is empty the quantity keys are
// used instead. Repeated ids collapse into one line.
func (in Input) items() ([]domain.SaleItem, error) {
	if strings.TrimSpace(in.SaleDate) == "" {
		return nil, common.Validation("saleDate is required")
	}

	ids := in.Medicines
	if len(ids) == 0 {
		ids = make([]int64, 0, len(in.Quantities))
		for id := range in.Quantities {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	if len(ids) == 0 {
		return nil, common.Validation("sale must contain at least one medicine")
	}

	seen := make(map[int64]bool, len(ids))
	items := make([]domain.SaleItem, 0, len(ids))
	var invalid []int64
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		qty := in.Quantities[id]
		if qty <= 0 || qty > domain.MaxQuantity {
			invalid = append(invalid, id)
			continue
		}
		items = append(items, domain.SaleItem{MedicineID: id, Quantity: qty})
	}
	if len(invalid) > 0 {
		return nil, common.Validation(fmt.Sprintf("quantity must be between 1 and %d for medicines: %s", domain.MaxQuantity, joinIDs(invalid))).
			WithDetails(map[string]any{"medicines": invalid})
	}
	return items, nil
}

// newSale builds the stored row; the total uses the prices in effect now.
func newSale(date string, items []domain.SaleItem, prices map[int64]decimal.Decimal) domain.Sale {
	sale := domain.Sale{
		SaleDate:    strings.TrimSpace(date),
		Medicines:   make(domain.MedicineIDs, 0, len(items)),
		Quantities:  make(domain.Quantities, len(items)),
		TotalAmount: decimal.Zero,
	}
	for _, item := range items {
		sale.Medicines = append(sale.Medicines, item.MedicineID)
		sale.Quantities[item.MedicineID] = item.Quantity
		sale.TotalAmount = sale.TotalAmount.Add(prices[item.MedicineID].Mul(decimal.NewFromInt(item.Quantity)))
	}
	return sale
}

func saleLookupError(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return common.NotFound(fmt.Sprintf("sale %d not found", id), err)
	}
	return common.Store("unable to load sale", err)
}

// asStoreError leaves typed errors untouched and classifies the rest
// (begin/commit failures) as store errors.
func asStoreError(message string, err error) error {
	if common.IsAppError(err) {
		return err
	}
	return common.Store(message, err)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
