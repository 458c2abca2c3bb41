package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacy/m/domain"
	"pharmacy/m/internal/common"
	"pharmacy/m/internal/csvio"
)

const maxImportBytes = 10 << 20

type recordStore[T any] interface {
	List(ctx context.Context, query string) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// resource serves CRUD and CSV transfer for one plain record type.
type resource[T any] struct {
	h      *Handler
	entity string
	file   string
	store  recordStore[T]
	header []string
	row    func(T) []string
	parse  func(csvio.Record) (T, error)
	extra  func(T) error
}

func (h *Handler) medicineResource() resource[domain.Medicine] {
	return resource[domain.Medicine]{
		h: h, entity: "medicine", file: "medicines.csv", store: h.medicines,
		header: csvio.MedicineHeader, row: csvio.MedicineRow, parse: csvio.ParseMedicine,
		extra: func(m domain.Medicine) error {
			if err := m.Check(); err != nil {
				return common.Validation(err.Error())
			}
			return nil
		},
	}
}

func (h *Handler) clientResource() resource[domain.Client] {
	return resource[domain.Client]{
		h: h, entity: "client", file: "clients.csv", store: h.clients,
		header: csvio.ClientHeader, row: csvio.ClientRow, parse: csvio.ParseClient,
	}
}

func (h *Handler) recipeResource() resource[domain.Recipe] {
	return resource[domain.Recipe]{
		h: h, entity: "recipe", file: "recipes.csv", store: h.recipes,
		header: csvio.RecipeHeader, row: csvio.RecipeRow, parse: csvio.ParseRecipe,
	}
}

func (h *Handler) supplyResource() resource[domain.Supply] {
	return resource[domain.Supply]{
		h: h, entity: "supply", file: "supplies.csv", store: h.supplies,
		header: csvio.SupplyHeader, row: csvio.SupplyRow, parse: csvio.ParseSupply,
	}
}

func (res resource[T]) routes(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/export", res.export)
	r.Post("/import", res.importCSV)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.delete)
}

func (res resource[T]) valid(v T) error {
	if err := res.h.check(v); err != nil {
		return err
	}
	if res.extra != nil {
		return res.extra(v)
	}
	return nil
}

func (res resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := res.store.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		res.h.writeError(w, r, storeError(res.entity, "list", err))
		return
	}
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (res resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	item, err := res.store.Get(r.Context(), id)
	if err != nil {
		res.h.writeError(w, r, storeError(res.entity, "load", err))
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (res resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(r, &item); err != nil {
		res.h.writeError(w, r, err)
		return
	}
	if err := res.valid(item); err != nil {
		res.h.writeError(w, r, err)
		return
	}
	created, err := res.store.Create(r.Context(), item)
	if err != nil {
		res.h.writeError(w, r, storeError(res.entity, "create", err))
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (res resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	var item T
	if err := decodeJSON(r, &item); err != nil {
		res.h.writeError(w, r, err)
		return
	}
	if err := res.valid(item); err != nil {
		res.h.writeError(w, r, err)
		return
	}
	updated, err := res.store.Update(r.Context(), id, item)
	if err != nil {
		res.h.writeError(w, r, storeError(res.entity, "update", err))
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (res resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	if err := res.store.Delete(r.Context(), id); err != nil {
		res.h.writeError(w, r, storeError(res.entity, "delete", err))
		return
	}
	respondDeleted(w, res.entity, id)
}

func (res resource[T]) export(w http.ResponseWriter, r *http.Request) {
	items, err := res.store.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		res.h.writeError(w, r, storeError(res.entity, "list", err))
		return
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, res.row(item))
	}
	writeCSV(w, r, res.h, res.file, res.header, rows)
}

func (res resource[T]) importCSV(w http.ResponseWriter, r *http.Request) {
	records, err := readUpload(w, r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	report := importReport{Failed: []importFailure{}}
	for i, rec := range records {
		item, err := res.parse(rec)
		if err == nil {
			err = res.valid(item)
		}
		if err == nil {
			_, err = res.store.Create(r.Context(), item)
		}
		if err != nil {
			report.fail(i, err)
			continue
		}
		report.Imported++
	}
	res.h.log.Info().Str("entity", res.entity).
		Int("imported", report.Imported).
		Int("failed", len(report.Failed)).
		Msg("csv import finished")
	respondJSON(w, http.StatusOK, report)
}

type importFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type importReport struct {
	Imported int             `json:"imported"`
	Failed   []importFailure `json:"failed"`
}

// fail records a failure for the i-th data row. Rows are numbered as in the
// file, so the header is row 1.
func (rep *importReport) fail(i int, err error) {
	rep.Failed = append(rep.Failed, importFailure{Row: i + 2, Error: err.Error()})
}

// readUpload accepts either a multipart form with a "file" field or a raw CSV
// body.
func readUpload(w http.ResponseWriter, r *http.Request) ([]csvio.Record, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, common.Validation("missing upload field \"file\"")
		}
		defer file.Close()
		src = file
	}

	records, err := csvio.Read(src)
	if err != nil {
		return nil, common.Validation(fmt.Sprintf("invalid csv: %v", err))
	}
	return records, nil
}

func writeCSV(w http.ResponseWriter, r *http.Request, h *Handler, filename string, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := csvio.Write(w, header, rows); err != nil {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("csv export failed")
	}
}
