package api

import (
	"net/http"

	"pharmacy/m/domain"
	"pharmacy/m/internal/csvio"
	"pharmacy/m/internal/sales"
)

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.sales.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Sale{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sale, err := h.sales.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var in sales.Input
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	sale, err := h.sales.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in sales.Input
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	sale, err := h.sales.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.sales.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	respondDeleted(w, "sale", id)
}

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.sales.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows := make([][]string, 0, len(list))
	for _, sale := range list {
		row, err := csvio.SaleRow(sale)
		if err != nil {
			h.writeError(w, r, storeError("sale", "export", err))
			return
		}
		rows = append(rows, row)
	}
	writeCSV(w, r, h, "sales.csv", csvio.SaleHeader, rows)
}

// importSales replays each row through the engine, so every imported sale
// debits stock like one entered by hand.
func (h *Handler) importSales(w http.ResponseWriter, r *http.Request) {
	records, err := readUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report := importReport{Failed: []importFailure{}}
	for i, rec := range records {
		in, err := csvio.ParseSale(rec)
		if err == nil {
			_, err = h.sales.Create(r.Context(), in)
		}
		if err != nil {
			report.fail(i, err)
			continue
		}
		report.Imported++
	}
	h.log.Info().Str("entity", "sale").
		Int("imported", report.Imported).
		Int("failed", len(report.Failed)).
		Msg("csv import finished")
	respondJSON(w, http.StatusOK, report)
}
