package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pharmacy/m/internal/common"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/obs"
	"pharmacy/m/internal/sales"
	"pharmacy/m/internal/store"
)

// Config wires a Handler.
type Config struct {
	DB             *sqlx.DB
	Sales          *sales.Engine
	Logger         zerolog.Logger
	Metrics        *obs.HTTPMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db       *sqlx.DB
	log      zerolog.Logger
	validate *validator.Validate
	metrics  *obs.HTTPMetrics
	gatherer prometheus.Gatherer
	origins  []string

	sales     *sales.Engine
	medicines *store.Medicines
	clients   *store.Clients
	recipes   *store.Recipes
	supplies  *store.Supplies
}

// New constructs a Handler.
func New(cfg Config) (*Handler, error) {
	if cfg.DB == nil {
		return nil, errors.New("api: database is required")
	}
	if cfg.Sales == nil {
		return nil, errors.New("api: sales engine is required")
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		db:        cfg.DB,
		log:       cfg.Logger,
		validate:  newValidator(),
		metrics:   cfg.Metrics,
		gatherer:  cfg.Gatherer,
		origins:   origins,
		sales:     cfg.Sales,
		medicines: store.NewMedicines(cfg.DB),
		clients:   store.NewClients(cfg.DB),
		recipes:   store.NewRecipes(cfg.DB),
		supplies:  store.NewSupplies(cfg.DB),
	}, nil
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger{Logger: h.log}.Middleware)
	r.Use(h.metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/medicines", h.medicineResource().routes)
		r.Route("/clients", h.clientResource().routes)
		r.Route("/recipes", h.recipeResource().routes)
		r.Route("/supplies", h.supplyResource().routes)

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Post("/", h.createSale)
			r.Get("/export", h.exportSales)
			r.Post("/import", h.importSales)
			r.Get("/{id}", h.getSale)
			r.Put("/{id}", h.updateSale)
			r.Delete("/{id}", h.deleteSale)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ready shares the single pooled connection with writers, so a long import
// can hold it past the ping timeout and report 503 until it finishes.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(r.Context(), h.db, 500*time.Millisecond); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "db": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "ok"})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs struct-tag validation and reports missing fields by their JSON
// name.
func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Validation(err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return common.Validation(strings.Join(fields, ", ") + " is required").
		WithDetails(map[string]any{"fields": fields})
}

// writeError renders err, logging anything that is not the caller's fault.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		appErr = common.Store("internal error", err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request failed")
	}
	body := map[string]any{"error": appErr.Message, "code": appErr.Code}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	respondJSON(w, appErr.HTTPStatus, body)
}

// storeError maps repository errors for entity.
func storeError(entity, action string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return common.NotFound(entity+" not found", err)
	}
	return common.Store("unable to "+action+" "+entity, err)
}

// Helpers

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.Validation("invalid id " + strconv.Quote(raw))
	}
	return id, nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return common.Validation("invalid request body: " + err.Error())
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondDeleted(w http.ResponseWriter, entity string, id int64) {
	respondJSON(w, http.StatusOK, map[string]any{"message": entity + " deleted", "id": id})
}
