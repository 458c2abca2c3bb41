package obs

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	m.ReqTotal = register(reg, m.ReqTotal)
	m.ReqDur = register(reg, m.ReqDur)
	m.InFlight = register(reg, m.InFlight)
	return m
}

// Middleware instruments request/response lifecycle with counters and histograms.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		m.InFlight.Inc()
		start := time.Now()
		next.ServeHTTP(ww, r)
		m.InFlight.Dec()

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.ReqTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.ReqDur.WithLabelValues(r.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	})
}

// SalesMetrics counts sale lifecycle operations and the stock they move.
type SalesMetrics struct {
	Operations *prometheus.CounterVec
	StockUnits *prometheus.CounterVec
}

// NewSalesMetrics registers and returns the sale collectors.
func NewSalesMetrics(namespace string, reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &SalesMetrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_operations_total",
			Help:      "Sale create/update/delete operations by outcome.",
		}, []string{"op", "outcome"}),
		StockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_total",
			Help:      "Medicine units debited or credited by committed sale operations.",
		}, []string{"direction"}),
	}
	m.Operations = register(reg, m.Operations)
	m.StockUnits = register(reg, m.StockUnits)
	return m
}

// Observe records one operation outcome. A nil receiver is a no-op.
func (m *SalesMetrics) Observe(op, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
}

// Stock records units moved in direction ("debit" or "credit").
func (m *SalesMetrics) Stock(direction string, units int64) {
	if m == nil || units <= 0 {
		return
	}
	m.StockUnits.WithLabelValues(direction).Add(float64(units))
}

// register returns the collector already registered under the same
// descriptor, so constructing metrics twice against one registry is safe.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
