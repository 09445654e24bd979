package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"

	v1 "supplyperf/api/v1"
	"supplyperf/api/web"
	analyticsapp "supplyperf/internal/analytics/application"
	exportapp "supplyperf/internal/export/application"
	ordersapp "supplyperf/internal/orders/application"
	predictionapp "supplyperf/internal/prediction/application"
	"supplyperf/internal/shared/logger"
	"supplyperf/internal/shared/metrics"
)

const serviceName = "supplyperf"

// Dependencies are the services the router exposes.
type Dependencies struct {
	Store       *ordersapp.DatasetStore
	Models      *predictionapp.ModelRegistry
	Dashboard   *analyticsapp.DashboardService
	Predictions *predictionapp.PredictionService
	Exports     *exportapp.ExportService
	UI          web.Options

	// HTTPMetrics and Gatherer are nil when metrics are disabled.
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

// NewRouter builds the HTTP handler of the service.
func NewRouter(deps Dependencies) (http.Handler, error) {
	pages, err := web.NewHandlers(deps.Dashboard, deps.Predictions, statusSource{deps.Store, deps.Models}, deps.UI)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	health := &healthHandler{store: deps.Store, models: deps.Models, started: time.Now()}
	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api/v1", v1.NewHandlers(deps.Dashboard, deps.Predictions, deps.Exports, deps.Store).Routes)
	r.Group(pages.Routes)

	return r, nil
}

// statusSource adapts the store and registry for the page sidebar.
type statusSource struct {
	store  *ordersapp.DatasetStore
	models *predictionapp.ModelRegistry
}

func (s statusSource) DatasetStatus() ordersapp.Status {
	return s.store.Status()
}

func (s statusSource) ModelStatus() predictionapp.ModelStatus {
	return s.models.Status()
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string                    `json:"status"`
	Service   string                    `json:"service"`
	Timestamp time.Time                 `json:"timestamp"`
	Uptime    string                    `json:"uptime"`
	Dataset   ordersapp.Status          `json:"dataset"`
	Models    predictionapp.ModelStatus `json:"models"`
}

type healthHandler struct {
	store   *ordersapp.DatasetStore
	models  *predictionapp.ModelRegistry
	started time.Time
}

func (h *healthHandler) response(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Service:   serviceName,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Dataset:   h.store.Status(),
		Models:    h.models.Status(),
	}
}

// Health reports liveness. It always answers 200.
func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.response("ok"))
}

// Ready answers 503 until a dataset is loaded. Missing models do not block readiness:
// the dashboard still works and prediction forms report the models as unavailable.
func (h *healthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := h.response("ready")
	if !resp.Dataset.Available {
		resp.Status = "not_ready"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
