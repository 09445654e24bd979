package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	analyticsdomain "supplyperf/internal/analytics/domain"
	catalogdomain "supplyperf/internal/catalog/domain"
	exportapp "supplyperf/internal/export/application"
	exportdomain "supplyperf/internal/export/domain"
	ordersapp "supplyperf/internal/orders/application"
	predictionapp "supplyperf/internal/prediction/application"
	predictiondomain "supplyperf/internal/prediction/domain"
	"supplyperf/internal/shared/logger"
)

// Dashboard builds the page models.
type Dashboard interface {
	Overview() (*analyticsdomain.Overview, error)
	LeadTime() (*analyticsdomain.LeadTimeReport, error)
	Suppliers() (*analyticsdomain.SupplierReport, error)
	StatsForSupplier(id catalogdomain.SupplierID) (analyticsdomain.SupplierStats, error)
}

// Predictor runs the models.
type Predictor interface {
	PredictLeadTime(order predictiondomain.CandidateOrder) (*predictionapp.LeadTimePrediction, error)
	PredictIsLate(order predictiondomain.CandidateOrder) (*predictionapp.LatePrediction, error)
	AssessOrder(order predictiondomain.CandidateOrder) (*predictionapp.AssessmentResult, error)
}

// Exporter renders export files.
type Exporter interface {
	NewJob(format, dataset string) (*exportdomain.ExportJob, error)
	Export(job *exportdomain.ExportJob) (*exportapp.Result, error)
}

// Store is the dataset store as seen by the refresh endpoint.
type Store interface {
	Refresh(ctx context.Context) (bool, error)
	Status() ordersapp.Status
}

// Handlers serves the JSON feed of the dashboard.
type Handlers struct {
	dashboard   Dashboard
	predictions Predictor
	exports     Exporter
	store       Store
}

func NewHandlers(dashboard Dashboard, predictions Predictor, exports Exporter, store Store) *Handlers {
	return &Handlers{
		dashboard:   dashboard,
		predictions: predictions,
		exports:     exports,
		store:       store,
	}
}

// Routes mounts the handlers on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.GetOverview)
	r.Get("/lead-time", h.GetLeadTime)
	r.Get("/suppliers", h.GetSuppliers)
	r.Get("/suppliers/{id}/stats", h.GetSupplierStats)

	r.Route("/predictions", func(r chi.Router) {
		r.Post("/lead-time", h.PredictLeadTime)
		r.Post("/late", h.PredictIsLate)
		r.Post("/assessment", h.AssessOrder)
	})

	r.Get("/export/{dataset}.{format}", h.Export)

	r.Get("/dataset", h.GetDatasetStatus)
	r.Post("/dataset/refresh", h.RefreshDataset)
}

// GetOverview handles GET /api/v1/overview.
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview()
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, overview)
}

// GetLeadTime handles GET /api/v1/lead-time.
func (h *Handlers) GetLeadTime(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboard.LeadTime()
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, report)
}

// GetSuppliers handles GET /api/v1/suppliers.
func (h *Handlers) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboard.Suppliers()
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, report)
}

// GetSupplierStats handles GET /api/v1/suppliers/{id}/stats.
func (h *Handlers) GetSupplierStats(w http.ResponseWriter, r *http.Request) {
	id := catalogdomain.SupplierID(chi.URLParam(r, "id"))
	stats, err := h.dashboard.StatsForSupplier(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, stats)
}

func (h *Handlers) decodeOrder(r *http.Request) (predictiondomain.CandidateOrder, error) {
	var req PredictionRequest
	if err := render.Bind(r, &req); err != nil {
		return predictiondomain.CandidateOrder{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return req.CandidateOrder()
}

// PredictLeadTime handles POST /api/v1/predictions/lead-time.
func (h *Handlers) PredictLeadTime(w http.ResponseWriter, r *http.Request) {
	order, err := h.decodeOrder(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := h.predictions.PredictLeadTime(order)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, res)
}

// PredictIsLate handles POST /api/v1/predictions/late.
func (h *Handlers) PredictIsLate(w http.ResponseWriter, r *http.Request) {
	order, err := h.decodeOrder(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := h.predictions.PredictIsLate(order)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, res)
}

// AssessOrder handles POST /api/v1/predictions/assessment.
func (h *Handlers) AssessOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.decodeOrder(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := h.predictions.AssessOrder(order)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, res)
}

// Export handles GET /api/v1/export/{dataset}.{format}, e.g. /api/v1/export/suppliers.xlsx.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	job, err := h.exports.NewJob(chi.URLParam(r, "format"), chi.URLParam(r, "dataset"))
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := h.exports.Export(job)
	if err != nil {
		fail(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Export generated",
		zap.String("file", res.FileName),
		zap.Int("rows", res.Rows),
		zap.Int("bytes", len(res.Data)),
	)

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// GetDatasetStatus handles GET /api/v1/dataset.
func (h *Handlers) GetDatasetStatus(w http.ResponseWriter, r *http.Request) {
	ok(w, r, h.store.Status())
}

// RefreshResponse is the body of a refresh call.
type RefreshResponse struct {
	Reloaded bool             `json:"reloaded"`
	Dataset  ordersapp.Status `json:"dataset"`
}

// RefreshDataset handles POST /api/v1/dataset/refresh.
func (h *Handlers) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	reloaded, err := h.store.Refresh(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, RefreshResponse{Reloaded: reloaded, Dataset: h.store.Status()})
}
