package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticsdomain "supplyperf/internal/analytics/domain"
	catalogdomain "supplyperf/internal/catalog/domain"
	ordersapp "supplyperf/internal/orders/application"
	ordersdomain "supplyperf/internal/orders/domain"
	predictionapp "supplyperf/internal/prediction/application"
	predictiondomain "supplyperf/internal/prediction/domain"
	sharedinfra "supplyperf/internal/shared/infrastructure"
	"supplyperf/internal/shared/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "2006-01-02"

// Dashboard builds the page models.
type Dashboard interface {
	Overview() (*analyticsdomain.Overview, error)
	LeadTime() (*analyticsdomain.LeadTimeReport, error)
	Suppliers() (*analyticsdomain.SupplierReport, error)
}

// Predictor runs the models.
type Predictor interface {
	PredictLeadTime(order predictiondomain.CandidateOrder) (*predictionapp.LeadTimePrediction, error)
	AssessOrder(order predictiondomain.CandidateOrder) (*predictionapp.AssessmentResult, error)
}

// StatusSource reports dataset and model state for the sidebar and banners.
type StatusSource interface {
	DatasetStatus() ordersapp.Status
	ModelStatus() predictionapp.ModelStatus
}

// Options are the texts around every page.
type Options struct {
	Title  string
	Footer string
}

// Handlers renders the dashboard pages and their charts.
type Handlers struct {
	dashboard   Dashboard
	predictions Predictor
	status      StatusSource
	options     Options
	pages       map[string]*template.Template
	now         func() time.Time
}

func NewHandlers(dashboard Dashboard, predictions Predictor, status StatusSource, options Options) (*Handlers, error) {
	pages, err := parsePages("overview", "leadtime", "suppliers")
	if err != nil {
		return nil, err
	}
	return &Handlers{
		dashboard:   dashboard,
		predictions: predictions,
		status:      status,
		options:     options,
		pages:       pages,
		now:         time.Now,
	}, nil
}

func parsePages(names ...string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"f1":    func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
		"f2":    func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"f3":    func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
		"pct":   func(v float64) string { return strconv.FormatFloat(v*100, 'f', 1, 64) + "%" },
		"date":  func(t time.Time) string { return t.Format(dateLayout) },
		"stamp": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"optf2": func(v *float64) string {
			if v == nil {
				return "n/a"
			}
			return strconv.FormatFloat(*v, 'f', 2, 64)
		},
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Routes mounts the pages and chart documents on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", h.Overview)
	r.Get("/lead-time", h.LeadTime)
	r.Post("/lead-time", h.LeadTime)
	r.Get("/suppliers", h.Suppliers)
	r.Post("/suppliers", h.Suppliers)
	r.Get("/charts/{name}", h.Chart)
}

// Page is the data common to every template.
type Page struct {
	Title    string
	Footer   string
	Active   string
	Dataset  ordersapp.Status
	Models   predictionapp.ModelStatus
	Error    string
	Warnings []string
	Now      time.Time
}

func (h *Handlers) basePage(active string) Page {
	return Page{
		Title:   h.options.Title,
		Footer:  h.options.Footer,
		Active:  active,
		Dataset: h.status.DatasetStatus(),
		Models:  h.status.ModelStatus(),
		Now:     h.now(),
	}
}

// OrderForm is the state of a prediction form.
type OrderForm struct {
	SupplierID   string
	OrderDate    string
	ExpectedDate string
	Quantity     int
	Options      []catalogdomain.SupplierID
}

func (h *Handlers) defaultForm(quantity int, options []catalogdomain.SupplierID) OrderForm {
	var first catalogdomain.SupplierID
	if len(options) > 0 {
		first = options[0]
	}
	o := predictiondomain.NewDefaultCandidateOrder(first, h.now(), quantity)
	return OrderForm{
		SupplierID:   string(o.SupplierID),
		OrderDate:    o.OrderDate.Format(dateLayout),
		ExpectedDate: o.ExpectedDeliveryDate.Format(dateLayout),
		Quantity:     o.Quantity,
		Options:      options,
	}
}

// readForm fills the form from a POST body and converts it.
func readForm(r *http.Request, form *OrderForm) (predictiondomain.CandidateOrder, error) {
	if err := r.ParseForm(); err != nil {
		return predictiondomain.CandidateOrder{}, err
	}
	form.SupplierID = strings.TrimSpace(r.PostFormValue("supplier_id"))
	form.OrderDate = r.PostFormValue("order_date")
	form.ExpectedDate = r.PostFormValue("expected_delivery_date")
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		return predictiondomain.CandidateOrder{}, fmt.Errorf("%w: quantity must be a whole number", predictiondomain.ErrInvalidOrder)
	}
	form.Quantity = qty

	orderDate, err := sharedinfra.ParseDate(form.OrderDate)
	if err != nil {
		return predictiondomain.CandidateOrder{}, fmt.Errorf("%w: order date: %v", predictiondomain.ErrInvalidOrder, err)
	}
	expected, err := sharedinfra.ParseDate(form.ExpectedDate)
	if err != nil {
		return predictiondomain.CandidateOrder{}, fmt.Errorf("%w: expected delivery date: %v", predictiondomain.ErrInvalidOrder, err)
	}
	return predictiondomain.CandidateOrder{
		SupplierID:           catalogdomain.SupplierID(form.SupplierID),
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		Quantity:             qty,
	}, nil
}

func supplierOptions(report *analyticsdomain.SupplierReport) []catalogdomain.SupplierID {
	if report == nil {
		return nil
	}
	ids := make([]catalogdomain.SupplierID, len(report.Suppliers))
	for i, s := range report.Suppliers {
		ids[i] = s.SupplierID
	}
	return ids
}

// errorBanner turns a service error into the text of the page banner.
func errorBanner(err error) string {
	switch {
	case errors.Is(err, ordersdomain.ErrDataUnavailable):
		return "Data could not be loaded. Make sure the data files are available."
	case errors.Is(err, predictiondomain.ErrModelUnavailable):
		return "Model not available for prediction."
	case errors.Is(err, predictiondomain.ErrInvalidOrder):
		return err.Error()
	default:
		return "Prediction failed: " + err.Error()
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.FromContext(r.Context()).Error("Render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// OverviewPage is the model of the overview template.
type OverviewPage struct {
	Page
	Overview *analyticsdomain.Overview
}

// Overview handles GET /.
func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	p := OverviewPage{Page: h.basePage("overview")}
	overview, err := h.dashboard.Overview()
	if err != nil {
		p.Error = errorBanner(err)
	} else {
		p.Overview = overview
		p.Warnings = overview.Warnings
	}
	h.render(w, r, "overview", p)
}

// LeadTimePage is the model of the lead time template.
type LeadTimePage struct {
	Page
	Report     *analyticsdomain.LeadTimeReport
	Form       OrderForm
	Prediction *predictionapp.LeadTimePrediction
	FormError  string
}

// LeadTime handles GET and POST /lead-time.
func (h *Handlers) LeadTime(w http.ResponseWriter, r *http.Request) {
	p := LeadTimePage{Page: h.basePage("leadtime")}

	report, err := h.dashboard.LeadTime()
	if err != nil {
		p.Error = errorBanner(err)
		h.render(w, r, "leadtime", p)
		return
	}
	p.Report = report

	suppliers, err := h.dashboard.Suppliers()
	if err != nil {
		logger.FromContext(r.Context()).Warn("Supplier list unavailable for the order form", zap.Error(err))
	}
	p.Form = h.defaultForm(predictiondomain.DefaultLeadTimeFormQuantity, supplierOptions(suppliers))

	if r.Method == http.MethodPost {
		order, err := readForm(r, &p.Form)
		if err == nil {
			p.Prediction, err = h.predictions.PredictLeadTime(order)
		}
		if err != nil {
			p.FormError = errorBanner(err)
			logger.FromContext(r.Context()).Warn("Lead time prediction failed", zap.Error(err))
		}
	}
	h.render(w, r, "leadtime", p)
}

// SuppliersPage is the model of the supplier analysis template.
type SuppliersPage struct {
	Page
	Report     *analyticsdomain.SupplierReport
	Form       OrderForm
	Assessment *predictionapp.AssessmentResult
	FormError  string
}

// Suppliers handles GET and POST /suppliers.
func (h *Handlers) Suppliers(w http.ResponseWriter, r *http.Request) {
	p := SuppliersPage{Page: h.basePage("suppliers")}

	report, err := h.dashboard.Suppliers()
	if err != nil {
		p.Error = errorBanner(err)
		h.render(w, r, "suppliers", p)
		return
	}
	p.Report = report
	p.Form = h.defaultForm(predictiondomain.DefaultAssessmentQuantity, supplierOptions(report))

	if r.Method == http.MethodPost {
		order, err := readForm(r, &p.Form)
		if err == nil {
			p.Assessment, err = h.predictions.AssessOrder(order)
		}
		if err != nil {
			p.FormError = errorBanner(err)
			logger.FromContext(r.Context()).Warn("Order assessment failed", zap.Error(err))
		}
	}
	h.render(w, r, "suppliers", p)
}

// Chart handles GET /charts/{name}.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.chart(chi.URLParam(r, "name"))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, ordersdomain.ErrDataUnavailable) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		logger.FromContext(r.Context()).Error("Render chart failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

var errUnknownChart = errors.New("unknown chart")

func (h *Handlers) chart(name string) (renderer, error) {
	switch name {
	case ChartTrend, ChartTopLate, ChartScatter:
		o, err := h.dashboard.Overview()
		if err != nil {
			return nil, err
		}
		switch name {
		case ChartTrend:
			return trendChart(o.Trend), nil
		case ChartTopLate:
			return topLateChart(o.TopLateSuppliers), nil
		default:
			return scatterChart(o.Scatter), nil
		}
	case ChartHistogram, ChartCategoryBox, ChartSupplierLeadTime:
		lt, err := h.dashboard.LeadTime()
		if err != nil {
			return nil, err
		}
		switch name {
		case ChartHistogram:
			return histogramChart(lt.Histogram), nil
		case ChartCategoryBox:
			if !lt.HasCategories {
				return nil, fmt.Errorf("%w: no category data", errUnknownChart)
			}
			return categoryBoxChart(lt.ByCategory), nil
		default:
			return supplierLeadTimeChart(lt.BySupplier), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownChart, name)
	}
}
