package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	analyticsdomain "supplyperf/internal/analytics/domain"
	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
	"supplyperf/internal/prediction/domain"
	"supplyperf/internal/prediction/infrastructure"
)

// Model names used in logs and metrics.
const (
	ModelLeadTime = "leadtime"
	ModelIsLate   = "islate"
)

// DatasetProvider exposes the current dataset.
type DatasetProvider interface {
	Current() (*ordersdomain.Dataset, error)
}

// StatsProvider exposes the per-supplier aggregates of the current dataset.
type StatsProvider interface {
	SupplierStats() (analyticsdomain.StatsIndex, error)
}

// Recorder receives prediction outcomes. *metrics.DomainMetrics implements it.
type Recorder interface {
	RecordPrediction(model, outcome string, elapsed time.Duration)
	RecordFeatureDefault(model, feature string)
}

// LeadTimePrediction is the result of the lead time form.
type LeadTimePrediction struct {
	ID            string                    `json:"id"`
	Order         domain.CandidateOrder     `json:"order"`
	PredictedDays float64                   `json:"predicted_days"`
	Comparison    domain.LeadTimeComparison `json:"comparison"`

	// HistoricalAvgLT is nil for a supplier without merged records.
	HistoricalAvgLT *float64 `json:"historical_avg_lt,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

// LatePrediction is the result of the late classifier.
type LatePrediction struct {
	ID          string                `json:"id"`
	Order       domain.CandidateOrder `json:"order"`
	Probability float64               `json:"probability"`
	Status      string                `json:"status"`
	Warnings    []string              `json:"warnings,omitempty"`
}

// AssessmentResult is the result of the combined supplier page form.
type AssessmentResult struct {
	ID                string                `json:"id"`
	Order             domain.CandidateOrder `json:"order"`
	PredictedLeadTime float64               `json:"predicted_lead_time"`
	domain.Assessment

	Warnings []string `json:"warnings,omitempty"`
}

// PredictionService runs both models on candidate orders.
type PredictionService struct {
	models   *ModelRegistry
	data     DatasetProvider
	stats    StatsProvider
	recorder Recorder
	log      *zap.Logger
}

// NewPredictionService wires the service. recorder may be nil.
func NewPredictionService(models *ModelRegistry, data DatasetProvider, stats StatsProvider, recorder Recorder, log *zap.Logger) *PredictionService {
	return &PredictionService{
		models:   models,
		data:     data,
		stats:    stats,
		recorder: recorder,
		log:      log,
	}
}

// supplierContext is what both feature assemblies read.
type supplierContext struct {
	profile catalogdomain.SupplierProfile
	agg     domain.SupplierAggregates
	known   *analyticsdomain.SupplierStats
}

func (s *PredictionService) lookup(id catalogdomain.SupplierID) (supplierContext, error) {
	ds, err := s.data.Current()
	if err != nil {
		return supplierContext{}, err
	}
	idx, err := s.stats.SupplierStats()
	if err != nil {
		return supplierContext{}, err
	}

	sc := supplierContext{
		profile: ds.Suppliers().Lookup(id),
		agg:     domain.DefaultAggregates(),
	}
	if st, ok := idx.Get(id); ok {
		sc.agg = domain.SupplierAggregates{
			AvgLeadTime:  st.AvgLeadTime,
			LateRate:     st.LateRate,
			LateSeverity: st.LateSeverity,
			DefectRate:   st.DefectRate,
			Reliability:  st.Reliability,
		}
		sc.known = &st
	}
	return sc, nil
}

// PredictLeadTime estimates the lead time in days, never negative.
func (s *PredictionService) PredictLeadTime(order domain.CandidateOrder) (*LeadTimePrediction, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	bundle, err := s.models.Bundle()
	if err != nil {
		return nil, err
	}
	sc, err := s.lookup(order.SupplierID)
	if err != nil {
		return nil, err
	}

	predicted, warnings, err := s.leadTime(bundle, order, sc)
	if err != nil {
		return nil, err
	}

	res := &LeadTimePrediction{
		ID:            uuid.NewString(),
		Order:         order,
		PredictedDays: predicted,
		Comparison:    domain.CompareLeadTime(predicted, order.PromisedLeadTime()),
		Warnings:      warnings,
	}
	if sc.known != nil {
		avg := sc.known.AvgLeadTime
		res.HistoricalAvgLT = &avg
	}
	return res, nil
}

// PredictIsLate estimates the probability that the order arrives late.
func (s *PredictionService) PredictIsLate(order domain.CandidateOrder) (*LatePrediction, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	bundle, err := s.models.Bundle()
	if err != nil {
		return nil, err
	}
	sc, err := s.lookup(order.SupplierID)
	if err != nil {
		return nil, err
	}

	p, warnings, err := s.isLate(bundle, order, sc)
	if err != nil {
		return nil, err
	}
	status := domain.StatusOnTime
	if p > domain.LateThreshold {
		status = domain.StatusLate
	}
	return &LatePrediction{
		ID:          uuid.NewString(),
		Order:       order,
		Probability: p,
		Status:      status,
		Warnings:    warnings,
	}, nil
}

// AssessOrder runs both models and derives the recommendation.
func (s *PredictionService) AssessOrder(order domain.CandidateOrder) (*AssessmentResult, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	bundle, err := s.models.Bundle()
	if err != nil {
		return nil, err
	}
	sc, err := s.lookup(order.SupplierID)
	if err != nil {
		return nil, err
	}

	lt, ltWarn, err := s.leadTime(bundle, order, sc)
	if err != nil {
		return nil, err
	}
	p, lateWarn, err := s.isLate(bundle, order, sc)
	if err != nil {
		return nil, err
	}

	return &AssessmentResult{
		ID:                uuid.NewString(),
		Order:             order,
		PredictedLeadTime: lt,
		Assessment:        domain.Assess(lt, order.PromisedLeadTime(), p),
		Warnings:          append(ltWarn, lateWarn...),
	}, nil
}

func (s *PredictionService) leadTime(bundle *infrastructure.Bundle, order domain.CandidateOrder, sc supplierContext) (float64, []string, error) {
	fs := domain.AssembleLeadTimeFeatures(order, sc.profile, sc.agg)
	te, _ := bundle.Encoder.Transform(string(order.SupplierID))
	fs.ApplyTargetEncoding(te)

	raw, warnings, err := s.score(ModelLeadTime, bundle.LeadTime, bundle.LeadTimeFeatures, fs, bundle.Categorical)
	if err != nil {
		return 0, nil, err
	}
	return max(0, raw), warnings, nil
}

func (s *PredictionService) isLate(bundle *infrastructure.Bundle, order domain.CandidateOrder, sc supplierContext) (float64, []string, error) {
	fs := domain.AssembleIsLateFeatures(order, sc.profile, sc.agg)

	p, warnings, err := s.score(ModelIsLate, bundle.IsLate, bundle.IsLateFeatures, fs, bundle.Categorical)
	if err != nil {
		return 0, nil, err
	}
	return min(1, max(0, p)), warnings, nil
}

// score vectorizes and runs one model. Panics inside the model are returned as errors.
func (s *PredictionService) score(
	model string,
	est infrastructure.Estimator,
	names []string,
	fs domain.FeatureSet,
	enc domain.CategoricalEncoder,
) (value float64, warnings []string, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s model panicked: %v", model, p)
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
			s.log.Error("Prediction failed", zap.String("model", model), zap.Error(err))
		}
		if s.recorder != nil {
			s.recorder.RecordPrediction(model, outcome, time.Since(start))
		}
	}()

	vec, missing, err := fs.Vectorize(names, enc)
	if err != nil {
		return 0, nil, fmt.Errorf("%s features: %w", model, err)
	}
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("Missing %s features filled with 0: %s", model, strings.Join(missing, ", ")))
		s.log.Warn("Model features defaulted", zap.String("model", model), zap.Strings("features", missing))
		if s.recorder != nil {
			for _, f := range missing {
				s.recorder.RecordFeatureDefault(model, f)
			}
		}
	}

	value, err = est.Predict(vec)
	if err != nil {
		return 0, nil, fmt.Errorf("%s model: %w", model, err)
	}
	return value, warnings, nil
}
