package infrastructure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitryikh/leaves"
)

// ErrUnknownFormat is returned for an unsupported model format.
var ErrUnknownFormat = errors.New("unknown model format")

// Model formats.
const (
	FormatLightGBM = "lightgbm"
	FormatXGBoost  = "xgboost"
	FormatSklearn  = "sklearn"
	FormatLinear   = "linear"
)

// Estimator scores one feature vector.
type Estimator interface {
	Predict(features []float64) (float64, error)
	// NFeatures is the vector length the model expects, 0 when unchecked.
	NFeatures() int
}

// ensemble wraps a leaves tree ensemble.
type ensemble struct {
	model *leaves.Ensemble
}

// LoadEnsemble reads a gradient-boosted tree model. With probability set, the
// model's output transformation is loaded, so a binary classifier returns P(class 1).
func LoadEnsemble(path, format string, probability bool) (Estimator, error) {
	var (
		model *leaves.Ensemble
		err   error
	)
	switch strings.ToLower(format) {
	case FormatLightGBM:
		model, err = leaves.LGEnsembleFromFile(path, probability)
	case FormatXGBoost:
		model, err = leaves.XGEnsembleFromFile(path, probability)
	case FormatSklearn:
		model, err = leaves.SKEnsembleFromFile(path, probability)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s model %s: %w", format, path, err)
	}
	return &ensemble{model: model}, nil
}

func (e *ensemble) NFeatures() int {
	return e.model.NFeatures()
}

func (e *ensemble) Predict(features []float64) (float64, error) {
	if len(features) < e.model.NFeatures() {
		return 0, fmt.Errorf("model expects %d features, got %d", e.model.NFeatures(), len(features))
	}
	return e.model.PredictSingle(features, 0), nil
}
