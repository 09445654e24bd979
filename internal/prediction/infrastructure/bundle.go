package infrastructure

import (
	"errors"
	"fmt"
	"os"
)

// BundlePaths locates the model artifacts.
type BundlePaths struct {
	Format           string
	LeadTimeModel    string
	Encoder          string
	LeadTimeFeatures string
	IsLateModel      string
	IsLateFeatures   string

	// Categorical is optional; without it only numeric features can be scored.
	Categorical string
}

// Bundle is the full set of artifacts. It loads as a unit: any missing
// required artifact fails the whole load.
type Bundle struct {
	Format           string
	LeadTime         Estimator
	Encoder          *TargetEncoder
	LeadTimeFeatures []string
	IsLate           Estimator
	IsLateFeatures   []string
	Categorical      CategoricalEncoders
}

// LoadBundle reads every artifact.
func LoadBundle(p BundlePaths) (*Bundle, error) {
	b := &Bundle{Format: p.Format}
	var err error

	if b.LeadTime, err = loadEstimator(p.LeadTimeModel, p.Format, false); err != nil {
		return nil, fmt.Errorf("lead time model: %w", err)
	}
	if b.Encoder, err = LoadTargetEncoder(p.Encoder); err != nil {
		return nil, fmt.Errorf("supplier encoder: %w", err)
	}
	if b.LeadTimeFeatures, err = LoadFeatureList(p.LeadTimeFeatures); err != nil {
		return nil, fmt.Errorf("lead time features: %w", err)
	}
	if b.IsLate, err = loadEstimator(p.IsLateModel, p.Format, true); err != nil {
		return nil, fmt.Errorf("late model: %w", err)
	}
	if b.IsLateFeatures, err = LoadFeatureList(p.IsLateFeatures); err != nil {
		return nil, fmt.Errorf("late features: %w", err)
	}

	if p.Categorical != "" {
		b.Categorical, err = LoadCategoricalEncoders(p.Categorical)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("categorical encoders: %w", err)
		}
	}

	if err := checkWidth("lead time", b.LeadTime, b.LeadTimeFeatures); err != nil {
		return nil, err
	}
	if err := checkWidth("late", b.IsLate, b.IsLateFeatures); err != nil {
		return nil, err
	}
	if err := checkFeatureOrder("lead time", b.LeadTime, b.LeadTimeFeatures); err != nil {
		return nil, err
	}
	if err := checkFeatureOrder("late", b.IsLate, b.IsLateFeatures); err != nil {
		return nil, err
	}
	return b, nil
}

func loadEstimator(path, format string, probability bool) (Estimator, error) {
	if format == FormatLinear {
		m, err := LoadLinearModel(path)
		if err != nil {
			return nil, err
		}
		if probability && m.Link != LinkLogistic {
			return nil, fmt.Errorf("classifier %s must use the %s link", path, LinkLogistic)
		}
		return m, nil
	}
	return LoadEnsemble(path, format, probability)
}

func checkWidth(name string, est Estimator, features []string) error {
	if n := est.NFeatures(); n > 0 && n != len(features) {
		return fmt.Errorf("%s model expects %d features but its feature list has %d", name, n, len(features))
	}
	return nil
}

// checkFeatureOrder rejects a linear model whose declared features differ from the
// feature list, since coefficients are applied by position.
func checkFeatureOrder(name string, est Estimator, features []string) error {
	m, ok := est.(*LinearModel)
	if !ok || len(m.Features) == 0 {
		return nil
	}
	for i, f := range m.Features {
		if features[i] != f {
			return fmt.Errorf("%s model feature %d is %q but the feature list has %q", name, i, f, features[i])
		}
	}
	return nil
}
