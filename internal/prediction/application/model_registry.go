package application

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"supplyperf/internal/prediction/domain"
	"supplyperf/internal/prediction/infrastructure"
)

// ModelStatus describes the registry for health and page banners.
type ModelStatus struct {
	Available bool      `json:"available"`
	Format    string    `json:"format"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ModelRegistry holds the model bundle for the process lifetime.
type ModelRegistry struct {
	paths infrastructure.BundlePaths
	log   *zap.Logger

	mu       sync.RWMutex
	bundle   *infrastructure.Bundle
	err      error
	loadedAt time.Time
}

func NewModelRegistry(paths infrastructure.BundlePaths, log *zap.Logger) *ModelRegistry {
	return &ModelRegistry{paths: paths, log: log}
}

// Load reads the bundle. A failure is logged and kept; predictions then report
// domain.ErrModelUnavailable.
func (r *ModelRegistry) Load() error {
	bundle, err := infrastructure.LoadBundle(r.paths)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.bundle = nil
		r.err = err
		r.log.Warn("Models not available, predictions disabled",
			zap.String("format", r.paths.Format),
			zap.Error(err),
		)
		return err
	}
	r.bundle = bundle
	r.err = nil
	r.loadedAt = time.Now()
	r.log.Info("Models loaded",
		zap.String("format", r.paths.Format),
		zap.Int("leadtime_features", len(bundle.LeadTimeFeatures)),
		zap.Int("islate_features", len(bundle.IsLateFeatures)),
		zap.Int("categorical_encoders", len(bundle.Categorical)),
	)
	return nil
}

// Bundle returns the loaded bundle or an error wrapping domain.ErrModelUnavailable.
func (r *ModelRegistry) Bundle() (*infrastructure.Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.bundle == nil {
		if r.err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, r.err)
		}
		return nil, domain.ErrModelUnavailable
	}
	return r.bundle, nil
}

func (r *ModelRegistry) Status() ModelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := ModelStatus{Available: r.bundle != nil, Format: r.paths.Format, LoadedAt: r.loadedAt}
	if r.err != nil {
		st.Error = r.err.Error()
	}
	return st
}

// NewStaticModelRegistry wraps an already built bundle. A nil bundle gives a registry
// that reports the models as unavailable.
func NewStaticModelRegistry(bundle *infrastructure.Bundle) *ModelRegistry {
	if bundle == nil {
		return &ModelRegistry{log: zap.NewNop()}
	}
	return &ModelRegistry{
		paths:    infrastructure.BundlePaths{Format: bundle.Format},
		log:      zap.NewNop(),
		bundle:   bundle,
		loadedAt: time.Now(),
	}
}
