package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"supplyperf/internal/orders/domain"
	"supplyperf/internal/shared/logger"
)

// Source provides the raw tables and a cheap change fingerprint.
type Source interface {
	Name() string
	Fingerprint(ctx context.Context) (string, error)
	Load(ctx context.Context) (domain.Tables, error)
}

// Recorder receives reload outcomes. *metrics.DomainMetrics implements it.
type Recorder interface {
	RecordReload(result string)
	SetDatasetSize(records, excluded int)
}

// Reload outcomes.
const (
	ReloadLoaded    = "loaded"
	ReloadUnchanged = "unchanged"
	ReloadFailed    = "failed"
)

// Status describes the store state for health and page banners.
type Status struct {
	Source    string    `json:"source"`
	Available bool      `json:"available"`
	Version   string    `json:"version,omitempty"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Records   int       `json:"records"`
	Excluded  int       `json:"excluded"`
	Warnings  []string  `json:"warnings,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// DatasetStore holds the current dataset snapshot and swaps it when the source changes.
// Readers never block on a reload in progress.
type DatasetStore struct {
	source   Source
	recorder Recorder
	now      func() time.Time

	reloadMu sync.Mutex
	onRetire []func(version string)

	mu          sync.RWMutex
	current     *domain.Dataset
	fingerprint string
	lastErr     error
	checkedAt   time.Time
}

// NewDatasetStore creates an empty store. recorder may be nil.
func NewDatasetStore(source Source, recorder Recorder) *DatasetStore {
	return &DatasetStore{
		source:   source,
		recorder: recorder,
		now:      time.Now,
	}
}

// OnRetire registers fn to run with the version of a dataset that was replaced or
// dropped. It must be called before the store is shared.
func (s *DatasetStore) OnRetire(fn func(version string)) {
	s.onRetire = append(s.onRetire, fn)
}

func (s *DatasetStore) retire(previous *domain.Dataset) {
	if previous == nil {
		return
	}
	for _, fn := range s.onRetire {
		fn(previous.Version())
	}
}

// Refresh reloads when the source fingerprint differs from the last attempt.
// It reports whether a load was attempted.
func (s *DatasetStore) Refresh(ctx context.Context) (bool, error) {
	return s.reload(ctx, false)
}

// Reload loads unconditionally.
func (s *DatasetStore) Reload(ctx context.Context) error {
	_, err := s.reload(ctx, true)
	return err
}

func (s *DatasetStore) reload(ctx context.Context, force bool) (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	log := logger.FromContext(ctx).With(zap.String("source", s.source.Name()))

	fp, err := s.source.Fingerprint(ctx)
	if err != nil {
		s.fail(log, "", fmt.Errorf("fingerprint: %w", err))
		return true, err
	}

	s.mu.RLock()
	unchanged := fp == s.fingerprint
	s.mu.RUnlock()
	if unchanged && !force {
		s.record(ReloadUnchanged)
		s.mu.Lock()
		s.checkedAt = s.now()
		s.mu.Unlock()
		return false, nil
	}

	start := s.now()
	tables, err := s.source.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load dataset: %w", err)
		s.fail(log, fp, err)
		return true, err
	}

	ds := domain.NewDataset(fp, s.now(), tables)
	for _, w := range ds.Warnings() {
		log.Warn("Dataset load warning", zap.String("warning", w))
	}
	for _, ex := range ds.Excluded() {
		log.Info("Receipt excluded: delivery before order date",
			zap.String("po_id", string(ex.POID)),
			zap.String("supplier_id", string(ex.SupplierID)),
			zap.Int("lead_time_days", ex.LeadTimeDays),
		)
	}

	s.mu.Lock()
	previous := s.current
	s.current = ds
	s.fingerprint = fp
	s.lastErr = nil
	s.checkedAt = ds.LoadedAt()
	s.mu.Unlock()
	if previous != nil && previous.Version() != fp {
		s.retire(previous)
	}

	s.record(ReloadLoaded)
	if s.recorder != nil {
		s.recorder.SetDatasetSize(len(ds.Records()), len(ds.Excluded()))
	}
	log.Info("Dataset loaded",
		zap.String("version", fp),
		zap.Int("purchase_orders", ds.PurchaseOrderCount()),
		zap.Int("receipts", ds.ReceiptCount()),
		zap.Int("records", len(ds.Records())),
		zap.Int("excluded", len(ds.Excluded())),
		zap.Int("open_orders", ds.OpenOrders()),
		zap.Bool("supplier_master", ds.HasSupplierMaster()),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return true, nil
}

// fail drops the current dataset. The fingerprint is kept so an unchanged
// broken source is not re-read on every tick.
func (s *DatasetStore) fail(log *zap.Logger, fp string, err error) {
	s.mu.Lock()
	previous := s.current
	s.current = nil
	s.fingerprint = fp
	s.lastErr = err
	s.checkedAt = s.now()
	s.mu.Unlock()
	s.retire(previous)

	s.record(ReloadFailed)
	if s.recorder != nil {
		s.recorder.SetDatasetSize(0, 0)
	}
	log.Error("Dataset unavailable", zap.Error(err))
}

func (s *DatasetStore) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordReload(result)
	}
}

// Current returns the loaded dataset or an error wrapping domain.ErrDataUnavailable.
func (s *DatasetStore) Current() (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		if s.lastErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, s.lastErr)
		}
		return nil, domain.ErrDataUnavailable
	}
	return s.current, nil
}

// Status returns a snapshot of the store state.
func (s *DatasetStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Source:    s.source.Name(),
		Available: s.current != nil,
		CheckedAt: s.checkedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.current != nil {
		st.Version = s.current.Version()
		st.LoadedAt = s.current.LoadedAt()
		st.Records = len(s.current.Records())
		st.Excluded = len(s.current.Excluded())
		st.Warnings = s.current.Warnings()
	}
	return st
}
