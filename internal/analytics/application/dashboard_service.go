package application

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"supplyperf/internal/analytics/domain"
	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
	sharedinfra "supplyperf/internal/shared/infrastructure"
)

// ErrUnknownSupplier is returned for a supplier without merged records.
var ErrUnknownSupplier = errors.New("unknown supplier")

// DatasetProvider exposes the current dataset. *ordersapp.DatasetStore implements it.
type DatasetProvider interface {
	Current() (*ordersdomain.Dataset, error)
}

// DashboardService builds the page models. Results are cached per dataset version;
// Evict drops the entries of a retired version.
type DashboardService struct {
	data     DatasetProvider
	cache    sharedinfra.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewDashboardService(data DatasetProvider, cache sharedinfra.Cache, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		data:     data,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Cached page model kinds.
const (
	kindStats     = "stats"
	kindOverview  = "overview"
	kindLeadTime  = "leadtime"
	kindSuppliers = "suppliers"
)

var cachedKinds = []string{kindStats, kindOverview, kindLeadTime, kindSuppliers}

// Evict drops every page model cached for version.
func (s *DashboardService) Evict(version string) {
	for _, kind := range cachedKinds {
		s.cache.Delete(s.cacheKey(kind, version))
	}
}

func (s *DashboardService) cacheKey(kind, version string) string {
	return sharedinfra.NewCacheKeyBuilder().Add("analytics").Add(kind).Add(version).Build()
}

// cached returns the value under key or computes and stores it.
func cached[T any](s *DashboardService, key string, compute func() T) T {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	v := compute()
	s.cache.Set(key, v, s.cacheTTL)
	return v
}

// SupplierStats returns the per-supplier aggregates of the current dataset.
func (s *DashboardService) SupplierStats() (domain.StatsIndex, error) {
	ds, err := s.data.Current()
	if err != nil {
		return nil, err
	}
	return s.statsFor(ds), nil
}

func (s *DashboardService) statsFor(ds *ordersdomain.Dataset) domain.StatsIndex {
	return cached(s, s.cacheKey(kindStats, ds.Version()), func() domain.StatsIndex {
		return domain.ComputeSupplierStats(ds.Records())
	})
}

// StatsForSupplier returns the aggregates of one supplier.
func (s *DashboardService) StatsForSupplier(id catalogdomain.SupplierID) (domain.SupplierStats, error) {
	idx, err := s.SupplierStats()
	if err != nil {
		return domain.SupplierStats{}, err
	}
	st, ok := idx.Get(id)
	if !ok {
		return domain.SupplierStats{}, fmt.Errorf("%w: %s", ErrUnknownSupplier, id)
	}
	return st, nil
}

// Overview builds the overview page model. The independent parts run in parallel.
func (s *DashboardService) Overview() (*domain.Overview, error) {
	ds, err := s.data.Current()
	if err != nil {
		return nil, err
	}
	return cached(s, s.cacheKey(kindOverview, ds.Version()), func() *domain.Overview {
		records := ds.Records()
		ov := &domain.Overview{Version: ds.Version(), GeneratedAt: s.now()}

		var wg sync.WaitGroup
		wg.Add(4)
		go func() {
			defer wg.Done()
			ov.KPIs = domain.ComputeKPIs(records, ds.HasReceivedQuantities())
		}()
		go func() {
			defer wg.Done()
			ov.Trend = domain.MonthlyTrend(records)
		}()
		go func() {
			defer wg.Done()
			ov.TopLateSuppliers = domain.TopLateSuppliers(s.statsFor(ds), domain.TopLateLimit)
		}()
		go func() {
			defer wg.Done()
			ov.Scatter = domain.SupplierScatter(records)
		}()
		wg.Wait()

		if ov.KPIs.OTIFIsOnTimeOnly {
			ov.Warnings = append(ov.Warnings, "Receipt quantities are missing: OTIF is computed as the on-time rate only.")
		}
		if n := len(ds.Excluded()); n > 0 {
			ov.Warnings = append(ov.Warnings, fmt.Sprintf("%d receipt(s) dated before their order were excluded.", n))
		}
		return ov
	}), nil
}

// LeadTime builds the lead time analysis page model.
func (s *DashboardService) LeadTime() (*domain.LeadTimeReport, error) {
	ds, err := s.data.Current()
	if err != nil {
		return nil, err
	}
	return cached(s, s.cacheKey(kindLeadTime, ds.Version()), func() *domain.LeadTimeReport {
		records := ds.Records()
		rep := &domain.LeadTimeReport{
			Version:       ds.Version(),
			GeneratedAt:   s.now(),
			HasCategories: ds.HasSupplierMaster(),
		}

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			rep.Summary = domain.SummarizeLeadTime(records)
			rep.Histogram = domain.LeadTimeHistogram(records, domain.HistogramBins)
		}()
		go func() {
			defer wg.Done()
			if rep.HasCategories {
				rep.ByCategory = domain.LeadTimeByCategory(records)
			}
		}()
		go func() {
			defer wg.Done()
			rep.BySupplier = domain.SupplierLeadTimes(records, domain.SupplierTableLimit)
		}()
		wg.Wait()
		return rep
	}), nil
}

// Suppliers builds the supplier analysis page model.
func (s *DashboardService) Suppliers() (*domain.SupplierReport, error) {
	ds, err := s.data.Current()
	if err != nil {
		return nil, err
	}
	return cached(s, s.cacheKey(kindSuppliers, ds.Version()), func() *domain.SupplierReport {
		rows := domain.SupplierSummary(ds.Records())
		hasNames := false
		for _, r := range rows {
			if r.Name != "" {
				hasNames = true
				break
			}
		}
		return &domain.SupplierReport{
			Version:     ds.Version(),
			GeneratedAt: s.now(),
			Suppliers:   rows,
			HasNames:    hasNames,
		}
	}), nil
}
