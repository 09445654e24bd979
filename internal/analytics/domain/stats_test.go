package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
	shareddomain "supplyperf/internal/shared/domain"
	"supplyperf/internal/testhelpers"
)

func fixtureRecords(t *testing.T) []ordersdomain.PerformanceRecord {
	t.Helper()
	ds := testhelpers.FixtureDataset(t)
	require.Len(t, ds.Records(), 6)
	return ds.Records()
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.0263, Round(5.0/95.0/2, 4))
	assert.Equal(t, 2.0, Round(2.5, 0))
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, 12.346, Round(12.3456, 3))
}

func TestComputeSupplierStats(t *testing.T) {
	idx := ComputeSupplierStats(fixtureRecords(t))
	require.Len(t, idx, 4)

	acme, ok := idx.Get("SUP-001")
	require.True(t, ok)
	assert.Equal(t, SupplierStats{
		SupplierID:    "SUP-001",
		AvgLeadTime:   13.5,
		LateRate:      0.5,
		LateSeverity:  2.5,
		DefectRate:    0.0263,
		Reliability:   0.5,
		TotalOrders:   2,
		TotalQuantity: 150,
	}, acme)

	initech, _ := idx.Get("SUP-003")
	assert.Equal(t, 1.0, initech.LateRate)
	assert.Equal(t, 0.0, initech.Reliability)
	assert.Equal(t, 0.0345, initech.DefectRate)

	_, ok = idx.Get("SUP-999")
	assert.False(t, ok)

	sorted := idx.Sorted()
	assert.Equal(t, catalogdomain.SupplierID("SUP-001"), sorted[0].SupplierID)
	assert.Equal(t, catalogdomain.SupplierID("SUP-004"), sorted[3].SupplierID)
}

func TestComputeKPIs(t *testing.T) {
	k := ComputeKPIs(fixtureRecords(t), true)
	assert.Equal(t, 12.5, k.AvgLeadTime)
	assert.Equal(t, 50.0, k.LateRatePct)
	assert.Equal(t, 50.0, k.OTIFPct)
	assert.Equal(t, 4, k.SupplierCount)
	assert.False(t, k.OTIFIsOnTimeOnly)

	empty := ComputeKPIs(nil, true)
	assert.Equal(t, 0, empty.Records)
	assert.Equal(t, 0.0, empty.AvgLeadTime)
}

func TestComputeKPIs_OnTimeFallback(t *testing.T) {
	records := fixtureRecords(t)
	records[1].QuantityReceived = shareddomain.MustNewQuantity(1)

	k := ComputeKPIs(records, false)
	assert.True(t, k.OTIFIsOnTimeOnly)
	assert.Equal(t, 50.0, k.OTIFPct)
}

func TestMonthlyTrend(t *testing.T) {
	trend := MonthlyTrend(fixtureRecords(t))
	require.Len(t, trend, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), trend[0].Month)
	assert.Equal(t, "2024-01", trend[0].Label())
	assert.Equal(t, 14.0, trend[0].AvgLeadTime)
	assert.Equal(t, 66.667, trend[0].LateRatePct)
	assert.Equal(t, 3, trend[0].Orders)

	assert.Equal(t, 11.0, trend[1].AvgLeadTime)
	assert.Equal(t, 33.333, trend[1].LateRatePct)
}

func TestTopLateSuppliers_TiesByID(t *testing.T) {
	top := TopLateSuppliers(ComputeSupplierStats(fixtureRecords(t)), TopLateLimit)

	ids := make([]catalogdomain.SupplierID, len(top))
	for i, s := range top {
		ids[i] = s.SupplierID
	}
	assert.Equal(t, []catalogdomain.SupplierID{"SUP-003", "SUP-001", "SUP-002", "SUP-004"}, ids)

	assert.Len(t, TopLateSuppliers(ComputeSupplierStats(fixtureRecords(t)), 2), 2)
}

func TestSupplierScatter(t *testing.T) {
	points := SupplierScatter(fixtureRecords(t))
	require.Len(t, points, 4)
	assert.Equal(t, ScatterPoint{SupplierID: "SUP-001", AvgLeadTime: 13.5, LateRate: 0.5, Orders: 2}, points[0])
}

func TestSummarizeLeadTime(t *testing.T) {
	s := SummarizeLeadTime(fixtureRecords(t))
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 12.5, s.Mean)
	require.NotNil(t, s.Std)
	assert.Equal(t, 6.348, *s.Std)
	assert.Equal(t, 5, s.Min)
	assert.Equal(t, 20, s.Max)

	single := SummarizeLeadTime(fixtureRecords(t)[:1])
	assert.Nil(t, single.Std)
}

func TestLeadTimeHistogram(t *testing.T) {
	bins := LeadTimeHistogram(fixtureRecords(t), HistogramBins)
	require.Len(t, bins, 20)

	assert.Equal(t, 5.0, bins[0].Lower)
	assert.Equal(t, 20.0, bins[19].Upper)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[4].Count)
	assert.Equal(t, 1, bins[19].Count)
}

func TestLeadTimeHistogram_ConstantSeries(t *testing.T) {
	records := fixtureRecords(t)[1:2]
	records = append(records, records[0])

	bins := LeadTimeHistogram(records, HistogramBins)
	require.Len(t, bins, 1)
	assert.Equal(t, 2, bins[0].Count)

	assert.Nil(t, LeadTimeHistogram(nil, HistogramBins))
}

func TestLeadTimeByCategory(t *testing.T) {
	boxes := LeadTimeByCategory(fixtureRecords(t))
	require.Len(t, boxes, 3)

	assert.Equal(t, "Electronics", boxes[0].Category)
	assert.Equal(t, []float64{8, 10.75, 13.5, 16.25, 19}, boxes[0].Values())
	assert.Equal(t, "Packaging", boxes[1].Category)
	assert.Equal(t, []float64{20, 20, 20, 20, 20}, boxes[1].Values())
	assert.Equal(t, "Raw Materials", boxes[2].Category)
}

func TestSupplierLeadTimes(t *testing.T) {
	rows := SupplierLeadTimes(fixtureRecords(t), SupplierTableLimit)
	require.Len(t, rows, 4)

	assert.Equal(t, catalogdomain.SupplierID("SUP-003"), rows[0].SupplierID)
	assert.Nil(t, rows[0].StdLT)

	assert.Equal(t, catalogdomain.SupplierID("SUP-001"), rows[1].SupplierID)
	assert.Equal(t, 13.5, rows[1].AvgLT)
	require.NotNil(t, rows[1].StdLT)
	assert.Equal(t, 7.78, *rows[1].StdLT)

	assert.Equal(t, 4.95, *rows[2].StdLT)
	assert.Len(t, SupplierLeadTimes(fixtureRecords(t), 2), 2)
}

func TestSupplierSummary(t *testing.T) {
	rows := SupplierSummary(fixtureRecords(t))
	require.Len(t, rows, 4)

	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "Electronics", rows[0].Category)
	assert.Equal(t, 13.5, rows[0].AvgLeadTime)
	assert.Equal(t, 150, rows[0].TotalQuantity)
	assert.InDelta(t, 5.0/95.0/2, rows[0].DefectRate, 1e-12)

	assert.Equal(t, catalogdomain.SupplierID("SUP-004"), rows[3].SupplierID)
	assert.Empty(t, rows[3].Category)
	assert.Equal(t, 1, rows[3].POCount)
}

// ============================================================================
// BENCHMARKS
// ============================================================================

func BenchmarkComputeSupplierStats(b *testing.B) {
	base := testhelpers.FixtureDataset(b).Records()
	records := make([]ordersdomain.PerformanceRecord, 0, len(base)*2000)
	for i := 0; i < 2000; i++ {
		records = append(records, base...)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeSupplierStats(records)
	}
}
