package domain

import (
	"math"
	"sort"

	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
)

// Round rounds half to even at the given number of decimals.
func Round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.RoundToEven(v*scale) / scale
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 standard deviation; ok is false below two values.
func sampleStd(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1)), true
}

// SupplierStats are the per-supplier aggregates fed to the prediction models.
// Values are rounded to 4 decimals.
type SupplierStats struct {
	SupplierID    catalogdomain.SupplierID `json:"supplier_id"`
	AvgLeadTime   float64                  `json:"supplier_avg_lt"`
	LateRate      float64                  `json:"supplier_late_rate"`
	LateSeverity  float64                  `json:"supplier_late_severity"`
	DefectRate    float64                  `json:"supplier_defect_rate"`
	Reliability   float64                  `json:"supplier_reliability"`
	TotalOrders   int                      `json:"total_orders"`
	TotalQuantity int                      `json:"total_quantity"`
}

// StatsIndex maps supplier ids to their statistics.
type StatsIndex map[catalogdomain.SupplierID]SupplierStats

// Get returns the stats of id, ok false when the supplier has no records.
func (idx StatsIndex) Get(id catalogdomain.SupplierID) (SupplierStats, bool) {
	s, ok := idx[id]
	return s, ok
}

// Sorted returns the stats ordered by supplier id.
func (idx StatsIndex) Sorted() []SupplierStats {
	out := make([]SupplierStats, 0, len(idx))
	for _, s := range idx {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out
}

type supplierAcc struct {
	leadTimes []float64
	late      float64
	delay     float64
	defect    float64
	quantity  int
}

// groupBySupplier accumulates records per supplier in one pass.
func groupBySupplier(records []ordersdomain.PerformanceRecord) map[catalogdomain.SupplierID]*supplierAcc {
	groups := make(map[catalogdomain.SupplierID]*supplierAcc)
	for _, r := range records {
		acc, ok := groups[r.SupplierID]
		if !ok {
			acc = &supplierAcc{}
			groups[r.SupplierID] = acc
		}
		acc.leadTimes = append(acc.leadTimes, float64(r.LeadTimeDays))
		acc.late += r.IsLateValue()
		acc.delay += float64(r.DelayDays)
		acc.defect += r.DefectRate
		acc.quantity += r.QuantityOrdered.Value()
	}
	return groups
}

// ComputeSupplierStats groups records by supplier.
func ComputeSupplierStats(records []ordersdomain.PerformanceRecord) StatsIndex {
	groups := groupBySupplier(records)
	idx := make(StatsIndex, len(groups))
	for id, acc := range groups {
		n := float64(len(acc.leadTimes))
		lateRate := acc.late / n
		idx[id] = SupplierStats{
			SupplierID:    id,
			AvgLeadTime:   Round(mean(acc.leadTimes), 4),
			LateRate:      Round(lateRate, 4),
			LateSeverity:  Round(acc.delay/n, 4),
			DefectRate:    Round(acc.defect/n, 4),
			Reliability:   Round(1-lateRate, 4),
			TotalOrders:   len(acc.leadTimes),
			TotalQuantity: acc.quantity,
		}
	}
	return idx
}
