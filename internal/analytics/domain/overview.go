package domain

import (
	"sort"
	"time"

	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
	shareddomain "supplyperf/internal/shared/domain"
)

// TopLateLimit is the size of the late supplier ranking.
const TopLateLimit = 5

// KPIs are the headline figures of the overview page.
type KPIs struct {
	AvgLeadTime   float64 `json:"avg_lead_time_days"`
	LateRatePct   float64 `json:"late_rate_pct"`
	OTIFPct       float64 `json:"otif_pct"`
	SupplierCount int     `json:"supplier_count"`
	Records       int     `json:"records"`

	// OTIFIsOnTimeOnly is set when receipt quantities are missing and OTIF is the on-time rate.
	OTIFIsOnTimeOnly bool `json:"otif_is_on_time_only"`
}

// ComputeKPIs summarises the merged records. inFullKnown selects the OTIF definition.
func ComputeKPIs(records []ordersdomain.PerformanceRecord, inFullKnown bool) KPIs {
	k := KPIs{Records: len(records), OTIFIsOnTimeOnly: !inFullKnown}
	if len(records) == 0 {
		return k
	}

	suppliers := make(map[catalogdomain.SupplierID]struct{})
	var leadTime, late, otif float64
	for _, r := range records {
		suppliers[r.SupplierID] = struct{}{}
		leadTime += float64(r.LeadTimeDays)
		late += r.IsLateValue()
		if r.OTIF() {
			otif++
		}
	}
	n := float64(len(records))
	k.AvgLeadTime = leadTime / n
	k.LateRatePct = late / n * 100
	k.SupplierCount = len(suppliers)
	if inFullKnown {
		k.OTIFPct = otif / n * 100
	} else {
		k.OTIFPct = 100 - k.LateRatePct
	}
	return k
}

// TrendPoint is one month of the lead time vs late rate trend.
type TrendPoint struct {
	Month       time.Time `json:"month"`
	AvgLeadTime float64   `json:"avg_lead_time_days"`
	LateRatePct float64   `json:"late_rate_pct"`
	Orders      int       `json:"orders"`
}

// Label formats the month as YYYY-MM.
func (p TrendPoint) Label() string {
	return p.Month.Format("2006-01")
}

// MonthlyTrend groups records by order month, oldest first.
func MonthlyTrend(records []ordersdomain.PerformanceRecord) []TrendPoint {
	type acc struct{ lt, late, n float64 }
	months := make(map[time.Time]*acc)
	for _, r := range records {
		m := shareddomain.MonthStart(r.OrderDate)
		a, ok := months[m]
		if !ok {
			a = &acc{}
			months[m] = a
		}
		a.lt += float64(r.LeadTimeDays)
		a.late += r.IsLateValue()
		a.n++
	}

	points := make([]TrendPoint, 0, len(months))
	for m, a := range months {
		points = append(points, TrendPoint{
			Month:       m,
			AvgLeadTime: Round(a.lt/a.n, 3),
			LateRatePct: Round(a.late/a.n*100, 3),
			Orders:      int(a.n),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

// LateSupplier is one entry of the late ranking.
type LateSupplier struct {
	SupplierID catalogdomain.SupplierID `json:"supplier_id"`
	LateRate   float64                  `json:"late_rate"`
}

// TopLateSuppliers ranks suppliers by late rate, highest first, ties by id.
func TopLateSuppliers(stats StatsIndex, limit int) []LateSupplier {
	ranked := make([]LateSupplier, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, LateSupplier{SupplierID: s.SupplierID, LateRate: s.LateRate})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LateRate != ranked[j].LateRate {
			return ranked[i].LateRate > ranked[j].LateRate
		}
		return ranked[i].SupplierID < ranked[j].SupplierID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ScatterPoint places a supplier by mean lead time and late rate, sized by order count.
type ScatterPoint struct {
	SupplierID  catalogdomain.SupplierID `json:"supplier_id"`
	AvgLeadTime float64                  `json:"avg_lead_time_days"`
	LateRate    float64                  `json:"late_rate"`
	Orders      int                      `json:"orders"`
}

// SupplierScatter builds one point per supplier, ordered by id, rounded to 3 decimals.
func SupplierScatter(records []ordersdomain.PerformanceRecord) []ScatterPoint {
	groups := groupBySupplier(records)
	points := make([]ScatterPoint, 0, len(groups))
	for id, acc := range groups {
		n := float64(len(acc.leadTimes))
		points = append(points, ScatterPoint{
			SupplierID:  id,
			AvgLeadTime: Round(mean(acc.leadTimes), 3),
			LateRate:    Round(acc.late/n, 3),
			Orders:      len(acc.leadTimes),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].SupplierID < points[j].SupplierID })
	return points
}
