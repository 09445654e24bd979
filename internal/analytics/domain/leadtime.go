package domain

import (
	"math"
	"sort"

	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
)

// Lead time page constants.
const (
	HistogramBins      = 20
	SupplierTableLimit = 10
)

// LeadTimeSummary describes the lead time distribution over all records.
type LeadTimeSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`

	// Std is the sample standard deviation, nil below two records.
	Std *float64 `json:"std"`

	Min int `json:"min"`
	Max int `json:"max"`
}

func leadTimes(records []ordersdomain.PerformanceRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.LeadTimeDays)
	}
	return out
}

// SummarizeLeadTime computes mean, sample std, min and max, rounded to 3 decimals.
func SummarizeLeadTime(records []ordersdomain.PerformanceRecord) LeadTimeSummary {
	s := LeadTimeSummary{Count: len(records)}
	if len(records) == 0 {
		return s
	}
	values := leadTimes(records)
	s.Mean = Round(mean(values), 3)
	if std, ok := sampleStd(values); ok {
		r := Round(std, 3)
		s.Std = &r
	}
	s.Min, s.Max = records[0].LeadTimeDays, records[0].LeadTimeDays
	for _, r := range records[1:] {
		s.Min = min(s.Min, r.LeadTimeDays)
		s.Max = max(s.Max, r.LeadTimeDays)
	}
	return s
}

// HistogramBin counts values in [Lower, Upper); the last bin also includes Upper.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// LeadTimeHistogram splits the lead time range into bins of equal width.
// A constant series yields a single bin.
func LeadTimeHistogram(records []ordersdomain.PerformanceRecord, bins int) []HistogramBin {
	if len(records) == 0 || bins < 1 {
		return nil
	}
	values := leadTimes(records)
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []HistogramBin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = Round(lo+float64(i)*width, 3)
		out[i].Upper = Round(lo+float64(i+1)*width, 3)
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// BoxSummary is the five-number summary of one category. Quartiles interpolate linearly.
type BoxSummary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
}

// Values returns the summary in chart order.
func (b BoxSummary) Values() []float64 {
	return []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// LeadTimeByCategory builds one box per master category, alphabetically.
// Records of suppliers absent from the master carry no category and are skipped.
func LeadTimeByCategory(records []ordersdomain.PerformanceRecord) []BoxSummary {
	groups := make(map[string][]float64)
	for _, r := range records {
		if !r.InMaster {
			continue
		}
		cat := catalogdomain.LabelOrDefault(r.Category, catalogdomain.DefaultCategory)
		groups[cat] = append(groups[cat], float64(r.LeadTimeDays))
	}

	out := make([]BoxSummary, 0, len(groups))
	for cat, values := range groups {
		sort.Float64s(values)
		out = append(out, BoxSummary{
			Category: cat,
			Count:    len(values),
			Min:      values[0],
			Q1:       Round(quantile(values, 0.25), 3),
			Median:   Round(quantile(values, 0.5), 3),
			Q3:       Round(quantile(values, 0.75), 3),
			Max:      values[len(values)-1],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// SupplierLeadTime is one row of the per-supplier lead time table.
type SupplierLeadTime struct {
	SupplierID catalogdomain.SupplierID `json:"supplier_id"`
	AvgLT      float64                  `json:"avg_lt"`

	// StdLT is nil for a single order.
	StdLT *float64 `json:"std_lt"`

	OrderCount int `json:"order_count"`
}

// SupplierLeadTimes ranks suppliers by average lead time, longest first, rounded to 2 decimals.
// limit <= 0 returns every supplier.
func SupplierLeadTimes(records []ordersdomain.PerformanceRecord, limit int) []SupplierLeadTime {
	groups := groupBySupplier(records)
	out := make([]SupplierLeadTime, 0, len(groups))
	for id, acc := range groups {
		row := SupplierLeadTime{
			SupplierID: id,
			AvgLT:      Round(mean(acc.leadTimes), 2),
			OrderCount: len(acc.leadTimes),
		}
		if std, ok := sampleStd(acc.leadTimes); ok {
			r := Round(std, 2)
			row.StdLT = &r
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgLT != out[j].AvgLT {
			return out[i].AvgLT > out[j].AvgLT
		}
		return out[i].SupplierID < out[j].SupplierID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
