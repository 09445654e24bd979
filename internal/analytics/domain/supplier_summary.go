package domain

import (
	"sort"

	catalogdomain "supplyperf/internal/catalog/domain"
	ordersdomain "supplyperf/internal/orders/domain"
)

// SupplierSummaryRow is one line of the supplier summary table.
type SupplierSummaryRow struct {
	SupplierID    catalogdomain.SupplierID `json:"supplier_id"`
	Name          string                   `json:"supplier_name,omitempty"`
	Category      string                   `json:"category,omitempty"`
	Region        string                   `json:"region,omitempty"`
	AvgLeadTime   float64                  `json:"avg_lead_time_days"`
	LateRate      float64                  `json:"late_rate"`
	POCount       int                      `json:"po_count"`
	TotalQuantity int                      `json:"total_quantity"`
	DefectRate    float64                  `json:"defect_rate"`
}

// SupplierSummary groups records per supplier with master labels, ordered by id.
// Means are rounded to 3 decimals; the defect rate is left unrounded.
// Suppliers missing from the master keep empty labels.
func SupplierSummary(records []ordersdomain.PerformanceRecord) []SupplierSummaryRow {
	labels := make(map[catalogdomain.SupplierID]ordersdomain.PerformanceRecord)
	for _, r := range records {
		if _, ok := labels[r.SupplierID]; !ok {
			labels[r.SupplierID] = r
		}
	}

	groups := groupBySupplier(records)
	rows := make([]SupplierSummaryRow, 0, len(groups))
	for id, acc := range groups {
		n := float64(len(acc.leadTimes))
		first := labels[id]
		rows = append(rows, SupplierSummaryRow{
			SupplierID:    id,
			Name:          first.SupplierName,
			Category:      first.Category,
			Region:        first.Region,
			AvgLeadTime:   Round(mean(acc.leadTimes), 3),
			LateRate:      Round(acc.late/n, 3),
			POCount:       len(acc.leadTimes),
			TotalQuantity: acc.quantity,
			DefectRate:    acc.defect / n,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SupplierID < rows[j].SupplierID })
	return rows
}
