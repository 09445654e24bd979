package domain

import "time"

// Overview is the model of the overview page.
type Overview struct {
	Version          string         `json:"dataset_version"`
	GeneratedAt      time.Time      `json:"generated_at"`
	KPIs             KPIs           `json:"kpis"`
	Trend            []TrendPoint   `json:"monthly_trend"`
	TopLateSuppliers []LateSupplier `json:"top_late_suppliers"`
	Scatter          []ScatterPoint `json:"supplier_scatter"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// LeadTimeReport is the model of the lead time analysis page.
type LeadTimeReport struct {
	Version     string             `json:"dataset_version"`
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     LeadTimeSummary    `json:"summary"`
	Histogram   []HistogramBin     `json:"histogram"`
	ByCategory  []BoxSummary       `json:"by_category,omitempty"`
	BySupplier  []SupplierLeadTime `json:"by_supplier"`

	// HasCategories is false when no supplier master was loaded; the box plot is hidden.
	HasCategories bool `json:"has_categories"`
}

// SupplierReport is the model of the supplier analysis page.
type SupplierReport struct {
	Version     string               `json:"dataset_version"`
	GeneratedAt time.Time            `json:"generated_at"`
	Suppliers   []SupplierSummaryRow `json:"suppliers"`
	HasNames    bool                 `json:"has_names"`
}
