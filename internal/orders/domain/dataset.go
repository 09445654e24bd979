package domain

import (
	"errors"
	"sort"
	"time"

	catalogdomain "supplyperf/internal/catalog/domain"
)

// ErrDataUnavailable is returned while no dataset could be loaded.
var ErrDataUnavailable = errors.New("performance data unavailable")

// Tables are the raw inputs read from a source.
type Tables struct {
	// Suppliers is nil when the supplier master could not be loaded.
	Suppliers      *catalogdomain.Directory
	PurchaseOrders []*PurchaseOrder
	Receipts       []*GoodsReceipt

	// Warnings lists skipped rows and other non-fatal load problems.
	Warnings []string
}

// Dataset is an immutable snapshot of merged performance data.
// Slices returned by its getters are shared and must not be modified.
type Dataset struct {
	version  string
	loadedAt time.Time
	tables   Tables
	merged   MergeResult
}

// NewDataset merges the tables. version identifies the source state the tables came from.
func NewDataset(version string, loadedAt time.Time, tables Tables) *Dataset {
	return &Dataset{
		version:  version,
		loadedAt: loadedAt,
		tables:   tables,
		merged:   Merge(tables.PurchaseOrders, tables.Receipts, tables.Suppliers),
	}
}

func (d *Dataset) Version() string {
	return d.version
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Suppliers returns the master directory, nil when it was not loaded.
func (d *Dataset) Suppliers() *catalogdomain.Directory {
	return d.tables.Suppliers
}

func (d *Dataset) HasSupplierMaster() bool {
	return d.tables.Suppliers != nil
}

// HasReceivedQuantities reports whether any receipt carries received quantities.
// Receipts without them count as not in full.
func (d *Dataset) HasReceivedQuantities() bool {
	for _, gr := range d.tables.Receipts {
		if gr.HasQuantities() {
			return true
		}
	}
	return false
}

func (d *Dataset) Records() []PerformanceRecord {
	return d.merged.Records
}

func (d *Dataset) Excluded() []ExcludedReceipt {
	return d.merged.Excluded
}

func (d *Dataset) OpenOrders() int {
	return d.merged.OpenOrders
}

func (d *Dataset) Warnings() []string {
	return d.tables.Warnings
}

func (d *Dataset) PurchaseOrderCount() int {
	return len(d.tables.PurchaseOrders)
}

func (d *Dataset) ReceiptCount() int {
	return len(d.tables.Receipts)
}

// SupplierIDs returns the distinct suppliers present in the merged records, sorted.
func (d *Dataset) SupplierIDs() []catalogdomain.SupplierID {
	seen := make(map[catalogdomain.SupplierID]struct{})
	ids := make([]catalogdomain.SupplierID, 0)
	for _, r := range d.merged.Records {
		if _, ok := seen[r.SupplierID]; ok {
			continue
		}
		seen[r.SupplierID] = struct{}{}
		ids = append(ids, r.SupplierID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasSupplier reports whether id appears in the merged records.
func (d *Dataset) HasSupplier(id catalogdomain.SupplierID) bool {
	for _, r := range d.merged.Records {
		if r.SupplierID == id {
			return true
		}
	}
	return false
}
