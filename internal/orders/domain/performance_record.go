package domain

import (
	"time"

	catalogdomain "supplyperf/internal/catalog/domain"
	"supplyperf/internal/shared/domain"
)

// PerformanceRecord is a purchase order joined with its goods receipt and,
// when available, its supplier master row. Derived fields are computed once at merge time.
type PerformanceRecord struct {
	POID                 POID
	SupplierID           catalogdomain.SupplierID
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	ActualDeliveryDate   time.Time
	QuantityOrdered      domain.Quantity
	QuantityReceived     domain.Quantity
	DefectQty            domain.Quantity
	HasReceivedQuantity  bool

	// DelayDays is actual minus expected, floored at zero.
	DelayDays int

	// LeadTimeDays is actual minus order date; never negative in a merged dataset.
	LeadTimeDays     int
	ExpectedLeadTime int

	// DefectRate is defects / received, 0 when nothing was received.
	DefectRate float64
	IsLate     bool

	InMaster     bool
	SupplierName string
	Category     string
	Region       string
	BasePrice    float64
}

// InFull reports whether the full ordered quantity arrived.
// Without receipt quantities it is false.
func (r PerformanceRecord) InFull() bool {
	return r.HasReceivedQuantity && r.QuantityReceived.Equal(r.QuantityOrdered)
}

// OTIF is on time and in full.
func (r PerformanceRecord) OTIF() bool {
	return !r.IsLate && r.InFull()
}

// IsLateValue is the late flag as 0 or 1, the form the aggregates average over.
func (r PerformanceRecord) IsLateValue() float64 {
	if r.IsLate {
		return 1
	}
	return 0
}

// ExcludedReceipt is a PO/GR pair dropped because delivery precedes the order date.
type ExcludedReceipt struct {
	POID         POID
	SupplierID   catalogdomain.SupplierID
	LeadTimeDays int
}

// NewPerformanceRecord derives the delivery metrics of one PO/GR pair.
// ok is false when the lead time is negative; the pair must then be excluded.
func NewPerformanceRecord(po *PurchaseOrder, gr *GoodsReceipt) (PerformanceRecord, bool) {
	leadTime := domain.DaysBetween(po.OrderDate(), gr.ActualDeliveryDate())
	delay := domain.DaysBetween(po.ExpectedDeliveryDate(), gr.ActualDeliveryDate())
	if delay < 0 {
		delay = 0
	}

	rec := PerformanceRecord{
		POID:                 po.ID(),
		SupplierID:           po.SupplierID(),
		OrderDate:            po.OrderDate(),
		ExpectedDeliveryDate: po.ExpectedDeliveryDate(),
		ActualDeliveryDate:   gr.ActualDeliveryDate(),
		QuantityOrdered:      po.QuantityOrdered(),
		QuantityReceived:     gr.QuantityReceived(),
		DefectQty:            gr.DefectQty(),
		HasReceivedQuantity:  gr.HasQuantities(),
		DelayDays:            delay,
		LeadTimeDays:         leadTime,
		ExpectedLeadTime:     po.ExpectedLeadTime(),
		DefectRate:           gr.QuantityReceived().Ratio(gr.DefectQty()),
		IsLate:               delay > 0,
	}
	return rec, leadTime >= 0
}

// Enrich copies the supplier master fields onto the record when the supplier is known.
// A nil master is a no-op.
func (r *PerformanceRecord) Enrich(master *catalogdomain.Directory) {
	s, ok := master.Get(r.SupplierID)
	if !ok {
		return
	}
	r.InMaster = true
	r.SupplierName = s.Name()
	r.Category = s.Category()
	r.Region = s.Region()
	r.BasePrice = s.BasePrice().Amount()
}

// MergeResult is the output of Merge.
type MergeResult struct {
	Records  []PerformanceRecord
	Excluded []ExcludedReceipt

	// OpenOrders counts purchase orders without any goods receipt.
	OpenOrders int
}

// Merge inner-joins purchase orders with goods receipts on PO id, keeping PO order,
// drops pairs with a negative lead time and left-joins the supplier master.
// A nil master leaves records unenriched.
func Merge(orders []*PurchaseOrder, receipts []*GoodsReceipt, master *catalogdomain.Directory) MergeResult {
	byPO := make(map[POID][]*GoodsReceipt, len(receipts))
	for _, gr := range receipts {
		byPO[gr.POID()] = append(byPO[gr.POID()], gr)
	}

	result := MergeResult{Records: make([]PerformanceRecord, 0, len(orders))}
	for _, po := range orders {
		matches := byPO[po.ID()]
		if len(matches) == 0 {
			result.OpenOrders++
			continue
		}
		for _, gr := range matches {
			rec, ok := NewPerformanceRecord(po, gr)
			if !ok {
				result.Excluded = append(result.Excluded, ExcludedReceipt{
					POID:         rec.POID,
					SupplierID:   rec.SupplierID,
					LeadTimeDays: rec.LeadTimeDays,
				})
				continue
			}
			rec.Enrich(master)
			result.Records = append(result.Records, rec)
		}
	}
	return result
}
