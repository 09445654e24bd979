package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "supplyperf/internal/catalog/domain"
	shareddomain "supplyperf/internal/shared/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newPO(t *testing.T, id, supplier, ordered, expected string, qty int) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder(POID(id), catalogdomain.SupplierID(supplier), date(ordered), date(expected), shareddomain.MustNewQuantity(qty))
	require.NoError(t, err)
	return po
}

func newGR(t *testing.T, id, actual string, received, defects int) *GoodsReceipt {
	t.Helper()
	gr, err := NewGoodsReceipt(POID(id), date(actual), shareddomain.MustNewQuantity(received), shareddomain.MustNewQuantity(defects))
	require.NoError(t, err)
	return gr
}

func TestNewPerformanceRecord_LateDelivery(t *testing.T) {
	po := newPO(t, "PO-1", "SUP-001", "2024-01-01", "2024-01-15", 100)
	gr := newGR(t, "PO-1", "2024-01-20", 95, 5)

	rec, ok := NewPerformanceRecord(po, gr)
	require.True(t, ok)

	assert.Equal(t, 5, rec.DelayDays)
	assert.Equal(t, 19, rec.LeadTimeDays)
	assert.Equal(t, 14, rec.ExpectedLeadTime)
	assert.InDelta(t, 5.0/95.0, rec.DefectRate, 1e-12)
	assert.True(t, rec.IsLate)
	assert.False(t, rec.InFull())
	assert.False(t, rec.OTIF())
	assert.Equal(t, 1.0, rec.IsLateValue())
}

func TestNewPerformanceRecord_EarlyDeliveryIsNotLate(t *testing.T) {
	po := newPO(t, "PO-2", "SUP-001", "2024-01-01", "2024-01-15", 10)
	gr := newGR(t, "PO-2", "2024-01-10", 10, 0)

	rec, ok := NewPerformanceRecord(po, gr)
	require.True(t, ok)

	assert.Equal(t, 0, rec.DelayDays)
	assert.False(t, rec.IsLate)
	assert.True(t, rec.OTIF())
}

func TestNewPerformanceRecord_ZeroReceivedHasZeroDefectRate(t *testing.T) {
	po := newPO(t, "PO-3", "SUP-001", "2024-01-01", "2024-01-15", 10)
	gr := newGR(t, "PO-3", "2024-01-10", 0, 0)

	rec, ok := NewPerformanceRecord(po, gr)
	require.True(t, ok)
	assert.Equal(t, 0.0, rec.DefectRate)
}

func TestNewPerformanceRecord_NegativeLeadTimeRejected(t *testing.T) {
	po := newPO(t, "PO-4", "SUP-001", "2024-02-01", "2024-02-10", 10)
	gr := newGR(t, "PO-4", "2024-01-25", 10, 0)

	rec, ok := NewPerformanceRecord(po, gr)
	assert.False(t, ok)
	assert.Equal(t, -7, rec.LeadTimeDays)
}

func TestMerge(t *testing.T) {
	orders := []*PurchaseOrder{
		newPO(t, "PO-1", "SUP-001", "2024-01-01", "2024-01-15", 100),
		newPO(t, "PO-2", "SUP-002", "2024-01-05", "2024-01-20", 50),
		newPO(t, "PO-3", "SUP-001", "2024-02-01", "2024-02-10", 20),
		newPO(t, "PO-4", "SUP-003", "2024-02-01", "2024-02-10", 20),
	}
	receipts := []*GoodsReceipt{
		newGR(t, "PO-2", "2024-01-18", 50, 0),
		newGR(t, "PO-1", "2024-01-20", 95, 5),
		newGR(t, "PO-3", "2024-01-30", 20, 0),
		newGR(t, "PO-9", "2024-01-30", 20, 0),
	}

	master := catalogdomain.NewDirectory()
	price, err := shareddomain.NewMoney(80, "USD")
	require.NoError(t, err)
	sup, err := catalogdomain.NewSupplier("SUP-001", "Acme", price, "Electronics", "Asia")
	require.NoError(t, err)
	master.Put(sup)

	result := Merge(orders, receipts, master)

	require.Len(t, result.Records, 2)
	assert.Equal(t, POID("PO-1"), result.Records[0].POID)
	assert.Equal(t, POID("PO-2"), result.Records[1].POID)

	assert.True(t, result.Records[0].InMaster)
	assert.Equal(t, "Electronics", result.Records[0].Category)
	assert.Equal(t, 80.0, result.Records[0].BasePrice)
	assert.False(t, result.Records[1].InMaster)
	assert.Empty(t, result.Records[1].Category)

	require.Len(t, result.Excluded, 1)
	assert.Equal(t, POID("PO-3"), result.Excluded[0].POID)
	assert.Equal(t, 1, result.OpenOrders)
}

func TestMerge_NilMaster(t *testing.T) {
	orders := []*PurchaseOrder{newPO(t, "PO-1", "SUP-001", "2024-01-01", "2024-01-15", 100)}
	receipts := []*GoodsReceipt{newGR(t, "PO-1", "2024-01-20", 95, 5)}

	result := Merge(orders, receipts, nil)
	require.Len(t, result.Records, 1)
	assert.False(t, result.Records[0].InMaster)
}

func TestDataset(t *testing.T) {
	tables := Tables{
		PurchaseOrders: []*PurchaseOrder{
			newPO(t, "PO-1", "SUP-002", "2024-01-01", "2024-01-15", 100),
			newPO(t, "PO-2", "SUP-001", "2024-01-05", "2024-01-20", 50),
			newPO(t, "PO-3", "SUP-002", "2024-01-05", "2024-01-20", 50),
		},
		Receipts: []*GoodsReceipt{
			newGR(t, "PO-1", "2024-01-20", 95, 5),
			newGR(t, "PO-2", "2024-01-18", 50, 0),
			newGR(t, "PO-3", "2024-01-18", 50, 0),
		},
		Warnings: []string{"row 4: bad date"},
	}
	loadedAt := date("2024-03-01")

	ds := NewDataset("v1", loadedAt, tables)

	assert.Equal(t, "v1", ds.Version())
	assert.Equal(t, loadedAt, ds.LoadedAt())
	assert.False(t, ds.HasSupplierMaster())
	assert.True(t, ds.HasReceivedQuantities())
	assert.Len(t, ds.Records(), 3)
	assert.Equal(t, []catalogdomain.SupplierID{"SUP-001", "SUP-002"}, ds.SupplierIDs())
	assert.True(t, ds.HasSupplier("SUP-001"))
	assert.False(t, ds.HasSupplier("SUP-404"))
	assert.Equal(t, 3, ds.PurchaseOrderCount())
	assert.Equal(t, 3, ds.ReceiptCount())
	assert.Equal(t, []string{"row 4: bad date"}, ds.Warnings())
}

func TestDataset_ReceiptsWithoutQuantities(t *testing.T) {
	gr, err := NewGoodsReceiptWithoutQuantities("PO-1", date("2024-01-20"))
	require.NoError(t, err)

	ds := NewDataset("v1", time.Now(), Tables{
		PurchaseOrders: []*PurchaseOrder{newPO(t, "PO-1", "SUP-001", "2024-01-01", "2024-01-15", 100)},
		Receipts:       []*GoodsReceipt{gr},
	})

	assert.False(t, ds.HasReceivedQuantities())
	assert.False(t, ds.Records()[0].InFull())
}

func TestDataset_BlankQuantityReceiptStillCountsForLeadTime(t *testing.T) {
	blank, err := NewGoodsReceiptWithoutQuantities("PO-2", date("2024-01-25"))
	require.NoError(t, err)

	ds := NewDataset("v1", time.Now(), Tables{
		PurchaseOrders: []*PurchaseOrder{
			newPO(t, "PO-1", "SUP-001", "2024-01-01", "2024-01-15", 100),
			newPO(t, "PO-2", "SUP-001", "2024-01-05", "2024-01-20", 50),
		},
		Receipts: []*GoodsReceipt{newGR(t, "PO-1", "2024-01-15", 100, 4), blank},
	})

	assert.True(t, ds.HasReceivedQuantities())
	require.Len(t, ds.Records(), 2)
	r := ds.Records()[1]
	assert.Equal(t, "PO-2", string(r.POID))
	assert.Equal(t, 20, r.LeadTimeDays)
	assert.True(t, r.IsLate)
	assert.False(t, r.InFull())
	assert.Equal(t, 0.0, r.DefectRate)
	assert.True(t, ds.Records()[0].InFull())
}
