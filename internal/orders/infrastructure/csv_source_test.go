package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	masterCSV = `Supplier_ID,Base_Price,Category,Region
SUP-001,120,Electronics,Asia
SUP-002,45.5,Raw,EU
`
	poCSV = `PO_ID,Supplier_ID,Order_Date,Expected_Delivery_Date,Quantity_Ordered
PO-1,SUP-001,2024-01-01,2024-01-15,100
PO-2,SUP-002,2024/01/05,2024/01/20,50
PO-3,SUP-002,not-a-date,2024-01-20,50
PO-4,SUP-001,2024-02-01,2024-02-10,12.5
`
	grCSV = `PO_ID,Actual_Delivery_Date,Quantity_Received,Defect_Qty
PO-1,2024-01-20,95,5
PO-2,01/18/2024,50,0
`
)

func writeFixtures(t *testing.T, files map[string]string) *CSVSource {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return &CSVSource{
		SupplierPath: filepath.Join(dir, "supplier_master.csv"),
		POPath:       filepath.Join(dir, "PO.csv"),
		GRPath:       filepath.Join(dir, "GR.csv"),
		Currency:     "USD",
		Workers:      3,
	}
}

func TestCSVSource_Load(t *testing.T) {
	src := writeFixtures(t, map[string]string{
		"supplier_master.csv": masterCSV,
		"PO.csv":              poCSV,
		"GR.csv":              grCSV,
	})

	tables, err := src.Load(context.Background())
	require.NoError(t, err)

	require.NotNil(t, tables.Suppliers)
	assert.Equal(t, 2, tables.Suppliers.Len())
	assert.Len(t, tables.PurchaseOrders, 2)
	assert.Len(t, tables.Receipts, 2)
	require.Len(t, tables.Warnings, 2)
	assert.Contains(t, tables.Warnings[0], "PO line 4")
	assert.Contains(t, tables.Warnings[1], "PO line 5")
}

func TestCSVSource_MissingMasterIsAWarning(t *testing.T) {
	src := writeFixtures(t, map[string]string{
		"PO.csv": poCSV,
		"GR.csv": grCSV,
	})

	tables, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tables.Suppliers)
	assert.Contains(t, tables.Warnings[0], "supplier master unavailable")
}

func TestCSVSource_MissingPOFails(t *testing.T) {
	src := writeFixtures(t, map[string]string{
		"supplier_master.csv": masterCSV,
		"GR.csv":              grCSV,
	})

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PO.csv")
}

func TestCSVSource_FingerprintTracksChanges(t *testing.T) {
	src := writeFixtures(t, map[string]string{
		"supplier_master.csv": masterCSV,
		"PO.csv":              poCSV,
		"GR.csv":              grCSV,
	})
	ctx := context.Background()

	first, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	again, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.WriteFile(src.GRPath, []byte(grCSV+"PO-4,2024-02-12,12,0\n"), 0o644))
	require.NoError(t, os.Chtimes(src.GRPath, later, later))

	changed, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestReadGoodsReceipts_WithoutQuantityColumns(t *testing.T) {
	receipts, warnings, err := ReadGoodsReceipts(strings.NewReader("PO_ID,Actual_Delivery_Date\nPO-1,2024-01-20\n"))
	require.NoError(t, err)

	require.Len(t, receipts, 1)
	assert.False(t, receipts[0].HasQuantities())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Quantity_Received")
}

func TestReadGoodsReceipts_BlankQuantityKeepsReceipt(t *testing.T) {
	receipts, _, err := ReadGoodsReceipts(strings.NewReader(
		"PO_ID,Actual_Delivery_Date,Quantity_Received,Defect_Qty\nPO-1,2024-01-20,,\nPO-2,2024-01-18,50,\nPO-3,2024-01-19,40,2\n"))
	require.NoError(t, err)

	require.Len(t, receipts, 3)
	assert.Equal(t, "PO-1", string(receipts[0].POID()))
	assert.False(t, receipts[0].HasQuantities())
	assert.True(t, receipts[0].ActualDeliveryDate().Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, receipts[1].HasQuantities())
	assert.True(t, receipts[2].HasQuantities())
	assert.Equal(t, 40, receipts[2].QuantityReceived().Value())
}

func TestReadPurchaseOrders_MissingColumn(t *testing.T) {
	_, _, err := ReadPurchaseOrders(strings.NewReader("PO_ID,Supplier_ID\nPO-1,SUP-1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Order_Date")
}
