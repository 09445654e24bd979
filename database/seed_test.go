package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersdomain "supplyperf/internal/orders/domain"
	ordersinfra "supplyperf/internal/orders/infrastructure"
	"supplyperf/internal/testhelpers"
)

func smallConfig() SeedConfig {
	cfg := DefaultSeedConfig()
	cfg.Suppliers = 5
	cfg.Months = 6
	cfg.OrdersPerSupplier = 20
	cfg.AnomalyRate = 0.05
	cfg.End = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	return cfg
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(smallConfig())
	b := Generate(smallConfig())
	assert.Equal(t, a, b)

	cfg := smallConfig()
	cfg.Seed = 7
	assert.NotEqual(t, a.Orders, Generate(cfg).Orders)
}

func TestGenerate_Shape(t *testing.T) {
	cfg := smallConfig()
	data := Generate(cfg)

	require.Len(t, data.Suppliers, cfg.Suppliers)
	assert.Equal(t, "SUP-001", data.Suppliers[0].SupplierID)
	assert.NotEmpty(t, data.Orders)
	assert.LessOrEqual(t, len(data.Receipts), len(data.Orders))

	orders := make(map[string]PurchaseOrderRow, len(data.Orders))
	for _, o := range data.Orders {
		assert.False(t, o.ExpectedDeliveryDate.Before(o.OrderDate), o.POID)
		assert.Positive(t, o.QuantityOrdered)
		orders[o.POID] = o
	}
	for _, r := range data.Receipts {
		o, ok := orders[r.POID]
		require.True(t, ok, r.POID)
		assert.LessOrEqual(t, r.QuantityReceived, o.QuantityOrdered)
		assert.LessOrEqual(t, r.DefectQty, r.QuantityReceived)
		assert.False(t, r.ActualDeliveryDate.After(cfg.End))
	}
}

func TestWriteCSV_ReadableBySource(t *testing.T) {
	data := Generate(smallConfig())
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, data))

	src := &ordersinfra.CSVSource{
		SupplierPath: dir + "/supplier_master.csv",
		POPath:       dir + "/PO.csv",
		GRPath:       dir + "/GR.csv",
		Currency:     "USD",
		Workers:      3,
	}
	tables, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables.Warnings)
	assert.Equal(t, len(data.Suppliers), tables.Suppliers.Len())
	assert.Len(t, tables.PurchaseOrders, len(data.Orders))
	assert.Len(t, tables.Receipts, len(data.Receipts))

	ds := ordersdomain.NewDataset("seed", time.Now(), tables)
	assert.Equal(t, len(data.Receipts), len(ds.Records())+len(ds.Excluded()))
	assert.True(t, ds.HasSupplierMaster())
}

func TestSeedDatabase(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	data := Generate(smallConfig())
	require.NoError(t, SeedDatabase(db, data))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM purchase_orders`).Scan(&n))
	assert.Equal(t, len(data.Orders), n)
}
