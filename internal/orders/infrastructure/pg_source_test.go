package infrastructure_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyperf/database"
	ordersinfra "supplyperf/internal/orders/infrastructure"
	"supplyperf/internal/testhelpers"
)

func TestPostgresSource_Integration(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	cfg := database.DefaultSeedConfig()
	cfg.Suppliers = 4
	cfg.Months = 3
	cfg.OrdersPerSupplier = 10
	cfg.End = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	data := database.Generate(cfg)
	require.NoError(t, database.SeedDatabase(db, data))

	src := ordersinfra.NewPostgresSource(db, "USD")
	ctx := context.Background()

	fp1, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	fp2, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	tables, err := src.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, tables.Suppliers)
	assert.Equal(t, len(data.Suppliers), tables.Suppliers.Len())
	assert.Len(t, tables.PurchaseOrders, len(data.Orders))
	assert.Len(t, tables.Receipts, len(data.Receipts))

	_, err = db.Exec(`DELETE FROM goods_receipts WHERE po_id = $1`, data.Receipts[0].POID)
	require.NoError(t, err)
	fp3, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp3)
}
