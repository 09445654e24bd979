package database

import (
	"database/sql"
	"time"
)

// ============================================================================
// DATA MODELS - rows of the three source tables
// ============================================================================

// SupplierRow is one supplier master line.
type SupplierRow struct {
	SupplierID string
	Name       string
	BasePrice  float64
	Category   string
	Region     string
}

// PurchaseOrderRow is one purchase order line.
type PurchaseOrderRow struct {
	POID                 string
	SupplierID           string
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	QuantityOrdered      int
}

// GoodsReceiptRow is one goods receipt line.
type GoodsReceiptRow struct {
	POID               string
	ActualDeliveryDate time.Time
	QuantityReceived   int
	DefectQty          int
}

// Schema creates the read tables. There are no foreign keys: orders may reference
// suppliers missing from the master.
const Schema = `
CREATE TABLE IF NOT EXISTS suppliers (
	supplier_id TEXT PRIMARY KEY,
	name        TEXT,
	base_price  NUMERIC(12, 2) NOT NULL,
	category    TEXT,
	region      TEXT
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	po_id                  TEXT PRIMARY KEY,
	supplier_id            TEXT NOT NULL,
	order_date             DATE NOT NULL,
	expected_delivery_date DATE NOT NULL,
	quantity_ordered       INTEGER NOT NULL CHECK (quantity_ordered >= 0)
);

CREATE TABLE IF NOT EXISTS goods_receipts (
	po_id                TEXT PRIMARY KEY,
	actual_delivery_date DATE NOT NULL,
	quantity_received    INTEGER,
	defect_qty           INTEGER
);

CREATE INDEX IF NOT EXISTS idx_purchase_orders_supplier ON purchase_orders (supplier_id);
CREATE INDEX IF NOT EXISTS idx_purchase_orders_order_date ON purchase_orders (order_date);
`

// CreateSchema applies Schema.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
