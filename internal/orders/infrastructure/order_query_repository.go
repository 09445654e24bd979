package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	catalogdomain "supplyperf/internal/catalog/domain"
	"supplyperf/internal/orders/domain"
	shareddomain "supplyperf/internal/shared/domain"
	"supplyperf/internal/shared/infrastructure"
)

// OrderQueryRepository reads purchase orders and goods receipts.
type OrderQueryRepository struct {
	infrastructure.BaseRepository
}

// NewOrderQueryRepository creates a read repository for orders.
func NewOrderQueryRepository(db infrastructure.Queryer) *OrderQueryRepository {
	return &OrderQueryRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
	}
}

// WithContext returns a copy bound to ctx.
func (r *OrderQueryRepository) WithContext(ctx context.Context) *OrderQueryRepository {
	return &OrderQueryRepository{BaseRepository: r.BaseRepository.WithContext(ctx)}
}

// FindPurchaseOrders returns every PO ordered by id. Invalid rows become warnings.
func (r *OrderQueryRepository) FindPurchaseOrders() ([]*domain.PurchaseOrder, []string, error) {
	query := `
		SELECT po.po_id, po.supplier_id, po.order_date, po.expected_delivery_date, po.quantity_ordered
		FROM purchase_orders po
		ORDER BY po.po_id
	`

	rows, err := r.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		orders   []*domain.PurchaseOrder
		warnings []string
	)
	for rows.Next() {
		var (
			poID, supplierID    string
			orderDate, expected time.Time
			qty                 int
		)
		if err := rows.Scan(&poID, &supplierID, &orderDate, &expected, &qty); err != nil {
			return nil, nil, err
		}

		po, err := toPurchaseOrder(poID, supplierID, orderDate, expected, qty)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("purchase_orders row %q skipped: %v", poID, err))
			continue
		}
		orders = append(orders, po)
	}
	return orders, warnings, rows.Err()
}

// FindGoodsReceipts returns every receipt. NULL quantities yield a receipt without quantities.
func (r *OrderQueryRepository) FindGoodsReceipts() ([]*domain.GoodsReceipt, []string, error) {
	query := `
		SELECT gr.po_id, gr.actual_delivery_date, gr.quantity_received, gr.defect_qty
		FROM goods_receipts gr
		ORDER BY gr.po_id
	`

	rows, err := r.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		receipts []*domain.GoodsReceipt
		warnings []string
	)
	for rows.Next() {
		var (
			poID              string
			actual            time.Time
			received, defects sql.NullInt64
		)
		if err := rows.Scan(&poID, &actual, &received, &defects); err != nil {
			return nil, nil, err
		}

		gr, err := toGoodsReceipt(poID, actual, received, defects)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("goods_receipts row %q skipped: %v", poID, err))
			continue
		}
		receipts = append(receipts, gr)
	}
	return receipts, warnings, rows.Err()
}

// TableStamp summarises a table for change detection.
type TableStamp struct {
	Table string
	Rows  int64
	Max   sql.NullTime
}

// Stamps returns row counts and the latest date of each source table.
func (r *OrderQueryRepository) Stamps() ([]TableStamp, error) {
	query := `
		SELECT 'suppliers', COUNT(*), NULL::timestamp FROM suppliers
		UNION ALL
		SELECT 'purchase_orders', COUNT(*), MAX(order_date)::timestamp FROM purchase_orders
		UNION ALL
		SELECT 'goods_receipts', COUNT(*), MAX(actual_delivery_date)::timestamp FROM goods_receipts
	`

	rows, err := r.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stamps []TableStamp
	for rows.Next() {
		var s TableStamp
		if err := rows.Scan(&s.Table, &s.Rows, &s.Max); err != nil {
			return nil, err
		}
		stamps = append(stamps, s)
	}
	return stamps, rows.Err()
}

func toPurchaseOrder(poID, supplierID string, orderDate, expected time.Time, qty int) (*domain.PurchaseOrder, error) {
	id, err := domain.NewPOID(poID)
	if err != nil {
		return nil, err
	}
	sid, err := catalogdomain.NewSupplierID(supplierID)
	if err != nil {
		return nil, err
	}
	quantity, err := shareddomain.NewQuantity(qty)
	if err != nil {
		return nil, err
	}
	return domain.NewPurchaseOrder(id, sid, orderDate.UTC(), expected.UTC(), quantity)
}

func toGoodsReceipt(poID string, actual time.Time, received, defects sql.NullInt64) (*domain.GoodsReceipt, error) {
	id, err := domain.NewPOID(poID)
	if err != nil {
		return nil, err
	}
	if !received.Valid || !defects.Valid {
		return domain.NewGoodsReceiptWithoutQuantities(id, actual.UTC())
	}
	rq, err := shareddomain.NewQuantity(int(received.Int64))
	if err != nil {
		return nil, err
	}
	dq, err := shareddomain.NewQuantity(int(defects.Int64))
	if err != nil {
		return nil, err
	}
	return domain.NewGoodsReceipt(id, actual.UTC(), rq, dq)
}
