package infrastructure

import (
	"fmt"
	"io"

	catalogdomain "supplyperf/internal/catalog/domain"
	"supplyperf/internal/orders/domain"
	shareddomain "supplyperf/internal/shared/domain"
	"supplyperf/internal/shared/infrastructure"
)

// PO and GR column names.
const (
	ColPOID                 = "PO_ID"
	ColSupplierID           = "Supplier_ID"
	ColOrderDate            = "Order_Date"
	ColExpectedDeliveryDate = "Expected_Delivery_Date"
	ColQuantityOrdered      = "Quantity_Ordered"
	ColActualDeliveryDate   = "Actual_Delivery_Date"
	ColQuantityReceived     = "Quantity_Received"
	ColDefectQty            = "Defect_Qty"
)

// ReadPurchaseOrders parses a PO file. Unparsable rows are skipped and reported as warnings.
func ReadPurchaseOrders(r io.Reader) ([]*domain.PurchaseOrder, []string, error) {
	table, err := infrastructure.ReadCSVTable(r)
	if err != nil {
		return nil, nil, err
	}
	if err := table.Require(ColPOID, ColSupplierID, ColOrderDate, ColExpectedDeliveryDate, ColQuantityOrdered); err != nil {
		return nil, nil, err
	}

	orders := make([]*domain.PurchaseOrder, 0, table.Len())
	var warnings []string
	for i := 0; i < table.Len(); i++ {
		po, err := parsePORow(table, i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("PO line %d skipped: %v", i+2, err))
			continue
		}
		orders = append(orders, po)
	}
	return orders, warnings, nil
}

func parsePORow(table *infrastructure.CSVTable, i int) (*domain.PurchaseOrder, error) {
	id, err := domain.NewPOID(table.Field(i, ColPOID))
	if err != nil {
		return nil, err
	}
	supplierID, err := catalogdomain.NewSupplierID(table.Field(i, ColSupplierID))
	if err != nil {
		return nil, err
	}
	orderDate, err := infrastructure.ParseDate(table.Field(i, ColOrderDate))
	if err != nil {
		return nil, fmt.Errorf("order date: %w", err)
	}
	expected, err := infrastructure.ParseDate(table.Field(i, ColExpectedDeliveryDate))
	if err != nil {
		return nil, fmt.Errorf("expected delivery date: %w", err)
	}
	qty, err := parseQuantity(table.Field(i, ColQuantityOrdered))
	if err != nil {
		return nil, fmt.Errorf("quantity ordered: %w", err)
	}
	return domain.NewPurchaseOrder(id, supplierID, orderDate, expected, qty)
}

// ReadGoodsReceipts parses a GR file. Quantity_Received and Defect_Qty are optional as a pair:
// when either column is missing, receipts are built without quantities.
func ReadGoodsReceipts(r io.Reader) ([]*domain.GoodsReceipt, []string, error) {
	table, err := infrastructure.ReadCSVTable(r)
	if err != nil {
		return nil, nil, err
	}
	if err := table.Require(ColPOID, ColActualDeliveryDate); err != nil {
		return nil, nil, err
	}

	withQuantities := table.Has(ColQuantityReceived) && table.Has(ColDefectQty)
	var warnings []string
	if !withQuantities {
		warnings = append(warnings, fmt.Sprintf("GR file has no %s/%s columns: defect rate and OTIF are unavailable", ColQuantityReceived, ColDefectQty))
	}

	receipts := make([]*domain.GoodsReceipt, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		gr, err := parseGRRow(table, i, withQuantities)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("GR line %d skipped: %v", i+2, err))
			continue
		}
		receipts = append(receipts, gr)
	}
	return receipts, warnings, nil
}

func parseGRRow(table *infrastructure.CSVTable, i int, withQuantities bool) (*domain.GoodsReceipt, error) {
	id, err := domain.NewPOID(table.Field(i, ColPOID))
	if err != nil {
		return nil, err
	}
	actual, err := infrastructure.ParseDate(table.Field(i, ColActualDeliveryDate))
	if err != nil {
		return nil, fmt.Errorf("actual delivery date: %w", err)
	}
	rawReceived := table.Field(i, ColQuantityReceived)
	rawDefects := table.Field(i, ColDefectQty)
	// A receipt with a blank quantity still counts for lead time.
	if !withQuantities || rawReceived == "" || rawDefects == "" {
		return domain.NewGoodsReceiptWithoutQuantities(id, actual)
	}
	received, err := parseQuantity(rawReceived)
	if err != nil {
		return nil, fmt.Errorf("quantity received: %w", err)
	}
	defects, err := parseQuantity(rawDefects)
	if err != nil {
		return nil, fmt.Errorf("defect qty: %w", err)
	}
	return domain.NewGoodsReceipt(id, actual, received, defects)
}

func parseQuantity(raw string) (shareddomain.Quantity, error) {
	n, err := infrastructure.ParseInt(raw)
	if err != nil {
		return shareddomain.Quantity{}, err
	}
	return shareddomain.NewQuantity(n)
}
