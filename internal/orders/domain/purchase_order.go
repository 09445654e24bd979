package domain

import (
	"errors"
	"strings"
	"time"

	catalogdomain "supplyperf/internal/catalog/domain"
	"supplyperf/internal/shared/domain"
)

// POID identifies a purchase order and joins it to its goods receipt.
type POID string

// NewPOID trims and validates a raw purchase order id.
func NewPOID(raw string) (POID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", errors.New("PO id cannot be empty")
	}
	return POID(id), nil
}

// PurchaseOrder is one row of the PO table.
type PurchaseOrder struct {
	id              POID
	supplierID      catalogdomain.SupplierID
	window          domain.DateRange
	quantityOrdered domain.Quantity
}

// NewPurchaseOrder validates a PO. The expected delivery date may precede the order date;
// such rows are kept and yield a negative promised lead time.
func NewPurchaseOrder(
	id POID,
	supplierID catalogdomain.SupplierID,
	orderDate time.Time,
	expectedDeliveryDate time.Time,
	quantityOrdered domain.Quantity,
) (*PurchaseOrder, error) {
	if id == "" {
		return nil, errors.New("PO id cannot be empty")
	}
	if supplierID == "" {
		return nil, errors.New("supplier id cannot be empty")
	}
	window, err := domain.NewDateRange(orderDate, expectedDeliveryDate)
	if err != nil {
		return nil, err
	}

	return &PurchaseOrder{
		id:              id,
		supplierID:      supplierID,
		window:          window,
		quantityOrdered: quantityOrdered,
	}, nil
}

func (po *PurchaseOrder) ID() POID {
	return po.id
}

func (po *PurchaseOrder) SupplierID() catalogdomain.SupplierID {
	return po.supplierID
}

func (po *PurchaseOrder) OrderDate() time.Time {
	return po.window.Start()
}

func (po *PurchaseOrder) ExpectedDeliveryDate() time.Time {
	return po.window.End()
}

// ExpectedLeadTime is the promised lead time in whole days.
func (po *PurchaseOrder) ExpectedLeadTime() int {
	return po.window.Days()
}

func (po *PurchaseOrder) QuantityOrdered() domain.Quantity {
	return po.quantityOrdered
}
