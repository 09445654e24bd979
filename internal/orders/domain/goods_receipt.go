package domain

import (
	"errors"
	"time"

	"supplyperf/internal/shared/domain"
)

// GoodsReceipt records the delivery of a purchase order.
// Received and defect quantities are optional columns; when the file has no
// Quantity_Received column, hasQuantities is false and both read as zero.
type GoodsReceipt struct {
	poID               POID
	actualDeliveryDate time.Time
	quantityReceived   domain.Quantity
	defectQty          domain.Quantity
	hasQuantities      bool
}

// NewGoodsReceipt builds a receipt with known quantities.
func NewGoodsReceipt(
	poID POID,
	actualDeliveryDate time.Time,
	quantityReceived domain.Quantity,
	defectQty domain.Quantity,
) (*GoodsReceipt, error) {
	gr, err := NewGoodsReceiptWithoutQuantities(poID, actualDeliveryDate)
	if err != nil {
		return nil, err
	}
	gr.quantityReceived = quantityReceived
	gr.defectQty = defectQty
	gr.hasQuantities = true
	return gr, nil
}

// NewGoodsReceiptWithoutQuantities builds a receipt from a file lacking quantity columns.
func NewGoodsReceiptWithoutQuantities(poID POID, actualDeliveryDate time.Time) (*GoodsReceipt, error) {
	if poID == "" {
		return nil, errors.New("PO id cannot be empty")
	}
	if actualDeliveryDate.IsZero() {
		return nil, errors.New("actual delivery date cannot be empty")
	}
	return &GoodsReceipt{poID: poID, actualDeliveryDate: actualDeliveryDate}, nil
}

func (gr *GoodsReceipt) POID() POID {
	return gr.poID
}

func (gr *GoodsReceipt) ActualDeliveryDate() time.Time {
	return gr.actualDeliveryDate
}

func (gr *GoodsReceipt) QuantityReceived() domain.Quantity {
	return gr.quantityReceived
}

func (gr *GoodsReceipt) DefectQty() domain.Quantity {
	return gr.defectQty
}

// HasQuantities reports whether received/defect quantities were supplied.
func (gr *GoodsReceipt) HasQuantities() bool {
	return gr.hasQuantities
}
