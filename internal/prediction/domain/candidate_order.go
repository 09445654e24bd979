package domain

import (
	"errors"
	"fmt"
	"time"

	catalogdomain "supplyperf/internal/catalog/domain"
	shareddomain "supplyperf/internal/shared/domain"
)

var (
	// ErrInvalidOrder rejects a candidate order before any model runs.
	ErrInvalidOrder = errors.New("invalid candidate order")
	// ErrModelUnavailable is returned while no model bundle is loaded.
	ErrModelUnavailable = errors.New("model not available")
)

// Form defaults.
const (
	DefaultPromiseDays          = 14
	DefaultLeadTimeFormQuantity = 100
	DefaultAssessmentQuantity   = 500
)

// CandidateOrder is a purchase order being considered, not yet placed.
type CandidateOrder struct {
	SupplierID           catalogdomain.SupplierID `json:"supplier_id"`
	OrderDate            time.Time                `json:"order_date"`
	ExpectedDeliveryDate time.Time                `json:"expected_delivery_date"`
	Quantity             int                      `json:"quantity_ordered"`
}

// NewDefaultCandidateOrder prefills a form: the promise is two weeks after today.
func NewDefaultCandidateOrder(supplierID catalogdomain.SupplierID, today time.Time, quantity int) CandidateOrder {
	d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return CandidateOrder{
		SupplierID:           supplierID,
		OrderDate:            d,
		ExpectedDeliveryDate: d.AddDate(0, 0, DefaultPromiseDays),
		Quantity:             quantity,
	}
}

// Validate checks the order is usable for inference.
func (o CandidateOrder) Validate() error {
	switch {
	case o.SupplierID == "":
		return fmt.Errorf("%w: supplier is required", ErrInvalidOrder)
	case o.OrderDate.IsZero() || o.ExpectedDeliveryDate.IsZero():
		return fmt.Errorf("%w: order and expected delivery dates are required", ErrInvalidOrder)
	case o.ExpectedDeliveryDate.Before(o.OrderDate):
		return fmt.Errorf("%w: expected delivery date precedes order date", ErrInvalidOrder)
	case o.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidOrder)
	}
	return nil
}

// PromisedLeadTime is the expected delivery date minus the order date, in whole days.
func (o CandidateOrder) PromisedLeadTime() int {
	return shareddomain.DaysBetween(o.OrderDate, o.ExpectedDeliveryDate)
}
