package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	catalogdomain "supplyperf/internal/catalog/domain"
	predictiondomain "supplyperf/internal/prediction/domain"
	sharedinfra "supplyperf/internal/shared/infrastructure"
)

var errBadRequest = errors.New("bad request")

// PredictionRequest is the JSON body of the prediction endpoints. Dates use the
// same layouts the data files accept.
type PredictionRequest struct {
	SupplierID           string `json:"supplier_id"`
	OrderDate            string `json:"order_date"`
	ExpectedDeliveryDate string `json:"expected_delivery_date"`
	Quantity             int    `json:"quantity_ordered"`
}

// Bind implements render.Binder.
func (p *PredictionRequest) Bind(_ *http.Request) error {
	p.SupplierID = strings.TrimSpace(p.SupplierID)
	if p.SupplierID == "" {
		return fmt.Errorf("%w: supplier_id is required", errBadRequest)
	}
	return nil
}

// CandidateOrder converts the request.
func (p *PredictionRequest) CandidateOrder() (predictiondomain.CandidateOrder, error) {
	orderDate, err := sharedinfra.ParseDate(p.OrderDate)
	if err != nil {
		return predictiondomain.CandidateOrder{}, fmt.Errorf("%w: order_date: %v", errBadRequest, err)
	}
	expected, err := sharedinfra.ParseDate(p.ExpectedDeliveryDate)
	if err != nil {
		return predictiondomain.CandidateOrder{}, fmt.Errorf("%w: expected_delivery_date: %v", errBadRequest, err)
	}
	return predictiondomain.CandidateOrder{
		SupplierID:           catalogdomain.SupplierID(p.SupplierID),
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		Quantity:             p.Quantity,
	}, nil
}
