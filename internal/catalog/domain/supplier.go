package domain

import (
	"errors"
	"strings"

	"supplyperf/internal/shared/domain"
)

// SupplierID is the supplier master key, e.g. "SUP-001".
type SupplierID string

// NewSupplierID trims and validates a raw identifier.
func NewSupplierID(raw string) (SupplierID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", errors.New("supplier id cannot be empty")
	}
	return SupplierID(id), nil
}

func (id SupplierID) String() string {
	return string(id)
}

// Supplier is one row of the supplier master.
type Supplier struct {
	id        SupplierID
	name      string
	basePrice domain.Money
	category  string
	region    string
}

// NewSupplier builds a master entry. Name, category and region may be blank.
func NewSupplier(
	id SupplierID,
	name string,
	basePrice domain.Money,
	category string,
	region string,
) (*Supplier, error) {
	if id == "" {
		return nil, errors.New("supplier id cannot be empty")
	}
	if basePrice.Currency() == "" {
		return nil, errors.New("supplier base price must carry a currency")
	}

	return &Supplier{
		id:        id,
		name:      strings.TrimSpace(name),
		basePrice: basePrice,
		category:  strings.TrimSpace(category),
		region:    strings.TrimSpace(region),
	}, nil
}

func (s *Supplier) ID() SupplierID {
	return s.id
}

// Name is optional in the master file and may be empty.
func (s *Supplier) Name() string {
	return s.name
}

func (s *Supplier) BasePrice() domain.Money {
	return s.basePrice
}

func (s *Supplier) Category() string {
	return s.category
}

func (s *Supplier) Region() string {
	return s.region
}
