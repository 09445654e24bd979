package infrastructure

import (
	"fmt"
	"io"

	"supplyperf/internal/catalog/domain"
	shareddomain "supplyperf/internal/shared/domain"
	"supplyperf/internal/shared/infrastructure"
)

// Supplier master column names.
const (
	ColSupplierID   = "Supplier_ID"
	ColBasePrice    = "Base_Price"
	ColCategory     = "Category"
	ColRegion       = "Region"
	ColSupplierName = "Supplier_Name"
)

// ReadSuppliers parses a supplier master file into a Directory.
// Rows with a blank id or an unparsable base price are skipped; duplicates keep the last row.
// Both cases are returned as warnings.
func ReadSuppliers(r io.Reader, currency string) (*domain.Directory, []string, error) {
	table, err := infrastructure.ReadCSVTable(r)
	if err != nil {
		return nil, nil, err
	}
	if err := table.Require(ColSupplierID, ColBasePrice, ColCategory, ColRegion); err != nil {
		return nil, nil, err
	}

	dir := domain.NewDirectory()
	var warnings []string
	for i := 0; i < table.Len(); i++ {
		line := i + 2
		s, err := parseSupplierRow(table, i, currency)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("supplier master line %d skipped: %v", line, err))
			continue
		}
		if dir.Put(s) {
			warnings = append(warnings, fmt.Sprintf("supplier master line %d: duplicate supplier %s replaces earlier row", line, s.ID()))
		}
	}
	return dir, warnings, nil
}

func parseSupplierRow(table *infrastructure.CSVTable, i int, currency string) (*domain.Supplier, error) {
	id, err := domain.NewSupplierID(table.Field(i, ColSupplierID))
	if err != nil {
		return nil, err
	}
	price, err := shareddomain.ParseMoney(table.Field(i, ColBasePrice), currency)
	if err != nil {
		return nil, fmt.Errorf("base price: %w", err)
	}
	return domain.NewSupplier(
		id,
		table.Field(i, ColSupplierName),
		price,
		table.Field(i, ColCategory),
		table.Field(i, ColRegion),
	)
}
