package infrastructure

import (
	"context"
	"fmt"

	"supplyperf/internal/catalog/domain"
	shareddomain "supplyperf/internal/shared/domain"
	"supplyperf/internal/shared/infrastructure"
)

// SupplierQueryRepository reads the supplier master from the suppliers table.
type SupplierQueryRepository struct {
	infrastructure.BaseRepository
	currency string
}

// NewSupplierQueryRepository creates a read repository for suppliers.
func NewSupplierQueryRepository(db infrastructure.Queryer, currency string) *SupplierQueryRepository {
	return &SupplierQueryRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
		currency:       currency,
	}
}

// WithContext returns a copy bound to ctx.
func (r *SupplierQueryRepository) WithContext(ctx context.Context) *SupplierQueryRepository {
	return &SupplierQueryRepository{
		BaseRepository: r.BaseRepository.WithContext(ctx),
		currency:       r.currency,
	}
}

// FindAll loads the full master. Invalid rows are reported as warnings, like the CSV reader.
func (r *SupplierQueryRepository) FindAll() (*domain.Directory, []string, error) {
	query := `
		SELECT s.supplier_id, COALESCE(s.name, ''), s.base_price::text,
		       COALESCE(s.category, ''), COALESCE(s.region, '')
		FROM suppliers s
		ORDER BY s.supplier_id
	`

	rows, err := r.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	dir := domain.NewDirectory()
	var warnings []string
	for rows.Next() {
		var sid, name, price, category, region string
		if err := rows.Scan(&sid, &name, &price, &category, &region); err != nil {
			return nil, nil, err
		}
		s, err := r.toSupplier(sid, name, price, category, region)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("suppliers row %q skipped: %v", sid, err))
			continue
		}
		dir.Put(s)
	}
	return dir, warnings, rows.Err()
}

func (r *SupplierQueryRepository) toSupplier(sid, name, price, category, region string) (*domain.Supplier, error) {
	id, err := domain.NewSupplierID(sid)
	if err != nil {
		return nil, err
	}
	money, err := shareddomain.ParseMoney(price, r.currency)
	if err != nil {
		return nil, err
	}
	return domain.NewSupplier(id, name, money, category, region)
}
