package infrastructure

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	cataloginfra "supplyperf/internal/catalog/infrastructure"
	"supplyperf/internal/orders/domain"
	"supplyperf/internal/shared/infrastructure"
)

// PostgresSource reads the tables from the suppliers, purchase_orders and goods_receipts tables.
type PostgresSource struct {
	db       infrastructure.Queryer
	currency string
}

func NewPostgresSource(db infrastructure.Queryer, currency string) *PostgresSource {
	return &PostgresSource{db: db, currency: currency}
}

func (s *PostgresSource) Name() string {
	return "postgres"
}

// Fingerprint hashes row counts and latest dates of the three tables.
func (s *PostgresSource) Fingerprint(ctx context.Context) (string, error) {
	stamps, err := NewOrderQueryRepository(s.db).WithContext(ctx).Stamps()
	if err != nil {
		return "", fmt.Errorf("fingerprint tables: %w", err)
	}
	h := fnv.New64a()
	for _, st := range stamps {
		fmt.Fprintf(h, "%s:%d", st.Table, st.Rows)
		if st.Max.Valid {
			fmt.Fprintf(h, ":%d", st.Max.Time.UnixNano())
		}
		h.Write([]byte{';'})
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// Load runs the three queries sequentially on the shared pool.
// A supplier query failure is downgraded to a warning.
func (s *PostgresSource) Load(ctx context.Context) (domain.Tables, error) {
	orders := NewOrderQueryRepository(s.db).WithContext(ctx)

	pos, poWarn, err := orders.FindPurchaseOrders()
	if err != nil {
		return domain.Tables{}, fmt.Errorf("read purchase_orders: %w", err)
	}
	grs, grWarn, err := orders.FindGoodsReceipts()
	if err != nil {
		return domain.Tables{}, fmt.Errorf("read goods_receipts: %w", err)
	}

	tables := domain.Tables{PurchaseOrders: pos, Receipts: grs}
	master, masterWarn, err := cataloginfra.NewSupplierQueryRepository(s.db, s.currency).WithContext(ctx).FindAll()
	if err != nil {
		tables.Warnings = append(tables.Warnings, fmt.Sprintf("supplier master unavailable, records are not enriched: %v", err))
	} else {
		tables.Suppliers = master
	}
	tables.Warnings = append(tables.Warnings, masterWarn...)
	tables.Warnings = append(tables.Warnings, poWarn...)
	tables.Warnings = append(tables.Warnings, grWarn...)
	return tables, nil
}
