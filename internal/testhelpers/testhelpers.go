package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	ordersdomain "supplyperf/internal/orders/domain"
	ordersinfra "supplyperf/internal/orders/infrastructure"
)

// Fixture files. Expected aggregates over the merged records:
//
//	6 records, 1 excluded (PO-7), 1 open order (PO-8)
//	mean lead time 12.5, late rate 0.5, OTIF 0.5, 4 suppliers
//	SUP-001: LT 19,8  late 1/2  SUP-002: LT 15,8  late 1/2
//	SUP-003: LT 20    late 1/1  SUP-004: LT 5     late 0/1 (not in master)
const (
	SupplierMasterCSV = `Supplier_ID,Supplier_Name,Base_Price,Category,Region
SUP-001,Acme,100,Electronics,Asia
SUP-002,Globex,40,Raw Materials,EU
SUP-003,Initech,75,Packaging,US
`
	PurchaseOrdersCSV = `PO_ID,Supplier_ID,Order_Date,Expected_Delivery_Date,Quantity_Ordered
PO-1,SUP-001,2024-01-01,2024-01-15,100
PO-2,SUP-001,2024-01-10,2024-01-20,50
PO-3,SUP-002,2024-01-15,2024-01-25,200
PO-4,SUP-002,2024-02-01,2024-02-10,80
PO-5,SUP-003,2024-02-05,2024-02-20,60
PO-6,SUP-004,2024-02-10,2024-02-17,30
PO-7,SUP-003,2024-03-01,2024-03-10,40
PO-8,SUP-001,2024-03-05,2024-03-15,10
`
	GoodsReceiptsCSV = `PO_ID,Actual_Delivery_Date,Quantity_Received,Defect_Qty
PO-1,2024-01-20,95,5
PO-2,2024-01-18,50,0
PO-3,2024-01-30,200,10
PO-4,2024-02-09,80,0
PO-5,2024-02-25,58,2
PO-6,2024-02-15,30,0
PO-7,2024-02-25,40,0
`
)

// WriteCSVFixtures writes the fixture files into a temp dir and returns a source over them.
func WriteCSVFixtures(tb testing.TB) *ordersinfra.CSVSource {
	tb.Helper()

	dir := tb.TempDir()
	files := map[string]string{
		"supplier_master.csv": SupplierMasterCSV,
		"PO.csv":              PurchaseOrdersCSV,
		"GR.csv":              GoodsReceiptsCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			tb.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return &ordersinfra.CSVSource{
		SupplierPath: filepath.Join(dir, "supplier_master.csv"),
		POPath:       filepath.Join(dir, "PO.csv"),
		GRPath:       filepath.Join(dir, "GR.csv"),
		Currency:     "USD",
		Workers:      3,
	}
}

// FixtureTables parses the fixture files.
func FixtureTables(tb testing.TB) ordersdomain.Tables {
	tb.Helper()
	tables, err := WriteCSVFixtures(tb).Load(context.Background())
	if err != nil {
		tb.Fatalf("load fixtures: %v", err)
	}
	return tables
}

// FixtureDataset returns the merged fixture dataset.
func FixtureDataset(tb testing.TB) *ordersdomain.Dataset {
	tb.Helper()
	return ordersdomain.NewDataset("fixture", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), FixtureTables(tb))
}

// StaticSource serves fixed tables under a settable version.
type StaticSource struct {
	mu      sync.Mutex
	version string
	tables  ordersdomain.Tables
	err     error
	loads   int
}

func NewStaticSource(version string, tables ordersdomain.Tables) *StaticSource {
	return &StaticSource{version: version, tables: tables}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fingerprint(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func (s *StaticSource) Load(context.Context) (ordersdomain.Tables, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return ordersdomain.Tables{}, s.err
	}
	return s.tables, nil
}

// Set changes the version and the load outcome.
func (s *StaticSource) Set(version string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
	s.err = err
}

// Loads returns how many times Load ran.
func (s *StaticSource) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// SetupTestDB opens the integration database, skipping the test when it is unreachable.
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	_ = godotenv.Load("../../.env")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "supplyperf"),
		getEnv("DB_PASSWORD", "supplyperf"),
		getEnv("DB_NAME", "supplyperf"),
		getEnv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		tb.Skipf("database unavailable: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		tb.Skipf("database unavailable (%s): %v", hidePassword(connStr), err)
	}
	tb.Cleanup(func() { db.Close() })
	return db
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func hidePassword(connStr string) string {
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=***"
		}
	}
	return strings.Join(fields, " ")
}
