package database

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// SeedConfig sizes the synthetic dataset.
type SeedConfig struct {
	Suppliers int
	Months    int

	// OrdersPerSupplier is the mean number of POs per supplier over the whole period.
	OrdersPerSupplier int

	// OpenRate is the share of POs without a receipt.
	OpenRate float64

	// AnomalyRate is the share of receipts dated before their order.
	AnomalyRate float64

	End  time.Time
	Seed int64
}

// DefaultSeedConfig is two years of data for 30 suppliers.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Suppliers:         30,
		Months:            24,
		OrdersPerSupplier: 80,
		OpenRate:          0.03,
		AnomalyRate:       0.005,
		End:               time.Now().UTC().Truncate(24 * time.Hour),
		Seed:              42,
	}
}

// SeedData is a generated dataset.
type SeedData struct {
	Suppliers []SupplierRow
	Orders    []PurchaseOrderRow
	Receipts  []GoodsReceiptRow
}

var (
	seedCategories = []string{"Electronics", "Raw Materials", "Packaging", "Chemicals", "Textiles", "Mechanical Parts"}
	seedRegions    = []string{"Asia", "EU", "US", "LATAM"}
	seedNames      = []string{
		"Acme", "Globex", "Initech", "Umbrella", "Stark Supply", "Wayne Parts", "Hooli Components",
		"Vandelay Imports", "Soylent Materials", "Tyrell Logistics", "Cyberdyne Metals", "Oscorp Chemicals",
	}
)

// supplierProfile drives the delivery behaviour of one generated supplier.
type supplierProfile struct {
	meanLeadTime float64
	spread       float64
	lateBias     float64
	defectRate   float64
	shortRate    float64
}

// Generate builds a deterministic dataset for cfg.Seed.
func Generate(cfg SeedConfig) SeedData {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := cfg.End.AddDate(0, -cfg.Months, 0)
	days := int(cfg.End.Sub(start).Hours() / 24)

	var data SeedData
	profiles := make([]supplierProfile, cfg.Suppliers)
	for i := 0; i < cfg.Suppliers; i++ {
		name := seedNames[i%len(seedNames)]
		if i >= len(seedNames) {
			name = fmt.Sprintf("%s %d", name, i/len(seedNames)+1)
		}
		data.Suppliers = append(data.Suppliers, SupplierRow{
			SupplierID: fmt.Sprintf("SUP-%03d", i+1),
			Name:       name,
			BasePrice:  math.Round((10+rng.Float64()*490)*100) / 100,
			Category:   seedCategories[rng.Intn(len(seedCategories))],
			Region:     seedRegions[rng.Intn(len(seedRegions))],
		})
		profiles[i] = supplierProfile{
			meanLeadTime: 7 + rng.Float64()*23,
			spread:       1 + rng.Float64()*6,
			lateBias:     rng.Float64()*6 - 2,
			defectRate:   rng.Float64() * 0.06,
			shortRate:    rng.Float64() * 0.15,
		}
	}

	po := 0
	for i, sup := range data.Suppliers {
		p := profiles[i]
		n := cfg.OrdersPerSupplier/2 + rng.Intn(cfg.OrdersPerSupplier+1)
		for j := 0; j < n; j++ {
			po++
			orderDate := start.AddDate(0, 0, rng.Intn(days))
			promised := int(math.Max(3, math.Round(p.meanLeadTime-p.lateBias)))
			qty := 10 + rng.Intn(991)

			order := PurchaseOrderRow{
				POID:                 fmt.Sprintf("PO-%06d", po),
				SupplierID:           sup.SupplierID,
				OrderDate:            orderDate,
				ExpectedDeliveryDate: orderDate.AddDate(0, 0, promised),
				QuantityOrdered:      qty,
			}
			data.Orders = append(data.Orders, order)

			if rng.Float64() < cfg.OpenRate {
				continue
			}

			leadTime := int(math.Max(1, math.Round(p.meanLeadTime+rng.NormFloat64()*p.spread)))
			if rng.Float64() < cfg.AnomalyRate {
				leadTime = -1 - rng.Intn(5)
			}
			actual := orderDate.AddDate(0, 0, leadTime)
			if actual.After(cfg.End) {
				continue
			}

			received := qty
			if rng.Float64() < p.shortRate {
				received = qty - 1 - rng.Intn(qty/10+1)
			}
			defects := 0
			for k := 0; k < received/10; k++ {
				if rng.Float64() < p.defectRate {
					defects++
				}
			}
			data.Receipts = append(data.Receipts, GoodsReceiptRow{
				POID:               order.POID,
				ActualDeliveryDate: actual,
				QuantityReceived:   received,
				DefectQty:          defects,
			})
		}
	}
	return data
}

// WriteCSV writes supplier_master.csv, PO.csv and GR.csv into dir.
func WriteCSV(dir string, data SeedData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"supplier_master.csv", data.writeSuppliers},
		{"PO.csv", data.writeOrders},
		{"GR.csv", data.writeReceipts},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d SeedData) writeSuppliers(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Supplier_ID", "Supplier_Name", "Base_Price", "Category", "Region"})
	for _, s := range d.Suppliers {
		cw.Write([]string{s.SupplierID, s.Name, strconv.FormatFloat(s.BasePrice, 'f', 2, 64), s.Category, s.Region})
	}
	cw.Flush()
	return cw.Error()
}

func (d SeedData) writeOrders(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"PO_ID", "Supplier_ID", "Order_Date", "Expected_Delivery_Date", "Quantity_Ordered"})
	for _, o := range d.Orders {
		cw.Write([]string{
			o.POID,
			o.SupplierID,
			o.OrderDate.Format("2006-01-02"),
			o.ExpectedDeliveryDate.Format("2006-01-02"),
			strconv.Itoa(o.QuantityOrdered),
		})
	}
	cw.Flush()
	return cw.Error()
}

func (d SeedData) writeReceipts(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"PO_ID", "Actual_Delivery_Date", "Quantity_Received", "Defect_Qty"})
	for _, r := range d.Receipts {
		cw.Write([]string{
			r.POID,
			r.ActualDeliveryDate.Format("2006-01-02"),
			strconv.Itoa(r.QuantityReceived),
			strconv.Itoa(r.DefectQty),
		})
	}
	cw.Flush()
	return cw.Error()
}

// SeedDatabase replaces the content of the three tables with data in one transaction.
func SeedDatabase(db *sql.DB, data SeedData) error {
	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`TRUNCATE goods_receipts, purchase_orders, suppliers`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	if err := insertAll(tx,
		`INSERT INTO suppliers (supplier_id, name, base_price, category, region) VALUES ($1, $2, $3, $4, $5)`,
		len(data.Suppliers), func(i int) []any {
			s := data.Suppliers[i]
			return []any{s.SupplierID, s.Name, s.BasePrice, s.Category, s.Region}
		}); err != nil {
		return fmt.Errorf("insert suppliers: %w", err)
	}

	if err := insertAll(tx,
		`INSERT INTO purchase_orders (po_id, supplier_id, order_date, expected_delivery_date, quantity_ordered) VALUES ($1, $2, $3, $4, $5)`,
		len(data.Orders), func(i int) []any {
			o := data.Orders[i]
			return []any{o.POID, o.SupplierID, o.OrderDate, o.ExpectedDeliveryDate, o.QuantityOrdered}
		}); err != nil {
		return fmt.Errorf("insert purchase orders: %w", err)
	}

	if err := insertAll(tx,
		`INSERT INTO goods_receipts (po_id, actual_delivery_date, quantity_received, defect_qty) VALUES ($1, $2, $3, $4)`,
		len(data.Receipts), func(i int) []any {
			r := data.Receipts[i]
			return []any{r.POID, r.ActualDeliveryDate, r.QuantityReceived, r.DefectQty}
		}); err != nil {
		return fmt.Errorf("insert goods receipts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if _, err := db.Exec("ANALYZE suppliers, purchase_orders, goods_receipts"); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

func insertAll(tx *sql.Tx, query string, n int, args func(i int) []any) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}
