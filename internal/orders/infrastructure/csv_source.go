package infrastructure

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	catalogdomain "supplyperf/internal/catalog/domain"
	cataloginfra "supplyperf/internal/catalog/infrastructure"
	"supplyperf/internal/orders/domain"
	"supplyperf/internal/shared/infrastructure"
)

// CSVSource reads the three tables from flat files.
type CSVSource struct {
	SupplierPath string
	POPath       string
	GRPath       string
	Currency     string
	Workers      int
}

func (s *CSVSource) Name() string {
	return "csv"
}

// Fingerprint hashes name, size and modification time of every input file.
// A missing file contributes a marker so its later appearance changes the result.
func (s *CSVSource) Fingerprint(_ context.Context) (string, error) {
	h := fnv.New64a()
	for _, path := range []string{s.SupplierPath, s.POPath, s.GRPath} {
		io.WriteString(h, filepath.Base(path))
		info, err := os.Stat(path)
		if err != nil {
			io.WriteString(h, ":missing;")
			continue
		}
		io.WriteString(h, ":"+strconv.FormatInt(info.Size(), 10))
		io.WriteString(h, ":"+strconv.FormatInt(info.ModTime().UnixNano(), 10)+";")
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// Load reads the tables in parallel. A supplier master failure is downgraded to a warning
// and leaves Tables.Suppliers nil; PO or GR failures fail the load.
func (s *CSVSource) Load(_ context.Context) (domain.Tables, error) {
	var (
		master    *catalogdomain.Directory
		orders    []*domain.PurchaseOrder
		receipts  []*domain.GoodsReceipt
		masterErr error

		masterWarn, poWarn, grWarn []string
	)

	err := infrastructure.RunParallel(s.workers(),
		func() error {
			masterErr = readFile(s.SupplierPath, func(r io.Reader) error {
				var err error
				master, masterWarn, err = cataloginfra.ReadSuppliers(r, s.Currency)
				return err
			})
			return nil
		},
		func() error {
			return readFile(s.POPath, func(r io.Reader) error {
				var err error
				orders, poWarn, err = ReadPurchaseOrders(r)
				return err
			})
		},
		func() error {
			return readFile(s.GRPath, func(r io.Reader) error {
				var err error
				receipts, grWarn, err = ReadGoodsReceipts(r)
				return err
			})
		},
	)
	if err != nil {
		return domain.Tables{}, err
	}

	tables := domain.Tables{
		Suppliers:      master,
		PurchaseOrders: orders,
		Receipts:       receipts,
	}
	if masterErr != nil {
		tables.Suppliers = nil
		tables.Warnings = append(tables.Warnings, fmt.Sprintf("supplier master unavailable, records are not enriched: %v", masterErr))
	}
	tables.Warnings = append(tables.Warnings, masterWarn...)
	tables.Warnings = append(tables.Warnings, poWarn...)
	tables.Warnings = append(tables.Warnings, grWarn...)
	return tables, nil
}

func (s *CSVSource) workers() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}

func readFile(path string, parse func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := parse(f); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}
