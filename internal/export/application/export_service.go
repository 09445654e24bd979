package application

import (
	"bytes"
	"fmt"
	"time"

	analyticsdomain "supplyperf/internal/analytics/domain"
	"supplyperf/internal/export/domain"
	"supplyperf/internal/export/infrastructure"
	ordersdomain "supplyperf/internal/orders/domain"
	sharedinfra "supplyperf/internal/shared/infrastructure"
)

// DatasetProvider exposes the current dataset.
type DatasetProvider interface {
	Current() (*ordersdomain.Dataset, error)
}

// SupplierReporter builds the supplier summary. *analyticsapp.DashboardService implements it.
type SupplierReporter interface {
	Suppliers() (*analyticsdomain.SupplierReport, error)
}

// Result is a rendered export file.
type Result struct {
	Data        []byte
	FileName    string
	ContentType string
	Rows        int
}

// ExportService renders the supplier summary or the merged records as a file.
type ExportService struct {
	data      DatasetProvider
	suppliers SupplierReporter
	workers   int
	batchSize int
	now       func() time.Time
}

func NewExportService(data DatasetProvider, suppliers SupplierReporter, workers int) *ExportService {
	if workers < 1 {
		workers = 1
	}
	return &ExportService{
		data:      data,
		suppliers: suppliers,
		workers:   workers,
		batchSize: infrastructure.DefaultFlushEvery,
		now:       time.Now,
	}
}

// NewJob validates a request stamped with the current time.
func (s *ExportService) NewJob(format, dataset string) (*domain.ExportJob, error) {
	return domain.NewExportJob(format, dataset, s.now())
}

// Export renders the job in memory.
func (s *ExportService) Export(job *domain.ExportJob) (*Result, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 64*1024))

	var (
		rows int
		err  error
	)
	switch job.Dataset() {
	case domain.ExportDatasetSuppliers:
		rows, err = s.exportSuppliers(buf, job.Format())
	case domain.ExportDatasetRecords:
		rows, err = s.exportRecords(buf, job.Format())
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownDataset, job.Dataset())
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:        buf.Bytes(),
		FileName:    job.FileName(),
		ContentType: job.Format().ContentType(),
		Rows:        rows,
	}, nil
}

func (s *ExportService) exportSuppliers(buf *bytes.Buffer, format domain.ExportFormat) (int, error) {
	report, err := s.suppliers.Suppliers()
	if err != nil {
		return 0, err
	}
	rows := make([]domain.SupplierRow, len(report.Suppliers))
	for i, r := range report.Suppliers {
		rows[i] = domain.NewSupplierRow(r)
	}
	return len(rows), write(buf, format, "Suppliers", domain.SupplierHeaders(), rows)
}

func (s *ExportService) exportRecords(buf *bytes.Buffer, format domain.ExportFormat) (int, error) {
	ds, err := s.data.Current()
	if err != nil {
		return 0, err
	}
	rows, err := s.convertRecords(ds.Records())
	if err != nil {
		return 0, err
	}
	return len(rows), write(buf, format, "Records", domain.RecordHeaders(), rows)
}

// convertRecords builds export rows in batches on a worker pool. Each batch owns a
// disjoint slice range, so rows keep their dataset order.
func (s *ExportService) convertRecords(records []ordersdomain.PerformanceRecord) ([]domain.RecordRow, error) {
	rows := make([]domain.RecordRow, len(records))
	if len(records) == 0 {
		return rows, nil
	}

	numBatches := (len(records) + s.batchSize - 1) / s.batchSize
	tasks := make([]sharedinfra.Task, 0, numBatches)
	for b := 0; b < numBatches; b++ {
		start := b * s.batchSize
		end := min(start+s.batchSize, len(records))
		tasks = append(tasks, func() error {
			for i := start; i < end; i++ {
				rows[i] = domain.NewRecordRow(records[i])
			}
			return nil
		})
	}

	if err := sharedinfra.RunParallel(s.workers, tasks...); err != nil {
		return nil, fmt.Errorf("convert records: %w", err)
	}
	return rows, nil
}

func write[R infrastructure.Row](buf *bytes.Buffer, format domain.ExportFormat, sheet string, headers []string, rows []R) error {
	switch format {
	case domain.ExportFormatCSV:
		return infrastructure.WriteCSV(buf, headers, rows, infrastructure.DefaultFlushEvery)
	case domain.ExportFormatXLSX:
		return infrastructure.WriteXLSX(buf, sheet, headers, rows)
	case domain.ExportFormatParquet:
		return infrastructure.WriteParquet(buf, rows, 1)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
}
