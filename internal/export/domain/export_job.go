package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownFormat rejects an export format other than csv, xlsx or parquet.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrUnknownDataset rejects an export dataset other than suppliers or records.
	ErrUnknownDataset = errors.New("unknown export dataset")
)

// ExportFormat is the file format of an export.
type ExportFormat string

const (
	ExportFormatCSV     ExportFormat = "csv"
	ExportFormatXLSX    ExportFormat = "xlsx"
	ExportFormatParquet ExportFormat = "parquet"
)

// ContentType is the HTTP media type of the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ExportDataset is what gets exported.
type ExportDataset string

const (
	ExportDatasetSuppliers ExportDataset = "suppliers"
	ExportDatasetRecords   ExportDataset = "records"
)

// ExportJob is a validated export request.
type ExportJob struct {
	format    ExportFormat
	dataset   ExportDataset
	createdAt time.Time
}

// NewExportJob parses and validates a request. Names are case-insensitive.
func NewExportJob(format, dataset string, createdAt time.Time) (*ExportJob, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	switch f {
	case ExportFormatCSV, ExportFormatXLSX, ExportFormatParquet:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	d := ExportDataset(strings.ToLower(strings.TrimSpace(dataset)))
	switch d {
	case ExportDatasetSuppliers, ExportDatasetRecords:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}

	return &ExportJob{format: f, dataset: d, createdAt: createdAt}, nil
}

func (j *ExportJob) Format() ExportFormat {
	return j.format
}

func (j *ExportJob) Dataset() ExportDataset {
	return j.dataset
}

func (j *ExportJob) CreatedAt() time.Time {
	return j.createdAt
}

// FileName is e.g. "supplier_summary_20240501_120000.xlsx".
func (j *ExportJob) FileName() string {
	base := "supplier_summary"
	if j.dataset == ExportDatasetRecords {
		base = "performance_records"
	}
	return fmt.Sprintf("%s_%s.%s", base, j.createdAt.Format("20060102_150405"), j.format)
}
