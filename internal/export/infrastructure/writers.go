package infrastructure

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/xuri/excelize/v2"
)

// DefaultFlushEvery is the CSV batch size between explicit flushes.
const DefaultFlushEvery = 1000

// Row is an exported line renderable as CSV text or spreadsheet cells.
type Row interface {
	ToCSVRow() []string
	ToCells() []any
}

// WriteCSV writes the header then the rows, flushing every flushEvery rows.
func WriteCSV[R Row](w io.Writer, headers []string, rows []R, flushEvery int) error {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := cw.Write(row.ToCSVRow()); err != nil {
			return err
		}
		if (i+1)%flushEvery == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX[R Row](w io.Writer, sheet string, headers []string, rows []R) error {
	f := excelize.NewFile()
	defer f.Close()

	current := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(current, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := row.ToCells()
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	return f.Write(w)
}

// WriteParquet writes rows as a snappy-compressed Parquet file.
// R must be a struct carrying parquet tags.
func WriteParquet[R any](w io.Writer, rows []R, parallel int64) error {
	if parallel < 1 {
		parallel = 1
	}

	pw, err := writer.NewParquetWriterFromWriter(w, new(R), parallel)
	if err != nil {
		return fmt.Errorf("parquet schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			return fmt.Errorf("parquet row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquet finalize: %w", err)
	}
	return nil
}
