package application

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	analyticsapp "supplyperf/internal/analytics/application"
	"supplyperf/internal/export/domain"
	ordersdomain "supplyperf/internal/orders/domain"
	sharedinfra "supplyperf/internal/shared/infrastructure"
	"supplyperf/internal/testhelpers"
)

type datasetStub struct {
	ds  *ordersdomain.Dataset
	err error
}

func (s datasetStub) Current() (*ordersdomain.Dataset, error) {
	return s.ds, s.err
}

func newService(t *testing.T, data DatasetProvider) *ExportService {
	t.Helper()
	cache := sharedinfra.NewInMemoryCache(time.Minute)
	t.Cleanup(cache.Close)

	svc := NewExportService(data, analyticsapp.NewDashboardService(data, cache, time.Minute), 2)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportService_SuppliersCSV(t *testing.T) {
	svc := newService(t, datasetStub{ds: testhelpers.FixtureDataset(t)})

	job, err := svc.NewJob("csv", "suppliers")
	require.NoError(t, err)
	res, err := svc.Export(job)
	require.NoError(t, err)

	assert.Equal(t, "supplier_summary_20240501_080000.csv", res.FileName)
	assert.Equal(t, 4, res.Rows)

	lines, err := csv.NewReader(bytes.NewReader(res.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 5)
	assert.Equal(t, domain.SupplierHeaders(), lines[0])
	assert.Equal(t, "SUP-001", lines[1][0])
	assert.Equal(t, "Acme", lines[1][1])
	assert.Equal(t, "13.5", lines[1][4])
	assert.Equal(t, "SUP-004", lines[4][0])
	assert.Empty(t, lines[4][1])
}

func TestExportService_RecordsXLSX(t *testing.T) {
	svc := newService(t, datasetStub{ds: testhelpers.FixtureDataset(t)})
	svc.batchSize = 4

	job, err := svc.NewJob("xlsx", "records")
	require.NoError(t, err)
	res, err := svc.Export(job)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Rows)

	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "po_id", rows[0][0])
	assert.Equal(t, "PO-1", rows[1][0])
	assert.Equal(t, "PO-6", rows[6][0])
}

func TestExportService_RecordsParquet(t *testing.T) {
	svc := newService(t, datasetStub{ds: testhelpers.FixtureDataset(t)})

	job, err := svc.NewJob("parquet", "records")
	require.NoError(t, err)
	res, err := svc.Export(job)
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.apache.parquet", res.ContentType)
	assert.Equal(t, "PAR1", string(res.Data[:4]))
}

func TestExportService_DataUnavailable(t *testing.T) {
	svc := newService(t, datasetStub{err: ordersdomain.ErrDataUnavailable})

	for _, dataset := range []string{"suppliers", "records"} {
		job, err := svc.NewJob("csv", dataset)
		require.NoError(t, err)
		_, err = svc.Export(job)
		assert.True(t, errors.Is(err, ordersdomain.ErrDataUnavailable), dataset)
	}
}
