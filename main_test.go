package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyperf/internal/config"
	ordersinfra "supplyperf/internal/orders/infrastructure"
)

func TestBundlePaths(t *testing.T) {
	dir := t.TempDir()
	m := config.ModelsConfig{
		Dir:              dir,
		FeaturesDir:      "features",
		Format:           "lightgbm",
		LeadTimeFile:     "leadtime_model.txt",
		EncoderFile:      "lt_supplier_te_encoder.json",
		LeadTimeFeatures: "selected_features_LT.json",
		IsLateFile:       "IsLate_model.txt",
		IsLateFeatures:   "selected_features_IsLate.json",
		CategoricalFile:  "categorical_encoders.json",
	}

	paths := bundlePaths(m)
	assert.Equal(t, filepath.Join(dir, "leadtime_model.txt"), paths.LeadTimeModel)
	assert.Equal(t, filepath.Join(dir, "features", "selected_features_IsLate.json"), paths.IsLateFeatures)
	assert.Empty(t, paths.Categorical)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "categorical_encoders.json"), []byte("{}"), 0o644))
	assert.Equal(t, filepath.Join(dir, "categorical_encoders.json"), bundlePaths(m).Categorical)
}

func TestNewSource_CSV(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{
		Source:       "csv",
		Dir:          "Data",
		SupplierFile: "supplier_master.csv",
		POFile:       "PO.csv",
		GRFile:       "GR.csv",
		Currency:     "EUR",
		LoadWorkers:  2,
	}}

	src, db, err := newSource(cfg)
	require.NoError(t, err)
	assert.Nil(t, db)

	csvSrc, ok := src.(*ordersinfra.CSVSource)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("Data", "PO.csv"), csvSrc.POPath)
	assert.Equal(t, "EUR", csvSrc.Currency)
}
