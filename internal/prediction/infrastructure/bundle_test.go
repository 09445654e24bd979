package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func linearBundle(t *testing.T) BundlePaths {
	t.Helper()
	dir := t.TempDir()
	return BundlePaths{
		Format:           FormatLinear,
		LeadTimeModel:    writeFile(t, dir, "lt.json", `{"intercept": 1, "coefficients": [1, 0.5]}`),
		Encoder:          writeFile(t, dir, "te.json", `{"feature": "Supplier_ID", "mapping": {"SUP-001": 13.5}, "default": 12.5}`),
		LeadTimeFeatures: writeFile(t, dir, "lt_features.json", `["Expected_Lead_Time", "Supplier_ID_TE"]`),
		IsLateModel:      writeFile(t, dir, "late.json", `{"intercept": 0, "coefficients": [0.1], "link": "logistic"}`),
		IsLateFeatures:   writeFile(t, dir, "late_features.json", `["Supplier_Late_Rate"]`),
		Categorical:      writeFile(t, dir, "cat.json", `{"Category": {"mapping": {"Electronics": 1}, "unknown": -1}}`),
	}
}

func TestLoadBundle_Linear(t *testing.T) {
	b, err := LoadBundle(linearBundle(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Expected_Lead_Time", "Supplier_ID_TE"}, b.LeadTimeFeatures)
	lt, err := b.LeadTime.Predict([]float64{14, 12})
	require.NoError(t, err)
	assert.Equal(t, 21.0, lt)

	p, err := b.IsLate.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)

	v, seen := b.Encoder.Transform("SUP-001")
	assert.True(t, seen)
	assert.Equal(t, 13.5, v)
	v, seen = b.Encoder.Transform("SUP-999")
	assert.False(t, seen)
	assert.Equal(t, 12.5, v)

	n, ok := b.Categorical.Encode("Category", "Toys")
	assert.True(t, ok)
	assert.Equal(t, -1.0, n)
	n, ok = b.Categorical.Encode("Category", "")
	assert.True(t, ok)
	assert.Equal(t, -1.0, n)
	_, ok = b.Categorical.Encode("Region", "EU")
	assert.False(t, ok)
}

func TestLoadBundle_CategoricalOptional(t *testing.T) {
	p := linearBundle(t)
	p.Categorical = filepath.Join(t.TempDir(), "absent.json")

	b, err := LoadBundle(p)
	require.NoError(t, err)
	assert.Nil(t, b.Categorical)
}

func TestLoadBundle_FailsAsAUnit(t *testing.T) {
	p := linearBundle(t)
	p.IsLateFeatures = filepath.Join(t.TempDir(), "missing.json")

	_, err := LoadBundle(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "late features")
}

func TestLoadBundle_WidthMismatch(t *testing.T) {
	p := linearBundle(t)
	p.IsLateFeatures = writeFile(t, t.TempDir(), "wide.json", `["a", "b"]`)

	_, err := LoadBundle(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 1 features")
}

func TestLoadBundle_LinearFeatureOrder(t *testing.T) {
	p := linearBundle(t)
	p.LeadTimeModel = writeFile(t, t.TempDir(), "lt.json",
		`{"features": ["Supplier_ID_TE", "Expected_Lead_Time"], "intercept": 0, "coefficients": [1, 0]}`)

	_, err := LoadBundle(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `lead time model feature 0 is "Supplier_ID_TE"`)

	p.LeadTimeModel = writeFile(t, t.TempDir(), "lt.json",
		`{"features": ["Expected_Lead_Time", "Supplier_ID_TE"], "intercept": 0, "coefficients": [0, 1]}`)
	b, err := LoadBundle(p)
	require.NoError(t, err)
	lt, err := b.LeadTime.Predict([]float64{14, 13.5})
	require.NoError(t, err)
	assert.Equal(t, 13.5, lt)
}

func TestLoadBundle_ClassifierNeedsLogisticLink(t *testing.T) {
	p := linearBundle(t)
	p.IsLateModel = writeFile(t, t.TempDir(), "late.json", `{"intercept": 0, "coefficients": [0.1]}`)

	_, err := LoadBundle(p)
	assert.Error(t, err)
}

func TestLoadEnsemble_Errors(t *testing.T) {
	_, err := LoadEnsemble("model.bin", "catboost", false)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadEnsemble(filepath.Join(t.TempDir(), "missing.txt"), FormatLightGBM, false)
	assert.Error(t, err)
}

func TestLinearModel_Validation(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadLinearModel(writeFile(t, dir, "empty.json", `{"intercept": 1}`))
	assert.Error(t, err)

	_, err = LoadLinearModel(writeFile(t, dir, "link.json", `{"coefficients": [1], "link": "probit"}`))
	assert.Error(t, err)

	m, err := LoadLinearModel(writeFile(t, dir, "ok.json", `{"coefficients": [2]}`))
	require.NoError(t, err)
	_, err = m.Predict([]float64{1, 2})
	assert.Error(t, err)
}
