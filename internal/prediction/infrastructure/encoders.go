package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
)

// TargetEncoder maps a supplier id to the mean target seen during training.
// Unseen ids get Default, the training prior.
type TargetEncoder struct {
	Feature string             `json:"feature"`
	Mapping map[string]float64 `json:"mapping"`
	Default float64            `json:"default"`
}

// LoadTargetEncoder reads {"feature": "Supplier_ID", "mapping": {...}, "default": 12.3}.
func LoadTargetEncoder(path string) (*TargetEncoder, error) {
	var enc TargetEncoder
	if err := readJSON(path, &enc); err != nil {
		return nil, err
	}
	if enc.Mapping == nil {
		return nil, fmt.Errorf("target encoder %s has no mapping", path)
	}
	return &enc, nil
}

// Transform returns the encoding of id and whether it was seen in training.
func (e *TargetEncoder) Transform(id string) (float64, bool) {
	if v, ok := e.Mapping[id]; ok {
		return v, true
	}
	return e.Default, false
}

// LabelEncoding maps the labels of one string feature.
type LabelEncoding struct {
	Mapping map[string]float64 `json:"mapping"`
	Unknown float64            `json:"unknown"`
}

// CategoricalEncoders holds one LabelEncoding per string feature.
type CategoricalEncoders map[string]LabelEncoding

// LoadCategoricalEncoders reads {"Category": {"mapping": {"Electronics": 0}, "unknown": -1}, ...}.
func LoadCategoricalEncoders(path string) (CategoricalEncoders, error) {
	var enc CategoricalEncoders
	if err := readJSON(path, &enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// Encode implements domain.CategoricalEncoder. Unknown labels map to the unknown value;
// ok is false only when the feature has no encoder.
func (c CategoricalEncoders) Encode(feature, label string) (float64, bool) {
	e, ok := c[feature]
	if !ok {
		return 0, false
	}
	if v, ok := e.Mapping[label]; ok {
		return v, true
	}
	return e.Unknown, true
}

// LoadFeatureList reads the ordered feature names a model was trained on.
func LoadFeatureList(path string) ([]string, error) {
	var names []string
	if err := readJSON(path, &names); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("feature list %s is empty", path)
	}
	return names, nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
