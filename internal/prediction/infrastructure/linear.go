package infrastructure

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Link functions of a linear model.
const (
	LinkIdentity = "identity"
	LinkLogistic = "logistic"
)

// LinearModel is a JSON-serialised linear or logistic regression:
//
//	{"intercept": 2.1, "coefficients": [0.8, 0.05], "link": "identity"}
type LinearModel struct {
	Features     []string  `json:"features,omitempty"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Link         string    `json:"link,omitempty"`
}

// LoadLinearModel reads a linear model file.
func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode linear model %s: %w", path, err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model %s has no coefficients", path)
	}
	if len(m.Features) > 0 && len(m.Features) != len(m.Coefficients) {
		return nil, fmt.Errorf("linear model %s: %d features for %d coefficients", path, len(m.Features), len(m.Coefficients))
	}
	switch m.Link {
	case "", LinkIdentity, LinkLogistic:
	default:
		return nil, fmt.Errorf("linear model %s: unknown link %q", path, m.Link)
	}
	return &m, nil
}

func (m *LinearModel) NFeatures() int {
	return len(m.Coefficients)
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Coefficients), len(features))
	}
	z := m.Intercept
	for i, c := range m.Coefficients {
		z += c * features[i]
	}
	if m.Link == LinkLogistic {
		return 1 / (1 + math.Exp(-z)), nil
	}
	return z, nil
}
