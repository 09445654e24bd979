package testhelpers

import (
	predictiondomain "supplyperf/internal/prediction/domain"
	predictioninfra "supplyperf/internal/prediction/infrastructure"
)

// LinearBundle is a small model bundle over the fixture suppliers.
//
//	lead time = expected lead time + 0.5 * Supplier_Avg_LT   (SUP-001, 14 days promised: 20.75)
//	P(late)   = logistic(-2 + 4 * Supplier_Late_Rate)        (SUP-003: logistic(2))
func LinearBundle() *predictioninfra.Bundle {
	return &predictioninfra.Bundle{
		Format: predictioninfra.FormatLinear,
		LeadTime: &predictioninfra.LinearModel{
			Coefficients: []float64{1, 0, 0.5},
		},
		Encoder: &predictioninfra.TargetEncoder{
			Feature: predictiondomain.FeatureSupplierID,
			Mapping: map[string]float64{"SUP-001": 13.5, "SUP-002": 11.5, "SUP-003": 20},
			Default: 12.5,
		},
		LeadTimeFeatures: []string{
			predictiondomain.FeatureExpectedLeadTime,
			predictiondomain.FeatureSupplierIDTE,
			predictiondomain.FeatureSupplierAvgLT,
		},
		IsLate: &predictioninfra.LinearModel{
			Intercept:    -2,
			Coefficients: []float64{4, 0},
			Link:         predictioninfra.LinkLogistic,
		},
		IsLateFeatures: []string{predictiondomain.FeatureSupplierLateRate, predictiondomain.FeatureCategory},
		Categorical: predictioninfra.CategoricalEncoders{
			predictiondomain.FeatureCategory: {Mapping: map[string]float64{"Electronics": 1}, Unknown: -1},
		},
	}
}
