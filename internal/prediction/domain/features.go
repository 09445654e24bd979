package domain

import (
	"fmt"

	catalogdomain "supplyperf/internal/catalog/domain"
	shareddomain "supplyperf/internal/shared/domain"
)

// Feature names as the models were trained on them.
const (
	FeatureSupplierID           = "Supplier_ID"
	FeatureSupplierIDTE         = "Supplier_ID_TE"
	FeatureQuantityOrdered      = "Quantity_Ordered"
	FeatureBasePrice            = "Base_Price"
	FeatureCategory             = "Category"
	FeatureRegion               = "Region"
	FeatureExpectedLeadTime     = "Expected_Lead_Time"
	FeatureOrderYear            = "Order_Year"
	FeatureOrderMonth           = "Order_Month"
	FeatureOrderQuarter         = "Order_Quarter"
	FeatureSupplierAvgLT        = "Supplier_Avg_LT"
	FeatureSupplierLateRate     = "Supplier_Late_Rate"
	FeatureSupplierLateSeverity = "Supplier_Late_Severity"
	FeatureSupplierDefectRate   = "Supplier_Defect_Rate"
	FeatureSupplierReliability  = "Supplier_Reliability"
)

// SupplierAggregates are the five historical supplier features.
type SupplierAggregates struct {
	AvgLeadTime  float64
	LateRate     float64
	LateSeverity float64
	DefectRate   float64
	Reliability  float64
}

// DefaultAggregates stand in for a supplier without history.
func DefaultAggregates() SupplierAggregates {
	return SupplierAggregates{
		AvgLeadTime:  10.0,
		LateRate:     0.1,
		LateSeverity: 0.0,
		DefectRate:   0.0,
		Reliability:  1.0,
	}
}

// FeatureValue is either numeric or a category label.
type FeatureValue struct {
	Num      float64
	Str      string
	IsString bool
}

// Num builds a numeric feature.
func Num(v float64) FeatureValue {
	return FeatureValue{Num: v}
}

// Str builds a category feature.
func Str(v string) FeatureValue {
	return FeatureValue{Str: v, IsString: true}
}

func (v FeatureValue) String() string {
	if v.IsString {
		return v.Str
	}
	return fmt.Sprintf("%g", v.Num)
}

// FeatureSet is a named feature row for one candidate order.
type FeatureSet map[string]FeatureValue

func (fs FeatureSet) setSupplier(profile catalogdomain.SupplierProfile, agg SupplierAggregates) {
	fs[FeatureBasePrice] = Num(profile.BasePrice)
	fs[FeatureCategory] = Str(profile.Category)
	fs[FeatureRegion] = Str(profile.Region)
	fs[FeatureSupplierAvgLT] = Num(agg.AvgLeadTime)
	fs[FeatureSupplierLateRate] = Num(agg.LateRate)
	fs[FeatureSupplierLateSeverity] = Num(agg.LateSeverity)
	fs[FeatureSupplierDefectRate] = Num(agg.DefectRate)
	fs[FeatureSupplierReliability] = Num(agg.Reliability)
}

// AssembleLeadTimeFeatures builds the lead time row. The raw supplier id is included;
// the caller replaces it with its target encoding.
func AssembleLeadTimeFeatures(o CandidateOrder, profile catalogdomain.SupplierProfile, agg SupplierAggregates) FeatureSet {
	fs := FeatureSet{
		FeatureSupplierID:       Str(string(o.SupplierID)),
		FeatureQuantityOrdered:  Num(float64(o.Quantity)),
		FeatureExpectedLeadTime: Num(float64(o.PromisedLeadTime())),
		FeatureOrderYear:        Num(float64(o.OrderDate.Year())),
		FeatureOrderMonth:       Num(float64(o.OrderDate.Month())),
		FeatureOrderQuarter:     Num(float64(shareddomain.Quarter(o.OrderDate))),
	}
	fs.setSupplier(profile, agg)
	return fs
}

// AssembleIsLateFeatures builds the late classification row: no year or quarter.
func AssembleIsLateFeatures(o CandidateOrder, profile catalogdomain.SupplierProfile, agg SupplierAggregates) FeatureSet {
	fs := FeatureSet{
		FeatureSupplierID:       Str(string(o.SupplierID)),
		FeatureQuantityOrdered:  Num(float64(o.Quantity)),
		FeatureExpectedLeadTime: Num(float64(o.PromisedLeadTime())),
		FeatureOrderMonth:       Num(float64(o.OrderDate.Month())),
	}
	fs.setSupplier(profile, agg)
	return fs
}

// ApplyTargetEncoding swaps the raw supplier id for its encoded value.
func (fs FeatureSet) ApplyTargetEncoding(encoded float64) {
	delete(fs, FeatureSupplierID)
	fs[FeatureSupplierIDTE] = Num(encoded)
}

// CategoricalEncoder maps a label of a string feature to a number.
type CategoricalEncoder interface {
	Encode(feature, label string) (float64, bool)
}

// Vectorize orders the row by names. Absent features are zero-filled and listed in missing.
// A string feature the encoder does not cover is an error.
func (fs FeatureSet) Vectorize(names []string, enc CategoricalEncoder) (vec []float64, missing []string, err error) {
	vec = make([]float64, len(names))
	for i, name := range names {
		v, ok := fs[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if !v.IsString {
			vec[i] = v.Num
			continue
		}
		if enc == nil {
			return nil, nil, fmt.Errorf("string feature %q has no encoder", name)
		}
		n, ok := enc.Encode(name, v.Str)
		if !ok {
			return nil, nil, fmt.Errorf("string feature %q has no encoder", name)
		}
		vec[i] = n
	}
	return vec, missing, nil
}
