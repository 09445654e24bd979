package domain

import "fmt"

// Late probability thresholds.
const (
	LateThreshold       = 0.5
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4
)

// Verdict compares a predicted lead time to the promise.
type Verdict string

const (
	VerdictLonger  Verdict = "longer"
	VerdictShorter Verdict = "shorter"
	VerdictExact   Verdict = "as_promised"
)

// LeadTimeComparison is the predicted minus promised lead time.
type LeadTimeComparison struct {
	PredictedDays float64 `json:"predicted_days"`
	PromisedDays  int     `json:"promised_days"`
	DiffDays      float64 `json:"diff_days"`
	Verdict       Verdict `json:"verdict"`
}

// CompareLeadTime reports how the prediction relates to the promise.
func CompareLeadTime(predicted float64, promised int) LeadTimeComparison {
	c := LeadTimeComparison{
		PredictedDays: predicted,
		PromisedDays:  promised,
		DiffDays:      predicted - float64(promised),
	}
	switch {
	case c.DiffDays > 0:
		c.Verdict = VerdictLonger
	case c.DiffDays < 0:
		c.Verdict = VerdictShorter
	default:
		c.Verdict = VerdictExact
	}
	return c
}

// Message renders the comparison as a sentence.
func (c LeadTimeComparison) Message() string {
	switch c.Verdict {
	case VerdictLonger:
		return fmt.Sprintf("Predicted lead time is %.1f days longer than the promised %d days.", c.DiffDays, c.PromisedDays)
	case VerdictShorter:
		return fmt.Sprintf("Predicted lead time is %.1f days shorter than the promised %d days.", -c.DiffDays, c.PromisedDays)
	default:
		return fmt.Sprintf("Predicted lead time is exactly as promised (%d days).", c.PromisedDays)
	}
}

// RiskLevel is the recommendation tier of a late probability.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// ClassifyRisk maps a late probability to a tier: above 0.7 high, above 0.4 medium.
func ClassifyRisk(p float64) RiskLevel {
	switch {
	case p > HighRiskThreshold:
		return RiskHigh
	case p > MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Recommendation is the advice shown for a tier.
func (r RiskLevel) Recommendation() string {
	switch r {
	case RiskHigh:
		return "High risk of delay. Consider an alternative supplier or extra safety stock."
	case RiskMedium:
		return "Medium risk. Follow up proactively with the supplier."
	default:
		return "Low risk. Proceed with the purchase order as planned."
	}
}

// Status labels of the classifier.
const (
	StatusLate   = "Late"
	StatusOnTime = "On Time"
)

// Assessment combines both predictions for one candidate order.
type Assessment struct {
	Comparison      LeadTimeComparison `json:"comparison"`
	LateProbability float64            `json:"late_probability"`
	ModelStatus     string             `json:"model_status"`

	// RuleLate is predicted lead time > promised lead time.
	RuleLate       bool      `json:"rule_late"`
	Consistent     bool      `json:"consistent"`
	Risk           RiskLevel `json:"risk"`
	Recommendation string    `json:"recommendation"`
}

// Assess derives the status, the rule check and the recommendation.
func Assess(predictedLeadTime float64, promised int, lateProbability float64) Assessment {
	modelLate := lateProbability > LateThreshold
	ruleLate := predictedLeadTime > float64(promised)
	status := StatusOnTime
	if modelLate {
		status = StatusLate
	}
	risk := ClassifyRisk(lateProbability)
	return Assessment{
		Comparison:      CompareLeadTime(predictedLeadTime, promised),
		LateProbability: lateProbability,
		ModelStatus:     status,
		RuleLate:        ruleLate,
		Consistent:      modelLate == ruleLate,
		Risk:            risk,
		Recommendation:  risk.Recommendation(),
	}
}

// ConsistencyMessage explains the rule check.
func (a Assessment) ConsistencyMessage() string {
	if a.Consistent {
		return "Model and lead time comparison agree."
	}
	return "The classifier and the lead time comparison disagree. Review features or data."
}
