package attrition

import "fmt"

// Bucket thresholds. Boundary values belong to the higher bucket.
const (
	MediumRiskThreshold = 0.30
	HighRiskThreshold   = 0.70
)

type RiskBucket string

const (
	RiskLow    RiskBucket = "low"
	RiskMedium RiskBucket = "medium"
	RiskHigh   RiskBucket = "high"
)

// Bucket maps a positive-class probability onto a risk tier.
func Bucket(probability float64) RiskBucket {
	switch {
	case probability < MediumRiskThreshold:
		return RiskLow
	case probability < HighRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Label is the text shown in the result panel.
func (b RiskBucket) Label() string {
	switch b {
	case RiskLow:
		return "Low Attrition Risk"
	case RiskMedium:
		return "Medium Attrition Risk"
	case RiskHigh:
		return "High Attrition Risk"
	default:
		return "Unknown"
	}
}

// FormatProbability renders a probability with two decimals.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
