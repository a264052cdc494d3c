package models

import "math"

// RiskLevel is the categorical label derived from a continuous risk score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

const (
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4
)

// ClampScore maps any float onto [0,1]. NaN counts as no risk.
func ClampScore(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// RiskLevelFor derives the risk label from a score in [0,1].
func RiskLevelFor(score float64) RiskLevel {
	s := ClampScore(score)
	switch {
	case s >= HighRiskThreshold:
		return RiskHigh
	case s >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Percent truncates a score to a whole percentage, e.g. 0.873 -> 87, so a
// score just under a threshold never displays as the threshold itself.
func Percent(score float64) int {
	return int(math.Floor(ClampScore(score)*100 + 1e-9))
}
