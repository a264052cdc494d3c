package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  RiskLevel
	}{
		{"zero", 0, RiskLow},
		{"just below medium", 0.399999, RiskLow},
		{"medium boundary", 0.4, RiskMedium},
		{"mid medium", 0.55, RiskMedium},
		{"just below high", 0.699999, RiskMedium},
		{"high boundary", 0.7, RiskHigh},
		{"certain", 1, RiskHigh},
		{"negative clamps to low", -0.5, RiskLow},
		{"above one clamps to high", 3.2, RiskHigh},
		{"NaN is low", math.NaN(), RiskLow},
		{"positive infinity", math.Inf(1), RiskHigh},
		{"negative infinity", math.Inf(-1), RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskLevelFor(tt.score))
		})
	}
}

func TestRiskLevelFor_Partition(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 1000
		got := RiskLevelFor(s)
		switch {
		case s >= 0.7:
			assert.Equal(t, RiskHigh, got, "score %v", s)
		case s >= 0.4:
			assert.Equal(t, RiskMedium, got, "score %v", s)
		default:
			assert.Equal(t, RiskLow, got, "score %v", s)
		}
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 87, Percent(0.873))
	assert.Equal(t, 29, Percent(0.29))
	assert.Equal(t, 39, Percent(0.399999))
	assert.Equal(t, 70, Percent(0.7))
	assert.Equal(t, 0, Percent(-1))
	assert.Equal(t, 100, Percent(7))
}
