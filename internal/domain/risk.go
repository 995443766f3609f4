// Package domain contains core business types and interfaces.
//
// This file defines the Hazard and Risk domain types produced by the
// transformer from health & safety agent output, along with the 5x5
// risk-matrix scoring rules used across the application.
package domain

import (
	"time"
)

// =============================================================================
// Risk Level
// =============================================================================

// RiskLevel represents the banded risk rating of a hazard or document.
type RiskLevel string

const (
	// RiskLevelLow indicates a risk score below 8 on the 5x5 matrix.
	RiskLevelLow RiskLevel = "low"

	// RiskLevelMedium indicates a risk score of 8-14 on the 5x5 matrix.
	RiskLevelMedium RiskLevel = "medium"

	// RiskLevelHigh indicates a risk score of 15 or more on the 5x5 matrix.
	RiskLevelHigh RiskLevel = "high"
)

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}

// IsValid returns true if the level is a recognized value.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// RiskLevelForScore bands a single hazard's risk score.
// Thresholds are inclusive: score >= 15 is high, score >= 8 is medium.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 15:
		return RiskLevelHigh
	case score >= 8:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// OverallRiskLevel bands the mean risk rating of a whole assessment.
//
// The boundaries here are STRICT (>15, >8), unlike the per-hazard bands
// above which are inclusive. The discrepancy is preserved from the upstream
// assessment rules; do not unify the two without changing the documented
// contract. With no risks at all the answer is medium, not low; absence of
// data is not evidence of a safe job.
func OverallRiskLevel(ratings []int) RiskLevel {
	if len(ratings) == 0 {
		return RiskLevelMedium
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	avg := float64(total) / float64(len(ratings))
	switch {
	case avg > 15:
		return RiskLevelHigh
	case avg > 8:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// ResidualRiskFor computes the post-control risk score for a raw score.
// Modeled as half the raw rating, floored, never below 1.
func ResidualRiskFor(score int) int {
	residual := score / 2
	if residual < 1 {
		residual = 1
	}
	return residual
}

// =============================================================================
// Hazard
// =============================================================================

// Hazard is the lightweight hazard record carried on a RAMS document.
// RiskScore is always Likelihood x Severity.
type Hazard struct {
	ID         string    `json:"id"`
	Hazard     string    `json:"hazard"`
	Likelihood int       `json:"likelihood"` // 1-5
	Severity   int       `json:"severity"`   // 1-5
	RiskScore  int       `json:"riskScore"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	Regulation string    `json:"regulation,omitempty"`
}

// =============================================================================
// Risk
// =============================================================================

// Risk is the full risk-assessment row: a hazard plus its consequence,
// control measures, residual risk and ownership fields. Rows are built once
// per hazard during transformation and not mutated afterwards; marking a
// control action done happens downstream.
type Risk struct {
	ID            string    `json:"id"`
	Hazard        string    `json:"hazard"`
	Risk          string    `json:"risk"` // consequence description
	Likelihood    int       `json:"likelihood"`
	Severity      int       `json:"severity"`
	RiskRating    int       `json:"riskRating"`
	Controls      string    `json:"controls"` // bullet-joined control measures
	ResidualRisk  int       `json:"residualRisk"`
	FurtherAction string    `json:"furtherAction"`
	Responsible   string    `json:"responsible"`
	ActionBy      time.Time `json:"actionBy"`
	Done          bool      `json:"done"`
}
