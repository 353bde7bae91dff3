// Package model defines the data shapes shared across the analysis
// pipeline: clause records, reports and configuration.
package model

// AnalysisStatus tracks a clause record through the scoring batch
type AnalysisStatus string

const (
	StatusPending   AnalysisStatus = "pending"
	StatusSucceeded AnalysisStatus = "succeeded"
	StatusFailed    AnalysisStatus = "failed"
)

// Failure sentinel values. A clause whose result never arrived, or
// whose batch failed outright, carries exactly these values so the
// reader can tell an unscored clause from a genuinely harmless one.
const (
	FailedSummary    = "Analysis failed"
	FailedScore      = 0
	FailedRiskReason = "The scoring service did not return a result for this clause."
)

// ClauseRecord is one segmented clause and its scoring outcome.
// Text and Index are set at segmentation time and never change;
// the remaining fields are filled in by reconciliation.
type ClauseRecord struct {
	ID          string         `json:"id"`    // Synthetic, regenerated every run
	Index       int            `json:"index"` // Position in the document, 0-based
	Text        string         `json:"text"`
	Status      AnalysisStatus `json:"status"`
	Summary     string         `json:"summary,omitempty"`
	DangerScore int            `json:"danger_score"` // 0 (harmless) to 100 (severe)
	RiskReason  string         `json:"risk_reason,omitempty"`
}

// FailClause marks a record with the failure sentinel in place
func FailClause(c *ClauseRecord) {
	c.Status = StatusFailed
	c.Summary = FailedSummary
	c.DangerScore = FailedScore
	c.RiskReason = FailedRiskReason
}

// RiskBand buckets danger scores for reporting
type RiskBand string

const (
	BandLow      RiskBand = "low"
	BandModerate RiskBand = "moderate"
	BandHigh     RiskBand = "high"
	BandSevere   RiskBand = "severe"
)

// BandForScore maps a 0-100 danger score to its risk band
func BandForScore(score int) RiskBand {
	switch {
	case score >= 80:
		return BandSevere
	case score >= 60:
		return BandHigh
	case score >= 30:
		return BandModerate
	default:
		return BandLow
	}
}
