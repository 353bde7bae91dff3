package model

import "time"

// Report represents the complete analysis of one contract document
type Report struct {
	Subject    string    `json:"subject"`     // Human-readable name (file name or URL slug)
	Source     string    `json:"source"`      // Path or URL the text came from ("stdin" for piped input)
	AnalyzedAt time.Time `json:"analyzed_at"` // When the analysis ran
	Strategy   string    `json:"strategy"`    // Segmentation strategy used (anchor, digits)
	Fallback   bool      `json:"fallback"`    // Whether the paragraph fallback produced the clauses

	Clauses []ClauseRecord `json:"clauses"` // One record per clause, document order

	Stats RiskStats `json:"stats"` // Aggregate risk rollup, derived from clause records only

	LLM *LLMMeta `json:"llm,omitempty"` // Scoring collaborator metadata
}

// RiskStats is a transparent aggregate over per-clause results.
// It is derived after reconciliation and never feeds back into scoring.
type RiskStats struct {
	ClauseCount int              `json:"clause_count"`
	ScoredCount int              `json:"scored_count"` // Records in succeeded state
	FailedCount int              `json:"failed_count"` // Records carrying the failure sentinel
	MaxDanger   int              `json:"max_danger"`   // Highest danger score among scored clauses
	MeanDanger  float64          `json:"mean_danger"`  // Mean over scored clauses (0 when none scored)
	RiskiestIdx int              `json:"riskiest_idx"` // Index of the highest-scoring clause (-1 when none scored)
	BandCounts  map[RiskBand]int `json:"band_counts,omitempty"`
}

// LLMMeta records which collaborator produced the analysis
type LLMMeta struct {
	Provider   string `json:"provider"`        // openai, anthropic, ollama
	Model      string `json:"model,omitempty"` // Model name
	TokensUsed int    `json:"tokens_used,omitempty"`
	FromCache  bool   `json:"from_cache,omitempty"` // Report served from the result cache
}

// ComputeStats builds the aggregate rollup from reconciled clause records
func ComputeStats(clauses []ClauseRecord) RiskStats {
	stats := RiskStats{
		ClauseCount: len(clauses),
		RiskiestIdx: -1,
		BandCounts:  make(map[RiskBand]int),
	}

	sum := 0
	for _, c := range clauses {
		switch c.Status {
		case StatusSucceeded:
			if stats.ScoredCount == 0 || c.DangerScore > stats.MaxDanger {
				stats.MaxDanger = c.DangerScore
				stats.RiskiestIdx = c.Index
			}
			stats.ScoredCount++
			sum += c.DangerScore
			stats.BandCounts[BandForScore(c.DangerScore)]++
		case StatusFailed:
			stats.FailedCount++
		}
	}

	if stats.ScoredCount > 0 {
		stats.MeanDanger = float64(sum) / float64(stats.ScoredCount)
	}

	return stats
}
