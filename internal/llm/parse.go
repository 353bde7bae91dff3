package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// clausePayload tolerates fractional scores from sloppy models
type clausePayload struct {
	Summary     string  `json:"summary"`
	DangerScore float64 `json:"danger_score"`
	RiskReason  string  `json:"risk_reason"`
}

// ParseClauseScores extracts the JSON array of clause results from raw
// model output. Models wrap JSON in code fences or preamble text often
// enough that the parser hunts for the outermost array instead of
// unmarshaling the whole payload.
func ParseClauseScores(raw string) ([]ClauseScore, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var payload []clausePayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal clause scores: %w", err)
	}

	results := make([]ClauseScore, len(payload))
	for i, p := range payload {
		results[i] = ClauseScore{
			Summary:     strings.TrimSpace(p.Summary),
			DangerScore: clampScore(p.DangerScore),
			RiskReason:  strings.TrimSpace(p.RiskReason),
		}
	}
	return results, nil
}

// clampScore forces a danger score into 0-100 inclusive
func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	n := int(math.Round(score))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
