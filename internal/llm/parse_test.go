package llm

import (
	"testing"
)

func TestParseClauseScores_PlainArray(t *testing.T) {
	raw := `[
		{"summary": "Tenant must pay rent monthly.", "danger_score": 10, "risk_reason": "Standard obligation."},
		{"summary": "Landlord may enter at any time.", "danger_score": 80, "risk_reason": "No notice requirement."}
	]`

	results, err := ParseClauseScores(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].DangerScore != 10 || results[1].DangerScore != 80 {
		t.Errorf("Unexpected scores: %d, %d", results[0].DangerScore, results[1].DangerScore)
	}
	if results[1].Summary != "Landlord may enter at any time." {
		t.Errorf("Unexpected summary: %q", results[1].Summary)
	}
}

func TestParseClauseScores_CodeFencedArray(t *testing.T) {
	raw := "Here are the results:\n```json\n" +
		`[{"summary": "Auto-renewal clause.", "danger_score": 55, "risk_reason": "Renews silently."}]` +
		"\n```\nLet me know if you need anything else."

	results, err := ParseClauseScores(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].DangerScore != 55 {
		t.Errorf("Expected score 55, got %d", results[0].DangerScore)
	}
}

func TestParseClauseScores_ClampsScores(t *testing.T) {
	raw := `[
		{"summary": "a", "danger_score": -5, "risk_reason": "x"},
		{"summary": "b", "danger_score": 250, "risk_reason": "y"},
		{"summary": "c", "danger_score": 49.6, "risk_reason": "z"}
	]`

	results, err := ParseClauseScores(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []int{0, 100, 50}
	for i, want := range expected {
		if results[i].DangerScore != want {
			t.Errorf("Result %d: expected score %d, got %d", i, want, results[i].DangerScore)
		}
	}
}

func TestParseClauseScores_Malformed(t *testing.T) {
	cases := []string{
		"",
		"no json here",
		"{\"summary\": \"object, not array\"}",
		"[{broken",
	}

	for _, raw := range cases {
		if _, err := ParseClauseScores(raw); err == nil {
			t.Errorf("Expected error for %q, got nil", raw)
		}
	}
}

func TestParseClauseScores_EmptyArray(t *testing.T) {
	results, err := ParseClauseScores("[]")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}
