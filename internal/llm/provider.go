package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pvaldov/clauseguard/internal/model"
)

// Provider defines the interface for clause-scoring LLM backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// ScoreClauses summarizes and risk-scores every clause in one
	// batched call. Results come back in request order; a shorter
	// result list than the request is tolerated by the caller.
	ScoreClauses(ctx context.Context, req ScoreRequest) (*ScoreResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// ScoreRequest contains the ordered clause texts for one batch
type ScoreRequest struct {
	// Clauses are the clause texts, in document order
	Clauses []string

	// Prompt overrides the default prompt (mostly for tests)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ScoreResponse is the parsed collaborator output
type ScoreResponse struct {
	// Results are per-clause scores, same order as the request.
	// May be shorter than the request on truncated responses.
	Results []ClauseScore

	// Model is the model that produced the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// ClauseScore is one clause's analysis from the collaborator
type ClauseScore struct {
	Summary     string `json:"summary"`
	DangerScore int    `json:"danger_score"` // 0-100, clamped on parse
	RiskReason  string `json:"risk_reason"`
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// ConfigFromModel converts the application config to a provider config
func ConfigFromModel(cfg model.LLMConfig, httpProxy, httpsProxy string) Config {
	return Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxTokens:  cfg.MaxTokens,
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
	}
}

const systemPrompt = "You are a contract review assistant. You summarize contractual clauses and rate how risky each one is for the party accepting the contract. You respond with JSON only, no prose."

// BuildPrompt constructs the default batched scoring prompt. One JSON
// object per clause, in request order, so reconciliation stays
// positional on the way back.
func BuildPrompt(clauses []string) string {
	var b strings.Builder

	b.WriteString(`Analyze each contract clause below. For every clause, produce:
- "summary": one plain-language sentence describing what the clause does
- "danger_score": an integer 0-100 rating how risky the clause is for the accepting party (0 = harmless boilerplate, 100 = severely one-sided or dangerous)
- "risk_reason": one sentence explaining the score

Respond with ONLY a JSON array. The array must contain exactly one object per clause, in the same order as the clauses are given. No markdown, no commentary.

`)

	fmt.Fprintf(&b, "There are %d clauses.\n", len(clauses))
	for i, clause := range clauses {
		fmt.Fprintf(&b, "\nClause %d:\n%s\n", i+1, clause)
	}

	return b.String()
}
