package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pvaldov/clauseguard/internal/analyze"
	"github.com/pvaldov/clauseguard/internal/model"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	strategy    string
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	segmentOnly bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file-or-url>",
	Short: "Segment a contract into clauses and risk-score each one",
	Long: `Analyze reads a contract document (text, Markdown, HTML file, a URL,
or "-" for stdin), segments it into clauses, and scores every clause
with the configured LLM provider in one batched call.

A document with no detectable structure still analyzes: segmentation
falls back to blank-line paragraphs, worst case the whole document as
a single clause.

Example:
  clauseguard analyze lease.txt
  clauseguard analyze https://example.com/terms --json report.json --md report.md
  clauseguard analyze contract.txt --strategy digits
  cat contract.txt | clauseguard analyze - --segment-only`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Segmentation flags
	analyzeCmd.Flags().StringVar(&strategy, "strategy", "anchor", "clause boundary strategy (anchor, digits)")
	analyzeCmd.Flags().BoolVar(&segmentOnly, "segment-only", false, "segment without calling the scoring service")

	// HTTP flags (URL intake)
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "ClauseGuard/0.1 (+https://github.com/pvaldov/clauseguard)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Cache / output flags
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force a fresh scoring call)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	orch, err := analyze.NewOrchestrator(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Strategy: %s\n", orch.Strategy())
		if p := orch.ProviderName(); p != "" {
			fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", p, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	var report *model.Report
	if source == "-" {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		report, err = orch.AnalyzeText(ctx, string(text), "stdin")
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	} else {
		report, err = orch.AnalyzeSource(ctx, source)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented %d clauses", report.Stats.ClauseCount)
		if report.Fallback {
			fmt.Fprintf(os.Stderr, " (paragraph fallback)")
		}
		fmt.Fprintln(os.Stderr)
		if report.Stats.ScoredCount > 0 {
			fmt.Fprintf(os.Stderr, "✓ Scored %d clauses, max danger %d/100\n", report.Stats.ScoredCount, report.Stats.MaxDanger)
		}
		if report.Stats.FailedCount > 0 {
			fmt.Fprintf(os.Stderr, "✗ %d clauses carry the failure sentinel\n", report.Stats.FailedCount)
		}
		fmt.Fprintln(os.Stderr)
	}

	return renderReport(cfg, report, outJSON, outMD)
}

// renderReport writes the requested output files and prints a summary
func renderReport(cfg *model.Config, report *model.Report, jsonPath, mdPath string) error {
	renderer := analyze.NewRenderer(cfg.Output.IncludeFooter)

	if jsonPath != "" {
		if err := renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	renderer.RenderSummary(report)
	return nil
}

// buildConfig assembles configuration from defaults, flags and env
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Segment.Strategy = strategy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if segmentOnly {
		cfg.LLM.Provider = ""
		return cfg, nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}
