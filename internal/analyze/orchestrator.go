// Package analyze coordinates one analysis run: segment the document,
// create pending clause records, issue a single batched scoring call,
// and reconcile results positionally. Collaborator failures never
// escape this package as errors -- they become sentinel record values.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pvaldov/clauseguard/internal/cache"
	"github.com/pvaldov/clauseguard/internal/extract"
	"github.com/pvaldov/clauseguard/internal/llm"
	"github.com/pvaldov/clauseguard/internal/model"
	"github.com/pvaldov/clauseguard/internal/segment"
)

// Orchestrator runs document analyses and tracks the current report.
// Every run gets a generation tag; a run that finishes after a newer
// one started cannot overwrite the newer run's records.
type Orchestrator struct {
	segmenter *segment.Segmenter
	provider  llm.Provider // nil means segmentation only
	fetcher   *extract.Fetcher
	cache     cache.Cache
	cacheTTL  time.Duration
	config    *model.Config

	generation atomic.Uint64
	mu         sync.RWMutex
	current    *model.Report
}

// NewOrchestrator wires the segmenter, scoring provider, fetcher and
// report cache from configuration.
func NewOrchestrator(cfg *model.Config) (*Orchestrator, error) {
	seg, err := segment.NewSegmenter(cfg.Segment.Strategy)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy))
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		segmenter: seg,
		provider:  provider,
		fetcher:   extract.NewFetcher(cfg.HTTP),
		config:    cfg,
	}

	if cfg.Cache.Enabled {
		o.cache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		o.cacheTTL = cfg.Cache.TTL
	}

	return o, nil
}

// Strategy returns the active segmentation strategy name
func (o *Orchestrator) Strategy() string {
	return o.segmenter.Strategy()
}

// ProviderName returns the scoring provider name, or "" when disabled
func (o *Orchestrator) ProviderName() string {
	if o.provider == nil {
		return ""
	}
	return o.provider.Name()
}

// AnalyzeSource resolves a file path or URL to document text and
// analyzes it.
func (o *Orchestrator) AnalyzeSource(ctx context.Context, source string) (*model.Report, error) {
	var doc *extract.Document
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		doc, err = o.fetcher.FetchWithRetry(ctx, source)
	} else {
		doc, err = extract.FromFile(source)
	}
	if err != nil {
		return nil, err
	}

	return o.Analyze(ctx, doc), nil
}

// AnalyzeText analyzes already-extracted text (pasted or piped input)
func (o *Orchestrator) AnalyzeText(ctx context.Context, text, source string) (*model.Report, error) {
	doc, err := extract.FromString(text, source)
	if err != nil {
		return nil, err
	}
	return o.Analyze(ctx, doc), nil
}

// Analyze runs the full analysis for one document. It always returns
// a report: segmentation cannot fail, and scoring failures surface as
// sentinel values on the clause records.
func (o *Orchestrator) Analyze(ctx context.Context, doc *extract.Document) *model.Report {
	gen := o.generation.Add(1)
	startedAt := time.Now().UTC()

	clauses, usedFallback := o.segmenter.SegmentDetail(doc.Text)

	report := &model.Report{
		Subject:    doc.Subject,
		Source:     doc.Source,
		AnalyzedAt: startedAt,
		Strategy:   o.segmenter.Strategy(),
		Fallback:   usedFallback,
		Clauses:    newPendingRecords(clauses, startedAt),
	}

	if o.provider == nil || len(clauses) == 0 {
		report.Stats = model.ComputeStats(report.Clauses)
		o.publish(gen, report)
		return report
	}

	if cached := o.fromCache(doc.Text); cached != nil {
		o.publish(gen, cached)
		return cached
	}

	resp, err := o.provider.ScoreClauses(ctx, llm.ScoreRequest{Clauses: clauses})
	if err != nil {
		// Whole-batch fallback: every record gets the identical sentinel
		for i := range report.Clauses {
			model.FailClause(&report.Clauses[i])
		}
		report.LLM = &model.LLMMeta{Provider: o.provider.Name()}
	} else {
		reconcile(report.Clauses, resp.Results)
		report.LLM = &model.LLMMeta{
			Provider:   o.provider.Name(),
			Model:      resp.Model,
			TokensUsed: resp.TokensUsed,
		}
	}

	report.Stats = model.ComputeStats(report.Clauses)
	o.publish(gen, report)

	if err == nil {
		o.toCache(doc.Text, report)
	}

	return report
}

// Current returns the most recently published report, or nil
func (o *Orchestrator) Current() *model.Report {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// publish installs the report as current only if no newer run has
// started since this one did. Stale results are discarded, not merged.
func (o *Orchestrator) publish(gen uint64, report *model.Report) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen == o.generation.Load() {
		o.current = report
	}
}

// newPendingRecords builds one pending record per clause. IDs are
// synthetic (batch timestamp + index) and regenerated every run.
func newPendingRecords(clauses []string, startedAt time.Time) []model.ClauseRecord {
	records := make([]model.ClauseRecord, len(clauses))
	batch := startedAt.UnixMilli()
	for i, text := range clauses {
		records[i] = model.ClauseRecord{
			ID:     fmt.Sprintf("c-%d-%d", batch, i),
			Index:  i,
			Text:   text,
			Status: model.StatusPending,
		}
	}
	return records
}

// reconcile applies results positionally: result[i] resolves
// clause[i]. Positions missing from a short result array fall back to
// the failure sentinel individually; the rest of the batch stands.
func reconcile(records []model.ClauseRecord, results []llm.ClauseScore) {
	for i := range records {
		if i >= len(results) {
			model.FailClause(&records[i])
			continue
		}
		records[i].Status = model.StatusSucceeded
		records[i].Summary = results[i].Summary
		records[i].DangerScore = clampScore(results[i].DangerScore)
		records[i].RiskReason = results[i].RiskReason
	}
}

// clampScore keeps danger scores inside 0-100 even when a provider
// implementation skips the shared parser.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (o *Orchestrator) cacheKey(text string) string {
	return cache.Key(text, o.provider.Name(), o.config.LLM.Model, o.segmenter.Strategy())
}

func (o *Orchestrator) fromCache(text string) *model.Report {
	if o.cache == nil {
		return nil
	}

	data, found := o.cache.Get(o.cacheKey(text))
	if !found {
		return nil
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	if report.LLM != nil {
		report.LLM.FromCache = true
	}
	return &report
}

func (o *Orchestrator) toCache(text string, report *model.Report) {
	if o.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	_ = o.cache.Set(o.cacheKey(text), data, o.cacheTTL)
}
