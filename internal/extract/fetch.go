package extract

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pvaldov/clauseguard/internal/model"
	"github.com/pvaldov/clauseguard/internal/util"
)

// fetchSleepFunc is swapped out in tests to skip retry backoff
var fetchSleepFunc = time.Sleep

const fetchMaxAttempts = 3

// Fetcher retrieves contract text from URLs (e.g. hosted terms pages),
// honoring robots.txt and reducing HTML responses to plain text.
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a Fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
	}
}

// FetchWithRetry fetches a document, retrying transient failures
// (429 and 5xx) with a short backoff.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Document, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchMaxAttempts; attempt++ {
		doc, retryable, err := f.fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retryable || attempt == fetchMaxAttempts {
			break
		}
		fetchSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
	}
	return nil, lastErr
}

// Fetch fetches a document without retrying
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	doc, _, err := f.fetch(ctx, rawURL)
	return doc, err
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Document, bool, error) {
	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, false, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}
	if crawlDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(crawlDelay):
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	text := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		text, err = HTMLToText(text)
		if err != nil {
			return nil, false, fmt.Errorf("extract HTML text: %w", err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil, false, fmt.Errorf("no text extracted from %s", rawURL)
	}

	finalURL := resp.Request.URL.String()
	return &Document{
		Text:    text,
		Subject: subjectFromURL(finalURL),
		Source:  finalURL,
	}, false, nil
}

// subjectFromURL extracts a human-readable subject from a URL
func subjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
