// Package fetch retrieves raw markup for single URLs with retries,
// protocol upgrade, and per-attempt timeouts.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aluiziolira/go-webintel/config"
)

// maxBodyBytes caps how much of a response we read. Pages past this size
// are truncated, not rejected.
const maxBodyBytes = 2 << 20

// Fetcher issues bounded, retried GET requests. It never surfaces errors:
// exhaustion of all candidates and attempts yields an empty string.
type Fetcher struct {
	cfg     *config.Config
	client  *http.Client
	Metrics *Metrics
}

// NewFetcher builds a fetcher from cfg with a shared transport.
func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   cfg.FetchTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		Metrics: NewMetrics(),
	}
}

// WithTransport swaps the underlying round tripper. Used by tests.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.client.Transport = rt
}

// Fetch retrieves rawURL using the configured generic timeout.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	return f.FetchWithTimeout(ctx, rawURL, f.cfg.FetchTimeout)
}

// FetchWithTimeout tries the https:// variant of rawURL first, then the
// literal URL. Each candidate gets up to MaxRetries attempts with linear
// backoff; the first non-empty body wins.
func (f *Fetcher) FetchWithTimeout(ctx context.Context, rawURL string, timeout time.Duration) string {
	for _, candidate := range candidates(rawURL) {
		for attempt := 1; attempt <= f.cfg.MaxRetries; attempt++ {
			f.Metrics.IncRequest("started")
			start := time.Now()
			body, err := f.attempt(ctx, candidate, timeout)
			f.Metrics.ObserveDuration(time.Since(start))
			if err == nil && body != "" {
				return body
			}
			if err != nil {
				category := errorTypeLabel(classifyError(err, statusOf(err)))
				f.Metrics.IncError(category)
				slog.Debug("fetch attempt failed",
					slog.String("url", candidate),
					slog.Int("attempt", attempt),
					slog.String("category", category),
					slog.Any("error", err),
				)
			}
			if attempt < f.cfg.MaxRetries {
				f.Metrics.IncRetries()
				if !sleepCtx(ctx, time.Duration(attempt)*f.cfg.RetryBackoff) {
					return ""
				}
			}
		}
	}
	return ""
}

func (f *Fetcher) attempt(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", httpStatusError{status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// candidates orders the URLs to try: the https:// variant first, then the
// URL as given. Already-https URLs produce a single candidate.
func candidates(rawURL string) []string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(trimmed, "https://"):
		return []string{trimmed}
	case strings.HasPrefix(trimmed, "http://"):
		return []string{"https://" + strings.TrimPrefix(trimmed, "http://"), trimmed}
	default:
		return []string{"https://" + trimmed, "http://" + trimmed}
	}
}

// sleepCtx waits for d or until ctx is done. Returns false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
