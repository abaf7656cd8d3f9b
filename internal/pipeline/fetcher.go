package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AkmelFed12/quizgen/internal/util"
	"github.com/AkmelFed12/quizgen/internal/worker"
)

// defaultFetchAttempts bounds FetchWithRetry unless WithMaxAttempts says otherwise
const defaultFetchAttempts = 3

// fetchSleepFunc waits out a retry backoff; tests replace it to skip the wait
var fetchSleepFunc = sleepContext

// sleepContext waits for d or until ctx is done, whichever comes first
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher downloads the source dataset
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	attempts   int
	limiter    *worker.Limiter
}

// NewFetcher creates a Fetcher. Empty proxy settings fall back to the
// HTTP_PROXY family of environment variables.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecure bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(httpProxy, httpsProxy, noProxy)
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in flag
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		attempts:  defaultFetchAttempts,
	}
}

// WithMaxAttempts sets the total number of attempts FetchWithRetry makes
func (f *Fetcher) WithMaxAttempts(n int) *Fetcher {
	if n > 0 {
		f.attempts = n
	}
	return f
}

// WithLimiter paces every attempt through l
func (f *Fetcher) WithLimiter(l *worker.Limiter) *Fetcher {
	f.limiter = l
	return f
}

// Client returns the underlying HTTP client, shared with the robots checker
func (f *Fetcher) Client() *http.Client {
	return f.httpClient
}

// FetchResult contains the fetched body and response metadata
type FetchResult struct {
	Body        []byte
	StatusCode  int
	ContentType string
	ETag        string
	FinalURL    string
}

// Fetch performs a single GET
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("read body: response exceeds %d bytes", f.maxBytes)
	}

	return &FetchResult{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		ETag:        resp.Header.Get("ETag"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, connection errors)
// with exponential backoff, three attempts in total by default.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error

	for attempt := 0; attempt < f.attempts; attempt++ {
		if attempt > 0 {
			if err := fetchSleepFunc(ctx, time.Duration(1<<(attempt-1))*time.Second); err != nil {
				return nil, err
			}
		}

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, rawURL); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", f.attempts, lastErr)
}

// isRetryableFetchError classifies errors by the prefixes Fetch produces
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()

	if status, ok := strings.CutPrefix(msg, "unexpected status: "); ok {
		return strings.HasPrefix(status, "5") || strings.HasPrefix(status, "429")
	}

	return strings.HasPrefix(msg, "fetch: ")
}
