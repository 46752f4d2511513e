package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/catalog-courses/internal/logger"
)

const (
	UserAgent = "catalog-courses/1.0 (github.com/pfrederiksen/catalog-courses)"
	Timeout   = 30 * time.Second
)

// NetworkError reports a page that could not be fetched or parsed.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves catalog pages over HTTP
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher with the default timeout and user agent
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
}

// NewFetcherWithOptions creates a Fetcher with a custom timeout and user agent.
// Zero values fall back to the defaults.
func NewFetcherWithOptions(timeout time.Duration, userAgent string) *Fetcher {
	f := NewFetcher()
	if timeout > 0 {
		f.client.Timeout = timeout
	}
	if userAgent != "" {
		f.userAgent = userAgent
	}
	return f
}

// Fetch downloads the page at url and parses it
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("catalog.fetch", time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	page, err := ParsePage(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	page.URL = url
	return page, nil
}

// ParsePage parses an HTML document into a Page
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Page{doc: doc}, nil
}
