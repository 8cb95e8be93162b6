package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

const (
	BaseURL   = "https://www.jra.go.jp"
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	Timeout   = 15 * time.Second
)

// Options configures a Scraper. Zero values select the defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration

	// RequestsPerSecond caps the request rate; 0 disables the limit.
	RequestsPerSecond float64
	Burst             int

	// Encoding forces the response encoding (e.g. "shift_jis") instead of
	// trusting the server and sniffing.
	Encoding string
}

// Scraper handles fetching and parsing pages
type Scraper struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	encoding  encoding.Encoding
}

// StatusError is returned for non-200 responses
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// New creates a new Scraper instance
func New(opts Options) (*Scraper, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = Timeout
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}

	s := &Scraper{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, opts.Burst),
	}

	if opts.Encoding != "" {
		enc, err := htmlindex.Get(opts.Encoding)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", opts.Encoding, err)
		}
		s.encoding = enc
	}

	return s, nil
}

// Fetch downloads url and parses it as HTML. The context bounds both the wait
// for the rate limiter and the request itself.
func (s *Scraper) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := s.decode(resp)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// decode wraps the response body in a UTF-8 transcoder.
func (s *Scraper) decode(resp *http.Response) (io.Reader, error) {
	if s.encoding != nil {
		return s.encoding.NewDecoder().Reader(resp.Body), nil
	}
	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return r, nil
}
