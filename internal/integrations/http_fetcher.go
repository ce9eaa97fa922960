package integrations

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/julianshen/meteofetch/internal/request"
)

// DefaultTimeout bounds the whole request, from dial to the last body byte.
const DefaultTimeout = 30 * time.Second

const chunkSize = 16 * 1024

// Sink receives the response body chunk by chunk, in order. A non-nil error
// aborts the transfer.
type Sink interface {
	Append(chunk []byte) (int, error)
	Max() int
}

// NetworkError describes any failure to retrieve a response: transport,
// TLS, timeout, HTTP status, or the sink refusing a chunk.
type NetworkError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %q: HTTP %d: %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("fetch %q: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// HTTPFetcher performs authenticated, TLS-verified GET requests.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*fetcherOptions)

type fetcherOptions struct {
	rootCAs   *x509.CertPool
	userAgent string
	log       zerolog.Logger
}

// WithRootCAs trusts pool instead of the system roots. Verification of the
// certificate chain and hostname stays on.
func WithRootCAs(pool *x509.CertPool) FetcherOption {
	return func(o *fetcherOptions) { o.rootCAs = pool }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(o *fetcherOptions) { o.userAgent = ua }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log zerolog.Logger) FetcherOption {
	return func(o *fetcherOptions) { o.log = log }
}

// NewHTTPFetcher creates a new HTTPFetcher with the given timeout. A
// non-positive timeout falls back to DefaultTimeout.
func NewHTTPFetcher(timeout time.Duration, opts ...FetcherOption) *HTTPFetcher {
	o := fetcherOptions{
		userAgent: "meteofetch",
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    o.rootCAs,
		},
		TLSHandshakeTimeout: 10 * time.Second,
		DisableKeepAlives:   true,
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		userAgent: o.userAgent,
		log:       o.log,
	}
}

// Fetch issues one GET to url with HTTP Basic credentials and streams the
// body into sink. Nothing is retried; a partially filled sink must be
// discarded by the caller when an error is returned.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, creds request.Credentials, sink Sink) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Cause: fmt.Errorf("create request: %w", err)}
	}
	req.SetBasicAuth(creds.Username, creds.Password)
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	f.log.Debug().Str("url", url).Bool("basic_auth", creds.Username != "").Msg("Sending request")

	resp, err := f.client.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	f.log.Debug().
		Int("status", resp.StatusCode).
		Int64("content_length", resp.ContentLength).
		Dur("elapsed", time.Since(start)).
		Msg("Received response headers")

	if resp.StatusCode >= 400 {
		return &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Cause:      errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	if resp.ContentLength > int64(sink.Max()) {
		return &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("announced body of %d bytes exceeds limit of %d", resp.ContentLength, sink.Max()),
		}
	}

	total, err := stream(resp.Body, sink)
	if err != nil {
		return &NetworkError{URL: url, StatusCode: resp.StatusCode, Cause: err}
	}

	f.log.Debug().Int("bytes", total).Dur("elapsed", time.Since(start)).Msg("Response body received")
	return nil
}

// stream pushes every chunk read from r into sink and stops at the first
// error from either side.
func stream(r io.Reader, sink Sink) (int, error) {
	chunk := make([]byte, chunkSize)
	total := 0
	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			if _, err := sink.Append(chunk[:n]); err != nil {
				return total, fmt.Errorf("buffer response: %w", err)
			}
			total += n
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, fmt.Errorf("read response: %w", readErr)
		}
	}
}
