// Package catalog talks to the book-catalog REST API and presents one GET
// capability through three calling conventions: a callback, a future and a
// plain blocking call.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/bookcall/internal/errors"
	"github.com/lepinkainen/bookcall/internal/ratelimit"
)

const (
	// DefaultBaseURL is where the simulated catalog listens.
	DefaultBaseURL = "http://localhost:5000"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second
)

// Client is a catalog API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit paces requests to rps per second; 0 disables pacing.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		c.limiter = ratelimit.New("catalog", rps)
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the catalog at baseURL (DefaultBaseURL if empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the catalog address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListBooks fetches the whole collection.
func (c *Client) ListBooks(ctx context.Context) (Books, error) {
	var books Books
	if _, err := c.get(ctx, "/books", &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = Books{}
	}
	return books, nil
}

// BookByISBN fetches one book. An empty payload or a 404 is reported as
// *errors.NotFoundError.
func (c *Client) BookByISBN(ctx context.Context, isbn string) (Book, error) {
	var book Book
	raw, err := c.get(ctx, bookPath("isbn", isbn), &book)
	if err != nil {
		if errors.IsNotFound(err) {
			return Book{}, errors.NewNotFoundError("ISBN", isbn)
		}
		return Book{}, err
	}
	if emptyPayload(raw) || book.IsZero() {
		return Book{}, errors.NewNotFoundError("ISBN", isbn)
	}
	return book, nil
}

// BooksByAuthor lists books whose author matches author.
func (c *Client) BooksByAuthor(ctx context.Context, author string) (Books, error) {
	return c.search(ctx, "author", author)
}

// BooksByTitle lists books whose title matches title.
func (c *Client) BooksByTitle(ctx context.Context, title string) (Books, error) {
	return c.search(ctx, "title", title)
}

func (c *Client) search(ctx context.Context, field, value string) (Books, error) {
	var books Books
	if _, err := c.get(ctx, bookPath(field, value), &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = Books{}
	}
	return books, nil
}

// bookPath builds /books/{field}/{value}. The value is path-escaped so
// spaces, slashes and '?' in search strings stay inside one segment.
func bookPath(field, value string) string {
	return "/books/" + field + "/" + url.PathEscape(value)
}

// get is the one place a request is built and sent. It decodes the body into
// out and also returns the raw body for emptiness checks.
func (c *Client) get(ctx context.Context, path string, out any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("Catalog request", "method", req.Method, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return body, errors.NewNotFoundError("path", path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return body, errors.NewRateLimitErrorWithRetry("HTTP 429", retryAfter(resp.Header.Get("Retry-After")))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return body, errors.NewStatusError(endpoint, resp.StatusCode)
	}

	if emptyPayload(body) {
		return body, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return body, errors.NewDecodeError(endpoint, err)
	}
	return body, nil
}

// retryAfter parses the delta-seconds form of Retry-After.
func retryAfter(value string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
