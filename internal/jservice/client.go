// apps/go-server/internal/jservice/client.go
//
// HTTP client for the remote trivia API (jService-compatible).
// Endpoints used:
//   - GET {base}/categories?count=N  → [{id, title, clues_count}]
//   - GET {base}/category?id=ID      → {id, title, clues_count, clues: [{question, answer, ...}]}
//
// Every failure (transport, non-2xx, undecodable body) is reported as a
// *RemoteError so the setup pipeline can treat them uniformly.

package jservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
)

const (
	DefaultBaseURL      = "https://rithm-jeopardy.herokuapp.com/api"
	DefaultCatalogCount = 100
	defaultTimeout      = 8 * time.Second
	maxBodyBytes        = 4 << 20
)

// ErrRemote matches every *RemoteError via errors.Is.
var ErrRemote = errors.New("remote trivia service error")

// RemoteError describes a failed call to the trivia service.
type RemoteError struct {
	Op     string // "list categories" | "get category"
	URL    string
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// Client talks to the trivia API.
type Client struct {
	base  string
	http  *http.Client
	count int
	log   zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCatalogCount sets how many categories ListCategories asks for.
func WithCatalogCount(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.count = n
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New constructs a Client for baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: defaultTimeout},
		count: DefaultCatalogCount,
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListCategories returns the catalog of categories the service offers.
func (c *Client) ListCategories(ctx context.Context) ([]board.CatalogEntry, error) {
	u := c.base + "/categories?" + url.Values{"count": {strconv.Itoa(c.count)}}.Encode()

	var out []board.CatalogEntry
	if err := c.getJSON(ctx, "list categories", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// categoryPayload mirrors the /category response; extra fields are ignored.
type categoryPayload struct {
	ID    int                `json:"id"`
	Title string             `json:"title"`
	Clues []board.RemoteClue `json:"clues"`
}

// GetCategory fetches one category with all of its clues.
// Clues with a blank question or answer are dropped.
func (c *Client) GetCategory(ctx context.Context, id int) (*board.RemoteCategory, error) {
	u := c.base + "/category?" + url.Values{"id": {strconv.Itoa(id)}}.Encode()

	var p categoryPayload
	if err := c.getJSON(ctx, "get category", u, &p); err != nil {
		return nil, err
	}

	clues := make([]board.RemoteClue, 0, len(p.Clues))
	for _, cl := range p.Clues {
		if strings.TrimSpace(cl.Question) == "" || strings.TrimSpace(cl.Answer) == "" {
			continue
		}
		clues = append(clues, cl)
	}
	if p.ID == 0 {
		p.ID = id
	}
	return &board.RemoteCategory{ID: p.ID, Title: p.Title, Clues: clues}, nil
}

// getJSON performs a GET and decodes a JSON body into dst.
func (c *Client) getJSON(ctx context.Context, op, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &RemoteError{Op: op, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("url", u).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("trivia api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &RemoteError{Op: op, URL: u, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &RemoteError{Op: op, URL: u, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
