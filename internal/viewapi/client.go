// Package viewapi reads run data from a Guild View backend.
package viewapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/justinpbarnett/guildview/internal/run"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "guildview"
	maxErrorBody     = 200
)

// ViewConfig is the backend's /config payload.
type ViewConfig struct {
	Cwd        string `json:"cwd"`
	TitleLabel string `json:"titleLabel"`
	Version    string `json:"version"`
}

// CompareTable is the /compare payload: row 0 holds column names, every
// following row one run.
type CompareTable [][]any

// Header returns the column names.
func (t CompareTable) Header() []string {
	if len(t) == 0 {
		return nil
	}
	header := make([]string, len(t[0]))
	for i, cell := range t[0] {
		header[i] = fmt.Sprint(cell)
	}
	return header
}

// Rows returns the run rows, without the header.
func (t CompareTable) Rows() [][]any {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Client reads from one Guild View backend. It is safe for concurrent use.
type Client struct {
	base       string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. with a test server's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithLogger logs every request at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for the backend rooted at base (VIEW_BASE).
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Base() string { return c.base }

// DataPath appends the query string of route (a navigational full path such
// as "/compare?op=train#top") to path. A route without a query leaves path
// unchanged.
func DataPath(path, route string) string {
	if i := strings.IndexByte(route, '#'); i >= 0 {
		route = route[:i]
	}
	i := strings.IndexByte(route, '?')
	if i < 0 || i == len(route)-1 {
		return path
	}
	query := route[i+1:]
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return path + "?" + query
}

// URL is the full request URL for path with route's query forwarded.
func (c *Client) URL(path, route string) string {
	return c.base + DataPath(path, route)
}

// Fetch GETs path (with route's query forwarded) and decodes the JSON body
// into v. Failures are *RequestError, *StatusError or *DecodeError.
func (c *Client) Fetch(ctx context.Context, path, route string, v any) error {
	u := c.URL(path, route)
	body, err := c.get(ctx, u, "application/json", -1)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{URL: u, Err: err}
	}
	return nil
}

// get performs the GET and returns the body of a 2xx response, reading at
// most limit bytes when limit is not negative.
func (c *Client) get(ctx context.Context, u, accept string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &RequestError{URL: u, Err: err}
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Str("url", u).Err(err).Msg("view request failed")
		return nil, &RequestError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if limit >= 0 {
		r = io.LimitReader(resp.Body, limit)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &RequestError{URL: u, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug().
		Str("url", u).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("view request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBody)}
	}
	return body, nil
}

// Runs fetches the run list, forwarding route's filters.
func (c *Client) Runs(ctx context.Context, route string) ([]run.Run, error) {
	var runs []run.Run
	if err := c.Fetch(ctx, "/runs", route, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// Run fetches one run by ID prefix. The lookup covers all runs, not only
// those matching the current filters.
func (c *Client) Run(ctx context.Context, idPrefix string) (run.Run, error) {
	var runs []run.Run
	err := c.Fetch(ctx, "/runs?run="+url.QueryEscape(idPrefix), "", &runs)
	if err != nil {
		if IsNotFound(err) {
			return run.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idPrefix)
		}
		return run.Run{}, err
	}
	if len(runs) == 0 {
		return run.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idPrefix)
	}
	return runs[0], nil
}

func (c *Client) Config(ctx context.Context) (ViewConfig, error) {
	var cfg ViewConfig
	if err := c.Fetch(ctx, "/config", "", &cfg); err != nil {
		return ViewConfig{}, err
	}
	return cfg, nil
}

func (c *Client) Compare(ctx context.Context, route string) (CompareTable, error) {
	var table CompareTable
	if err := c.Fetch(ctx, "/compare", route, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Output fetches captured output lines start..end of a run, both inclusive.
// A negative end reads to the end of the output.
func (c *Client) Output(ctx context.Context, runID string, start, end int) ([]run.OutputLine, error) {
	q := url.Values{}
	if start > 0 {
		q.Set("s", strconv.Itoa(start))
	}
	if end >= 0 {
		q.Set("e", strconv.Itoa(end))
	}
	path := "/runs/" + url.PathEscape(runID) + "/output"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var lines []run.OutputLine
	if err := c.Fetch(ctx, path, "", &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// FileContent is the head of a run file as served under /files.
type FileContent struct {
	Data []byte
	// Truncated is set when the file is longer than the requested limit.
	Truncated bool
}

// FilePath is the backend path of a file in a run directory.
func FilePath(runID, path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/files/" + url.PathEscape(runID) + "/" + strings.Join(parts, "/")
}

// File reads up to limit bytes of path, relative to the run's directory.
func (c *Client) File(ctx context.Context, runID, path string, limit int64) (FileContent, error) {
	body, err := c.get(ctx, c.base+FilePath(runID, path), "*/*", limit+1)
	if err != nil {
		return FileContent{}, err
	}
	if int64(len(body)) > limit {
		return FileContent{Data: body[:limit], Truncated: true}, nil
	}
	return FileContent{Data: body}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
