package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-portal/internal/metrics"
)

// HTTPDoer is the part of *http.Client the API client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ HTTPDoer = &http.Client{}

// Client is the single choke point for HTTP calls to the travel backend.
// It never returns Go errors: every outcome is folded into a Response.
type Client struct {
	baseURL  string
	http     HTTPDoer
	timeout  time.Duration
	tokens   TokenSource
	header   http.Header
	validate *validator.Validate
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(h HTTPDoer) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every call made by the default *http.Client. Zero means
// no limit beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHeader adds a header to every request. Content-Type and Authorization
// are always set by the client and cannot be overridden.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}

// WithLogger sets the logger used for per-call debug lines.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client for baseURL (e.g. "http://localhost:8080/api").
// A nil tokens keeps an in-memory token only.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokens:   tokens,
		header:   make(http.Header),
		validate: newValidator(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.tokens == nil {
		c.tokens = &Credentials{log: c.log}
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token attached to outgoing requests, if any.
func (c *Client) Token() string {
	return c.tokens.Token()
}

// SetToken replaces the bearer token; an empty token stops sending the
// Authorization header.
func (c *Client) SetToken(ctx context.Context, token string) {
	c.tokens.SetToken(ctx, token)
}

// call describes one backend request.
type call struct {
	method string
	path   string // relative to baseURL, query string included
	route  string // low-cardinality label for metrics and logs
	body   any
	// validate runs struct validation on body before anything is sent.
	validate bool
}

func request[T any](ctx context.Context, c *Client, cl call) Response[T] {
	start := time.Now()
	resp, outcome := c.roundTrip(ctx, cl)
	out := decode[T](resp)
	if outcome == metrics.OutcomeOK && out.Error != "" {
		outcome = metrics.OutcomeNetworkError
	}

	metrics.ObserveRequest(cl.method, cl.route, outcome, time.Since(start))
	c.log.Debug().
		Str("method", cl.method).
		Str("route", cl.route).
		Int("status", out.StatusCode).
		Str("outcome", outcome).
		Dur("took", time.Since(start)).
		Msg("api call")

	return out
}

// rawReply is the transport-level result before decoding into T.
type rawReply struct {
	status int
	body   []byte
	err    string
}

func (c *Client) roundTrip(ctx context.Context, cl call) (rawReply, string) {
	if cl.validate && cl.body != nil {
		if err := c.validateInput(cl.body); err != nil {
			return rawReply{err: err.Error()}, metrics.OutcomeInvalidInput
		}
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			c.log.Error().Err(err).Str("route", cl.route).Msg("encode request body")
			return rawReply{err: MsgNetworkError}, metrics.OutcomeNetworkError
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		c.log.Error().Err(err).Str("route", cl.route).Msg("build request")
		return rawReply{err: MsgNetworkError}, metrics.OutcomeNetworkError
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Del("Authorization")
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("route", cl.route).Msg("transport failure")
		return rawReply{err: MsgNetworkError}, metrics.OutcomeNetworkError
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		c.log.Debug().Err(err).Str("route", cl.route).Msg("read response body")
		return rawReply{status: res.StatusCode, err: MsgNetworkError}, metrics.OutcomeNetworkError
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		if !json.Valid(raw) {
			return rawReply{status: res.StatusCode, err: MsgNetworkError}, metrics.OutcomeNetworkError
		}
		return rawReply{status: res.StatusCode, err: serverError(raw)}, metrics.OutcomeHTTPError
	}
	return rawReply{status: res.StatusCode, body: raw}, metrics.OutcomeOK
}

// serverError extracts the "error" string of a failure body.
func serverError(raw []byte) string {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return MsgGenericError
	}
	var msg string
	if err := json.Unmarshal(env["error"], &msg); err != nil || msg == "" {
		return MsgGenericError
	}
	return msg
}

func decode[T any](r rawReply) Response[T] {
	if r.err != "" {
		return failed[T](r.err, r.status)
	}

	out := Response[T]{Data: new(T), StatusCode: r.status}
	if err := json.Unmarshal(r.body, out.Data); err != nil {
		return failed[T](MsgNetworkError, r.status)
	}

	var note struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(r.body, &note) == nil {
		out.Message = note.Message
	}
	return out
}
