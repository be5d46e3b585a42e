package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/logging"
)

// DefaultTimeout bounds a single request when no option overrides it.
const DefaultTimeout = 10 * time.Second

// TokenSource yields the current auth token, "" when signed out.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// SessionEndFunc is told why the session ended.
type SessionEndFunc func(err *apierr.Error)

// Client talks to the REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	baseHost   string
	httpClient *http.Client
	tokens     TokenSource
	onEnd      SessionEndFunc
	logger     logging.Logger

	mu    sync.Mutex
	ended bool

	// session counts logins; a failure is only fatal to the session its
	// request started in.
	session uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource installs the request hook.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithSessionEnd installs the 401/403 response hook.
func WithSessionEnd(fn SessionEndFunc) Option {
	return func(c *Client) { c.onEnd = fn }
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a Client for baseURL, e.g. "http://host:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		baseHost:   u.Host,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ResetSession re-arms the session-end hook. Call it after a login.
// Requests still in flight from the previous session can no longer end
// the new one.
func (c *Client) ResetSession() {
	c.mu.Lock()
	c.ended = false
	c.session++
	c.mu.Unlock()
}

func (c *Client) currentSession() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) endSession(session uint64, e *apierr.Error) {
	c.mu.Lock()
	if c.ended || session != c.session {
		c.mu.Unlock()
		return
	}
	c.ended = true
	c.mu.Unlock()

	c.logger.Warn(context.Background(), "session ended by server", "status", e.Status)
	if c.onEnd != nil {
		c.onEnd(e)
	}
}

// Request describes one call.
type Request struct {
	Method string

	// Path is relative to the base URL ("correspondence/12/") or an
	// absolute URL, as found in a page's "next" link.
	Path  string
	Query url.Values

	// Body is JSON encoded unless Raw is set.
	Body        any
	Raw         io.Reader
	ContentType string

	// SkipSessionHook keeps a 401/403 of this call from ending the
	// session. Login and status checks use it.
	SkipSessionHook bool
}

// Response is a 2xx reply.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Decode unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// URL resolves path against the base URL and merges query.
func (c *Client) URL(path string, query url.Values) (string, error) {
	var raw string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		raw = path
	} else {
		raw = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Do performs r. Non-2xx replies and transport failures come back as
// *apierr.Error.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	session := c.currentSession()
	target, err := c.URL(r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	body := r.Raw
	contentType := r.ContentType
	if body == nil && r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// Absolute links (a page's "next") may point elsewhere; the token
	// only goes to the API host.
	if c.tokens != nil && req.URL.Host == c.baseHost {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthHeaderName, common.TokenScheme+" "+tok)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "api request failed", "method", r.Method, "url", target, "error", err)
		return nil, apierr.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Network(fmt.Errorf("read body: %w", err))
	}

	c.logger.Debug(ctx, "api request", "method", r.Method, "url", target,
		"status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := apierr.FromResponse(resp.StatusCode, data)
		if e.IsSessionFatal() && !r.SkipSessionHook {
			c.endSession(session, e)
		}
		return nil, e
	}

	return &Response{Status: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

// Get issues a GET and decodes the reply into out (nil to discard).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.call(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

func (c *Client) call(ctx context.Context, r Request, out any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}
