package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appLog "eventgo/internal/log"
)

const defaultTimeout = 15 * time.Second

// Observer receives one observation per backend call. outcome is one of
// "ok", "error_response", "no_response", "setup".
type Observer interface {
	ObserveAPICall(method, resource, outcome string, d time.Duration)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root, e.g. "https://data-jaon-eventgo.onrender.com".
	BaseURL string
	// Token, if set, is injected as a bearer Authorization header.
	Token string
	// Timeout bounds a single call. Zero means 15s.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport client.
	HTTPClient *http.Client
	Observer   Observer
}

// Client is a small REST client bound to one backend base URL.
type Client struct {
	base     *url.URL
	token    string
	client   *http.Client
	observer Observer
}

// Request describes one backend call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded unless it implements Payload.
	Body   any
	Header http.Header
}

// Response is a successful (2xx) backend answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Payload lets a request body choose its own encoding.
type Payload interface {
	Encode() (body io.Reader, contentType string, err error)
}

// New creates a Client for the given options.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("apiclient: base URL is empty")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: unsupported scheme %q", base.Scheme)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:     base,
		token:    opts.Token,
		client:   hc,
		observer: opts.Observer,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Do performs a backend call. Failures are always one of *ResponseError,
// *NoResponseError or *SetupError.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	start := time.Now()
	resource := resourceOf(r.Path)

	resp, err := c.do(ctx, r)

	if c.observer != nil {
		c.observer.ObserveAPICall(r.Method, resource, outcomeOf(err), time.Since(start))
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, r Request) (*Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, &SetupError{Err: err}
	}

	appLog.Debug("api request", "method", req.Method, "url", appLog.RedactURL(req.URL.String()), "resource", resourceOf(r.Path))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NoResponseError{Method: req.Method, URL: appLog.RedactURL(req.URL.String()), Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		// Headers arrived but the body did not.
		return nil, &NoResponseError{Method: req.Method, URL: appLog.RedactURL(req.URL.String()), Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appLog.Debug("api error response", "method", req.Method, "resource", resourceOf(r.Path), "status", resp.StatusCode)
		return nil, &ResponseError{Status: resp.StatusCode, Header: resp.Header, Body: body}
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	if r.Method == "" {
		return nil, errors.New("method is empty")
	}
	if ctx == nil {
		return nil, errors.New("nil context")
	}

	ref, err := url.Parse(r.Path)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("path %q must be relative to the base URL", r.Path)
	}

	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(ref.Path, "/")
	if ref.RawPath != "" {
		u.RawPath = c.base.EscapedPath() + "/" + strings.TrimLeft(ref.RawPath, "/")
	}
	q := ref.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var (
		body        io.Reader
		contentType string
	)
	switch b := r.Body.(type) {
	case nil:
	case Payload:
		body, contentType, err = b.Encode()
		if err != nil {
			return nil, err
		}
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// Reuse the inbound request id when the call is made on behalf of a page.
	reqID := chimiddleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	return req, nil
}

// resourceOf returns the first path segment, used as a low-cardinality
// metrics label ("/events/42" -> "events").
func resourceOf(path string) string {
	p := strings.TrimLeft(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

func outcomeOf(err error) string {
	var (
		respErr  *ResponseError
		noResp   *NoResponseError
		setupErr *SetupError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &respErr):
		return "error_response"
	case errors.As(err, &noResp):
		return "no_response"
	case errors.As(err, &setupErr):
		return "setup"
	default:
		return "setup"
	}
}
