package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/kochabonline/tgkit/errors"
	"github.com/kochabonline/tgkit/log"
	"github.com/kochabonline/tgkit/metrics/prometheus"
)

const (
	MethodGet  = http.MethodGet
	MethodPost = http.MethodPost
)

// maxResponseBytes bounds how much of a response body is buffered.
const maxResponseBytes = 10 << 20

// Clienter is the capability set a Bot API binding needs from a transport.
type Clienter interface {
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
}

var _ Clienter = (*Client)(nil)

// Client sends JSON requests relative to a fixed base URL.
type Client struct {
	base    string
	client  *http.Client
	header  map[string]string
	secrets *strings.Replacer
	logger  *log.Logger
	metrics *prometheus.Prometheus
}

type Option func(*Client)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithHeader adds default headers sent with every request.
func WithHeader(header map[string]string) Option {
	return func(c *Client) {
		maps.Copy(c.header, header)
	}
}

// WithSecret masks the given strings in errors and log records.
func WithSecret(secrets ...string) Option {
	return func(c *Client) {
		pairs := make([]string, 0, len(secrets)*2)
		for _, s := range secrets {
			if s != "" {
				pairs = append(pairs, s, "***")
			}
		}
		if len(pairs) > 0 {
			c.secrets = strings.NewReplacer(pairs...)
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(metrics *prometheus.Prometheus) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// New creates a Client bound to base. The default Content-Type is
// application/json.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:   base,
		client: http.DefaultClient,
		header: map[string]string{
			"Content-Type": "application/json",
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Base returns the base URL requests are resolved against.
func (c *Client) Base() string {
	return c.base
}

// Header returns a copy of the default headers.
func (c *Client) Header() map[string]string {
	return maps.Clone(c.header)
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, MethodPost, path, body)
}

// Request sends exactly one request. A nil body sends no payload, an
// io.Reader is streamed as is, anything else is JSON encoded.
//
// A non-2xx answer returns both the Response and an *errors.Error whose code
// is the HTTP status. A failed round trip returns a 503 *errors.Error wrapping
// the cause and no Response.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path = strings.TrimPrefix(path, "/")
	metadata := map[string]string{"method": method, "path": path}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, errors.WrapWithMetadata(err, 400, metadata, "encode request body")
	}

	target, err := Url(c.base, WithUrlRefs(path))
	if err != nil {
		return nil, errors.WrapWithMetadata(c.redact(err), 400, metadata, "build request")
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.WrapWithMetadata(c.redact(err), 400, metadata, "build request")
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}

	requestID := xid.New().String()
	logger := c.log()
	done := func(int) {}
	if c.metrics != nil {
		done = c.metrics.Begin(method, path)
	}
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		done(0)
		err = c.redact(err)
		logger.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).
			Dur("latency", time.Since(start)).Err(err).Msg("telegram request failed")
		return nil, errors.WrapWithMetadata(err, 503, metadata, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	done(resp.StatusCode)
	if err != nil {
		return nil, errors.WrapWithMetadata(c.redact(err), 503, metadata, "read response body")
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}

	logger.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("telegram request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return response, errors.NewWithMetadata(resp.StatusCode, metadata, "%s", data)
	}

	return response, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return v, nil
	default:
		buf := new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf, nil
	}
}

func (c *Client) log() *log.Logger {
	if c.logger != nil {
		return c.logger
	}
	return log.L
}

// redact removes secrets from err, keeping *url.Error unwrappable so
// callers can still test for context.Canceled or net errors.
func (c *Client) redact(err error) error {
	if c.secrets == nil || err == nil {
		return err
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: c.secrets.Replace(ue.URL), Err: ue.Err}
	}
	return &redactedError{msg: c.secrets.Replace(err.Error()), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
