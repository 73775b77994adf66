package granola

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader carries a per-request correlation ID on every outbound
// request.
const requestIDHeader = "X-Request-ID"

const defaultTimeout = 30 * time.Second

// Client is an outbound HTTP client bound to one Mapper. Every request
// body goes through the Mapper's encoder and every response body through
// its decoder; no other codec can be substituted.
//
// The Mapper may be shared with other clients; requests use it without
// coordination. Transport behavior (pooling, timeouts, cancellation)
// belongs to the embedded http.Client.
type Client struct {
	hc     *http.Client
	mapper *Mapper
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying transport client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTimeout sets the underlying client's total request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// NewClient builds a Client around a fresh Mapper from New.
func NewClient(opts ...ClientOption) *Client {
	return NewClientWith(New(), opts...)
}

// NewClientWith builds a Client around the given Mapper. The Mapper is
// composed by reference and may be shared. Construction never fails.
func NewClientWith(m *Mapper, opts ...ClientOption) *Client {
	c := &Client{
		hc:     &http.Client{Timeout: defaultTimeout},
		mapper: m,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mapper returns the policy engine the client encodes and decodes with.
func (c *Client) Mapper() *Mapper {
	return c.mapper
}

// Do issues a request. A non-nil in is encoded through the Mapper as the
// request body; a non-nil out receives the decoded response body. A
// non-2xx status yields a *StatusError carrying the status and response
// body, wrapping ErrRequestFailed.
func (c *Client) Do(ctx context.Context, method, url string, in, out any) error {
	start := time.Now()

	status, err := c.do(ctx, method, url, in, out)

	emitRequestComplete(ctx, method, url, status, time.Since(start), err)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		payload, err := c.mapper.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", c.mapper.ContentType())
	}
	req.Header.Set("Accept", c.mapper.ContentType())
	req.Header.Set(requestIDHeader, uuid.NewString())

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return res.StatusCode, &StatusError{
			Status:  res.StatusCode,
			Message: strings.TrimSpace(string(b)),
			Err:     ErrRequestFailed,
		}
	}

	if out != nil {
		b, err := io.ReadAll(res.Body)
		if err != nil {
			return res.StatusCode, fmt.Errorf("read response: %w", err)
		}
		if err := c.mapper.Unmarshal(b, out); err != nil {
			return res.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return res.StatusCode, nil
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.Do(ctx, http.MethodGet, url, nil, out)
}

// Post issues a POST with in as the body, decoding the response into out.
// Either may be nil.
func (c *Client) Post(ctx context.Context, url string, in, out any) error {
	return c.Do(ctx, http.MethodPost, url, in, out)
}

// Put issues a PUT with in as the body, decoding the response into out.
// Either may be nil.
func (c *Client) Put(ctx context.Context, url string, in, out any) error {
	return c.Do(ctx, http.MethodPut, url, in, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.Do(ctx, http.MethodDelete, url, nil, nil)
}
