// Package ajax issues requests against the admin web application and
// checks every payload for the error pages the server renders instead of
// status codes.
package ajax

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tturner/lingo/internal/logging"
	"github.com/tturner/lingo/internal/metrics"
	"github.com/tturner/lingo/internal/wizard"
)

const maxPayload = 8 << 20

// Client talks to one application.
type Client struct {
	http    *http.Client
	base    *url.URL
	context string
	area    MessageArea
	log     *logging.Logger
	sink    *metrics.Sink
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithContextPath prefixes relative references with the application
// context path, e.g. "/Jargon-lingo".
func WithContextPath(p string) Option {
	return func(c *Client) { c.context = strings.Trim(p, "/") }
}

// WithMessageArea sets where error messages are written.
func WithMessageArea(area MessageArea) Option {
	return func(c *Client) { c.area = area }
}

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records every request in sink.
func WithMetrics(sink *metrics.Sink) Option {
	return func(c *Client) { c.sink = sink }
}

// NewClient creates a client for the application at baseURL. An empty
// baseURL only accepts absolute references.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		http: &http.Client{Timeout: 30 * time.Second},
		area: &Area{},
		log:  logging.NewNop(),
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("base url %q must be absolute", baseURL)
		}
		c.base = u
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Area returns the message area the client writes to.
func (c *Client) Area() MessageArea { return c.area }

// Resolve turns a reference into an absolute URL.
func (c *Client) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoURL
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if c.base == nil {
		return "", fmt.Errorf("relative url %q needs a base url", ref)
	}
	if c.context != "" {
		prefix := "/" + c.context
		if u.Path != prefix && !strings.HasPrefix(u.Path, prefix+"/") {
			u.Path = path.Join(prefix, u.Path)
		}
	}
	return c.base.ResolveReference(u).String(), nil
}

// Get fetches ref and returns the checked payload.
func (c *Client) Get(ctx context.Context, ref string) (string, error) {
	data, err := c.Do(ctx, http.MethodGet, ref, nil)
	return string(data), err
}

// Post sends values as a form post and returns the checked payload.
func (c *Client) Post(ctx context.Context, ref string, values url.Values) (string, error) {
	data, err := c.Do(ctx, http.MethodPost, ref, values)
	return string(data), err
}

// Check runs a wizard remote step check. It implements wizard.Remote.
func (c *Client) Check(ctx context.Context, check wizard.RemoteCheck, values url.Values) ([]byte, error) {
	method := strings.ToUpper(check.Method)
	if method == "" {
		method = http.MethodGet
	}
	return c.Do(ctx, method, check.URL, values)
}

// Do sends one request. The message area is cleared first; the payload is
// checked for error markers whatever the status code, and any error
// message is written to the area. GET and DELETE carry values in the query
// string, other methods as a form body.
func (c *Client) Do(ctx context.Context, method, ref string, values url.Values) ([]byte, error) {
	c.area.Clear()
	target, err := c.Resolve(ref)
	if err != nil {
		c.area.SetMessage(err.Error())
		return nil, err
	}
	method = strings.ToUpper(method)

	var body io.Reader
	if len(values) > 0 {
		if method == http.MethodGet || method == http.MethodDelete {
			u, _ := url.Parse(target)
			q := u.Query()
			for k, vs := range values {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			u.RawQuery = q.Encode()
			target = u.String()
		} else {
			body = strings.NewReader(values.Encode())
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-Id", uuid.NewString())

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, target, 0, started, err)
		c.area.SetMessage(err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxPayload)); err != nil {
		c.observe(method, target, resp.StatusCode, started, err)
		return nil, fmt.Errorf("read response: %w", err)
	}
	data := buf.Bytes()

	err = CheckResultInArea(string(data), c.area)
	if err == nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		err = fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
		c.area.SetMessage("Request failed: " + resp.Status)
	}
	c.observe(method, target, resp.StatusCode, started, err)
	if err != nil {
		return data, err
	}
	return data, nil
}

func (c *Client) observe(method, target string, status int, started time.Time, err error) {
	elapsed := time.Since(started)
	c.log.LogRequest(method, target, status, elapsed, err)
	if c.sink == nil {
		return
	}
	m := metrics.Metric{
		Timestamp: started,
		Method:    method,
		URL:       target,
		Status:    status,
		Success:   err == nil,
		RTTMs:     float64(elapsed.Microseconds()) / 1000,
	}
	if err != nil {
		m.Error = err.Error()
	}
	c.sink.Record(m)
}
