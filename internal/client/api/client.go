// Package api implements the authenticated HTTP access layer: a client
// owning base URL, timeout, credential attachment, and error
// normalization, plus one typed module per backend endpoint group.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/atinyakov/BillboardWatch/internal/client/storage"
	"go.uber.org/zap"
)

// uploadField is the multipart form field name the backend expects.
const uploadField = "file"

// Config holds construction-time settings for the Client.
type Config struct {
	// BaseURL is the target host for all relative paths, including
	// any path prefix (e.g. "https://example.com/api").
	BaseURL string
	// Timeout is the per-request budget. Zero means 10 seconds.
	Timeout time.Duration
	// DefaultHeaders are merged into every request.
	DefaultHeaders map[string]string
}

// RequestOptions carries per-call overrides.
type RequestOptions struct {
	// Headers are added to the request, overriding defaults on conflict.
	Headers map[string]string
	// Query is appended to the request URL.
	Query url.Values
}

// Response is the raw result of a successful request. The client does
// not unwrap the body envelope; that is each domain module's job.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client is the single point of outbound network access. All failures
// are rejected as *Error; callers never see raw transport errors.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
	store   *storage.Store
	log     *zap.Logger
}

// New constructs a Client over the given credential store.
func New(cfg Config, store *storage.Store, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		headers: headers,
		store:   store,
		log:     log,
	}
}

// Get issues a GET request to the given relative path.
func (c *Client) Get(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil, opts)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.doJSON(ctx, http.MethodPost, path, body, opts)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.doJSON(ctx, http.MethodPut, path, body, opts)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.doJSON(ctx, http.MethodPatch, path, body, opts)
}

// Delete issues a DELETE request, optionally with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.doJSON(ctx, http.MethodDelete, path, body, opts)
}

// UploadFile posts the reader contents as a multipart form under the
// fixed "file" field. onProgress, if non-nil, is invoked as the body is
// consumed by the transport with the bytes sent so far and the total.
func (c *Client) UploadFile(ctx context.Context, path, filename string, file io.Reader, onProgress func(sent, total int64)) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadField, filename)
	if err != nil {
		return nil, newLocalError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, newLocalError(err)
	}
	if err := mw.Close(); err != nil {
		return nil, newLocalError(err)
	}

	total := int64(buf.Len())
	var body io.Reader = &buf
	if onProgress != nil {
		body = &progressReader{r: &buf, total: total, onProgress: onProgress}
	}

	opts := &RequestOptions{Headers: map[string]string{"Content-Type": mw.FormDataContentType()}}
	return c.send(ctx, http.MethodPost, path, body, opts)
}

// IsAuthenticated reports whether a token is currently stored. Storage
// failures read as "not authenticated".
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.GetItem(storage.KeyAuthToken)
	return ok
}

// AuthToken returns the stored token, if any, under the same failure
// policy as IsAuthenticated.
func (c *Client) AuthToken() (string, bool) {
	return c.store.GetItem(storage.KeyAuthToken)
}

// doJSON marshals body (when non-nil) and sends the request.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, opts *RequestOptions) (*Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, newLocalError(err)
		}
		reader = bytes.NewReader(b)
	}
	return c.send(ctx, method, path, reader, opts)
}

// send runs the request lifecycle: attach the stored bearer token, send,
// and on failure normalize to *Error. A 401 response additionally clears
// the stored session before the error is returned; the clear happens at
// most once per request and the request is never resubmitted.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, opts *RequestOptions) (*Response, error) {
	target := c.baseURL + path
	if opts != nil && len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		c.log.Error("request build failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, newLocalError(err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	// Token lookup failures are not fatal: the store logs them and the
	// request proceeds unauthenticated.
	if token, ok := c.store.GetItem(storage.KeyAuthToken); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api transport failure", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, newTransportError()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError()
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.clearSession()
		}
		c.log.Debug("api error response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, newServerError(resp.StatusCode, data)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// clearSession removes the stored token and profile so the application's
// view of the session matches the server's judgment. It is idempotent:
// a second in-flight request that also receives a 401 re-clears the
// already-absent keys rather than being cancelled.
func (c *Client) clearSession() {
	if err := c.store.RemoveItem(storage.KeyAuthToken); err != nil {
		c.log.Error("failed to clear auth token", zap.Error(err))
	}
	if err := c.store.RemoveItem(storage.KeyUserData); err != nil {
		c.log.Error("failed to clear user data", zap.Error(err))
	}
	c.log.Info("cleared stored session after 401")
}

// progressReader reports transport read progress to a callback.
type progressReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.onProgress(p.sent, p.total)
	}
	return n, err
}
