// Package backend is the typed REST client for the shop backend. Every
// call is fire-once: no retries, no circuit breaking, cancellation via the
// caller's context only.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is any non-2xx response from the backend. Message carries the
// body's "error" field when the body is JSON, a status-derived message
// otherwise.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. to install an
// instrumented transport.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New builds a client rooted at baseURL; all requests go to baseURL + "/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON performs one request with an optional JSON body and decodes the
// response into out (skipped when out is nil). token is the bearer token for
// authenticated calls, empty for public ones.
func (c *Client) doJSON(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// Upload is one file part of a multipart request.
type Upload struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// doMultipart performs one multipart/form-data request (product and tag
// endpoints that accept images). Content-Type with boundary is set by the
// writer.
func (c *Client) doMultipart(ctx context.Context, method, path, token string, fields url.Values, uploads []Upload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, vals := range fields {
		for _, v := range vals {
			if err := w.WriteField(key, v); err != nil {
				return fmt.Errorf("write form field %q failed: %w", key, err)
			}
		}
	}
	for _, up := range uploads {
		part, err := w.CreateFormFile(up.Field, up.Filename)
		if err != nil {
			return fmt.Errorf("create form file %q failed: %w", up.Field, err)
		}
		if _, err := io.Copy(part, up.Reader); err != nil {
			return fmt.Errorf("copy upload %q failed: %w", up.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("request failed with status %s", resp.Status),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	// Error bodies are usually {"error": "..."}; anything else (HTML error
	// pages, proxies) keeps the status-derived message.
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		apiErr.Message = parsed.Error
	}
	return apiErr
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	return q
}
