// Package client talks to the scrapnote HTTP API. It is the store the
// terminal UI reads from and writes to.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/starford/scrapnote/internal/models"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scrapnote: HTTP %d", e.Code)
	}
	return fmt.Sprintf("scrapnote: HTTP %d: %s", e.Code, e.Message)
}

// Client is an HTTP client for one scrapnote server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the server at baseURL (e.g. http://127.0.0.1:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type filesResponse struct {
	Files []models.Item `json:"files"`
}

type contentBody struct {
	Content string `json:"content"`
}

// List returns the notes whose name contains key.
func (c *Client) List(ctx context.Context, key string) ([]models.Item, error) {
	target := c.baseURL + "/api/files"
	if key != "" {
		target += "?key=" + url.QueryEscape(key)
	}
	var resp filesResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Files == nil {
		resp.Files = []models.Item{}
	}
	return resp.Files, nil
}

// Read returns the content of a note; the server creates missing notes.
func (c *Client) Read(ctx context.Context, name string) (string, error) {
	var resp contentBody
	if err := c.do(ctx, http.MethodGet, c.fileURL(name), nil, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Write replaces the content of a note.
func (c *Client) Write(ctx context.Context, name, content string) error {
	body, err := json.Marshal(contentBody{Content: content})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, c.fileURL(name), body, nil)
}

// fileURL percent-encodes name as a single path segment.
func (c *Client) fileURL(name string) string {
	return c.baseURL + "/api/file/" + url.PathEscape(name)
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("scrapnote: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("scrapnote: decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	_ = json.Unmarshal(data, &body)
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
