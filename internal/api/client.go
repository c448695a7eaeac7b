// Package api implements the HTTP client for the remote task collection.
//
// The backend exposes one resource:
//
//	GET    <collection>        list all tasks
//	POST   <collection>        create {task, completed:false}
//	PUT    <collection>/{id}   replace the full record
//	DELETE <collection>/{id}   remove the record
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/idilsaglam/todo-tui/internal/model"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Client talks to a single task collection endpoint.
type Client struct {
	collectionURL string
	httpClient    *http.Client
	token         string
	logger        *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient swaps the underlying http.Client (timeouts, transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the request logger. Defaults to the package-level logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for the given collection URL, e.g.
// "http://localhost:3000/api/todo".
func New(collectionURL string, opts ...Option) *Client {
	c := &Client{
		collectionURL: strings.TrimRight(collectionURL, "/"),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createRequest is the create body; the server mints the id.
type createRequest struct {
	Text      string `json:"task"`
	Completed bool   `json:"completed"`
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	body, err := c.do(ctx, http.MethodGet, c.collectionURL, nil)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return tasks, nil
}

// Create adds a new, not-yet-completed task. The response body is ignored;
// callers re-fetch the collection to see the server-assigned id.
func (c *Client) Create(ctx context.Context, text string) error {
	_, err := c.do(ctx, http.MethodPost, c.collectionURL, createRequest{Text: text})
	return err
}

// Update replaces the record addressed by task.ID with the given full record.
func (c *Client) Update(ctx context.Context, task model.Task) error {
	if task.ID.IsZero() {
		return fmt.Errorf("update: task has no id")
	}
	_, err := c.do(ctx, http.MethodPut, c.itemURL(task.ID), task)
	return err
}

// Delete removes the record addressed by id.
func (c *Client) Delete(ctx context.Context, id model.TaskID) error {
	if id.IsZero() {
		return fmt.Errorf("delete: task has no id")
	}
	_, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
	return err
}

func (c *Client) itemURL(id model.TaskID) string {
	return c.collectionURL + "/" + id.String()
}

// do runs one request and returns the response body for 2xx statuses.
func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method, "url", url, "request_id", requestID, "err", err)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		"method", method, "url", url, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return b, nil
}
