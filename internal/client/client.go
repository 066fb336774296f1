// Package client talks to a running rating server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
)

const defaultTimeout = 30 * time.Second

// Rating is a rated match as returned by the server.
type Rating struct {
	model.MatchResult
	Anomalies []model.Anomaly `json:"anomalies,omitempty"`
}

// Job is the server's answer to a submission or a poll of a queued job.
type Job struct {
	Status    string          `json:"status"`
	ResultID  string          `json:"result_id"`
	Anomalies []model.Anomaly `json:"anomalies,omitempty"`
}

// Client wraps http.Client with the rating API routes.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the server at baseURL, e.g. http://localhost:9080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the server answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// Rate rates a scorecard synchronously.
func (c *Client) Rate(ctx context.Context, scorecard []byte) (Rating, error) {
	var out Rating
	err := c.call(ctx, http.MethodPost, "/ratings", scorecard, http.StatusOK, &out)
	return out, err
}

// Submit queues a scorecard and returns its result handle.
func (c *Client) Submit(ctx context.Context, scorecard []byte) (Job, error) {
	var out Job
	err := c.call(ctx, http.MethodPost, "/ratings/jobs", scorecard, http.StatusAccepted, &out)
	return out, err
}

// Result fetches a stored result. done is false while the job is still queued.
func (c *Client) Result(ctx context.Context, id string) (rating Rating, done bool, err error) {
	resp, err := c.do(ctx, http.MethodGet, "/ratings/"+id, nil)
	if err != nil {
		return Rating{}, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Rating{}, false, nil
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&rating); err != nil {
			return Rating{}, false, fmt.Errorf("decode result %s: %w", id, err)
		}
		return rating, true, nil
	default:
		return Rating{}, false, apiError(resp)
	}
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, want int, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, e); err != nil || e.Code == "" {
		e.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
		e.Message = strings.TrimSpace(string(raw))
	}
	return e
}
