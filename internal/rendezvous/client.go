package rendezvous

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is returned when the coordinator answers with a non-2xx status.
type APIError struct {
	Message    string // The coordinator's "message" field, if any
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rendezvous: http %d", e.StatusCode)
	}
	return fmt.Sprintf("rendezvous: http %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404, which is what
// a presence-only coordinator answers to the command routes.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to a rendezvous coordinator over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (5s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the coordinator at baseURL,
// e.g. "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReportPresence posts a presence report and returns everyone currently online.
func (c *Client) ReportPresence(ctx context.Context, report PresenceReport) ([]PresenceEntry, error) {
	var out OnlineResponse
	if err := c.postJSON(ctx, "/presence", report, &out); err != nil {
		return nil, err
	}
	return out.Online, nil
}

// Online returns the current presence snapshot without reporting.
func (c *Client) Online(ctx context.Context) ([]PresenceEntry, error) {
	var out OnlineResponse
	if err := c.getJSON(ctx, "/presence", &out); err != nil {
		return nil, err
	}
	return out.Online, nil
}

// SendCommand appends a command to the coordinator's log.
func (c *Client) SendCommand(ctx context.Context, req CommandRequest) error {
	return c.postJSON(ctx, "/command", req, nil)
}

// CommandsSince returns retained commands with a timestamp strictly greater
// than since.
func (c *Client) CommandsSince(ctx context.Context, since int64) ([]CommandEntry, error) {
	q := url.Values{"since": []string{strconv.FormatInt(since, 10)}}
	var out []CommandEntry
	if err := c.getJSON(ctx, "/commands?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var status StatusResponse
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil {
			if json.Unmarshal(data, &status) == nil {
				apiErr.Message = status.Message
			}
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
