package client

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

	"ishe/internal/api"
	"ishe/internal/config"
	"ishe/internal/journal"
	"ishe/internal/recordings"
	"ishe/internal/services"
)

// HTTPDoer describes the HTTP client used to reach the server.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultTimeout = 30 * time.Second

// Client is a thin typed wrapper over the recording server API.
type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
}

// New builds a client for baseURL. An empty token sends no Authorization header.
func New(baseURL, token string) *Client {
	return NewWithHTTP(baseURL, token, &http.Client{Timeout: defaultTimeout})
}

// NewWithHTTP builds a client around a caller-supplied HTTP implementation.
func NewWithHTTP(baseURL, token string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    doer,
	}
}

// FromConfig builds a client from the [server] section.
func FromConfig(cfg *config.Config) *Client {
	return New(cfg.Server.URL, cfg.Server.Token)
}

// BaseURL returns the server address the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// StatusError is a non-2xx reply the client could not map to a sentinel.
type StatusError struct {
	Code      int
	Message   string
	Kind      string
	RequestID string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("server returned %d: %s (request %s)", e.Code, msg, e.RequestID)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, msg)
}

// ErrorKind reports the kind the server attached to the error.
func (e *StatusError) ErrorKind() string { return e.Kind }

// Status fetches the server status.
func (c *Client) Status(ctx context.Context) (api.Status, error) {
	var out api.Status
	err := c.getJSON(ctx, "/api/status", &out)
	return out, err
}

// List returns the server's recordings sorted by name.
func (c *Client) List(ctx context.Context) ([]api.Recording, error) {
	var out api.RecordingList
	if err := c.getJSON(ctx, "/api/recordings", &out); err != nil {
		return nil, err
	}
	return out.Recordings, nil
}

// Upload stores data under name on the server.
func (c *Client) Upload(ctx context.Context, name string, data []byte) error {
	if err := recordings.ValidateName(name); err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPut, recordingPath(name), bytes.NewReader(data), "text/csv")
	if err != nil {
		return err
	}
	defer drain(resp)
	return checkStatus(resp, name)
}

// Delete removes one recording from the server.
func (c *Client) Delete(ctx context.Context, name string) error {
	resp, err := c.do(ctx, http.MethodDelete, recordingPath(name), nil, "")
	if err != nil {
		return err
	}
	defer drain(resp)
	return checkStatus(resp, name)
}

// Download returns the bytes of one recording.
func (c *Client) Download(ctx context.Context, name string) ([]byte, error) {
	return c.getBytes(ctx, recordingPath(name), name)
}

// Bundle downloads the ZIP of every recording on the server.
func (c *Client) Bundle(ctx context.Context) ([]byte, error) {
	return c.getBytes(ctx, "/api/bundle", "")
}

// Journal returns up to limit recent server mutations, newest first.
func (c *Client) Journal(ctx context.Context, limit int) ([]api.JournalEntry, error) {
	if limit <= 0 {
		limit = journal.DefaultLimit
	}
	var out api.JournalList
	if err := c.getJSON(ctx, "/api/journal?limit="+strconv.Itoa(limit), &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func recordingPath(name string) string {
	return "/api/recordings/" + url.PathEscape(name)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "contact server", c.baseURL, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer drain(resp)
	if err := checkStatus(resp, ""); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getBytes(ctx context.Context, path, name string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	if err := checkStatus(resp, name); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "read response", path, err)
	}
	return data, nil
}

// checkStatus maps error replies onto local sentinels.
func checkStatus(resp *http.Response, name string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var payload api.Error
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(body))
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if payload.Kind == api.KindInvalidName || (payload.Kind == "" && name != "") {
			return fmt.Errorf("%w %q: %s", recordings.ErrInvalidName, name, payload.Error)
		}
		return fmt.Errorf("%w: %s", services.ErrValidation, payload.Error)
	case http.StatusNotFound:
		if name != "" {
			return fmt.Errorf("%w: %s", recordings.ErrNotFound, name)
		}
	}
	return &StatusError{
		Code:      resp.StatusCode,
		Message:   payload.Error,
		Kind:      payload.Kind,
		RequestID: payload.RequestID,
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized
}
