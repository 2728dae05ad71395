package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pasteboard/internal/broadcast"
	"pasteboard/internal/models"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "PASTEBOARD_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the pasteboard API, used by the CLI
// commands.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, &resp)
	return resp, err
}

// List fetches the full snapshot, newest first.
func (c *Client) List(ctx context.Context) ([]models.Entry, error) {
	var resp []models.Entry
	err := c.do(ctx, http.MethodGet, "/content", nil, &resp)
	return resp, err
}

// Get fetches one entry by id.
func (c *Client) Get(ctx context.Context, id int64) (models.Entry, error) {
	var resp models.Entry
	err := c.do(ctx, http.MethodGet, "/content/"+strconv.FormatInt(id, 10), nil, &resp)
	return resp, err
}

// PasteText submits raw text and returns the stored entry.
func (c *Client) PasteText(ctx context.Context, content string) (models.Entry, error) {
	var resp models.Entry
	err := c.do(ctx, http.MethodPost, "/content/text", TextCreateRequest{Content: content}, &resp)
	return resp, err
}

// UploadFile submits one file and returns the stored entries.
func (c *Client) UploadFile(ctx context.Context, path string) ([]models.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/content/file", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	var entries []models.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes one entry by id.
func (c *Client) Delete(ctx context.Context, id int64) (DeleteResponse, error) {
	var resp DeleteResponse
	err := c.do(ctx, http.MethodDelete, "/content/"+strconv.FormatInt(id, 10), nil, &resp)
	return resp, err
}

// DeleteAll removes every entry.
func (c *Client) DeleteAll(ctx context.Context) (DeleteAllResponse, error) {
	var resp DeleteAllResponse
	err := c.do(ctx, http.MethodDelete, "/content", nil, &resp)
	return resp, err
}

// Sweep runs the orphan-blob sweep. With apply=false the server only
// reports candidates.
func (c *Client) Sweep(ctx context.Context, apply bool) (SweepResponse, error) {
	var resp SweepResponse
	query := url.Values{}
	if apply {
		query.Set("apply", "true")
	}
	endpoint := "/v1/admin/sweep"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp, err
}

// Watch follows the realtime event stream, invoking handle for every
// event until the context is canceled or the stream ends.
func (c *Client) Watch(ctx context.Context, handle func(broadcast.Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The watch client holds one long-lived connection; the shared
	// client's request timeout would cut it off.
	stream := &http.Client{}
	resp, err := stream.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var eventType string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// Heartbeat comment.
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			var event broadcast.Event
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				return fmt.Errorf("decode event payload: %w", err)
			}
			if eventType != "" {
				event.Type = broadcast.EventType(eventType)
			}
			handle(event)
			eventType = ""
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// APIError is a structured error decoded from a server error response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{Status: resp.StatusCode, Code: errResp.Code, Message: errResp.Error}
	}
	return &APIError{Status: resp.StatusCode, Message: "api error: " + resp.Status}
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
