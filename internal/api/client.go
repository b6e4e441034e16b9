// Package api provides the HTTP client for the URL-to-knowledge-base
// plugin endpoints of the conversion server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	submitPath      = "/api/plug/url_2_kb/add"
	statusPath      = "/api/plug/url_2_kb/status"
	uploadPath      = "/api/plug/alkaid/kb/collection/add_file"
	collectionsPath = "/api/plug/alkaid/kb/collections"
)

// Task status values reported by the status endpoint. Anything outside
// this set keeps a task in progress.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Client talks to the conversion server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// DefaultBaseURL is used when no server URL is configured anywhere.
const DefaultBaseURL = "http://localhost:6185"

// New creates a client for the given server base URL.
// If baseURL is empty, uses the URL2KB_SERVER_URL env var or DefaultBaseURL.
// Per-request timeout can be configured via URL2KB_CLIENT_TIMEOUT (default 1m).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("URL2KB_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := time.Minute
	if t := os.Getenv("URL2KB_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the server base URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusResponse is the raw response of a status query. Result stays raw
// because its shape depends on Status: a human-readable reason when the
// task failed, a result document when it completed.
type StatusResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// postJSON sends a JSON payload and decodes the JSON response into result.
func (c *Client) postJSON(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := serverMessage(data); msg != "" {
			return fmt.Errorf("server error: %s", msg)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// serverMessage pulls the message field out of an error body, if any.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}

// SubmitImport starts a URL conversion task and returns its task id.
// The payload carries the url plus whatever import options the caller
// chose to send; the server validates them.
func (c *Client) SubmitImport(ctx context.Context, payload map[string]any) (string, error) {
	var resp struct {
		TaskID  string `json:"task_id"`
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, submitPath, payload, &resp); err != nil {
		return "", fmt.Errorf("submit import: %w", err)
	}
	if resp.TaskID == "" {
		if resp.Message != "" {
			return "", fmt.Errorf("submit import: %s", resp.Message)
		}
		return "", fmt.Errorf("submit import: server returned no task id")
	}
	return resp.TaskID, nil
}

// TaskStatus queries the lifecycle state of a conversion task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.postJSON(ctx, statusPath, map[string]any{"task_id": taskID}, &resp); err != nil {
		return nil, fmt.Errorf("task status: %w", err)
	}
	return &resp, nil
}

// UploadChunk stores one text chunk into a collection as a multipart file
// attachment. chunk_size is forwarded only when positive and chunk_overlap
// only when non-negative; the server applies its own defaults otherwise.
func (c *Client) UploadChunk(ctx context.Context, collection, filename, content string, chunkSize, chunkOverlap *int) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("upload chunk: %w", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		return fmt.Errorf("upload chunk: %w", err)
	}
	if err := w.WriteField("collection_name", collection); err != nil {
		return fmt.Errorf("upload chunk: %w", err)
	}
	if chunkSize != nil && *chunkSize > 0 {
		if err := w.WriteField("chunk_size", strconv.Itoa(*chunkSize)); err != nil {
			return fmt.Errorf("upload chunk: %w", err)
		}
	}
	if chunkOverlap != nil && *chunkOverlap >= 0 {
		if err := w.WriteField("chunk_overlap", strconv.Itoa(*chunkOverlap)); err != nil {
			return fmt.Errorf("upload chunk: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload chunk: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return fmt.Errorf("upload chunk: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload chunk: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upload chunk: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if msg := serverMessage(data); msg != "" {
			return fmt.Errorf("upload chunk: %s", msg)
		}
		return fmt.Errorf("upload chunk: server error: %s", resp.Status)
	}

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("upload chunk: unmarshal response: %w", err)
	}
	if body.Status != "ok" {
		if body.Message != "" {
			return fmt.Errorf("upload chunk: %s", body.Message)
		}
		return fmt.Errorf("upload chunk: server returned status %q", body.Status)
	}
	return nil
}

// ListCollections returns the names of the knowledge-base collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+collectionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list collections: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if msg := serverMessage(data); msg != "" {
			return nil, fmt.Errorf("list collections: %s", msg)
		}
		return nil, fmt.Errorf("list collections: server error: %s", resp.Status)
	}

	var body struct {
		Collections []string `json:"collections"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("list collections: unmarshal response: %w", err)
	}
	return body.Collections, nil
}
