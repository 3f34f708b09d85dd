// Package client is an HTTP client for the dataset registry REST API, used by
// the registry CLI.
package client

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

	domain "dataset-registry-service/internal/domain/user"
)

// DefaultTimeout bounds every request unless WithHTTPClient overrides it.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// Client calls the registry REST API rooted at a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a Client for baseURL, e.g. "http://127.0.0.1:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("client: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: base URL %q must include scheme and host", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Message       string `json:"message"`
	Username      string `json:"username"`
	DatasetName   string `json:"dataset_name"`
	Filename      string `json:"filename"`
	RowsProcessed int    `json:"rows_processed"`
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register registers username.
func (c *Client) Register(ctx context.Context, username string) (*RegisterResponse, error) {
	body, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return nil, err
	}
	var out RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", bytes.NewReader(body), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns all registered users, sorted.
func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	var out struct {
		RegisteredUsers []string `json:"registered_users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/users/all", nil, "", &out); err != nil {
		return nil, err
	}
	return out.RegisteredUsers, nil
}

// Upload sends content as a CSV file named filename to be stored as
// datasetName under username.
func (c *Client) Upload(ctx context.Context, username, datasetName, filename string, content io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("client: read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out UploadResponse
	path := "/users/" + url.PathEscape(username) + "/data/" + url.PathEscape(datasetName)
	if err := c.doJSON(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDatasets returns the dataset names of username, sorted.
func (c *Client) ListDatasets(ctx context.Context, username string) ([]string, error) {
	var out struct {
		AvailableDatasets []string `json:"available_datasets"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(username)+"/datasets", nil, "", &out); err != nil {
		return nil, err
	}
	return out.AvailableDatasets, nil
}

// GetDataset returns the rows of a dataset in upload order.
func (c *Client) GetDataset(ctx context.Context, username, datasetName string) ([]domain.Record, error) {
	var out []domain.Record
	path := "/users/" + url.PathEscape(username) + "/data/" + url.PathEscape(datasetName)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Record{}
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// decodeError reads the service error body, falling back to the raw text.
func decodeError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Kind = payload.Error
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
