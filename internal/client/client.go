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
	"strings"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/pkg/middleware"
	"github.com/applytrack/applytrack/pkg/requestid"
	"github.com/applytrack/applytrack/pkg/version"
)

// Client calls the jobs endpoints of the API server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// APIError is a non-2xx answer of the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("server returned status %d: %s (%s)", e.StatusCode, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) ListJobs(ctx context.Context) ([]api.Job, error) {
	jobs := []api.Job{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (api.Job, error) {
	var job api.Job
	err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+url.PathEscape(id), nil, &job)
	return job, err
}

func (c *Client) CreateJob(ctx context.Context, create api.JobCreate) (api.Job, error) {
	var job api.Job
	err := c.do(ctx, http.MethodPost, "/api/v1/jobs", create, &job)
	return job, err
}

func (c *Client) UpdateJob(ctx context.Context, id string, update api.JobUpdate) (api.Job, error) {
	var job api.Job
	err := c.do(ctx, http.MethodPatch, "/api/v1/jobs/"+url.PathEscape(id), update, &job)
	return job, err
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	var result api.DeleteResult
	return c.do(ctx, http.MethodDelete, "/api/v1/jobs/"+url.PathEscape(id), nil, &result)
}

// Export downloads every job in the given format (xlsx or csv).
func (c *Client) Export(ctx context.Context, format string, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/v1/jobs/export?format="+url.QueryEscape(format), nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// Info returns the version of the server.
func (c *Client) Info(ctx context.Context) (version.Info, error) {
	var info version.Info
	err := c.do(ctx, http.MethodGet, "/api/v1/info", nil, &info)
	return info, err
}

func (c *Client) HealthCheck(ctx context.Context) error {
	var health api.Health
	return c.do(ctx, http.MethodGet, "/health", nil, &health)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.RequestIDHeader, requestid.Generate())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call applytrack api: %w", err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body api.Error
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Message = body.Message
	if body.Fields != nil {
		apiErr.Fields = *body.Fields
	}
	return apiErr
}
