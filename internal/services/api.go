// API service for making raw HTTP requests to the catalog backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// TokenSource provides the bearer token attached to authenticated requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to [TokenSource].
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// APIService provides methods for making raw HTTP requests to the catalog backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewAPIService creates a new API service instance for the catalog backend.
func NewAPIService(baseURL string, client *http.Client, tokens TokenSource) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:3001/api"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
		tokens:     tokens,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response carries a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorMessage extracts a human-readable error from a failed response body.
// The backend is inconsistent here too: errors arrive under "message" or
// "error". Falls back to the HTTP status.
func (r *APIResponse) ErrorMessage() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("status %d", r.StatusCode)
}

// do performs a request against the backend, attaching the bearer token when
// one is available, and wraps the raw response.
func (a *APIService) do(ctx context.Context, method, path, contentType string, body io.Reader) (*APIResponse, error) {
	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.tokens != nil {
		if token := a.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, "", nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data))
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(data))
}

// Delete performs a DELETE request to the specified path and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, "", nil)
}

// MultipartFile describes an optional file attachment for form submissions.
type MultipartFile struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// SubmitForm performs a multipart/form-data request (POST or PUT) with the
// given string fields and optional file attachment. Used by profile
// create/update, which the backend only accepts as form data.
func (a *APIService) SubmitForm(ctx context.Context, method, path string, fields map[string]string, file *MultipartFile) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if file != nil && file.Reader != nil {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return nil, fmt.Errorf("failed to copy form file: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	return a.do(ctx, method, path, writer.FormDataContentType(), &buf)
}
