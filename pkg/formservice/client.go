// Package formservice is the typed client for the form service endpoints the
// fieldset pipeline depends on: template upload (which performs server-side
// variable extraction), fieldset persistence, and form re-fetch.
package formservice

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
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-fieldsets/pkg/extract"
	"github.com/goliatone/go-fieldsets/pkg/model"
)

// StatusSuccess and StatusHasErrors are the upload outcomes the service
// reports.
const (
	StatusSuccess   = "success"
	StatusHasErrors = "has_errors"
)

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request with a context deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithAuthToken attaches a bearer token to every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = strings.TrimSpace(token)
	}
}

// WithContractValidation toggles validating fieldset payloads against the
// embedded service contract before they are sent. Enabled by default.
func WithContractValidation(enabled bool) Option {
	return func(c *Client) {
		c.validatePayloads = enabled
	}
}

// Client talks to the form service. Calls are plain request/response with no
// retries; recoverable failures come back as *APIError so callers can surface
// field-level validation feedback and let the operator retry.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	timeout          time.Duration
	authToken        string
	validatePayloads bool
}

// New constructs a Client for the given base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("formservice: base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("formservice: invalid base url: %w", err)
	}

	c := &Client{
		baseURL:          trimmed,
		httpClient:       http.DefaultClient,
		validatePayloads: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// UploadResult is the upload endpoint's response. ExtractionResults is only
// present on success.
type UploadResult struct {
	Status            string          `json:"status"`
	Message           string          `json:"message,omitempty"`
	ExtractionResults *extract.Result `json:"extraction_results,omitempty"`
	FileLocation      string          `json:"file_location,omitempty"`
	Filename          string          `json:"filename,omitempty"`
	FileSize          int64           `json:"file_size,omitempty"`
	UploadTimestamp   string          `json:"upload_timestamp,omitempty"`
}

// Form is the read model of the owning form resource, narrowed to the members
// the review workflow needs.
type Form struct {
	ID        string              `json:"id"`
	Name      string              `json:"name,omitempty"`
	Fieldsets model.Configuration `json:"fieldsets,omitempty"`
}

// UploadTemplate uploads a Word template for server-side variable extraction.
// The file type is checked client-side before any bytes move: only .doc and
// .docx are accepted. A has_errors status from the service is returned as an
// error carrying the service's message verbatim.
func (c *Client) UploadTemplate(ctx context.Context, formID, filename string, file io.Reader) (UploadResult, error) {
	if err := requireFormID(formID); err != nil {
		return UploadResult{}, err
	}
	if !AcceptsTemplateFile(filename) {
		return UploadResult{}, fmt.Errorf("formservice: unsupported template file %q, expected .doc or .docx", filename)
	}
	if file == nil {
		return UploadResult{}, errors.New("formservice: template file reader is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("template", path.Base(filename))
	if err != nil {
		return UploadResult{}, fmt.Errorf("formservice: build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, fmt.Errorf("formservice: read template file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("formservice: build upload body: %w", err)
	}

	var result UploadResult
	err = c.do(ctx, http.MethodPost, "/forms/"+url.PathEscape(formID)+"/template", &body, writer.FormDataContentType(), &result)
	if err != nil {
		return UploadResult{}, err
	}

	if result.Status == StatusHasErrors {
		message := strings.TrimSpace(result.Message)
		if message == "" {
			message = "template extraction failed"
		}
		return result, fmt.Errorf("formservice: %s", message)
	}
	return result, nil
}

// UpdateFieldsets persists the whole configuration in one call via
// PUT /forms/{id}/fieldsets. When contract validation is enabled the payload
// is checked against the embedded OpenAPI contract first, so shape drift is
// caught at the boundary instead of as an opaque 4xx.
func (c *Client) UpdateFieldsets(ctx context.Context, formID string, cfg model.Configuration) error {
	if err := requireFormID(formID); err != nil {
		return err
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("formservice: encode fieldsets: %w", err)
	}
	if c.validatePayloads {
		if err := validateFieldsetPayload(payload); err != nil {
			return err
		}
	}

	return c.do(ctx, http.MethodPut, "/forms/"+url.PathEscape(formID)+"/fieldsets", bytes.NewReader(payload), "application/json", nil)
}

// Form re-fetches the owning form resource, typically right after a
// successful save when the local configuration copy has gone stale.
func (c *Client) Form(ctx context.Context, formID string) (Form, error) {
	if err := requireFormID(formID); err != nil {
		return Form{}, err
	}
	var form Form
	if err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(formID), nil, "", &form); err != nil {
		return Form{}, err
	}
	return form, nil
}

// AcceptsTemplateFile reports whether the filename passes the client-side
// extension check applied before upload.
func AcceptsTemplateFile(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".doc", ".docx":
		return true
	default:
		return false
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	if ctx == nil {
		return errors.New("formservice: context is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("formservice: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("formservice: %s %s: %w", method, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("formservice: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("formservice: decode response: %w", err)
	}
	return nil
}

func requireFormID(formID string) error {
	if strings.TrimSpace(formID) == "" {
		return errors.New("formservice: form id is required")
	}
	return nil
}
