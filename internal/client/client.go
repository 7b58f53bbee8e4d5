// Package client talks to the form filling HTTP backend.
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

	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// DefaultBaseURL is where the backend listens by default
const DefaultBaseURL = "http://127.0.0.1:8004"

// DefaultTimeout bounds one backend request
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.Status, e.Message)
}

// Health is the backend status report
type Health struct {
	Status               string   `json:"status"                yaml:"status"`
	Version              string   `json:"version"               yaml:"version"`
	Features             []string `json:"features"              yaml:"features"`
	OpenRouterConfigured bool     `json:"openrouter_configured" yaml:"openrouter_configured"`
}

// Upload is the result of sending a PDF
type Upload struct {
	SessionID   string `json:"session_id"`
	TotalFields int    `json:"total_fields"`
	Message     string `json:"message"`
}

// Question is one question of a session, numbered from 1
type Question struct {
	Text        string `json:"text"        yaml:"text"`
	Explanation string `json:"explanation" yaml:"explanation"`
	FieldName   string `json:"field_name"  yaml:"field_name"`
	Current     int    `json:"current"     yaml:"current"`
	Total       int    `json:"total"       yaml:"total"`
}

// Turn is the backend's answer to start-session and next-question
type Turn struct {
	SessionID string    `json:"session_id"`
	Question  *Question `json:"question"`
	Completed bool      `json:"completed"`
}

// FieldSummary describes one field of an analyzed website form
type FieldSummary struct {
	Name  string `json:"name"  yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type"  yaml:"type"`
}

// Analysis is the result of analyze-website-form
type Analysis struct {
	SessionID   string         `json:"session_id"`
	FormType    string         `json:"form_type"`
	TotalFields int            `json:"total_fields"`
	Fields      []FieldSummary `json:"fields"`
}

// FieldValues are the answers collected by a website session
type FieldValues struct {
	Success bool              `json:"success"      yaml:"success"`
	Values  webform.AnswerMap `json:"field_values" yaml:"field_values"`
	Message string            `json:"message"      yaml:"message"`
}

// Client is a backend client. The zero value is not usable; call New.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New returns a client for the backend at baseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the backend is up
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPDF sends a PDF form and opens a session for it
func (c *Client) UploadPDF(ctx context.Context, filename string, data []byte) (*Upload, error) {
	var out Upload
	if err := c.upload(ctx, "/upload-pdf", filename, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSession rewinds a session and returns its first question
func (c *Client) StartSession(ctx context.Context, sessionID string) (*Turn, error) {
	var out Turn
	err := c.postJSON(ctx, "/start-session", map[string]string{"session_id": sessionID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NextQuestion records answer for the current field and moves on. A nil
// answer skips the field.
func (c *Client) NextQuestion(ctx context.Context, sessionID string, answer *webform.Answer) (*Turn, error) {
	body := struct {
		SessionID string          `json:"session_id"`
		Answer    *webform.Answer `json:"answer"`
	}{SessionID: sessionID, Answer: answer}

	var out Turn
	if err := c.postJSON(ctx, "/next-question", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GeneratePDF returns the filled PDF. The backend ends the session.
func (c *Client) GeneratePDF(ctx context.Context, sessionID string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"session_id": sessionID})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodPost, "/generate-pdf", bytes.NewReader(payload), "application/json", &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AnalyzeWebsiteForm opens a session for website form markup. forms may
// carry an already computed report and is optional.
func (c *Client) AnalyzeWebsiteForm(ctx context.Context, formHTML string, forms []webform.FormDescriptor,
) (*Analysis, error) {
	body := struct {
		FormHTML  string                   `json:"form_html"`
		FormsData []webform.FormDescriptor `json:"forms_data,omitempty"`
	}{FormHTML: formHTML, FormsData: forms}

	var out Analysis
	if err := c.postJSON(ctx, "/analyze-website-form", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FillWebsiteForm returns the answers of a website session
func (c *Client) FillWebsiteForm(ctx context.Context, sessionID string) (*FieldValues, error) {
	var out FieldValues
	err := c.postJSON(ctx, "/fill-website-form", map[string]string{"session_id": sessionID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage attaches an image to fieldName of a session
func (c *Client) UploadImage(ctx context.Context, sessionID, fieldName, filename string, data []byte) error {
	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("field_name", fieldName)
	return c.upload(ctx, "/upload-image?"+q.Encode(), filename, data, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) upload(ctx context.Context, path, filename string, data []byte, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

// do sends one request. out may be nil, a *bytes.Buffer for raw bodies or
// a value to decode JSON into.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *bytes.Buffer:
		_, err = dst.ReadFrom(resp.Body)
	default:
		err = json.NewDecoder(resp.Body).Decode(dst)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}
	return nil
}

// IsNotFound reports whether err is the backend's 404 for an unknown session
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
