// Package client talks to the member document HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"memberdoc/internal/model"
)

const (
	generatePath = "/api/generate-docx"
	previewPath  = "/api/preview-doc"

	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
)

// ErrRequestFailed is matched by every non-2xx answer from the API.
var ErrRequestFailed = errors.New("request failed")

// APIError is the decoded error envelope of a failed request.
type APIError struct {
	StatusCode int
	RequestID  string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%d %s (request_id=%s)", e.StatusCode, msg, e.RequestID)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Download is a document returned by the API.
type Download struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Client calls the member document API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateDocx requests the merged .docx for rec.
func (c *Client) GenerateDocx(ctx context.Context, rec model.MemberRecord) (*Download, error) {
	return c.post(ctx, generatePath, docxContentType, rec, "member-registration.docx")
}

// PreviewPDF requests the PDF rendering of rec.
func (c *Client) PreviewPDF(ctx context.Context, rec model.MemberRecord) (*Download, error) {
	return c.post(ctx, previewPath, pdfContentType, rec, "member-registration.pdf")
}

func (c *Client) post(ctx context.Context, path, accept string, rec model.MemberRecord, fallback string) (*Download, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, content)
	}

	return &Download{
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition"), fallback),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.RequestID = payload.RequestID
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	}
	return apiErr
}
