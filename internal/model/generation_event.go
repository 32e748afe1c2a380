package model

import "time"

// Document kinds produced by the service.
const (
	KindDocx = "docx"
	KindPDF  = "pdf"
)

// Generation outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// GenerationEvent is an anonymous record of one generation attempt.
// It intentionally carries no member field values.
type GenerationEvent struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
