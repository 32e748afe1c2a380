package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"memberdoc/internal/model"
)

// State is the submission state of a Form.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// PreviewState is the state of the user-triggered PDF preview.
type PreviewState int

const (
	PreviewIdle PreviewState = iota
	PreviewLoading
	PreviewReady
)

func (s PreviewState) String() string {
	switch s {
	case PreviewLoading:
		return "loading-preview"
	case PreviewReady:
		return "preview-ready"
	default:
		return "idle"
	}
}

// ErrBusy is returned when an action is started while the same action is still running.
var ErrBusy = errors.New("request already in progress")

const successMessage = "Document generated and downloaded successfully!"

// Generator is the part of Client a Form drives.
type Generator interface {
	GenerateDocx(ctx context.Context, rec model.MemberRecord) (*Download, error)
	PreviewPDF(ctx context.Context, rec model.MemberRecord) (*Download, error)
}

// Form tracks one registration form: a submission state machine and an
// independent preview state machine. It is safe for concurrent use.
type Form struct {
	gen Generator

	mu      sync.Mutex
	state   State
	message string
	preview PreviewState
	pdf     *Download
}

// NewForm creates an idle Form backed by gen.
func NewForm(gen Generator) *Form {
	return &Form{gen: gen}
}

// Submit generates the document. It moves to submitting, then to success or
// error. A Submit while another is in flight returns ErrBusy.
func (f *Form) Submit(ctx context.Context, rec model.MemberRecord) (*Download, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.state = StateSubmitting
	f.message = ""
	f.mu.Unlock()

	doc, err := f.gen.GenerateDocx(ctx, rec)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.message = fmt.Sprintf("Failed to generate document. Please try again. %v", err)
		return nil, err
	}
	f.state = StateSuccess
	f.message = successMessage
	return doc, nil
}

// Reset returns a finished submission to idle and clears its message, as editing
// the form does. It returns ErrBusy while a submission is in flight.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return ErrBusy
	}
	f.state = StateIdle
	f.message = ""
	return nil
}

// Preview renders the PDF. A failed preview returns to PreviewIdle and sets the message.
func (f *Form) Preview(ctx context.Context, rec model.MemberRecord) (*Download, error) {
	f.mu.Lock()
	if f.preview == PreviewLoading {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.preview = PreviewLoading
	f.mu.Unlock()

	pdf, err := f.gen.PreviewPDF(ctx, rec)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.preview = PreviewIdle
		f.pdf = nil
		f.message = fmt.Sprintf("Failed to preview document. %v", err)
		return nil, err
	}
	f.preview = PreviewReady
	f.pdf = pdf
	return pdf, nil
}

// State returns the submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// PreviewState returns the preview state.
func (f *Form) PreviewState() PreviewState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

// Message is the status line shown to the user, empty when there is nothing to report.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// PreviewDocument returns the last successful preview, or nil.
func (f *Form) PreviewDocument() *Download {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pdf
}
