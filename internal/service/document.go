package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"memberdoc/internal/convert"
	"memberdoc/internal/logger"
	"memberdoc/internal/merge"
	"memberdoc/internal/model"
	"memberdoc/internal/repository"
	"memberdoc/internal/template"
	"memberdoc/internal/workspace"
)

var (
	// ErrGeneration covers every failure to produce the merged document.
	ErrGeneration = errors.New("document generation failed")
	// ErrConversion covers every failure to turn the merged document into a PDF.
	ErrConversion = errors.New("document conversion failed")
	// ErrInvalidRecord is returned alongside ErrGeneration when required fields are missing.
	ErrInvalidRecord = errors.New("invalid member record")
)

const (
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF  = "application/pdf"
)

// GeneratedDocument is a finished document ready to be streamed to the client.
type GeneratedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EventListResult is the service-level DTO for paginated generation events.
type EventListResult struct {
	Items []model.GenerationEvent `json:"data"`
	Total int                     `json:"total"`
}

// DocumentService defines the member document use cases.
type DocumentService interface {
	// Generate merges rec into the member template and returns the .docx.
	Generate(ctx context.Context, rec model.MemberRecord) (*GeneratedDocument, error)

	// Preview merges rec, converts the result to PDF through temporary files and
	// returns the PDF. Temporary files are removed before it returns.
	Preview(ctx context.Context, rec model.MemberRecord) (*GeneratedDocument, error)

	// ListEvents returns recorded generation events using limit/offset and a total count.
	ListEvents(ctx context.Context, limit, offset int) (*EventListResult, error)
}

// Deps groups the collaborators of the document service.
// Events and Metrics are optional.
type Deps struct {
	Template  template.Source
	Merger    merge.Merger
	Converter convert.Converter
	Events    repository.GenerationEventRepository
	Metrics   *Metrics
	TempDir   string
	Logger    *zap.Logger
}

type documentService struct {
	template  template.Source
	merger    merge.Merger
	converter convert.Converter
	events    repository.GenerationEventRepository
	metrics   *Metrics
	tempDir   string
	log       *zap.Logger
	validate  *validator.Validate
	tracer    trace.Tracer
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(d Deps) DocumentService {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &documentService{
		template:  d.Template,
		merger:    d.Merger,
		converter: d.Converter,
		events:    d.Events,
		metrics:   d.Metrics,
		tempDir:   d.TempDir,
		log:       log,
		validate:  newValidator(),
		tracer:    otel.Tracer("memberdoc/internal/service"),
	}
}

func (s *documentService) Generate(ctx context.Context, rec model.MemberRecord) (*GeneratedDocument, error) {
	start := time.Now()

	doc, err := s.merge(ctx, rec)
	s.record(ctx, model.KindDocx, start, int64(len(doc)), err)
	if err != nil {
		return nil, err
	}

	return &GeneratedDocument{
		Filename:    DocxFilename(rec.Name),
		ContentType: ContentTypeDocx,
		Content:     doc,
	}, nil
}

func (s *documentService) Preview(ctx context.Context, rec model.MemberRecord) (*GeneratedDocument, error) {
	start := time.Now()

	pdf, err := s.preview(ctx, rec)
	s.record(ctx, model.KindPDF, start, int64(len(pdf)), err)
	if err != nil {
		return nil, err
	}

	return &GeneratedDocument{
		Filename:    PDFFilename(rec.Name),
		ContentType: ContentTypePDF,
		Content:     pdf,
	}, nil
}

func (s *documentService) preview(ctx context.Context, rec model.MemberRecord) ([]byte, error) {
	doc, err := s.merge(ctx, rec)
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Acquire(s.tempDir, logger.WithContext(ctx, s.log))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	defer ws.Release()

	in, err := ws.WriteFile(".docx", doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	out := ws.Path(".pdf")

	ctx, span := s.tracer.Start(ctx, "document.convert",
		trace.WithAttributes(attribute.String("workspace.id", ws.ID())))
	defer span.End()

	convStart := time.Now()
	err = s.converter.ToPDF(ctx, in, out)
	s.metrics.observeConversion(time.Since(convStart))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "conversion failed")
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	pdf, err := os.ReadFile(out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read output failed")
		return nil, fmt.Errorf("%w: read output: %w", ErrConversion, err)
	}
	span.SetAttributes(attribute.Int("document.size", len(pdf)))
	return pdf, nil
}

// merge validates rec, loads the template and substitutes the record fields.
func (s *documentService) merge(ctx context.Context, rec model.MemberRecord) ([]byte, error) {
	if err := s.validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrGeneration, ErrInvalidRecord, formatValidationError(err))
	}

	ctx, span := s.tracer.Start(ctx, "template.merge",
		trace.WithAttributes(attribute.String("template.source", s.template.String())))
	defer span.End()

	tpl, err := s.template.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "template load failed")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	doc, err := s.merger.Merge(tpl, rec.Fields())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "merge failed")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	span.SetAttributes(attribute.Int("document.size", len(doc)))
	return doc, nil
}

// record updates metrics and stores an anonymous generation event.
// Storage failures are logged and never reach the caller.
func (s *documentService) record(ctx context.Context, kind string, start time.Time, size int64, err error) {
	status := model.StatusSuccess
	if err != nil {
		status = model.StatusFailed
	}
	s.metrics.observeGeneration(kind, status)

	log := logger.WithContext(ctx, s.log)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("document generation failed",
			zap.String("kind", kind),
			zap.String("error_kind", errorKind(err)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	} else {
		log.Info("document generated",
			zap.String("kind", kind),
			zap.Int64("size_bytes", size),
			zap.Duration("duration", elapsed),
		)
	}

	if s.events == nil {
		return
	}
	ev := &model.GenerationEvent{
		ID:         uuid.NewString(),
		RequestID:  logger.RequestID(ctx),
		Kind:       kind,
		Status:     status,
		ErrorKind:  errorKind(err),
		SizeBytes:  size,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if _, cerr := s.events.Create(ctx, ev); cerr != nil {
		log.Warn("record generation event failed", zap.Error(cerr))
	}
}

// ListEvents returns paginated events without exposing repository types.
func (s *documentService) ListEvents(ctx context.Context, limit, offset int) (*EventListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	if s.events == nil {
		return &EventListResult{Items: []model.GenerationEvent{}}, nil
	}

	res, err := s.events.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := res.Items
	if items == nil {
		items = []model.GenerationEvent{}
	}
	return &EventListResult{Items: items, Total: res.Total}, nil
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConversion):
		return "conversion"
	default:
		return "generation"
	}
}
