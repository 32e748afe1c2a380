package handler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memberdoc/internal/convert"
	"memberdoc/internal/http/middleware"
	"memberdoc/internal/merge"
	"memberdoc/internal/model"
	"memberdoc/internal/service"
	serviceMocks "memberdoc/internal/service/mocks"
	"memberdoc/internal/template"
	tplMocks "memberdoc/internal/template/mocks"
)

const janeDoeJSON = `{"name":"Jane Doe","idCardNumber":"3201010101010001","email":"jane@example.com","phone":"+62 812 0000 0000","address":"Jl. Merdeka 1, Bandung"}`

var janeDoe = model.MemberRecord{
	Name:         "Jane Doe",
	IDCardNumber: "3201010101010001",
	Email:        "jane@example.com",
	Phone:        "+62 812 0000 0000",
	Address:      "Jl. Merdeka 1, Bandung",
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	tpl := new(tplMocks.MockSource)
	app := fiber.New()
	app.Get("/health", HealthCheck(tpl, db))

	t.Run("healthy", func(t *testing.T) {
		tpl.On("Check", mock.Anything).Return(nil).Once()
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("database down", func(t *testing.T) {
		tpl.On("Check", mock.Anything).Return(nil).Once()
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("template missing", func(t *testing.T) {
		tpl.On("Check", mock.Anything).Return(template.ErrTemplateUnavailable).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "template unavailable", decodeError(t, resp.Body).Error.Message)
	})

	t.Run("without database", func(t *testing.T) {
		tpl.On("Check", mock.Anything).Return(nil).Once()
		app := fiber.New()
		app.Get("/health", HealthCheck(tpl, nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
	tpl.AssertExpectations(t)
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateDocx(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Post("/api/generate-docx", GenerateDocx(mockSvc, nil))

	t.Run("success", func(t *testing.T) {
		content := []byte("PK\x03\x04docx")
		mockSvc.On("Generate", mock.Anything, janeDoe).Return(&service.GeneratedDocument{
			Filename:    "member-registration-Jane Doe.docx",
			ContentType: service.ContentTypeDocx,
			Content:     content,
		}, nil).Once()

		resp, err := app.Test(postJSON("/api/generate-docx", janeDoeJSON))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, service.ContentTypeDocx, resp.Header.Get("Content-Type"))
		assert.Equal(t,
			`attachment; filename="member-registration-Jane Doe.docx"; filename*=UTF-8''member-registration-Jane%20Doe.docx`,
			resp.Header.Get("Content-Disposition"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, content, body)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Generate", mock.Anything, janeDoe).Return(nil, service.ErrGeneration).Once()

		req := postJSON("/api/generate-docx", janeDoeJSON)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.Equal(t, "req-42", body.RequestID)
		assert.Equal(t, "GENERATION_FAILED", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(postJSON("/api/generate-docx", `{"name":`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "GENERATION_FAILED", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestPreviewDoc(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/api/preview-doc", PreviewDoc(mockSvc, nil))

	t.Run("success", func(t *testing.T) {
		pdf := []byte("%PDF-1.4")
		mockSvc.On("Preview", mock.Anything, janeDoe).Return(&service.GeneratedDocument{
			Filename:    "member-registration-Jane Doe.pdf",
			ContentType: service.ContentTypePDF,
			Content:     pdf,
		}, nil).Once()

		resp, err := app.Test(postJSON("/api/preview-doc", janeDoeJSON))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `inline; filename="member-registration-Jane Doe.pdf"`, resp.Header.Get("Content-Disposition"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, pdf, body)
	})

	t.Run("conversion error looks like any other failure", func(t *testing.T) {
		mockSvc.On("Preview", mock.Anything, janeDoe).
			Return(nil, errors.Join(service.ErrConversion, convert.ErrConverterNotFound)).Once()

		resp, _ := app.Test(postJSON("/api/preview-doc", janeDoeJSON))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "GENERATION_FAILED", decodeError(t, resp.Body).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestListGenerationEvents(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/api/generation-events", ListGenerationEvents(mockSvc, nil))

	t.Run("success", func(t *testing.T) {
		expected := &service.EventListResult{
			Items: []model.GenerationEvent{{ID: "e1", Kind: model.KindPDF, Status: model.StatusSuccess}},
			Total: 1,
		}
		mockSvc.On("ListEvents", mock.Anything, 10, 0).Return(expected, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/generation-events?limit=10&offset=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.EventListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/generation-events?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/generation-events?offset=x", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListEvents", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/generation-events", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

// TestMemberDocumentFlow drives the real service through the routes with the
// fixture template. Only the converter is faked.
func TestMemberDocumentFlow(t *testing.T) {
	tpl := template.NewFileSource(filepath.Join("..", "..", "merge", "testdata", "member-template.docx"))
	svc := service.NewDocumentService(service.Deps{
		Template:  tpl,
		Merger:    merge.NewDocxMerger(),
		Converter: convert.NewOfficeConverter("soffice", 0, convert.WithLookPath(func(string) (string, error) { return "", errors.New("not installed") })),
		TempDir:   t.TempDir(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, Deps{Documents: svc, Template: tpl})

	t.Run("Jane Doe download", func(t *testing.T) {
		resp, err := app.Test(postJSON("/api/generate-docx", janeDoeJSON))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "member-registration-Jane Doe.docx")
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_, err = zip.NewReader(bytes.NewReader(body), int64(len(body)))
		require.NoError(t, err, "body should be a zip archive")

		text, err := merge.ExtractText(body)
		require.NoError(t, err)
		assert.Contains(t, text, "Name: Jane Doe")
		assert.Contains(t, text, "Address: Jl. Merdeka 1, Bandung")
	})

	t.Run("missing field", func(t *testing.T) {
		resp, err := app.Test(postJSON("/api/generate-docx", `{"name":"Jane Doe","idCardNumber":"1","phone":"2","address":"3"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.NotEmpty(t, body.RequestID)
		assert.NotEmpty(t, body.Error.Message)
	})

	t.Run("preview without converter", func(t *testing.T) {
		resp, err := app.Test(postJSON("/api/preview-doc", janeDoeJSON))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("events without database", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/generation-events", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.EventListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Empty(t, result.Items)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockDocumentService)
	RegisterRoutes(app, Deps{Documents: mockSvc, Template: new(tplMocks.MockSource)})

	t.Run("form page", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "New Member Registration Form")
	})

	t.Run("openapi document", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "/api/generate-docx")
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})
}
