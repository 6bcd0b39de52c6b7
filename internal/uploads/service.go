// Package uploads manages documents on the chat backend: multipart upload,
// listing and deletion.
package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/markdave123-py/chatdesk/internal/apierr"
	"github.com/markdave123-py/chatdesk/internal/models"
)

const DefaultBaseURL = "http://localhost:8001"

// Service is bound to one backend and holds configuration only.
type Service struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Service)

func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(baseURL string, opts ...Option) *Service {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	s := &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadFile sends r as the single "file" field of a multipart form.
func (s *Service) UploadFile(ctx context.Context, filename string, r io.Reader) (*models.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var out models.UploadResponse
	if err := s.send(ctx, http.MethodPost, "/upload-documents", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPath uploads a local file under its base name.
func (s *Service) UploadPath(ctx context.Context, path string) (*models.UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.UploadFile(ctx, filepath.Base(path), f)
}

func (s *Service) GetDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	var out []models.DocumentInfo
	if err := s.send(ctx, http.MethodGet, "/documents", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteDocument(ctx context.Context, fileID int64) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := s.send(ctx, http.MethodDelete, "/documents/"+strconv.FormatInt(fileID, 10), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile is an alias of DeleteDocument.
func (s *Service) DeleteFile(ctx context.Context, fileID int64) (*models.MessageResponse, error) {
	return s.DeleteDocument(ctx, fileID)
}

// GetUploadedFiles lists documents in the file-list shape. The backend does
// not report document sizes, so Size is always 0.
func (s *Service) GetUploadedFiles(ctx context.Context) ([]models.UploadedFile, error) {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	files := make([]models.UploadedFile, 0, len(docs))
	for _, doc := range docs {
		uploaded, err := parseTimestamp(doc.UploadTimestamp)
		if err != nil {
			s.logger.Warn("Unparseable upload timestamp", "id", doc.ID, "timestamp", doc.UploadTimestamp)
		}
		files = append(files, models.UploadedFile{
			ID:         doc.ID,
			Name:       doc.Filename,
			Size:       0,
			UploadTime: uploaded,
		})
	}
	return files, nil
}

// ScanDirectory is not backed by any filesystem integration yet and always
// fails with apierr.ErrNotImplemented.
func (s *Service) ScanDirectory(_ context.Context, path string) (models.DirectoryScan, error) {
	return models.DirectoryScan{}, fmt.Errorf("scan directory %q: %w", path, apierr.ErrNotImplemented)
}

func (s *Service) send(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	err := s.do(ctx, method, endpoint, body, contentType, out)
	if err != nil {
		s.logger.Error("Upload service request failed", "endpoint", endpoint, "method", method, "error", err)
	}
	return err
}

func (s *Service) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &apierr.TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := apierr.ReadDetail(resp.Body)
		statusText := apierr.StatusText(resp)
		return &apierr.HTTPError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			StatusText: statusText,
			Detail:     detail,
			Message:    apierr.GenericMessage(resp.StatusCode, statusText, detail),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// parseTimestamp reads the backend's upload timestamps. Zone-less values are
// taken as local time.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
