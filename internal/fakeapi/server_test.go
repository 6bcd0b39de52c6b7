package fakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/chatdesk/internal/models"
)

func newTestRouter(t *testing.T, opts Options) (http.Handler, *Store) {
	t.Helper()
	if opts.Store == nil {
		opts.Store = NewStore()
		opts.Store.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }
	}
	opts.Quiet = true
	return NewRouter(opts), opts.Store
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestChat(t *testing.T) {
	t.Run("generates conversation and records both turns", func(t *testing.T) {
		h, store := newTestRouter(t, Options{})

		rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[models.ChatResponse](t, rec)
		assert.Equal(t, "[gpt-3.5-turbo] hi", resp.Message)
		assert.Equal(t, "gpt-3.5-turbo", resp.ModelUsed)
		assert.NotEmpty(t, resp.ConversationID)
		assert.Equal(t, "2025-03-01T09:30:00.000000", resp.Timestamp)

		history := store.Messages(resp.ConversationID)
		require.Len(t, history, 2)
		assert.True(t, history[0].FromUser)
		assert.Equal(t, "hi", history[0].Content)
		assert.False(t, history[1].FromUser)
	})

	t.Run("responder receives prior turns", func(t *testing.T) {
		var seen []models.ChatMessage
		h, _ := newTestRouter(t, Options{Responder: ResponderFunc(func(_ context.Context, _ string, history []models.ChatMessage, _ string) (string, error) {
			seen = history
			return "ok", nil
		})})

		body := `{"message":"first","conversation_id":"c1","model_name":"gpt-4"}`
		require.Equal(t, http.StatusOK, serve(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))).Code)
		body = `{"message":"second","conversation_id":"c1","model_name":"gpt-4"}`
		require.Equal(t, http.StatusOK, serve(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))).Code)

		require.Len(t, seen, 2)
		assert.Equal(t, "first", seen[0].Content)
		assert.Equal(t, "ok", seen[1].Content)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		h, _ := newTestRouter(t, Options{})
		rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"  "}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "message must not be empty", decode[map[string]string](t, rec)["detail"])
	})

	t.Run("responder status error is passed through", func(t *testing.T) {
		h, _ := newTestRouter(t, Options{Responder: ResponderFunc(func(context.Context, string, []models.ChatMessage, string) (string, error) {
			return "", &StatusError{Status: http.StatusPaymentRequired, Detail: "quota exhausted"}
		})})
		rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`)))
		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "quota exhausted", decode[map[string]string](t, rec)["detail"])
	})
}

func TestConversationEndpoints(t *testing.T) {
	h, store := newTestRouter(t, Options{})
	store.AddMessage("c9", models.ChatMessage{Content: "hello", FromUser: true})

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/conversation/c9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.ChatMessage](t, rec), 1)

	rec = serve(t, h, httptest.NewRequest(http.MethodDelete, "/conversation/c9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Conversation cleared successfully", decode[models.MessageResponse](t, rec).Message)

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/conversation/c9", nil))
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestModelsHealthAndTestModel(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/models", nil))
	assert.Equal(t, DefaultModels, decode[[]models.ModelConfig](t, rec))

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, models.HealthStatus{Status: "healthy", Timestamp: "2025-03-01T09:30:00.000000"}, decode[models.HealthStatus](t, rec))

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/test-model/gpt-4", nil))
	result := decode[map[string]any](t, rec)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "gpt-4", result["model"])
	assert.Equal(t, "[gpt-4] Say 'Hello' in response", result["response"])
}

func TestDocuments(t *testing.T) {
	h, store := newTestRouter(t, Options{})

	body, contentType := multipartBody(t, "file", "notes.txt", []byte("hello world"))
	req := httptest.NewRequest(http.MethodPost, "/upload-documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	up := decode[models.UploadResponse](t, rec)
	assert.Equal(t, models.UploadResponse{
		Message:  "File 'notes.txt' uploaded and indexed successfully",
		FileID:   1,
		Filename: "notes.txt",
		Size:     11,
	}, up)
	data, ok := store.DocumentData(1)
	require.True(t, ok)
	assert.Equal(t, "hello world", string(data))

	store.InsertDocument("b.pdf", nil)
	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/documents", nil))
	docs := decode[[]models.DocumentInfo](t, rec)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(2), docs[0].ID, "newest first")

	rec = serve(t, h, httptest.NewRequest(http.MethodDelete, "/documents/1", nil))
	assert.Equal(t, "Document 1 deleted successfully", decode[models.MessageResponse](t, rec).Message)

	rec = serve(t, h, httptest.NewRequest(http.MethodDelete, "/documents/1", nil))
	assert.Equal(t, "Partial deletion completed for document 1", decode[models.MessageResponse](t, rec).Message)

	rec = serve(t, h, httptest.NewRequest(http.MethodDelete, "/documents/abc", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	body, contentType := multipartBody(t, "file", "script.sh", []byte("echo"))
	req := httptest.NewRequest(http.MethodPost, "/upload-documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(t, h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unsupported file type: .sh. Allowed types: .txt, .pdf, .docx, .xlsx", decode[map[string]string](t, rec)["detail"])
}

func TestUploadRequiresFileField(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	body, contentType := multipartBody(t, "document", "notes.txt", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload-documents", body)
	req.Header.Set("Content-Type", contentType)

	assert.Equal(t, http.StatusUnprocessableEntity, serve(t, h, req).Code)
}
