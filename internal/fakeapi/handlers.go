package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/markdave123-py/chatdesk/internal/models"
)

const defaultModel = "gpt-3.5-turbo"

var allowedExtensions = []string{".txt", ".pdf", ".docx", ".xlsx"}

type handler struct {
	store     *Store
	models    []models.ModelConfig
	responder Responder
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("fakeapi: encode response: %v", err)
	}
}

// writeDetail mirrors the {"detail": ...} error body of the real backend.
func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Welcome to the InfoPoP Chat API!"})
}

func (h *handler) ListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.models)
}

func (h *handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeDetail(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	model := req.ModelName
	if model == "" {
		model = defaultModel
	}

	history := h.store.Messages(conversationID)
	reply, err := h.responder.Reply(r.Context(), model, history, req.Message)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			writeDetail(w, se.Status, se.Detail)
			return
		}
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("AI模型调用失败: %v", err))
		return
	}
	if reply == "" {
		writeDetail(w, http.StatusInternalServerError, "AI model returned empty response")
		return
	}

	h.store.AddMessage(conversationID, models.ChatMessage{Content: req.Message, FromUser: true, Timestamp: h.store.timestamp()})
	h.store.AddMessage(conversationID, models.ChatMessage{Content: reply, FromUser: false, Timestamp: h.store.timestamp()})

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Message:        reply,
		ConversationID: conversationID,
		ModelUsed:      model,
		Timestamp:      h.store.timestamp(),
	})
}

func (h *handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Messages(chi.URLParam(r, "conversationID")))
}

func (h *handler) ClearConversation(w http.ResponseWriter, r *http.Request) {
	h.store.ClearConversation(chi.URLParam(r, "conversationID"))
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Conversation cleared successfully"})
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthStatus{Status: "healthy", Timestamp: h.store.timestamp()})
}

func (h *handler) TestModel(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "modelName")
	result := map[string]any{
		"model":     model,
		"timestamp": h.store.timestamp(),
	}
	reply, err := h.responder.Reply(r.Context(), model, nil, "Say 'Hello' in response")
	if err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	} else {
		result["status"] = "success"
		result["response"] = reply
	}
	writeJSON(w, http.StatusOK, result)
}

// UploadDocument accepts a multipart form with a single "file" field.
func (h *handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "expected multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: file")
		return
	}
	defer file.Close()

	cleanFilename := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(cleanFilename))
	if !isAllowedExtension(ext) {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s. Allowed types: %s", ext, strings.Join(allowedExtensions, ", ")))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file upload: %v", err))
		return
	}

	info := h.store.InsertDocument(cleanFilename, data)
	writeJSON(w, http.StatusOK, models.UploadResponse{
		Message:  fmt.Sprintf("File '%s' uploaded and indexed successfully", cleanFilename),
		FileID:   info.ID,
		Filename: cleanFilename,
		Size:     int64(len(data)),
	})
}

func (h *handler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Documents())
}

func (h *handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "fileID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []map[string]any{{
			"loc":  []string{"path", "file_id"},
			"msg":  "value is not a valid integer",
			"type": "type_error.integer",
		}})
		return
	}

	if h.store.DeleteDocument(id) {
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Document %d deleted successfully", id)})
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Partial deletion completed for document %d", id)})
}

func isAllowedExtension(ext string) bool {
	for _, a := range allowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
