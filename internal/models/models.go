package models

import (
	"time"
)

// ModelConfig describes a backend model that can be selected per chat request.
type ModelConfig struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	APIKeyEnv   string `json:"api_key_env"`
	BaseURL     string `json:"base_url,omitempty"`
	ModelType   string `json:"model_type"`
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Content   string `json:"content"`
	FromUser  bool   `json:"from_user"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	ModelName      string `json:"model_name,omitempty"`
}

type ChatResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	ModelUsed      string `json:"model_used"`
	Timestamp      string `json:"timestamp"`
}

// MessageResponse is the body returned by the delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// UploadResponse is the result of a successful document upload.
type UploadResponse struct {
	Message  string `json:"message"`
	FileID   int64  `json:"file_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// DocumentInfo is the metadata the backend keeps for an uploaded document.
type DocumentInfo struct {
	ID              int64  `json:"id"`
	Filename        string `json:"filename"`
	UploadTimestamp string `json:"upload_timestamp"`
}

// UploadedFile is the list view of a document.
// Size is always 0: the documents endpoint does not report it.
type UploadedFile struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadTime time.Time `json:"upload_time"`
}

// DirectoryScan is the result shape of a local directory scan.
type DirectoryScan struct {
	Files     []string `json:"files"`
	TotalSize int64    `json:"total_size"`
}

// UploadResult is the per-file outcome of a batch upload.
type UploadResult struct {
	Path     string          `json:"path"`
	Response *UploadResponse `json:"response,omitempty"`
	Err      error           `json:"-"`
}
