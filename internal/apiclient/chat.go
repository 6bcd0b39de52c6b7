package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/markdave123-py/chatdesk/internal/models"
)

// GetModels lists the models the backend can chat with.
func (c *Client) GetModels(ctx context.Context) ([]models.ModelConfig, error) {
	var out []models.ModelConfig
	if err := c.request(ctx, http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts one user turn and returns the backend reply unchanged.
func (c *Client) SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var out models.ChatResponse
	if err := c.request(ctx, http.MethodPost, "/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConversationHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	if err := c.request(ctx, http.MethodGet, "/conversation/"+url.PathEscape(conversationID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ClearConversation(ctx context.Context, conversationID string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.request(ctx, http.MethodDelete, "/conversation/"+url.PathEscape(conversationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) HealthCheck(ctx context.Context) (*models.HealthStatus, error) {
	var out models.HealthStatus
	if err := c.request(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestModel asks the backend to probe a model. The reply shape is backend-defined.
func (c *Client) TestModel(ctx context.Context, modelName string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/test-model/"+url.PathEscape(modelName), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
