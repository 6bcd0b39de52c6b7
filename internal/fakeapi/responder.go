package fakeapi

import (
	"context"
	"fmt"

	"github.com/markdave123-py/chatdesk/internal/models"
)

// Responder produces the assistant turn for a chat request.
type Responder interface {
	Reply(ctx context.Context, model string, history []models.ChatMessage, message string) (string, error)
}

type ResponderFunc func(ctx context.Context, model string, history []models.ChatMessage, message string) (string, error)

func (f ResponderFunc) Reply(ctx context.Context, model string, history []models.ChatMessage, message string) (string, error) {
	return f(ctx, model, history, message)
}

// StatusError lets a Responder choose the HTTP status the fake answers with.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// EchoResponder answers every message by quoting it back.
type EchoResponder struct{}

func (EchoResponder) Reply(_ context.Context, model string, _ []models.ChatMessage, message string) (string, error) {
	return fmt.Sprintf("[%s] %s", model, message), nil
}
