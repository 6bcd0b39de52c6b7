// Package fakeapi is an in-memory stand-in for the chat backend. It speaks the
// same REST contract so the clients can be exercised without the real service.
package fakeapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/chatdesk/internal/models"
)

// DefaultModels is what /models returns when no models are configured.
var DefaultModels = []models.ModelConfig{
	{Name: "gpt-3.5-turbo", DisplayName: "GPT-3.5 Turbo", APIKeyEnv: "OPENAI_API_KEY", ModelType: "openai"},
	{Name: "gpt-4", DisplayName: "GPT-4", APIKeyEnv: "OPENAI_API_KEY", ModelType: "openai"},
}

type Options struct {
	Models         []models.ModelConfig
	Responder      Responder
	Store          *Store
	AllowedOrigins []string
	// Quiet drops the per-request access log.
	Quiet bool
}

// NewRouter builds the fake backend's routes.
func NewRouter(opts Options) http.Handler {
	if opts.Models == nil {
		opts.Models = DefaultModels
	}
	if opts.Responder == nil {
		opts.Responder = EchoResponder{}
	}
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	h := &handler{store: opts.Store, models: opts.Models, responder: opts.Responder}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", h.Root)
	r.Get("/models", h.ListModels)
	r.Post("/chat", h.Chat)
	r.Get("/conversation/{conversationID}", h.GetConversation)
	r.Delete("/conversation/{conversationID}", h.ClearConversation)
	r.Get("/health", h.Health)
	r.Get("/test-model/{modelName}", h.TestModel)
	r.Post("/upload-documents", h.UploadDocument)
	r.Get("/documents", h.GetDocuments)
	r.Delete("/documents/{fileID}", h.DeleteDocument)

	return r
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

func NewServer(port string, opts Options) *Server {
	return &Server{httpServer: &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Printf("fake API listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down fake API server...")
	return s.httpServer.Shutdown(ctx)
}
