package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/chatdesk/internal/apiclient"
	"github.com/markdave123-py/chatdesk/internal/config"
	"github.com/markdave123-py/chatdesk/internal/uploads"
)

const usage = `usage: chatdesk <command> [args]

chat commands:
  models                       list available models
  health                       check backend health
  chat [-c id] [-m model] msg  send a message
  history <conversation-id>    show a conversation
  clear <conversation-id>      clear a conversation
  test-model <name>            probe a model

document commands:
  upload <file>...             upload documents
  documents                    list documents
  files                        list documents as files
  delete <file-id>             delete a document
  scan <dir>                   scan a local directory
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the two clients a command may use.
type app struct {
	api         *apiclient.Client
	docs        *uploads.Service
	concurrency int
	out         io.Writer
}

func newApp(cfg *config.Config, out io.Writer) *app {
	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	return &app{
		api:         apiclient.New(cfg.APIURL, apiclient.WithHTTPClient(hc), apiclient.WithLocale(apiclient.ParseLocale(cfg.Locale))),
		docs:        uploads.New(cfg.APIURL, uploads.WithHTTPClient(hc)),
		concurrency: cfg.UploadConcurrency,
		out:         out,
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(ctx, newApp(cfg, stdout), args[1:]); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
