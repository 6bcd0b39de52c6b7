package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/markdave123-py/chatdesk/internal/models"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"models":     modelsCmd,
	"health":     healthCmd,
	"chat":       chatCmd,
	"history":    historyCmd,
	"clear":      clearCmd,
	"test-model": testModelCmd,
	"upload":     uploadCmd,
	"documents":  documentsCmd,
	"files":      filesCmd,
	"delete":     deleteCmd,
	"scan":       scanCmd,
}

var errUsage = errors.New("invalid arguments")

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// oneArg returns the single positional argument a command expects.
func oneArg(args []string, name string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: expected <%s>", errUsage, name)
	}
	return args[0], nil
}

func modelsCmd(ctx context.Context, a *app, _ []string) error {
	list, err := a.api.GetModels(ctx)
	if err != nil {
		return err
	}
	return printJSON(a.out, list)
}

func healthCmd(ctx context.Context, a *app, _ []string) error {
	status, err := a.api.HealthCheck(ctx)
	if err != nil {
		return err
	}
	return printJSON(a.out, status)
}

func chatCmd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	conversationID := fs.String("c", "", "conversation id to continue")
	model := fs.String("m", "", "model name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		return fmt.Errorf("%w: expected a message", errUsage)
	}

	resp, err := a.api.SendMessage(ctx, models.ChatRequest{
		Message:        message,
		ConversationID: *conversationID,
		ModelName:      *model,
	})
	if err != nil {
		return err
	}
	return printJSON(a.out, resp)
}

func historyCmd(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "conversation-id")
	if err != nil {
		return err
	}
	history, err := a.api.GetConversationHistory(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(a.out, history)
}

func clearCmd(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "conversation-id")
	if err != nil {
		return err
	}
	resp, err := a.api.ClearConversation(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(a.out, resp)
}

func testModelCmd(ctx context.Context, a *app, args []string) error {
	name, err := oneArg(args, "model")
	if err != nil {
		return err
	}
	raw, err := a.api.TestModel(ctx, name)
	if err != nil {
		return err
	}
	return printJSON(a.out, raw)
}

func uploadCmd(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected at least one <file>", errUsage)
	}

	results, err := a.docs.UploadFiles(ctx, args, a.concurrency)
	if printErr := printJSON(a.out, uploadReport(results)); printErr != nil {
		return printErr
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(results))
	}
	return nil
}

type uploadLine struct {
	Path     string                 `json:"path"`
	Response *models.UploadResponse `json:"response,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func uploadReport(results []models.UploadResult) []uploadLine {
	lines := make([]uploadLine, 0, len(results))
	for _, r := range results {
		line := uploadLine{Path: r.Path, Response: r.Response}
		if r.Err != nil {
			line.Error = r.Err.Error()
		}
		lines = append(lines, line)
	}
	return lines
}

func documentsCmd(ctx context.Context, a *app, _ []string) error {
	docs, err := a.docs.GetDocuments(ctx)
	if err != nil {
		return err
	}
	return printJSON(a.out, docs)
}

func filesCmd(ctx context.Context, a *app, _ []string) error {
	files, err := a.docs.GetUploadedFiles(ctx)
	if err != nil {
		return err
	}
	return printJSON(a.out, files)
}

func deleteCmd(ctx context.Context, a *app, args []string) error {
	raw, err := oneArg(args, "file-id")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: file id must be an integer", errUsage)
	}
	resp, err := a.docs.DeleteFile(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(a.out, resp)
}

func scanCmd(ctx context.Context, a *app, args []string) error {
	dir, err := oneArg(args, "dir")
	if err != nil {
		return err
	}
	scan, err := a.docs.ScanDirectory(ctx, dir)
	if err != nil {
		return err
	}
	return printJSON(a.out, scan)
}
