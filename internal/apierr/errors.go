// Package apierr holds the errors returned by the chatdesk HTTP clients.
package apierr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// ErrNotImplemented marks an operation the client declares but cannot perform yet.
var ErrNotImplemented = errors.New("not implemented")

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	StatusText string
	// Detail is the server-provided "detail" field, empty when absent or unparseable.
	Detail  string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// TransportError is returned when no response was received at all.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ReadDetail extracts the "detail" field of a JSON error body.
// Any read or parse failure yields "", the same as an empty object.
func ReadDetail(body io.Reader) string {
	if body == nil {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	detail, ok := payload["detail"]
	if !ok || string(detail) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(detail, &s); err == nil {
		return s
	}
	// validation errors carry a list; keep it readable rather than dropping it
	var compact bytes.Buffer
	if err := json.Compact(&compact, detail); err != nil {
		return string(detail)
	}
	return compact.String()
}

// StatusText returns the reason phrase of resp, e.g. "Not Found".
func StatusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// GenericMessage is the fallback message for statuses without a dedicated template.
func GenericMessage(statusCode int, statusText, detail string) string {
	if detail != "" {
		return detail
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, statusText)
}
