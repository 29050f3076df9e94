package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"google.golang.org/api/googleapi"

	"tasker/internal/service"
)

const maxDetailLen = 200

// StatusError is a non-2xx backend response with a short message.
// The underlying *googleapi.Error stays reachable through errors.As.
type StatusError struct {
	Err *googleapi.Error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Err.Code, http.StatusText(e.Err.Code))
	if d := detail(e.Err); d != "" {
		msg += ": " + d
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of err, or 0 if err carries none.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Session expiry is reported without the transport noise around it
	if errors.Is(err, service.ErrSessionExpired) {
		return service.ErrSessionExpired
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &StatusError{Err: apiErr}
	}

	return err
}

// detail extracts a readable message from an error body.
// The backend reports {"detail": "..."} or per-field lists.
func detail(e *googleapi.Error) string {
	if e.Message != "" {
		return e.Message
	}

	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err == nil {
		if d, ok := doc["detail"].(string); ok {
			return d
		}
		var parts []string
		for field, v := range doc {
			if msgs, ok := v.([]any); ok && len(msgs) > 0 {
				parts = append(parts, fmt.Sprintf("%s: %v", field, msgs[0]))
			}
		}
		if len(parts) > 0 {
			sort.Strings(parts)
			return strings.Join(parts, "; ")
		}
	}

	if len(body) > maxDetailLen {
		body = body[:maxDetailLen] + "..."
	}
	return body
}
