package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Debug: true, Format: "json"})

	logger.Debug("login", "username", "alice", "password", "hunter2", "refresh_token", "r-123")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["username"] != "alice" {
		t.Errorf("username should be kept, got %v", entry["username"])
	}
	if entry["password"] != Redacted {
		t.Errorf("password should be redacted, got %v", entry["password"])
	}
	if entry["refresh_token"] != Redacted {
		t.Errorf("refresh_token should be redacted, got %v", entry["refresh_token"])
	}
}

func TestNew_RedactsInsideGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Debug: true})

	logger.WithGroup("req").Debug("call", "authorization", "Bearer abc")

	if strings.Contains(buf.String(), "abc") {
		t.Errorf("grouped credential leaked: %q", buf.String())
	}
}

func TestNew_RedactsNonStringValues(t *testing.T) {
	type token struct{ Access, Refresh string }

	var buf bytes.Buffer
	logger := New(&buf, Options{Debug: true, Format: "json"})

	logger.Debug("refreshed",
		slog.Any("token", token{Access: "acc-123", Refresh: "ref-456"}),
		slog.Group("session", slog.String("access", "acc-789")),
		slog.Group("tokens", slog.String("id", "tok-1")),
	)

	out := buf.String()
	for _, leaked := range []string{"acc-123", "ref-456", "acc-789", "tok-1"} {
		if strings.Contains(out, leaked) {
			t.Errorf("%s leaked into %q", leaked, out)
		}
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", out, err)
	}
	if entry["token"] != Redacted {
		t.Errorf("token should be redacted, got %v", entry["token"])
	}
}

func TestNew_LevelFollowsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{})

	logger.Debug("hidden")
	logger.Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}

	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := map[string]bool{
		"access_token":  true,
		"Authorization": true,
		"password":      true,
		"username":      false,
		"url":           false,
	}
	for key, want := range tests {
		if got := IsSensitiveKey(key); got != want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}
