// Package logging builds the structured logger used across tasker.
//
// Attribute values whose key looks like a credential are always redacted,
// so tokens and passwords never reach the log output.
package logging

import (
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Redacted replaces sensitive attribute values.
const Redacted = "***REDACTED***"

var sensitiveKeys = []string{
	"token",
	"password",
	"secret",
	"authorization",
	"bearer",
	"refresh",
	"access",
}

// Options configures New.
type Options struct {
	// Debug lowers the level from warn to debug.
	Debug bool

	// Format is "text" (default) or "json".
	Format string
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// IsSensitiveKey reports whether an attribute key names a credential.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// redact runs on every leaf attribute; slog never passes group attributes
// themselves, so a sensitive group shows up in groups instead.
func redact(groups []string, a slog.Attr) slog.Attr {
	if !IsSensitiveKey(a.Key) && !slices.ContainsFunc(groups, IsSensitiveKey) {
		return a
	}
	if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
		return a
	}
	return slog.String(a.Key, Redacted)
}
