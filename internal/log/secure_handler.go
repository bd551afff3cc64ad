package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
// Keys are compared in lower case.
var sensitiveKeys = map[string]bool{
	"key":                 true,
	"apikey":              true,
	"api_key":             true,
	"api-key":             true,
	"x-api-key":           true,
	"x-goog-api-key":      true,
	"auth":                true,
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"password":            true,
	"passwd":              true,
	"secret":              true,
	"token":               true,
	"access_token":        true,
	"refresh_token":       true,
	"credential":          true,
	"credentials":         true,
}

// sensitiveKeywords mark a key as sensitive when contained in it.
// The bare "key" and "auth" are matched exactly only, so names such as
// "keys" or "author" stay readable.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "apikey", "api_key", "credential",
}

// sensitivePatterns match values that are credentials regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	// Google API keys
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),

	// OAuth access tokens
	regexp.MustCompile(`^ya29\.[0-9A-Za-z_-]+$`),

	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// queryCredential matches credential query parameters in URLs, including
// URLs quoted inside error messages.
var queryCredential = regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|access_token|token)=)[^&\s"']+`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks credentials in every
// attribute before passing the record on.
//
// Design decision: We mask at the handler instead of at each call site
// because:
//  1. The YouTube API key travels in the key= query parameter, so every
//     logged request URL would otherwise carry it
//  2. Errors from net/http quote the full request URL
//  3. A call site that forgets to mask cannot leak through the logger
//
// Values are masked when the attribute key names a credential, when the
// value itself looks like a credential (Google API key, OAuth or JWT token),
// or, for string values, in the credential query parameters of any URL
// inside them.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the underlying handler handles records at level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and message and passes the record on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, RedactQuery(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes masked and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks a single attribute, recursing into groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		if redacted := RedactQuery(s); redacted != s {
			return slog.String(a.Key, redacted)
		}
	case slog.KindAny:
		if s, ok := textOf(a.Value.Any()); ok {
			if redacted := RedactQuery(s); redacted != s {
				return slog.String(a.Key, redacted)
			}
		}
	}

	return a
}

// textOf renders errors and Stringers, the values that may quote a URL.
func textOf(v any) (string, bool) {
	switch v := v.(type) {
	case error:
		return v.Error(), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// IsSensitiveKey reports whether an attribute key names a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// RedactQuery masks the values of credential query parameters in s.
func RedactQuery(s string) string {
	if !strings.Contains(s, "=") {
		return s
	}
	return queryCredential.ReplaceAllString(s, "${1}"+MaskValue)
}

// NewSecureLogger creates a text logger that masks credentials.
// verbose selects the Debug level; otherwise only warnings and errors are
// written.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
