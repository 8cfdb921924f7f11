package logger

import (
	"log/slog"
	"strings"
)

// sensitiveParams are query parameter names whose presence redacts the whole query string.
var sensitiveParams = []string{"password", "secret", "token", "session", "email", "login", "auth"}

// SanitizedEmail masks an email address for logging ("alice@x.com" becomes "a****@*.com")
func SanitizedEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	if len(labels) > 1 {
		for i := 0; i < len(labels)-1; i++ {
			labels[i] = strings.Repeat("*", len(labels[i]))
		}
		domain = strings.Join(labels, ".")
	}

	return local + "@" + domain
}

// RedactedAttr returns value under key outside production and "[REDACTED]" in it
func RedactedAttr(key, value, env string) slog.Attr {
	if env == "production" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}

// SanitizeQueryString reports whether rawQuery mentions a sensitive parameter
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
