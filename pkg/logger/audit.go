package logger

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types
const (
	EventLogin       = "login"
	EventLoginFailed = "login_failed"
	EventRegister    = "register"
	EventLogout      = "logout"
	EventAdminCreate = "admin_create"
	EventAdminUpdate = "admin_update"
	EventAdminDelete = "admin_delete"
)

// AuditEvent is an authentication outcome: a login, registration or logout
type AuditEvent struct {
	EventType     string
	UserID        string
	IPAddress     string
	Success       bool
	FailureReason string
}

// AdminAction is a write made through the admin site
type AdminAction struct {
	EventType string
	ActorID   string
	Resource  string
	RecordID  string
	IPAddress string
}

// AuditLogger writes audit records as "audit" log entries tagged by audit_type
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogAuthAttempt records an authentication event. Failures log at warn level.
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := []slog.Attr{slog.Bool("success", event.Success)}
	attrs = appendIfSet(attrs, "user_id", event.UserID)
	attrs = appendIfSet(attrs, "ip_address", event.IPAddress)
	attrs = appendIfSet(attrs, "failure_reason", event.FailureReason)

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.emit(level, "auth", event.EventType, attrs)
}

// LogAdminAction records a create, update or delete made through the admin
func (al *AuditLogger) LogAdminAction(action AdminAction) {
	attrs := []slog.Attr{
		slog.String("user_id", action.ActorID),
		slog.String("resource", action.Resource),
		slog.String("record_id", action.RecordID),
	}
	attrs = appendIfSet(attrs, "ip_address", action.IPAddress)

	al.emit(slog.LevelInfo, "admin", action.EventType, attrs)
}

func (al *AuditLogger) emit(level slog.Level, auditType, eventType string, attrs []slog.Attr) {
	head := []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", eventType),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	al.logger.LogAttrs(context.Background(), level, "audit", append(head, attrs...)...)
}

func appendIfSet(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}
