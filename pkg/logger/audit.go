package logger

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types
const (
	EventLogin                = "login"
	EventAdminLogin           = "admin_login"
	EventPasswordChange       = "password_change"
	EventPasswordResetRequest = "password_reset_request"
	EventPasswordReset        = "password_reset"
	EventUserBlocked          = "user_blocked"
	EventUserUnblocked        = "user_unblocked"
	EventUserDeleted          = "user_deleted"
)

// AuditEvent is a single security relevant occurrence.
type AuditEvent struct {
	EventType     string
	UserID        string
	Email         string // masked before it is written
	IPAddress     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes audit records through slog.
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
		now:    time.Now,
	}
}

// Log writes event. Failed events are logged at Warn.
func (al *AuditLogger) Log(ctx context.Context, event AuditEvent) {
	if al == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogLogin records a login attempt against the user or admin entry point.
func (al *AuditLogger) LogLogin(ctx context.Context, admin bool, email, userID, ip string, success bool, reason string) {
	eventType := EventLogin
	if admin {
		eventType = EventAdminLogin
	}
	al.Log(ctx, AuditEvent{
		EventType:     eventType,
		UserID:        userID,
		Email:         email,
		IPAddress:     ip,
		Success:       success,
		FailureReason: reason,
	})
}

// LogAccountAction records an admin action taken on another account.
func (al *AuditLogger) LogAccountAction(ctx context.Context, eventType, actorID, targetID, ip string) {
	al.Log(ctx, AuditEvent{
		EventType: eventType,
		UserID:    actorID,
		IPAddress: ip,
		Success:   true,
		Metadata:  map[string]string{"target_user_id": targetID},
	})
}
