package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditLogger(buf *bytes.Buffer) *AuditLogger {
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	al.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return al
}

func TestAuditLogger_LogLogin_FailureMasksEmail(t *testing.T) {
	var buf bytes.Buffer
	al := newTestAuditLogger(&buf)

	al.LogLogin(context.Background(), true, "admin@example.com", "", "203.0.113.1", false, "invalid credentials")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, EventAdminLogin, record["event_type"])
	assert.Equal(t, "a****@*******.com", record["email"])
	assert.Equal(t, "invalid credentials", record["failure_reason"])
	assert.Equal(t, "2026-01-02T03:04:05Z", record["timestamp"])
	assert.NotContains(t, buf.String(), "admin@example.com")
}

func TestAuditLogger_LogAccountAction(t *testing.T) {
	var buf bytes.Buffer
	al := newTestAuditLogger(&buf)

	al.LogAccountAction(context.Background(), EventUserBlocked, "admin-1", "user-2", "")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "admin-1", record["user_id"])
	assert.Equal(t, "user-2", record["target_user_id"])
	assert.NotContains(t, record, "ip_address")
}

func TestAuditLogger_NilSafe(t *testing.T) {
	var al *AuditLogger
	assert.NotPanics(t, func() {
		al.Log(context.Background(), AuditEvent{EventType: EventLogin})
	})
}
