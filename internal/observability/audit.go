package observability

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuditEvent represents a structured event for the audit log
type AuditEvent struct {
	Type      string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     string         `json:"actor,omitempty"`
	Action    string         `json:"action"` // e.g. "confirm:send_email", "catalog_reload"
	Status    string         `json:"status"` // "approved", "rejected", "success", "failure"
	Metadata  map[string]any `json:"metadata,omitempty"`
	TraceID   string         `json:"trace_id,omitempty"`
}

// Audit event types
const (
	AuditApproval = "approval"
	AuditCatalog  = "catalog"
	AuditConfig   = "config"
)

// AuditLogger records audit events as JSON lines. A nil *AuditLogger
// discards everything.
type AuditLogger struct {
	logger zerolog.Logger
	mu     sync.Mutex
	file   *os.File
}

// NewAuditLogger writes audit events to w
func NewAuditLogger(w io.Writer) *AuditLogger {
	return &AuditLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// OpenAuditLogger appends audit events to the file at path
func OpenAuditLogger(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open audit log %s", path)
	}

	a := NewAuditLogger(file)
	a.file = file
	return a, nil
}

// Record emits an audit event and, when ctx carries a recording span, adds
// it to the span as an event
func (a *AuditLogger) Record(ctx context.Context, event AuditEvent) {
	if a == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		event.TraceID = span.SpanContext().TraceID().String()

		span.AddEvent(event.Action, trace.WithAttributes(
			attribute.String("audit.type", event.Type),
			attribute.String("audit.status", event.Status),
		))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entry := a.logger.Log().
		Str("type", event.Type).
		Str("action", event.Action).
		Str("status", event.Status)
	if event.Actor != "" {
		entry.Str("actor", event.Actor)
	}
	if event.TraceID != "" {
		entry.Str("trace_id", event.TraceID)
	}
	if event.Metadata != nil {
		entry.Interface("metadata", event.Metadata)
	}

	entry.Msg("")
}

// Close closes the audit log file, if any
func (a *AuditLogger) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file != nil {
		err := a.file.Close()
		a.file = nil
		return err
	}
	return nil
}

// RecordApproval records the answer to a confirmation request
func (a *AuditLogger) RecordApproval(ctx context.Context, tool string, approved bool, reason string) {
	status := "rejected"
	if approved {
		status = "approved"
	}
	a.Record(ctx, AuditEvent{
		Type:     AuditApproval,
		Action:   "confirm:" + tool,
		Status:   status,
		Metadata: map[string]any{"reason": reason},
	})
}

// RecordCatalogReload records a hot reload attempt of the catalog file
func (a *AuditLogger) RecordCatalogReload(ctx context.Context, path string, tools int, err error) {
	event := AuditEvent{
		Type:     AuditCatalog,
		Action:   "catalog_reload",
		Status:   "success",
		Metadata: map[string]any{"path": path, "tools": tools},
	}
	if err != nil {
		event.Status = "failure"
		event.Metadata = map[string]any{"path": path, "error": err.Error()}
	}
	a.Record(ctx, event)
}

// RecordConfig records a configuration change
func (a *AuditLogger) RecordConfig(ctx context.Context, action, path string) {
	a.Record(ctx, AuditEvent{
		Type:     AuditConfig,
		Action:   action,
		Status:   "success",
		Metadata: map[string]any{"path": path},
	})
}
