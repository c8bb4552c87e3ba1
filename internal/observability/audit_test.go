package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func decodeLines(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestAuditLogger_Record(t *testing.T) {
	buf := &bytes.Buffer{}
	a := NewAuditLogger(buf)

	a.RecordApproval(context.Background(), "send_email", true, "approved by user")
	a.RecordApproval(context.Background(), "create_meeting", false, "denied by user")
	a.RecordCatalogReload(context.Background(), "/tmp/catalog.yaml", 19, nil)
	a.RecordCatalogReload(context.Background(), "/tmp/catalog.yaml", 0, errors.New("invalid catalog"))
	a.RecordConfig(context.Background(), "configure", "/tmp/rcrm.yaml")

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 5)

	assert.Equal(t, "approval", lines[0]["type"])
	assert.Equal(t, "confirm:send_email", lines[0]["action"])
	assert.Equal(t, "approved", lines[0]["status"])
	assert.Equal(t, "rejected", lines[1]["status"])

	assert.Equal(t, "success", lines[2]["status"])
	assert.EqualValues(t, 19, lines[2]["metadata"].(map[string]any)["tools"])
	assert.Equal(t, "failure", lines[3]["status"])
	assert.Equal(t, "invalid catalog", lines[3]["metadata"].(map[string]any)["error"])

	assert.Equal(t, "config", lines[4]["type"])
	assert.NotContains(t, lines[4], "trace_id")
}

func TestAuditLogger_SpanEvent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "plan")
	buf := &bytes.Buffer{}
	NewAuditLogger(buf).RecordApproval(ctx, "send_email", true, "auto-approved")
	span.End()

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), lines[0]["trace_id"])

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "confirm:send_email", ended[0].Events()[0].Name)
}

func TestAuditLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	a, err := OpenAuditLogger(path)
	require.NoError(t, err)
	a.RecordConfig(context.Background(), "configure", "rcrm.yaml")
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	a, err = OpenAuditLogger(path)
	require.NoError(t, err)
	a.RecordConfig(context.Background(), "configure", "rcrm.yaml")
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, string(data)), 2)
}

func TestAuditLogger_Nil(t *testing.T) {
	var a *AuditLogger
	assert.NotPanics(t, func() {
		a.RecordApproval(context.Background(), "send_email", true, "")
		a.RecordCatalogReload(context.Background(), "x", 1, nil)
	})
	assert.NoError(t, a.Close())
}

func TestOpenAuditLogger_BadPath(t *testing.T) {
	_, err := OpenAuditLogger(filepath.Join(t.TempDir(), "missing", "audit.log"))
	assert.ErrorContains(t, err, "failed to open audit log")
}
