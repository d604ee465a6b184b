package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"
)

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), TraceIDKey, "abc-123")
	l.InfoContext(ctx, "hello")

	if !strings.Contains(buf.String(), `"trace_id":"abc-123"`) {
		t.Fatalf("trace_id missing from %s", buf.String())
	}
}

func TestRemoteFilterSkipsUntracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	tee := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	}}
	l := log.New(&ContextHandler{tee})

	l.InfoContext(context.Background(), "boot")
	if remote.Len() != 0 {
		t.Fatalf("untraced record reached remote: %s", remote.String())
	}

	l.InfoContext(NewTraceContext(context.Background(), "job-test"), "tick")
	if !strings.Contains(remote.String(), "job-test-") {
		t.Fatalf("traced record missing from remote: %s", remote.String())
	}
	if strings.Count(local.String(), "\n") != 2 {
		t.Fatalf("local handler should see both records, got %q", local.String())
	}
}
