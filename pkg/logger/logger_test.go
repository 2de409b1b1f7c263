package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFallback(t *testing.T) {
	log := New(LoggingConfig{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log = New(LoggingConfig{Level: "debug"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestLogger_ComponentAndTraceFields(t *testing.T) {
	log := New(LoggingConfig{Level: "info", Format: "json"}).Named("picker")
	var buf bytes.Buffer
	log.SetOutput(&buf)

	ctx := WithTraceID(context.Background(), "trace-1")
	log.WithContext(ctx).WithField("variant", "big").Info("selection generated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "picker", line["component"])
	assert.Equal(t, "trace-1", line["trace_id"])
	assert.Equal(t, "big", line["variant"])
	assert.Equal(t, "selection generated", line["msg"])
}

func TestLogRequest_LevelByStatus(t *testing.T) {
	log := New(LoggingConfig{Level: "debug", Format: "json"})
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.LogRequest(context.Background(), http.MethodPost, "/generate", http.StatusBadRequest, 3*time.Millisecond)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warning", line["level"])
	assert.EqualValues(t, 400, line["status"])
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
	id := NewTraceID()
	assert.Len(t, id, 36)
	assert.Equal(t, id, TraceID(WithTraceID(context.Background(), id)))
}
