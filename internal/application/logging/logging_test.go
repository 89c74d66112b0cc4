package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
)

type recordedLine struct {
	level    string
	message  string
	metadata map[string]interface{}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []recordedLine
}

func (r *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, recordedLine{level, message, metadata})
}

type pingCommand struct{ Fail bool }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "pong", map[string]interface{}{"k": "v"})
	if request.(*pingCommand).Fail {
		return nil, errors.New("boom")
	}
	return "ok", nil
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := logging.LoggerFromContext(context.Background())
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Log(logging.LevelInfo, "ignored", nil) })
}

func TestWriterLogger_JSONFormatAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, "info", "json", false)

	logger.Log(logging.LevelDebug, "hidden", nil)
	logger.Log(logging.LevelInfo, "tick complete", map[string]interface{}{"tick": 4})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tick complete", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.EqualValues(t, 4, line["tick"])
}

func TestMultiLogger_FansOut(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	logging.MultiLogger{a, nil, b}.Log(logging.LevelError, "x", nil)

	assert.Len(t, a.lines, 1)
	assert.Len(t, b.lines, 1)
}

func TestCorrelationMiddleware(t *testing.T) {
	m := mediator.NewMediator()
	m.RegisterMiddleware(logging.CorrelationMiddleware())
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, pingHandler{}))

	rec := &recordingLogger{}
	ctx := logging.WithLogger(context.Background(), rec)

	t.Run("generates an id and tags log lines", func(t *testing.T) {
		rec.lines = nil
		resp, err := m.Send(ctx, &pingCommand{})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)

		require.Len(t, rec.lines, 1)
		assert.Regexp(t, `^pingCommand-[0-9a-f]{8}$`, rec.lines[0].metadata["correlation_id"])
		assert.Equal(t, "v", rec.lines[0].metadata["k"])
	})

	t.Run("keeps a caller supplied id and logs failures", func(t *testing.T) {
		rec.lines = nil
		_, err := m.Send(logging.WithCorrelationID(ctx, "cli-1"), &pingCommand{Fail: true})
		require.Error(t, err)

		require.Len(t, rec.lines, 2)
		assert.Equal(t, logging.LevelWarn, rec.lines[1].level)
		assert.Contains(t, rec.lines[1].message, "pingCommand failed: boom")
		for _, line := range rec.lines {
			assert.Equal(t, "cli-1", line.metadata["correlation_id"])
		}
	})
}
