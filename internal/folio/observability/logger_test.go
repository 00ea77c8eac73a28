package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdobrica/folio/common/trace"
	"github.com/bdobrica/folio/internal/folio/observability"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, observability.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel("chatty"))
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.New(&buf, "warn", "json")

	logger.Info("engine: dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("nlp: provider fallback", "reason", "timeout")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "nlp: provider fallback", line["msg"])
	assert.Equal(t, "timeout", line["reason"])
}

func TestForTurn(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(observability.New(&buf, "info", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := trace.WithTurnID(context.Background(), "turn_abc")
	observability.ForTurn(ctx).Info("engine: turn")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "turn_abc", line["turn_id"])

	assert.Same(t, slog.Default(), observability.ForTurn(context.Background()))
}
