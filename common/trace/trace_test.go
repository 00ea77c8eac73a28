package trace_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdobrica/folio/common/trace"
)

func TestStart(t *testing.T) {
	ctx, id := trace.Start(context.Background())
	assert.True(t, strings.HasPrefix(id, "turn_"))
	assert.Len(t, id, len("turn_")+8)
	assert.Equal(t, id, trace.FromContext(ctx))
}

func TestFromContext_Empty(t *testing.T) {
	assert.Empty(t, trace.FromContext(context.Background()))
}

func TestNewTurnID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := trace.NewTurnID()
		assert.False(t, seen[id], id)
		seen[id] = true
	}
}
