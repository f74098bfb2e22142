package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	logger := New("debug")
	ctx := IntoContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := FromContext(context.Background())
	require.NotNil(t, got)
	assert.Same(t, slog.Default(), got)
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	assert.True(t, New("debug").Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, New("info").Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, New("warn").Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, New("error").Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, New("unknown").Enabled(context.Background(), slog.LevelInfo))
}
