package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestSetupWithWriterRespectsLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l := logger.SetupWithWriter(buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "component", "test")
	slog.Error("via default")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.Equal(t, "via default", entries[1]["msg"])
}

func TestFromContext(t *testing.T) {
	_, l := logger.NewTestLogger(t)
	fallback := slog.Default()

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))

	//nolint:staticcheck // a nil context must not panic
	assert.NotNil(t, logger.FromContextOrDefault(nil, nil))
}
