package httpclient_test

import (
	"context"
	"log/slog"
	"testing"

	httpclient "github.com/nelix/http-client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewLogger(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		level   slog.Level
		handler any
	}{
		{name: "debug", input: "debug", level: slog.LevelDebug, handler: &slog.JSONHandler{}},
		{name: "sanitization", input: "  DEBUG ", level: slog.LevelDebug, handler: &slog.JSONHandler{}},
		{name: "info", input: "info", level: slog.LevelInfo, handler: &slog.JSONHandler{}},
		{name: "warn", input: "warn", level: slog.LevelWarn, handler: &slog.JSONHandler{}},
		{name: "error", input: "error", level: slog.LevelError, handler: &slog.JSONHandler{}},
		{name: "unknown", input: "loud", level: slog.LevelInfo, handler: &slog.JSONHandler{}},
		{name: "silent", input: "silent", handler: &slog.TextHandler{}},
	}

	ctx := context.Background()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := httpclient.NewLogger(tc.input)

			require.NotNil(t, log)
			require.IsType(t, tc.handler, log.Handler())

			if tc.input == "silent" {
				log.Error("discarded")
				return
			}

			assert.True(t, log.Handler().Enabled(ctx, tc.level))
			if tc.level != slog.LevelDebug {
				assert.False(t, log.Handler().Enabled(ctx, tc.level-4))
			}
		})
	}
}
