package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("hello")
	log.Debug("invisible")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "default format is JSON")
	assert.Equal(t, "hello", rec["msg"])
	assert.NotContains(t, buf.String(), "invisible", "default level is info")
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNew_InvalidFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestNew_StaticAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "notifykit")),
	)

	log.Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "notifykit", rec["service"])
}

func TestNew_DevelopmentPreset(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithDevelopment("notifykit"))

	log.Debug("verbose")

	out := buf.String()
	assert.Contains(t, out, "msg=verbose", "development preset uses text format and debug level")
	assert.Contains(t, out, "env=development")
}

func TestNew_ContextValue(t *testing.T) {
	type ctxKey struct{}

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", ctxKey{}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-42")
	log.InfoContext(ctx, "with context")
	log.Info("without context")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "req-42")
	assert.NotContains(t, lines[1], "req-42")
}

func TestNew_ContextExtractor(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(nil, func(context.Context) (slog.Attr, bool) {
			return slog.String("worker", "w-1"), true
		}),
	)

	log.Info("hello")
	assert.Contains(t, buf.String(), "w-1")
}
