package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	t.Run("adds language and serialization id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, slog.LevelInfo, logger.DefaultExtractors()...)

		ctx := langcode.WithContext(context.Background(), "de")
		ctx = logger.WithSerializationID(ctx, "abc")
		log.InfoContext(ctx, "serialized")

		rec := decode(t, &buf)
		assert.Equal(t, "de", rec["language"])
		assert.Equal(t, "abc", rec["serialization_id"])
	})

	t.Run("skips missing values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, slog.LevelInfo, logger.DefaultExtractors()...)
		log.InfoContext(context.Background(), "plain")

		rec := decode(t, &buf)
		assert.NotContains(t, rec, "language")
		assert.NotContains(t, rec, "serialization_id")
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, slog.LevelWarn)
		log.Info("dropped")
		assert.Zero(t, buf.Len())
	})
}

func TestNewWithSentry_FallsBackWithoutDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.SentryConfig{Output: &buf}, logger.LanguageExtractor())
	log.InfoContext(langcode.WithContext(context.Background(), "nl"), "hello")

	rec := decode(t, &buf)
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "nl", rec["language"])
}

func TestContextHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), nil, logger.LanguageExtractor())
	log := slog.New(h).With(slog.String("site", "news")).WithGroup("req")
	log.InfoContext(langcode.WithContext(context.Background(), "fr"), "grouped", slog.Int("n", 1))

	rec := decode(t, &buf)
	assert.Equal(t, "news", rec["site"])
	group, ok := rec["req"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "fr", group["language"])
	assert.EqualValues(t, 1, group["n"])
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	log.Error("dropped")
}
