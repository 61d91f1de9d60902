package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Service: "wows", Output: &buf})

	ctx := l.WithRequestID(context.Background(), "req-1")
	ctx = l.WithAdmin(ctx, "admin")
	l.Error(ctx, "boom", errors.New("db down"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "wows", line["service"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "admin", line["admin"])
	assert.Equal(t, "db down", line["error"])
	assert.Equal(t, "boom", line["message"])
	assert.Equal(t, "error", line["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf, Level: zerolog.WarnLevel})
	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())
	l.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}
