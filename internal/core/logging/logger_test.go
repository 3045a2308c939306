package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	Component("engine").Info().Msg("test message")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "engine", entry["cmp"])
}

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	Document(zerolog.New(&buf), "doc-9").Info().Msg("hi")
	assert.Equal(t, "doc-9", decodeLine(t, &buf)["document_id"])

	buf.Reset()
	Document(zerolog.New(&buf), "").Info().Msg("hi")
	assert.NotContains(t, decodeLine(t, &buf), "document_id")
}
