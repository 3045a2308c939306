package logutils

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/logging"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "redline.log")

	logger, closer, err := New("info", path)
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("visible")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"visible"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redline.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New("info", path)
		require.NoError(t, err)
		logger.Info().Msg(msg)
		closer()
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}

func TestNewWithWriter_ContextHook(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(zerolog.InfoLevel, &buf)

	ctx := logging.WithDocumentID(context.Background(), "contract-7")
	logger.Info().Ctx(ctx).Msg("loaded")

	assert.Contains(t, buf.String(), `"document_id":"contract-7"`)
}
