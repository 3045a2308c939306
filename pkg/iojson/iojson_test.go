package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestFileReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"sug-1","count":2}`), 0o644))

	fr := &FileReader[payload]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, payload{ID: "sug-1", Count: 2}, got)
}

func TestFileReader_Stdin(t *testing.T) {
	fr := &FileReader[payload]{fileFlagValue: "-", stdin: strings.NewReader(`{"id":"x"}`)}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
}

func TestFileReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		fr   *FileReader[payload]
		want string
	}{
		{
			name: "missing file",
			fr:   &FileReader[payload]{fileFlagValue: filepath.Join(t.TempDir(), "missing.json")},
			want: "open file",
		},
		{
			name: "terminal",
			fr:   &FileReader[payload]{isTerminal: func() bool { return true }},
			want: "stdin is a terminal",
		},
		{
			name: "bad json",
			fr:   &FileReader[payload]{stdin: strings.NewReader("{")},
			want: "decode JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fr.Read()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, payload{ID: "a", Count: 1}))
	assert.Equal(t, "{\n  \"id\": \"a\",\n  \"count\": 1\n}\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"bad": make(chan int)}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "not found", map[string]any{"id": "risk-9"}))

	var got Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "not found", got.Message)
	assert.Equal(t, "risk-9", got.Data["id"])
}
