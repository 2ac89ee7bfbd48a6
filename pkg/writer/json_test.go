package writer

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter[sampleRow]()

	err := w.Write(sampleRow{Name: "heap", Count: 7}, &buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"heap","count":7}`, buf.String())
}

func TestJSONWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrettyJSONWriter[sampleRow]()

	err := w.Write(sampleRow{Name: "stack/mmap", Count: 1}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\n  \"name\"")
}

func TestJSONWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewJSONWriter[[]sampleRow]()

	err := w.WriteToFile([]sampleRow{{Name: "a", Count: 2}}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []sampleRow
	require.NoError(t, json.Unmarshal(data, &rows))
	assert.Equal(t, int64(2), rows[0].Count)
}

func TestGzipWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewGzipWriter[sampleRow]()

	err := w.Write(sampleRow{Name: "main.c:42", Count: 13}, &buf)
	require.NoError(t, err)

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)

	var row sampleRow
	require.NoError(t, json.Unmarshal(raw, &row))
	assert.Equal(t, "main.c:42", row.Name)
	assert.Equal(t, int64(13), row.Count)
}
