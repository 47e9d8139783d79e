package logbridge

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &m))
	return m
}

func TestLogWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf).Level(zerolog.TraceLevel))

	l.Log(4, "conversion slow", "App.vue:42", map[string]string{"file": "a.png"})

	line := lastLine(t, &buf)
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "conversion slow", line["message"])
	assert.Equal(t, "webview", line["source"])
	assert.Equal(t, "App.vue:42", line["location"])
	assert.Equal(t, "a.png", line["file"])
}

func TestLogUnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Log(99, "odd", "", nil)

	line := lastLine(t, &buf)
	assert.Equal(t, "info", line["level"])
	_, hasLocation := line["location"]
	assert.False(t, hasLocation)
}

func TestName(t *testing.T) {
	assert.Equal(t, "log", New(zerolog.Nop()).Name())
}
