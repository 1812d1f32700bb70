package logger

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor := Output, color.NoColor
	Output = &buf
	color.NoColor = true
	t.Cleanup(func() {
		Output = prevOut
		color.NoColor = prevNoColor
		Init(false)
	})
	return &buf
}

func TestDebugIsSilentUntilEnabled(t *testing.T) {
	buf := captureOutput(t)

	Debug("[DEBUG] hidden\n")
	assert.Empty(t, buf.String())

	Init(true)
	Debug("[DEBUG] shown %d\n", 1)
	assert.Equal(t, "[DEBUG] shown 1\n", buf.String())
}

func TestLevels(t *testing.T) {
	buf := captureOutput(t)

	Info("[INFO] a\n")
	Warn("[WARN] b\n")
	Error("[ERROR] c\n")
	assert.Equal(t, "[INFO] a\n[WARN] b\n[ERROR] c\n", buf.String())
}

func TestPathCacheLogsOncePerPath(t *testing.T) {
	buf := captureOutput(t)
	var cache PathCache

	assert.True(t, cache.Found("openclaw", "/usr/local/bin/openclaw"))
	assert.False(t, cache.Found("openclaw", "/usr/local/bin/openclaw"))
	assert.True(t, cache.Found("node", "/usr/local/bin/node"))
	assert.True(t, cache.Found("openclaw", "/opt/homebrew/bin/openclaw"))
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("[INFO] Found")))

	cache.Reset()
	assert.True(t, cache.Found("openclaw", "/opt/homebrew/bin/openclaw"))
}
