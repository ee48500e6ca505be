package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestDebug_QuietByDefault(t *testing.T) {
	buf := capture(t, false)

	Debug("corpus %s", "stores/a")
	Info("uploaded %d", 1)
	Section("Upload")

	assert.Empty(t, buf.String())
	assert.False(t, IsVerbose())
}

func TestDebug_Verbose(t *testing.T) {
	buf := capture(t, true)

	Debug("corpus %s", "stores/a")
	Info("uploaded %d", 1)
	Section("Upload")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] corpus stores/a\n")
	assert.Contains(t, out, "[INFO] uploaded 1\n")
	assert.Contains(t, out, "=== Upload ===")
	assert.True(t, IsVerbose())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("history append failed: %s", "disk full")

	assert.Equal(t, "[WARN] history append failed: disk full\n", buf.String())
}
