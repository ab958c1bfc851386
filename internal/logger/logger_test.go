package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetLevel("WARN")
	SetOutput(&buf)
	t.Cleanup(func() {
		SetLevel("INFO")
		SetOutput(os.Stdout)
	})

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
	assert.Equal(t, LevelWarn, GetLevel())
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	SetLevel("debug")
	t.Cleanup(func() { SetLevel("INFO") })

	SetLevel("verbose")
	assert.Equal(t, LevelDebug, GetLevel())
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Configure("INFO", "text", "stdout"))
	})

	t.Run("JSONToFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.log")
		require.NoError(t, Configure("debug", "json", path))

		Debug("hello %s", "world")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"@message":"hello world"`)
	})

	t.Run("RejectsUnknownFormat", func(t *testing.T) {
		assert.Error(t, Configure("INFO", "xml", "stdout"))
	})

	t.Run("RejectsUnknownLevel", func(t *testing.T) {
		assert.Error(t, Configure("LOUD", "text", "stdout"))
	})
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	SetLevel("INFO")
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	l := Named("journal")
	l.Info("opened")
	l.Debug("filtered")

	out := buf.String()
	assert.Contains(t, out, "journal: opened")
	assert.NotContains(t, out, "filtered")
}
