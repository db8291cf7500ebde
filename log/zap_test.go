// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entries decodes the JSON lines written by a Zap logger
func entries(t *testing.T, out []byte) []map[string]any {
	t.Helper()
	var lines []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		entry := make(map[string]any)
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestZap(t *testing.T) {
	t.Run("With entries below the level dropped", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Debugf("dropped %d", 1)
		logger.Infof("kept %d", 2)
		logger.Warn("falling behind")

		lines := entries(t, buffer.Bytes())
		require.Len(t, lines, 2)
		assert.Equal(t, "kept 2", lines[0]["msg"])
		assert.Equal(t, "info", lines[0]["level"])
		assert.Equal(t, "falling behind", lines[1]["msg"])
		assert.Equal(t, "warn", lines[1]["level"])
	})
	t.Run("With errors carrying a stacktrace", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(DebugLevel, buffer)
		logger.Errorf("handler failed: %s", "boom")

		lines := entries(t, buffer.Bytes())
		require.Len(t, lines, 1)
		assert.Equal(t, "error", lines[0]["level"])
		assert.Contains(t, lines[0], "stacktrace")
		assert.Contains(t, lines[0]["caller"], "zap_test.go")
	})
	t.Run("With panic", func(t *testing.T) {
		logger := NewZap(PanicLevel, new(bytes.Buffer))
		assert.Panics(t, func() { logger.Panic("desync") })
		assert.Panics(t, func() { logger.Panicf("desync %s", "FOO") })
	})
	t.Run("With levels", func(t *testing.T) {
		logger := NewZap(WarningLevel, new(bytes.Buffer))
		assert.Equal(t, WarningLevel, logger.Level())
		assert.False(t, logger.Enabled(InfoLevel))
		assert.True(t, logger.Enabled(WarningLevel))
		assert.True(t, logger.Enabled(ErrorLevel))
	})
}

func TestZapWith(t *testing.T) {
	t.Run("With actor fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		child := logger.With("actor", "A1B2C3", "uuid", "A1B2C3D4", "timeout", int64(100))
		child.Info("started")
		logger.Info("unchanged")

		lines := entries(t, buffer.Bytes())
		require.Len(t, lines, 2)
		assert.Equal(t, "A1B2C3", lines[0]["actor"])
		assert.Equal(t, "A1B2C3D4", lines[0]["uuid"])
		assert.EqualValues(t, 100, lines[0]["timeout"])
		assert.NotContains(t, lines[1], "actor")
		assert.Equal(t, InfoLevel, child.Level())
	})
	t.Run("With no pairs", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
	})
}

func TestZapDisk(t *testing.T) {
	t.Run("With rotating file flushed on Flush", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sphactor.log")
		rotating := NewRotatingFile(path, 1, 1, 1)

		stdout := new(bytes.Buffer)
		logger := NewZap(InfoLevel, stdout, rotating)
		logger.Info("rotating")
		assert.Len(t, entries(t, stdout.Bytes()), 1)

		require.NoError(t, logger.Flush())
		require.NoError(t, rotating.Close())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := entries(t, content)
		require.Len(t, lines, 1)
		assert.Equal(t, "rotating", lines[0]["msg"])
	})
	t.Run("With errors written through", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "errors.log")
		file, err := os.Create(path)
		require.NoError(t, err)

		logger := NewZap(InfoLevel, file)
		logger.Info("buffered")
		logger.Error("urgent")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, entries(t, content), 2)

		require.NoError(t, logger.Flush())
		require.NoError(t, file.Close())
	})
	t.Run("With stdout only", func(t *testing.T) {
		logger := NewZap(InfoLevel)
		assert.NoError(t, logger.Flush())
		assert.False(t, onDisk(os.Stdout))
		assert.False(t, onDisk(new(bytes.Buffer)))
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("debug")
	logger.Infof("info %d", 1)
	logger.Warn("warn")
	logger.Errorf("error %d", 1)

	assert.False(t, logger.Enabled(PanicLevel))
	assert.Equal(t, PanicLevel, logger.Level())
	assert.Equal(t, logger, logger.With("actor", "A1B2C3"))
	assert.NoError(t, logger.Flush())
	assert.PanicsWithValue(t, "desync 42", func() { logger.Panicf("desync %d", 42) })
	assert.PanicsWithValue(t, "desync", func() { logger.Panic("desync") })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarningLevel,
		"WARN":    WarningLevel,
		"error":   ErrorLevel,
		"panic":   PanicLevel,
	}
	for name, expected := range cases {
		level, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, expected, level, name)
	}

	_, err := ParseLevel("bogus")
	assert.Error(t, err)
	assert.Equal(t, "warn", WarningLevel.String())
}
