package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shoplist.log")
	logger, err := New(path, false)
	require.NoError(t, err)

	logger.Info("hello")
	logger.Debug("hidden")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestNew_DebugAndHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoplist.log")
	var seen []zapcore.Level
	logger, err := New(path, true, zap.Hooks(func(e zapcore.Entry) error {
		seen = append(seen, e.Level)
		return nil
	}))
	require.NoError(t, err)

	logger.Debug("d")
	logger.Error("e")
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.ErrorLevel}, seen)
}
