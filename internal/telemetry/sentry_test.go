package telemetry

import (
	"errors"
	"sync"
	"testing"

	gosentry "github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_EmptyDSN(t *testing.T) {
	assert.NoError(t, Init("", "dev"))
	assert.False(t, IsEnabled())
	// all of these must be safe no-ops
	Flush()
	func() {
		defer RecoverPanic()
	}()
}

func TestIsEnabled(t *testing.T) {
	enabled = true
	assert.True(t, IsEnabled())
	enabled = false
	assert.False(t, IsEnabled())
}

// captured collects what would have been sent; nothing leaves the process.
type captured struct {
	mu     sync.Mutex
	events []*gosentry.Event
	crumbs []*gosentry.Breadcrumb
}

func enableForTest(t *testing.T) *captured {
	t.Helper()
	c := &captured{}
	require.NoError(t, initClient(gosentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(e *gosentry.Event, _ *gosentry.EventHint) *gosentry.Event {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.events = append(c.events, e)
			return nil
		},
		BeforeBreadcrumb: func(b *gosentry.Breadcrumb, _ *gosentry.BreadcrumbHint) *gosentry.Breadcrumb {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.crumbs = append(c.crumbs, b)
			return b
		},
	}))
	t.Cleanup(func() {
		gosentry.CurrentHub().ConfigureScope(func(s *gosentry.Scope) { s.ClearBreadcrumbs() })
		_ = Init("", "dev")
	})
	return c
}

func TestCore_ErrorCarriesCauseAndFields(t *testing.T) {
	c := enableForTest(t)
	obs, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(obs, zap.WrapCore(Core)).With(zap.String("component", "tui"))

	log.Error("create failed", zap.String("title", "Milk"), zap.Error(errors.New("api error 500: boom")))

	assert.Equal(t, 1, logs.Len(), "entry still reaches the wrapped core")
	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.events, 1)
	ev := c.events[0]
	assert.Equal(t, "create failed", ev.Message)
	assert.Equal(t, gosentry.LevelError, ev.Level)
	assert.Equal(t, "Milk", ev.Extra["title"])
	assert.Equal(t, "tui", ev.Extra["component"])
	require.NotEmpty(t, ev.Exception)
	assert.Equal(t, "api error 500: boom", ev.Exception[len(ev.Exception)-1].Value)
}

func TestCore_WarnBecomesBreadcrumb(t *testing.T) {
	c := enableForTest(t)
	obs, _ := observer.New(zapcore.DebugLevel)
	log := zap.New(obs, zap.WrapCore(Core))

	log.Warn("fetch failed", zap.Int("attempt", 2))

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.events)
	require.Len(t, c.crumbs, 1)
	assert.Equal(t, gosentry.LevelWarning, c.crumbs[0].Level)
	assert.Equal(t, "fetch failed", c.crumbs[0].Message)
	assert.EqualValues(t, 2, c.crumbs[0].Data["attempt"])
}

func TestCore_DisabledOnlyLogs(t *testing.T) {
	require.NoError(t, Init("", "dev"))
	obs, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(obs, zap.WrapCore(Core))

	log.Error("boom", zap.Error(errors.New("x")))
	log.Debug("below level")
	assert.Equal(t, 1, logs.Len())
}
