// Package telemetry is opt-in crash and error reporting through Sentry.
// Every function is a safe no-op until Init succeeds with a DSN.
package telemetry

import (
	"runtime"
	"time"

	gosentry "github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

// EnvDSN names the environment variable that enables reporting.
const EnvDSN = "SHOPLIST_SENTRY_DSN"

var enabled bool

// Init configures the SDK. An empty dsn leaves reporting off.
func Init(dsn, version string) error {
	if dsn == "" {
		enabled = false
		return nil
	}
	return initClient(gosentry.ClientOptions{
		Dsn:              dsn,
		Release:          "shoplist@" + version,
		AttachStacktrace: true,
	})
}

func initClient(opts gosentry.ClientOptions) error {
	if err := gosentry.Init(opts); err != nil {
		return err
	}
	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
	})
	enabled = true
	return nil
}

func IsEnabled() bool { return enabled }

// Flush waits up to 2 seconds for buffered events.
func Flush() {
	if !enabled {
		return
	}
	gosentry.Flush(2 * time.Second)
}

// RecoverPanic reports a panic, flushes, then re-panics.
// Usage: defer telemetry.RecoverPanic()
func RecoverPanic() {
	if !enabled {
		return
	}
	if err := recover(); err != nil {
		gosentry.CurrentHub().Recover(err)
		gosentry.Flush(2 * time.Second)
		panic(err)
	}
}

// Core wraps inner so log entries also reach Sentry: error level and
// above become events carrying the entry's fields (a zap.Error field
// becomes the event's exception), lower levels leave breadcrumbs.
// Use with zap.WrapCore.
func Core(inner zapcore.Core) zapcore.Core {
	return &sentryCore{Core: inner}
}

type sentryCore struct {
	zapcore.Core
	fields []zapcore.Field
}

func (c *sentryCore) With(fields []zapcore.Field) zapcore.Core {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	return &sentryCore{Core: c.Core.With(fields), fields: append(all, fields...)}
}

func (c *sentryCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *sentryCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	err := c.Core.Write(e, fields)
	if enabled {
		all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
		report(e, append(append(all, c.fields...), fields...))
	}
	return err
}

func report(e zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	var cause error
	for _, f := range fields {
		if f.Type == zapcore.ErrorType && cause == nil {
			cause, _ = f.Interface.(error)
		}
		f.AddTo(enc)
	}

	if e.Level >= zapcore.ErrorLevel {
		event := gosentry.NewEvent()
		event.Level = gosentry.LevelError
		event.Message = e.Message
		event.Logger = e.LoggerName
		event.Extra = enc.Fields
		if cause != nil {
			event.SetException(cause, 10)
		}
		gosentry.CaptureEvent(event)
		return
	}
	level := gosentry.LevelInfo
	switch e.Level {
	case zapcore.WarnLevel:
		level = gosentry.LevelWarning
	case zapcore.DebugLevel:
		level = gosentry.LevelDebug
	}
	gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
		Level:     level,
		Category:  "log",
		Message:   e.Message,
		Data:      enc.Fields,
		Timestamp: e.Time,
	})
}
