// Package logger is a small leveled, printf-style logger on top of zap.
//
// Output goes to stderr so that it never interleaves with the prompts the
// collector writes to stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TraceLevel sits below zap's debug level.
const TraceLevel = zapcore.DebugLevel - 1

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = newZap(os.Stderr)
)

func newZap(w io.Writer) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     encodeTime,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// ParseLevel converts a level name (trace, debug, info, warn, error, fatal,
// panic) into a level. An empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: use trace, debug, info, warn, error, fatal or panic", s)
	}
	return l, nil
}

// SetLevel sets the minimum level that is written.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// GetLevel returns the current minimum level.
func GetLevel() zapcore.Level {
	return level.Level()
}

// SetOutput redirects log output. Mostly useful in tests.
func SetOutput(w io.Writer) {
	base = newZap(w)
}

// Sync flushes buffered entries.
func Sync() {
	_ = base.Sync()
}

func logf(l zapcore.Level, format string, args ...any) {
	if !level.Enabled(l) {
		return
	}
	if ce := base.Check(l, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func Trace(format string, args ...any) { logf(TraceLevel, format, args...) }

func Debug(format string, args ...any) { logf(zapcore.DebugLevel, format, args...) }

func Info(format string, args ...any) { logf(zapcore.InfoLevel, format, args...) }

func Warn(format string, args ...any) { logf(zapcore.WarnLevel, format, args...) }
