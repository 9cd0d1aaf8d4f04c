// internal/platform/logx/logx.go
package logx

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the key/value logger used across the module.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
	Sync() error
}

type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New builds a console logger on stderr. The level comes from OPPSYNC_LOG_LEVEL
// and the format from OPPSYNC_LOG_FORMAT ("console" or "json").
func New() Logger {
	return NewWithOptions(Options{
		Level:  parseLevel(os.Getenv("OPPSYNC_LOG_LEVEL")),
		Format: os.Getenv("OPPSYNC_LOG_FORMAT"),
		Output: os.Stderr,
	})
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar(), level: zap.NewAtomicLevelAt(zapcore.FatalLevel)}
}

// Options configures NewWithOptions.
type Options struct {
	Level  Level
	Format string
	Output io.Writer
}

// NewWithOptions builds a logger writing to opts.Output.
func NewWithOptions(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zap.NewAtomicLevelAt(toZap(opts.Level))
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), level)
	return &zapLogger{sugar: zap.New(core).Sugar(), level: level}
}

func (z *zapLogger) With(kv ...any) Logger {
	return &zapLogger{sugar: z.sugar.With(pairs(kv)...), level: z.level}
}

// SetLevel changes the level of this logger and every logger derived from it.
func (z *zapLogger) SetLevel(lvl Level) { z.level.SetLevel(toZap(lvl)) }

func (z *zapLogger) Debug(msg string, kv ...any) { z.sugar.Debugw(msg, pairs(kv)...) }
func (z *zapLogger) Info(msg string, kv ...any)  { z.sugar.Infow(msg, pairs(kv)...) }
func (z *zapLogger) Warn(msg string, kv ...any)  { z.sugar.Warnw(msg, pairs(kv)...) }
func (z *zapLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	z.sugar.Errorw(err.Error(), pairs(kv)...)
}

func (z *zapLogger) Sync() error { return z.sugar.Sync() }

// pairs pads an odd-length list so zap never logs an "Ignored key" warning.
func pairs(kv []any) []any {
	if len(kv)%2 == 0 {
		return kv
	}
	out := make([]any, len(kv), len(kv)+1)
	copy(out, kv)
	return append(out, "(missing)")
}

func toZap(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel converts a textual level; unknown values map to info.
func ParseLevel(s string) Level { return parseLevel(s) }

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
