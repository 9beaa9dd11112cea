// Package logging provides the structured logger used across the FAVES
// engine. It wraps zap behind a small interface so domain packages do not
// import zap directly.
package logging

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a typed key/value pair attached to a log entry.
type Field = zap.Field

// Field constructors re-exported so callers never import zap.
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Uint32   = zap.Uint32
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Time     = zap.Time
	Err      = zap.Error
	Any      = zap.Any
	Strings  = zap.Strings
)

// Logger is the logging surface exposed to the rest of the engine.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	// SetLevel changes the minimum emitted level at runtime. Loggers not
	// built by New treat it as a no-op.
	SetLevel(level string) error
	Sync() error
}

type zapLogger struct {
	l   *zap.Logger
	lvl *zap.AtomicLevel
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, fields...) }
func (z *zapLogger) Sync() error                       { return z.l.Sync() }

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{l: z.l.With(fields...), lvl: z.lvl}
}

func (z *zapLogger) SetLevel(level string) error {
	if z.lvl == nil {
		return nil
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	z.lvl.SetLevel(parsed)
	return nil
}

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is "json" or "console". Defaults to json.
	Format string
	// Development enables caller annotation and stack traces on Error.
	Development bool
}

// New builds a zap-backed Logger writing to stderr.
func New(opts Options) (Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if opts.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	atomic := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atomic)

	zopts := []zap.Option{}
	if opts.Development {
		zopts = append(zopts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return &zapLogger{l: zap.New(core, zopts...), lvl: &atomic}, nil
}

// NewFromCore wraps an existing zapcore.Core. Tests use this with an
// observer core to assert emitted entries.
func NewFromCore(core zapcore.Core) Logger {
	return &zapLogger{l: zap.New(core)}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{l: zap.NewNop()}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewNop()
)

// SetDefault installs the process-wide logger returned by Default.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the process-wide logger. Before SetDefault it is a nop.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

type ctxKey struct{}

// WithContext stores l on ctx for retrieval with FromContext.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored on ctx, or the default logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return Default()
}
