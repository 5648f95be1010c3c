// Package logger provides a zerolog wrapper with opinionated defaults,
// optional rotating file output, and context-scoped logging support
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"campaigntracker/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures rotating file output; an empty Path disables it
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Component    string
	Writer       io.Writer
	File         FileOptions
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv builds Options using the logging-free raw config view (no cycles)
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", "debug")),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
		File: FileOptions{
			Path:       rc.Get("FILE", ""),
			MaxSizeMB:  rc.GetInt("FILE_MAX_MB", 100),
			MaxBackups: rc.GetInt("FILE_MAX_BACKUPS", 5),
			MaxAgeDays: rc.GetInt("FILE_MAX_AGE_DAYS", 14),
			Compress:   rc.GetBool("FILE_COMPRESS", true),
		},
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
	closer io.Closer
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the process-wide root logger as a pointer
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init configures zerolog and builds the root logger, safe to call once
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
		// the file always gets JSON lines regardless of the console format
		if fw := fileWriter(opt.File); fw != nil {
			closer = fw
			w = zerolog.MultiLevelWriter(w, fw)
		}

		ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()

		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			ctx = ctx.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			ctx = ctx.Str("service", opt.Service)
		}
		if opt.Component != "" {
			ctx = ctx.Str("component", opt.Component)
		}
		for k, v := range opt.StaticFields {
			ctx = ctx.Str(k, v)
		}

		log := ctx.Logger()
		if opt.WithCaller {
			log = log.With().Caller().Logger()
		}
		if opt.SampleEvery > 1 {
			log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}

		root.Store(&log)
		inited.Store(true)
	})
}

func fileWriter(f FileOptions) *lumberjack.Logger {
	if strings.TrimSpace(f.Path) == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
		Compress:   f.Compress,
	}
}

// Close flushes and closes the rotating file, if one was configured
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.DebugLevel
	}
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"request_id"}
	keyMessageID = ctxKey{"message_id"}
	keyRunID     = ctxKey{"run_id"}
)

// WithRequest annotates ctx with an HTTP request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return withValue(ctx, keyRequestID, reqID)
}

// WithMessage annotates ctx with the chat message being handled
func WithMessage(ctx context.Context, messageID string) context.Context {
	return withValue(ctx, keyMessageID, messageID)
}

// WithRun annotates ctx with a refresh run id
func WithRun(ctx context.Context, runID string) context.Context {
	return withValue(ctx, keyRunID, runID)
}

func withValue(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// C returns a child logger enriched from ctx (request_id, message_id, run_id)
func C(ctx context.Context) *Logger {
	builder := Get().With()
	for _, k := range []ctxKey{keyRequestID, keyMessageID, keyRunID} {
		if s, ok := ctx.Value(k).(string); ok && s != "" {
			builder = builder.Str(k.name, s)
		}
	}
	ll := builder.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
