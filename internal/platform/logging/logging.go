package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const (
	envLocal       = "local"
	envDevelopment = "development"
	envProduction  = "production"
)

// dualHandler writes every record to the core handler and copies errors to
// a second sink.
type dualHandler struct {
	core   slog.Handler
	errors slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.core.Enabled(ctx, lvl) || h.errors.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.core.Enabled(ctx, r.Level) {
		err = h.core.Handle(ctx, r)
	}
	if r.Level >= slog.LevelError && h.errors.Enabled(ctx, r.Level) {
		if fileErr := h.errors.Handle(ctx, r.Clone()); fileErr != nil && err == nil {
			err = fileErr
		}
	}
	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{core: h.core.WithAttrs(attrs), errors: h.errors.WithAttrs(attrs)}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{core: h.core.WithGroup(name), errors: h.errors.WithGroup(name)}
}

// New builds the process logger. JSON output in development, text
// elsewhere; debug level everywhere except production. When errorLogPath is
// set, error records are also appended to that file.
func New(env, errorLogPath string) *slog.Logger {
	return newLogger(env, os.Stdout, errorLogPath)
}

func newLogger(env string, out io.Writer, errorLogPath string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProduction {
		level = slog.LevelInfo
	}

	var core slog.Handler
	switch env {
	case envDevelopment:
		core = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case envLocal, envProduction:
		core = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	default:
		core = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if errorLogPath == "" {
		return slog.New(core)
	}
	errorFile, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(core)
		logger.Warn("cannot open error log file", "path", errorLogPath, "err", err)
		return logger
	}
	return slog.New(&dualHandler{
		core:   core,
		errors: slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError}),
	})
}
