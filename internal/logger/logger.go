package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is the minimum level, e.g. "debug", "info", "warn" or "error".
	Level string
	// File, if non-empty, also receives every entry as JSON.
	File string
	// Out receives INFO and WARN entries (default os.Stdout).
	Out io.Writer
	// Err receives ERROR entries and above (default os.Stderr).
	Err io.Writer
}

// New builds a console logger that routes INFO/WARN to Out and ERROR+ to Err.
// Returns a cleanup function that flushes the logger and closes the log file.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	out, errOut := opts.Out, opts.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	console := zapcore.NewConsoleEncoder(encCfg)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l >= zapcore.ErrorLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(console, zapcore.Lock(zapcore.AddSync(out)), low),
		zapcore.NewCore(console, zapcore.Lock(zapcore.AddSync(errOut)), high),
	}

	closeFile := func() {}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFile = func() { f.Close() }
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level))
	}

	log := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = log.Sync()
		closeFile()
	}
	return log, cleanup, nil
}

// Named returns a child logger with the provided component name.
func Named(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(component)
}
