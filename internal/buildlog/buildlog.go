// Package buildlog builds the shared slog logger both subcommands use, the
// way cmd/sand/main.go's initSlog does it, substituting lumberjack-backed
// rotation for the teacher's raw os.OpenFile.
package buildlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	LogFile  string
	LogLevel string
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init builds a JSON-handler slog.Logger, installs it as the process
// default, and returns it. An empty LogFile logs to stderr.
func Init(opts Options) (*slog.Logger, error) {
	var handlerOut = os.Stderr
	var writer interface {
		Write([]byte) (int, error)
	} = handlerOut

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("buildlog: create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
		}
	}

	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(opts.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger, nil
}
