package main

import (
	"log/slog"
	"strings"

	"github.com/rizsotto/citrace/internal/buildlog"
)

// initLogging mirrors the teacher's initSlog: when kong's command string
// has more than one word (a subcommand with positional arguments, such as
// intercept), the subcommand name is appended to the log file name, so
// intercept and citnames runs write to separate files.
func initLogging(logFile, level, command string) (*slog.Logger, error) {
	if logFile != "" && strings.Contains(command, " ") {
		logFile += "." + strings.Fields(command)[0]
	}
	return buildlog.Init(buildlog.Options{LogFile: logFile, LogLevel: level})
}
