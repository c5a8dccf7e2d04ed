// Package log wires the standard slog API to a rotating file sink.
package log

import (
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/log/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup routes slog output to a rotating log file under the data directory.
// TUI programs own the terminal, so nothing is ever written to stderr.
func Setup(dataDir string, debug bool) {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "logs", "sift.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    debug,
		Level:           level,
	})
	slog.SetDefault(slog.New(handler))
}
