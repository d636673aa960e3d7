package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is the TUI log file inside the config directory.
const LogFileName = "propertydesk.log"

// ParseLevel maps a level name such as "debug" to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid %s %q", KeyLogLevel, name)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, levelName string) (*slog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// SetupFileLogging installs a default logger writing to the log file in
// configDir. The terminal belongs to the TUI, so nothing goes to stderr.
// The returned closer flushes and closes the file.
func SetupFileLogging(configDir, levelName string) (io.Closer, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(configDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := NewLogger(f, levelName)
	if err != nil {
		f.Close()
		return nil, err
	}
	slog.SetDefault(logger)
	return f, nil
}

// SetupStderrLogging installs a default logger writing to stderr.
func SetupStderrLogging(levelName string) error {
	logger, err := NewLogger(os.Stderr, levelName)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
