// Package logging builds the per subsystem loggers used by the client.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

const (
	defaultMaxLogFiles = 3
	rotateThresholdKB  = 10 * 1024
)

// LogConfig configures a LogBackend.
type LogConfig struct {
	// DebugLevel is either a level name or "level,SUBSYS=level,...".
	DebugLevel string
	// LogFile, when set, receives a copy of the output and is rotated.
	LogFile     string
	MaxLogFiles int
	// Stdout replaces os.Stdout as the console writer. io.Discard silences
	// it.
	Stdout io.Writer
}

// LogBackend hands out loggers that share one output and level table.
type LogBackend struct {
	mtx          sync.Mutex
	backend      *slog.Backend
	rotator      *rotator.Rotator
	defaultLevel slog.Level
	levels       map[string]slog.Level
	loggers      map[string]slog.Logger
}

type logWriter struct {
	console io.Writer
	rotator *rotator.Rotator
}

func (w logWriter) Write(p []byte) (int, error) {
	if w.console != nil {
		w.console.Write(p)
	}
	if w.rotator != nil {
		w.rotator.Write(p)
	}
	return len(p), nil
}

// NewLogBackend parses cfg.DebugLevel and opens the log file, if any.
func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	def, levels, err := ParseLevels(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}

	w := logWriter{console: cfg.Stdout}
	if w.console == nil {
		w.console = os.Stdout
	}

	var r *rotator.Rotator
	if cfg.LogFile != "" {
		maxFiles := cfg.MaxLogFiles
		if maxFiles <= 0 {
			maxFiles = defaultMaxLogFiles
		}
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		r, err = rotator.New(cfg.LogFile, rotateThresholdKB, false, maxFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to create file rotator: %w", err)
		}
		w.rotator = r
	}

	return &LogBackend{
		backend:      slog.NewBackend(w),
		rotator:      r,
		defaultLevel: def,
		levels:       levels,
		loggers:      make(map[string]slog.Logger),
	}, nil
}

// Logger returns the logger of subsys, creating it on first use.
func (lb *LogBackend) Logger(subsys string) slog.Logger {
	lb.mtx.Lock()
	defer lb.mtx.Unlock()
	if l, ok := lb.loggers[subsys]; ok {
		return l
	}
	l := lb.backend.Logger(subsys)
	l.SetLevel(lb.levelFor(subsys))
	lb.loggers[subsys] = l
	return l
}

func (lb *LogBackend) levelFor(subsys string) slog.Level {
	if lvl, ok := lb.levels[subsys]; ok {
		return lvl
	}
	return lb.defaultLevel
}

// SetLevels applies a new DebugLevel string to every logger.
func (lb *LogBackend) SetLevels(debugLevel string) error {
	def, levels, err := ParseLevels(debugLevel)
	if err != nil {
		return err
	}
	lb.mtx.Lock()
	defer lb.mtx.Unlock()
	lb.defaultLevel = def
	lb.levels = levels
	for subsys, l := range lb.loggers {
		l.SetLevel(lb.levelFor(subsys))
	}
	return nil
}

// Close flushes and closes the log file.
func (lb *LogBackend) Close() error {
	if lb.rotator == nil {
		return nil
	}
	return lb.rotator.Close()
}

// ParseLevels parses "level" or "level,SUBSYS=level,...". An empty string
// means info.
func ParseLevels(s string) (slog.Level, map[string]slog.Level, error) {
	def := slog.LevelInfo
	levels := make(map[string]slog.Level)
	s = strings.TrimSpace(s)
	if s == "" {
		return def, levels, nil
	}

	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		subsys, name, found := strings.Cut(part, "=")
		if !found {
			if i != 0 {
				return 0, nil, fmt.Errorf("default level %q must come first", part)
			}
			name = subsys
			subsys = ""
		}
		lvl, ok := slog.LevelFromString(strings.TrimSpace(name))
		if !ok {
			return 0, nil, fmt.Errorf("invalid log level %q", name)
		}
		if subsys == "" {
			def = lvl
			continue
		}
		levels[strings.ToUpper(strings.TrimSpace(subsys))] = lvl
	}
	return def, levels, nil
}
