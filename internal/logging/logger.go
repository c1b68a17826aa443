// Package logging provides structured logging for kshell: JSON records in a
// per-process file, or text records on any writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/devggaurav/KShell-UI/internal/colors"
)

// Logger is the structured logging interface used across kshell.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
	// Shutdown closes the log file, if any. Children share the file.
	Shutdown() error
}

type logger struct {
	base *clog.Logger
	out  *logFile
}

// logFile is the file shared by a logger and its children.
type logFile struct {
	f    *os.File
	path string
	once sync.Once
	err  error
}

func (lf *logFile) close() error {
	lf.once.Do(func() { lf.err = lf.f.Close() })
	return lf.err
}

// Open creates the file logger described by cfg, pruning old files first.
// A disabled config yields a logger that discards everything.
func Open(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return discard{}, nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = LogDir(); err != nil {
			return nil, fmt.Errorf("logging: resolve log dir: %w", err)
		}
	}
	if err := prune(dir, cfg.MaxFiles-1); err != nil {
		colors.Warning(fmt.Sprintf("logging: prune %s: %v", dir, err))
	}

	name := fmt.Sprintf("%s%s_PID%d_%s.log", filePrefix, time.Now().Format("20060102_150405"), cfg.PID, cfg.Tag)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}

	base := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           cfg.Level,
		Formatter:       clog.JSONFormatter,
	})
	return &logger{
		base: base.With("pid", cfg.PID, "process", cfg.Tag),
		out:  &logFile{f: f, path: path},
	}, nil
}

// New returns a text logger writing to w. level is a name such as "debug";
// unknown names mean info.
func New(w io.Writer, level string) Logger {
	lvl, err := clog.ParseLevel(level)
	if err != nil {
		lvl = clog.InfoLevel
	}
	return &logger{base: clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           lvl,
		Prefix:          "kshell",
	})}
}

func (l *logger) Debug(msg string, args ...any) { l.base.Debug(msg, redactPairs(args)...) }
func (l *logger) Info(msg string, args ...any)  { l.base.Info(msg, redactPairs(args)...) }
func (l *logger) Warn(msg string, args ...any)  { l.base.Warn(msg, redactPairs(args)...) }
func (l *logger) Error(msg string, args ...any) { l.base.Error(msg, redactPairs(args)...) }

func (l *logger) With(args ...any) Logger {
	return &logger{base: l.base.With(redactPairs(args)...), out: l.out}
}

func (l *logger) Shutdown() error {
	if l.out == nil {
		return nil
	}
	return l.out.close()
}

func (l *logger) path() string {
	if l.out == nil {
		return ""
	}
	return l.out.path
}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}
func (d discard) With(...any) Logger { return d }
func (discard) Shutdown() error      { return nil }

var (
	globalMu   sync.RWMutex
	global     Logger
	globalOnce sync.Once
)

// InitGlobal opens the file logger from the loaded configuration and makes
// it global. Only the first call has an effect.
func InitGlobal() error {
	var err error
	globalOnce.Do(func() {
		var l Logger
		if l, err = Open(FromGlobalConfig()); err == nil {
			SetGlobal(l)
		}
	})
	if path := CurrentLogFile(); err == nil && path != "" {
		colors.Debug("Logging to file:", path)
	}
	return err
}

// SetGlobal replaces the global logger and mirrors console output into it.
// A nil logger restores the discarding default.
func SetGlobal(l Logger) {
	globalMu.Lock()
	global = l
	globalMu.Unlock()
	if l == nil {
		colors.SetLogger(nil)
		return
	}
	colors.SetLogger(l)
}

// GetGlobal returns the global logger. It never returns nil.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return discard{}
	}
	return global
}

func Debug(msg string, args ...any) { GetGlobal().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetGlobal().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetGlobal().Warn(msg, args...) }
func Error(msg string, args ...any) { GetGlobal().Error(msg, args...) }

// With returns a child of the global logger.
func With(args ...any) Logger { return GetGlobal().With(args...) }

// ShutdownGlobal closes the global log file.
func ShutdownGlobal() error {
	return GetGlobal().Shutdown()
}

// CurrentLogFile returns the global log file path, or "" when the global
// logger does not write to a file.
func CurrentLogFile() string {
	if l, ok := GetGlobal().(*logger); ok {
		return l.path()
	}
	return ""
}
