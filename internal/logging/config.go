package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/devggaurav/KShell-UI/internal/config"
)

// Config describes the file logger.
type Config struct {
	Enabled  bool
	Level    clog.Level
	MaxFiles int
	// Dir overrides the resolved log directory.
	Dir string
	// Tag names the process in the file name and in every record,
	// e.g. "kshell" or "kshell-exec".
	Tag string
	PID int
}

// FromGlobalConfig builds a Config from the loaded configuration. debug
// forces file logging at debug level.
func FromGlobalConfig() Config {
	level, err := clog.ParseLevel(config.Get("logging_level", "info"))
	if err != nil {
		level = clog.InfoLevel
	}
	cfg := Config{
		Enabled:  config.GetBool("logging_enabled", false),
		Level:    level,
		MaxFiles: config.GetInt("logging_max_files", 10),
		Tag:      processTag(os.Args),
		PID:      os.Getpid(),
	}
	if config.GetBool("debug", false) {
		cfg.Enabled = true
		cfg.Level = clog.DebugLevel
	}
	return cfg
}

// processTag is the binary name plus the subcommand, if any.
func processTag(argv []string) string {
	if len(argv) == 0 {
		return "kshell"
	}
	tag := filepath.Base(argv[0])
	if len(argv) > 1 && argv[1] != "" && !strings.HasPrefix(argv[1], "-") {
		tag += "-" + argv[1]
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, tag)
}

// LogDir returns the first writable of {state_dir}/logs and
// {os.TempDir()}/kshell/logs, creating it with mode 0700.
func LogDir() (string, error) {
	var candidates []string
	if stateDir := config.Get("state_dir", ""); stateDir != "" {
		candidates = append(candidates, filepath.Join(stateDir, "logs"))
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), "kshell", "logs"))

	var errs []error
	for _, dir := range candidates {
		if err := usableDir(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		return dir, nil
	}
	return "", errors.Join(errs...)
}

func usableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	_ = tmp.Close()
	return os.Remove(name)
}
