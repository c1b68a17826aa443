package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Validator normalizes a raw value or explains why it is invalid.
type Validator func(raw string) (string, error)

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
)

// setting declares one configuration key.
type setting struct {
	key  string
	doc  string
	kind kind
	// fallback computes the default from the user's base directories.
	fallback func(base dirs) string
	// derive recomputes the value from the final config unless the key was
	// set explicitly.
	derive func(v map[string]string) string
	check  Validator
}

type dirs struct {
	home, config, state string
}

func constant(v string) func(dirs) string {
	return func(dirs) string { return v }
}

var settings = []setting{
	{key: "config_dir", doc: "Directory holding config.toml and contacts.toml.", fallback: func(d dirs) string { return d.config }},
	{key: "state_dir", doc: "Directory holding the database and logs.", fallback: func(d dirs) string { return d.state }},
	{key: "db_path", doc: "SQLite database for notes, pinned apps and feeds.", derive: func(v map[string]string) string {
		return filepath.Join(v["state_dir"], appName+".db")
	}},
	{key: "contacts_file", doc: "Address book ([[contact]] name/phone).", derive: func(v map[string]string) string {
		return filepath.Join(v["config_dir"], "contacts"+FileExtTOML)
	}},
	{key: "apps_dirs", doc: "Directories scanned for .desktop entries. Empty means the XDG defaults.", fallback: constant("")},
	{key: "home_dir", doc: "Start directory, and where cd goes without an argument.", fallback: func(d dirs) string { return d.home }},
	{key: "suggestion_limit", doc: "Maximum suggestions shown at once.", kind: kindInt, fallback: constant("25"), check: positiveInt},
	{key: "theme", doc: "Color theme: dark or light.", fallback: constant("dark"), check: oneOf("dark", "light")},
	{key: "metrics_addr", doc: "Serve Prometheus metrics on host:port. Empty disables.", fallback: constant(""), check: listenAddr},
	{key: "logging_enabled", doc: "Write a structured log file under state_dir/logs.", kind: kindBool, fallback: constant("false"), check: boolean},
	{key: "logging_level", doc: "Log level: debug, info, warn or error.", fallback: constant("info"), check: oneOf("debug", "info", "warn", "error")},
	{key: "logging_max_files", doc: "Log files kept before the oldest are removed.", kind: kindInt, fallback: constant("10"), check: positiveInt},
	{key: "debug", doc: "Verbose console output; also forces debug file logging.", kind: kindBool, fallback: constant("false"), check: boolean},
}

// typed converts a stored value back to its TOML type for the sample file.
func (s setting) typed(v string) any {
	switch s.kind {
	case kindInt:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	case kindBool:
		if b, ok := parseBool(v); ok {
			return b
		}
	}
	return v
}

func basePaths() dirs {
	home, _ := os.UserHomeDir()
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}
	return dirs{
		home:   home,
		config: filepath.Join(configHome, appName),
		state:  filepath.Join(stateHome, appName),
	}
}

func defaultValues(base dirs) map[string]string {
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		if s.fallback != nil {
			out[s.key] = s.fallback(base)
		}
	}
	for _, s := range settings {
		if s.derive != nil {
			out[s.key] = s.derive(out)
		}
	}
	return out
}

func positiveInt(raw string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return "", errors.New("must be a positive integer")
	}
	return strconv.Itoa(n), nil
}

func oneOf(allowed ...string) Validator {
	return func(raw string) (string, error) {
		v := strings.ToLower(strings.TrimSpace(raw))
		if !slices.Contains(allowed, v) {
			return "", fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return v, nil
	}
}

func boolean(raw string) (string, error) {
	b, ok := parseBool(raw)
	if !ok {
		return "", errors.New("must be one of: 1, true, yes, on, 0, false, no, off")
	}
	return strconv.FormatBool(b), nil
}

// listenAddr accepts host:port with a numeric port; the host may be empty.
func listenAddr(raw string) (string, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(host, " /") {
		return "", fmt.Errorf("bad host %q", host)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return "", fmt.Errorf("bad port %q", port)
	}
	return net.JoinHostPort(host, port), nil
}

func parseBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
