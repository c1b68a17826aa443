// Package config loads kshell settings. Layers, each overriding the last:
// built-in defaults, KSHELL_* environment variables, the TOML config file,
// and the environment again so it always wins over the file.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/devggaurav/KShell-UI/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FileModeDir is the mode of directories created for config and state.
	FileModeDir os.FileMode = 0o755
	// FileModeFile is the mode of the written sample config.
	FileModeFile os.FileMode = 0o644
	// FileExtTOML is the config file extension.
	FileExtTOML = ".toml"

	// EnvPrefix prefixes every environment override, e.g. KSHELL_THEME.
	EnvPrefix = "KSHELL_"
	// EnvConfigPath points at an explicit config file.
	EnvConfigPath = EnvPrefix + "CONFIG_PATH"

	appName = "kshell"
)

var (
	mu       sync.RWMutex
	values   map[string]string
	defaults map[string]string
)

// Load (re)reads configuration from every layer. It never fails: unreadable
// files and invalid values are reported as warnings and defaults are used.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	defaults = defaultValues(basePaths())
	values = maps.Clone(defaults)
	explicit := make(map[string]bool)

	env := envOverrides()
	// env first so KSHELL_CONFIG_DIR can move the config file
	apply(explicit, env)
	if file := readFile(configFilePath()); file != nil {
		apply(explicit, file)
	}
	apply(explicit, env)

	normalize()
	for _, s := range settings {
		if s.derive != nil && !explicit[s.key] {
			values[s.key] = s.derive(values)
		}
	}
	writeSample(values["config_dir"])
}

func apply(explicit map[string]bool, layer map[string]string) {
	for k, v := range layer {
		values[k] = v
		explicit[k] = true
	}
}

func envOverrides() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || name == EnvConfigPath {
			continue
		}
		out[strings.ToLower(strings.TrimPrefix(name, EnvPrefix))] = value
	}
	return out
}

// configFilePath is KSHELL_CONFIG_PATH, else config.toml in config_dir when
// it exists.
func configFilePath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	path := filepath.Join(values["config_dir"], "config"+FileExtTOML)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func readFile(path string) map[string]string {
	if path == "" {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), FileExtTOML) {
		colors.Warning(fmt.Sprintf("ignoring config file %s: only %s is supported", path, FileExtTOML))
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		return nil
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToLower(k)
		s, ok := tomlString(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		out[key] = s
	}
	return out
}

// tomlString flattens a decoded TOML value. String arrays become path lists
// so apps_dirs can be written as an array.
func tomlString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, string(os.PathListSeparator)), true
	default:
		return "", false
	}
}

// normalize runs every setting's check. Blank values mean the default.
func normalize() {
	for _, s := range settings {
		if s.check == nil {
			continue
		}
		raw := values[s.key]
		if strings.TrimSpace(raw) == "" {
			values[s.key] = defaults[s.key]
			continue
		}
		v, err := s.check(raw)
		if err != nil {
			colors.Warning(fmt.Sprintf("invalid %s %q: %v; using %q", s.key, raw, err, defaults[s.key]))
			v = defaults[s.key]
		}
		values[s.key] = v
	}
}

func writeSample(dir string) {
	if dir == "" {
		return
	}
	path := filepath.Join(dir, "config"+FileExtTOML)
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", dir, err))
		return
	}

	var b strings.Builder
	b.WriteString("# kshell configuration\n# This file is in TOML format.\n# Environment variables prefixed with KSHELL_ override these values.\n")
	for _, s := range settings {
		line, err := toml.Marshal(map[string]any{s.key: s.typed(defaults[s.key])})
		if err != nil {
			colors.Warning(fmt.Sprintf("unable to encode sample value for %s: %v", s.key, err))
			return
		}
		prefix := ""
		if s.derive != nil {
			// left commented so the value keeps following its directory
			prefix = "# "
		}
		fmt.Fprintf(&b, "\n# %s\n%s%s", s.doc, prefix, line)
	}
	if err := os.WriteFile(path, []byte(b.String()), FileModeFile); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", path, err))
	}
}

// Get returns the value of key, or defaultValue when it is not set.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := values[key]; ok {
		return v
	}
	return defaultValue
}

// GetInt returns key as an integer, or defaultValue.
func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns key as a boolean, or defaultValue.
func GetBool(key string, defaultValue bool) bool {
	b, ok := parseBool(Get(key, ""))
	if !ok {
		return defaultValue
	}
	return b
}

// GetList splits a path-list value such as apps_dirs. Empty elements are dropped.
func GetList(key string) []string {
	var out []string
	for _, part := range filepath.SplitList(Get(key, "")) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Set overrides a single value after Load. Command line flags use it.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if values == nil {
		values = make(map[string]string)
	}
	values[key] = value
}

// reset clears loaded state. Tests call it before Load.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	values, defaults = nil, nil
}
