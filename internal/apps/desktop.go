package apps

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/domain"
)

// ParseDesktopEntry reads the [Desktop Entry] group of a .desktop file. It
// returns ok=false for entries that are hidden, not applications, or lack a
// name or exec line.
func ParseDesktopEntry(id string, data []byte) (domain.App, bool, error) {
	var (
		inEntry bool
		fields  = make(map[string]string)
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if _, dup := fields[key]; !dup {
			fields[key] = strings.TrimSpace(value)
		}
	}
	if err := sc.Err(); err != nil {
		return domain.App{}, false, fmt.Errorf("parse desktop entry %s: %w", id, err)
	}

	if t := fields["Type"]; t != "" && t != "Application" {
		return domain.App{}, false, nil
	}
	if isTrue(fields["NoDisplay"]) || isTrue(fields["Hidden"]) {
		return domain.App{}, false, nil
	}
	app := domain.App{Label: fields["Name"], Package: id, Exec: stripFieldCodes(fields["Exec"])}
	if app.Label == "" || app.Exec == "" {
		return domain.App{}, false, nil
	}
	return app, true, nil
}

// DesktopID derives the package identifier from a .desktop file name.
func DesktopID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".desktop")
}

func isTrue(v string) bool {
	return strings.EqualFold(v, "true")
}

// stripFieldCodes removes %f, %U and friends from an Exec line.
func stripFieldCodes(exec string) string {
	fields := strings.Fields(exec)
	out := fields[:0]
	for _, f := range fields {
		if len(f) == 2 && f[0] == '%' {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
