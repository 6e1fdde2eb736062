package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Setting is one KEY=VALUE entry of the settings file.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SettingsFile reads and rewrites the line-oriented KEY=VALUE file edited
// from the admin settings screen. Values are kept exactly as written: no
// variable expansion, no quote handling, no number formatting. Comment lines
// are ignored on read and are not preserved on write.
type SettingsFile struct {
	Path string
}

func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{Path: path}
}

// Read returns the settings in file order. A missing file yields no settings.
func (f *SettingsFile) Read() ([]Setting, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Setting{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings, err := ParseSettings(data)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return settings, nil
}

// Write replaces the file contents with the given settings, one KEY=VALUE
// line each. Keys are trimmed and must be non-empty and unique.
func (f *SettingsFile) Write(settings []Setting) error {
	var buf bytes.Buffer
	seen := make(map[string]struct{}, len(settings))
	for _, setting := range settings {
		key := strings.TrimSpace(setting.Key)
		if key == "" {
			return fmt.Errorf("setting key must not be empty")
		}
		if strings.ContainsAny(key, "= \t#\r\n") {
			return fmt.Errorf("invalid setting key %q", key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate setting key %q", key)
		}
		seen[key] = struct{}{}

		value := strings.TrimSpace(setting.Value)
		if strings.ContainsAny(value, "\r\n") {
			return fmt.Errorf("value of %s must be a single line", key)
		}
		fmt.Fprintf(&buf, "%s=%s\n", key, value)
	}

	if err := os.WriteFile(f.Path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// ParseSettings splits KEY=VALUE lines. Blank lines, lines starting with #
// and lines without = are skipped. A repeated key keeps its first position
// and its last value.
func ParseSettings(data []byte) ([]Setting, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	settings := []Setting{}
	index := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)

		if i, dup := index[key]; dup {
			settings[i].Value = value
			continue
		}
		index[key] = len(settings)
		settings = append(settings, Setting{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

// applySettingsFile exports every setting of path that the process
// environment does not already define. Matching outer quotes are removed so
// that quoted values also work.
func applySettingsFile(path string) error {
	settings, err := NewSettingsFile(path).Read()
	if err != nil {
		return err
	}
	for _, setting := range settings {
		if _, set := os.LookupEnv(setting.Key); set {
			continue
		}
		if err := os.Setenv(setting.Key, unquote(setting.Value)); err != nil {
			return fmt.Errorf("set %s: %w", setting.Key, err)
		}
	}
	return nil
}

// MaskedValue replaces secret values in anything shown to a user.
const MaskedValue = "********"

var secretMarkers = []string{"SECRET", "PASSWORD", "HASH"}

// IsSecretKey reports whether a setting holds a credential.
func IsSecretKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}
