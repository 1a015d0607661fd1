package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/stubtree-labs/stubtree/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyReport   = "report"
	KeyDirMode  = "dir_mode"
	KeyFileMode = "file_mode"
	KeyStaged   = "staged"
	KeyLayout   = "layout"
)

// Default values applied before the config file and environment.
const (
	DefaultReport   = "compat"
	DefaultDirMode  = "0755"
	DefaultFileMode = "0644"
)

var knownKeys = []string{KeyDirMode, KeyFileMode, KeyLayout, KeyReport, KeyStaged}

// Settings is the typed view of the loaded configuration.
type Settings struct {
	Report   string
	DirMode  os.FileMode
	FileMode os.FileMode
	Staged   bool
	Layout   string
}

// Dir returns the path to the config directory. STUBTREE_HOME overrides
// the default of ~/.stubtree/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Calling it again discards previously loaded state.
func Load() {
	viper.Reset()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyReport, DefaultReport)
	viper.SetDefault(KeyDirMode, DefaultDirMode)
	viper.SetDefault(KeyFileMode, DefaultFileMode)
	viper.SetDefault(KeyStaged, false)
	viper.SetDefault(KeyLayout, "")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// IsKnownKey reports whether key is a recognized configuration key.
func IsKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Keys returns the recognized configuration keys in sorted order.
func Keys() []string {
	out := make([]string, len(knownKeys))
	copy(out, knownKeys)
	sort.Strings(out)
	return out
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// All returns every known key with its effective string value.
func All() map[string]string {
	out := make(map[string]string, len(knownKeys))
	for _, k := range knownKeys {
		out[k] = viper.GetString(k)
	}
	return out
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := validateValue(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	// WriteConfigAs creates the file when it is missing.
	configFile := FilePath()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file %s: %w", configFile, err)
	}

	return nil
}

// Current returns the typed settings from the loaded configuration.
func Current() (Settings, error) {
	dirMode, err := ParseMode(viper.GetString(KeyDirMode))
	if err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", KeyDirMode, err)
	}
	fileMode, err := ParseMode(viper.GetString(KeyFileMode))
	if err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", KeyFileMode, err)
	}
	return Settings{
		Report:   viper.GetString(KeyReport),
		DirMode:  dirMode,
		FileMode: fileMode,
		Staged:   viper.GetBool(KeyStaged),
		Layout:   viper.GetString(KeyLayout),
	}, nil
}

// ParseMode parses an octal permission string such as "0755", "755", or "0o755".
func ParseMode(s string) (os.FileMode, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	if s == "" {
		return 0, fmt.Errorf("empty permission value")
	}
	u, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid permission %q: %w", s, err)
	}
	if u > 0o777 {
		return 0, fmt.Errorf("permission %q out of range", s)
	}
	return os.FileMode(u), nil
}

func validateValue(key, value string) error {
	switch key {
	case KeyDirMode, KeyFileMode:
		if _, err := ParseMode(value); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
	case KeyStaged:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("config %s: want true or false, got %q", key, value)
		}
	case KeyReport:
		if value != "compat" && value != "accurate" {
			return fmt.Errorf("config %s: want compat or accurate, got %q", key, value)
		}
	}
	return nil
}
