// Package config loads BookDesk user preferences from a JSON file in the
// user's config directory, with BOOKDESK_* environment variables taking
// precedence over file values.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix for environment overrides (BOOKDESK_SERVER_URL etc).
const envPrefix = "bookdesk"

// Config holds user preferences.
type Config struct {
	ServerURL  string `json:"server_url" envconfig:"SERVER_URL"`
	CookieFile string `json:"cookie_file" envconfig:"COOKIE_FILE"`
	Theme      string `json:"theme" envconfig:"THEME"` // "light" or "dark"
	Verbose    bool   `json:"verbose" envconfig:"VERBOSE"`
}

// Default returns the default configuration.
func Default() Config {
	cookieFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		cookieFile = filepath.Join(home, ".bookdesk", "cookies.txt")
	}
	return Config{
		ServerURL:  "http://localhost:8000",
		CookieFile: cookieFile,
		Theme:      "light",
	}
}

// Dir returns the directory where config and logs are stored.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bookdesk"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogDir returns the directory for log files.
func LogDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// Load reads the configuration from disk and applies environment overrides.
// A missing file is not an error; defaults are returned.
func Load() (Config, error) {
	cfg := Default()

	path, err := File()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Default(), err
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
