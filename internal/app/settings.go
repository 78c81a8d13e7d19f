package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LogSettings configure the slog handler built at startup.
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Settings are the tool-level options, read from an optional TOML file
// and overridable by flags.
type Settings struct {
	// ConfigDir is where the dependency config and execution history live.
	ConfigDir string `toml:"config_dir"`
	// DefaultMaxConcurrency is used when a plan request does not name one.
	DefaultMaxConcurrency int         `toml:"default_max_concurrency"`
	Log                   LogSettings `toml:"log"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		ConfigDir:             ".checkwave",
		DefaultMaxConcurrency: 4,
		Log:                   LogSettings{Level: "info", Format: "text"},
	}
}

// LoadSettings reads the TOML settings file at path, layered over the
// defaults. An empty path or a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := toml.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if settings.DefaultMaxConcurrency < 1 {
		settings.DefaultMaxConcurrency = 1
	}
	return settings, nil
}
