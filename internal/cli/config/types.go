// Package config provides configuration management for the hbnb CLI.
package config

// Config holds all CLI configuration options.
// The backend list in the validate tag mirrors storage.BackendKinds.
type Config struct {
	Backend     string `koanf:"backend" validate:"oneof=json sqlite bolt memory"`
	Path        string `koanf:"path" validate:"required_unless=Backend memory"`
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
	Verbose     bool   `koanf:"verbose"`
	LogFormat   string `koanf:"log_format" validate:"oneof=text json"`
}

// Default configuration values.
const (
	DefaultBackend   = "json"
	DefaultPrompt    = "(hbnb) "
	DefaultLogFormat = "text"
	EnvPrefix        = "HBNB_"
)

// Default returns a Config with default values and the default path of the
// default backend.
func Default() *Config {
	return &Config{
		Backend:   DefaultBackend,
		Path:      defaultPath(DefaultBackend),
		Prompt:    DefaultPrompt,
		LogFormat: DefaultLogFormat,
	}
}
