// Package config loads and validates the application configuration from a
// YAML file with ${VAR} environment substitution. Secrets never live in the
// file itself; they are referenced by variable name and resolved at load.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Fetch   FetchConfig   `yaml:"fetch"`
	LLM     LLMConfig     `yaml:"llm"`
	Drive   DriveConfig   `yaml:"drive"`
	Tracker TrackerConfig `yaml:"tracker"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

// FetchConfig configures posting retrieval.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	UseBrowser     bool   `yaml:"use_browser"` // headless-browser fallback for SPA pages
}

// Timeout returns the fetch timeout as a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LLMConfig configures the generation model.
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DriveConfig configures Google Drive filing of generated materials.
type DriveConfig struct {
	Enabled           bool   `yaml:"enabled"`
	CredentialsFile   string `yaml:"credentials_file"`
	OutputFolderID    string `yaml:"output_folder_id"`
	TemplatesFolderID string `yaml:"templates_folder_id"`
}

// TrackerConfig configures the Postgres application tracker.
type TrackerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// AuthConfig configures the single-operator login.
type AuthConfig struct {
	Email           string `yaml:"email"`
	PasswordHash    string `yaml:"password_hash"` // bcrypt hash, never plaintext
	JWTSecret       string `yaml:"jwt_secret"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", AllowedOrigin: "*"},
		Fetch:  FetchConfig{TimeoutSeconds: 10},
		LLM:    LLMConfig{Model: "gemini-2.0-flash"},
		Auth:   AuthConfig{ExpirationHours: 24},
	}
}

// envVarRe matches ${VAR} references in the raw config file.
var envVarRe = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnv substitutes ${VAR} references with environment values. An unset
// variable expands to the empty string; validation catches the fields that
// cannot be empty.
func expandEnv(raw []byte) []byte {
	return envVarRe.ReplaceAllFunc(raw, func(match []byte) []byte {
		name := envVarRe.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Load reads, expands and validates a YAML config file. Fields the file
// omits keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(expandEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values and cross-field requirements. Feature toggles
// pull in their own required fields: enabling drive filing requires
// credentials, enabling the tracker requires a database URL.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config error: 'server.addr' must not be empty")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("config error: 'fetch.timeout_seconds' must be positive")
	}
	if c.Drive.Enabled {
		if c.Drive.CredentialsFile == "" {
			return fmt.Errorf("config error: drive filing enabled but 'drive.credentials_file' is empty")
		}
		if c.Drive.OutputFolderID == "" {
			return fmt.Errorf("config error: drive filing enabled but 'drive.output_folder_id' is empty")
		}
	}
	if c.Tracker.Enabled && c.Tracker.DatabaseURL == "" {
		return fmt.Errorf("config error: tracker enabled but 'tracker.database_url' is empty")
	}
	if c.Auth.ExpirationHours < 1 {
		return fmt.Errorf("config error: 'auth.expiration_hours' must be at least 1, got %d", c.Auth.ExpirationHours)
	}
	return nil
}

// Settings is the mutable subset exposed over the API.
type Settings struct {
	DriveEnabled           bool   `json:"drive_enabled"`
	DriveOutputFolderID    string `json:"drive_output_folder_id"`
	DriveTemplatesFolderID string `json:"drive_templates_folder_id"`
	TrackerEnabled         bool   `json:"tracker_enabled"`
	UseBrowser             bool   `json:"use_browser"`
}

// Settings returns the current mutable subset.
func (c *Config) Settings() Settings {
	return Settings{
		DriveEnabled:           c.Drive.Enabled,
		DriveOutputFolderID:    c.Drive.OutputFolderID,
		DriveTemplatesFolderID: c.Drive.TemplatesFolderID,
		TrackerEnabled:         c.Tracker.Enabled,
		UseBrowser:             c.Fetch.UseBrowser,
	}
}

// ApplySettings merges an updated mutable subset into a copy of the config
// and validates the result. The receiver is not modified on error.
func (c *Config) ApplySettings(s Settings) (*Config, error) {
	updated := *c
	updated.Drive.Enabled = s.DriveEnabled
	updated.Drive.OutputFolderID = s.DriveOutputFolderID
	updated.Drive.TemplatesFolderID = s.DriveTemplatesFolderID
	updated.Tracker.Enabled = s.TrackerEnabled
	updated.Fetch.UseBrowser = s.UseBrowser

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return &updated, nil
}
