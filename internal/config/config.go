package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete clindb configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	DataRoot string `json:"dataRoot" mapstructure:"dataRoot"`

	Database Database `json:"database" mapstructure:"database"`
	Uploads  Uploads  `json:"uploads" mapstructure:"uploads"`
	Audit    Audit    `json:"audit" mapstructure:"audit"`
	Cache    Cache    `json:"cache" mapstructure:"cache"`
	Sanitize Sanitize `json:"sanitize" mapstructure:"sanitize"`
	Logging  Logging  `json:"logging" mapstructure:"logging"`
}

// Database contains storage engine configuration
type Database struct {
	File          string `json:"file" mapstructure:"file"`
	BusyTimeoutMs int    `json:"busyTimeoutMs" mapstructure:"busyTimeoutMs"`
}

// Uploads contains PDF upload store configuration
type Uploads struct {
	Dir          string `json:"dir" mapstructure:"dir"`
	MaxSizeBytes int64  `json:"maxSizeBytes" mapstructure:"maxSizeBytes"`
}

// Audit contains audit log configuration
type Audit struct {
	LogFile string `json:"logFile" mapstructure:"logFile"`
	Level   string `json:"level" mapstructure:"level"`
}

// Cache contains read-through cache TTLs used by the service facade
type Cache struct {
	ListTtlSeconds     int `json:"listTtlSeconds" mapstructure:"listTtlSeconds"`
	SnapshotTtlSeconds int `json:"snapshotTtlSeconds" mapstructure:"snapshotTtlSeconds"`
}

// Sanitize contains free-text sanitization limits
type Sanitize struct {
	MaxTextLength  int `json:"maxTextLength" mapstructure:"maxTextLength"`
	MaxNotesLength int `json:"maxNotesLength" mapstructure:"maxNotesLength"`
}

// Logging contains application logging configuration
type Logging struct {
	Level string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		DataRoot: ".",
		Database: Database{
			File:          "clinica.db",
			BusyTimeoutMs: 30000,
		},
		Uploads: Uploads{
			Dir:          "uploads",
			MaxSizeBytes: 10 * 1024 * 1024,
		},
		Audit: Audit{
			LogFile: filepath.Join("logs", "security.log"),
			Level:   "info",
		},
		Cache: Cache{
			ListTtlSeconds:     30,
			SnapshotTtlSeconds: 60,
		},
		Sanitize: Sanitize{
			MaxTextLength:  200,
			MaxNotesLength: 500,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from <dataRoot>/config.json.
// A missing config file yields the defaults rooted at dataRoot.
func LoadConfig(dataRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("dataRoot", dataRoot)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dataRoot)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := DefaultConfig()
			cfg.DataRoot = dataRoot
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.DataRoot == "" || cfg.DataRoot == "." {
		cfg.DataRoot = dataRoot
	}

	return cfg, nil
}

// Save writes the configuration to <dataRoot>/config.json
func (c *Config) Save(dataRoot string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataRoot, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Database.File == "" {
		return &ConfigError{Field: "database.file", Message: "database file must not be empty"}
	}
	if c.Database.BusyTimeoutMs < 0 {
		return &ConfigError{Field: "database.busyTimeoutMs", Message: "busy timeout must not be negative"}
	}
	if c.Uploads.MaxSizeBytes <= 0 {
		return &ConfigError{Field: "uploads.maxSizeBytes", Message: "upload size limit must be positive"}
	}
	return nil
}

// DatabasePath returns the location of the SQLite file under the data root.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataRoot, c.Database.File)
}

// UploadsDir returns the location of the upload store under the data root.
func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataRoot, c.Uploads.Dir)
}

// AuditLogPath returns the location of the audit log file under the data root.
func (c *Config) AuditLogPath() string {
	return filepath.Join(c.DataRoot, c.Audit.LogFile)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
