package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Database.File != "clinica.db" {
		t.Errorf("Database.File = %q, want %q", cfg.Database.File, "clinica.db")
	}
	if cfg.Database.BusyTimeoutMs != 30000 {
		t.Errorf("Database.BusyTimeoutMs = %d, want 30000", cfg.Database.BusyTimeoutMs)
	}
	if cfg.Uploads.MaxSizeBytes != 10*1024*1024 {
		t.Errorf("Uploads.MaxSizeBytes = %d, want 10 MiB", cfg.Uploads.MaxSizeBytes)
	}
	if cfg.Cache.ListTtlSeconds != 30 || cfg.Cache.SnapshotTtlSeconds != 60 {
		t.Errorf("Cache TTLs = %d/%d, want 30/60", cfg.Cache.ListTtlSeconds, cfg.Cache.SnapshotTtlSeconds)
	}
	if cfg.Sanitize.MaxTextLength != 200 || cfg.Sanitize.MaxNotesLength != 500 {
		t.Errorf("Sanitize limits = %d/%d, want 200/500", cfg.Sanitize.MaxTextLength, cfg.Sanitize.MaxNotesLength)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DataRoot != dir {
		t.Errorf("DataRoot = %q, want %q", cfg.DataRoot, dir)
	}
	if cfg.Database.File != "clinica.db" {
		t.Errorf("Database.File = %q, want default", cfg.Database.File)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.DataRoot = dir
	cfg.Database.BusyTimeoutMs = 5000
	cfg.Uploads.MaxSizeBytes = 1024
	cfg.Cache.ListTtlSeconds = 5

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("Config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Database.BusyTimeoutMs != 5000 {
		t.Errorf("BusyTimeoutMs = %d, want 5000", loaded.Database.BusyTimeoutMs)
	}
	if loaded.Uploads.MaxSizeBytes != 1024 {
		t.Errorf("MaxSizeBytes = %d, want 1024", loaded.Uploads.MaxSizeBytes)
	}
	if loaded.Cache.ListTtlSeconds != 5 {
		t.Errorf("ListTtlSeconds = %d, want 5", loaded.Cache.ListTtlSeconds)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()

	content := `{"database": {"busyTimeoutMs": 1000}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.BusyTimeoutMs != 1000 {
		t.Errorf("BusyTimeoutMs = %d, want 1000", cfg.Database.BusyTimeoutMs)
	}
	if cfg.Database.File != "clinica.db" {
		t.Errorf("Unset field lost its default: %q", cfg.Database.File)
	}
	if cfg.Uploads.Dir != "uploads" {
		t.Errorf("Unset section lost its default: %q", cfg.Uploads.Dir)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(dir); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad version", func(c *Config) { c.Version = 2 }, "version"},
		{"empty db file", func(c *Config) { c.Database.File = "" }, "database.file"},
		{"negative busy timeout", func(c *Config) { c.Database.BusyTimeoutMs = -1 }, "database.busyTimeoutMs"},
		{"zero upload limit", func(c *Config) { c.Uploads.MaxSizeBytes = 0 }, "uploads.maxSizeBytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataRoot = "/data/clinic"

	if got := cfg.DatabasePath(); got != filepath.Join("/data/clinic", "clinica.db") {
		t.Errorf("DatabasePath = %q", got)
	}
	if got := cfg.UploadsDir(); got != filepath.Join("/data/clinic", "uploads") {
		t.Errorf("UploadsDir = %q", got)
	}
	if got := cfg.AuditLogPath(); got != filepath.Join("/data/clinic", "logs", "security.log") {
		t.Errorf("AuditLogPath = %q", got)
	}
}
