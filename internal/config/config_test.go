package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 10000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.DSN != "backoffice.db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Session.Store != SessionCookie || cfg.Session.TTL != 14*24*time.Hour {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Storage.Backend != StorageLocal || cfg.Storage.LocalDir != "uploads" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Admin.Username != "admin" || cfg.Log.Level != "info" || !cfg.PDF.Enabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Server.Addr() != ":10000" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("MINIO_BUCKET", "docs")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.DSN != "postgres://u:p@db:5432/app" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Session.Store != SessionRedis {
		t.Errorf("store = %q", cfg.Session.Store)
	}
	if cfg.Storage.MinIO.Bucket != "docs" || cfg.Log.Level != "debug" {
		t.Errorf("unexpected %+v / %+v", cfg.Storage.MinIO, cfg.Log)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "server:\n  port: 9090\nstorage:\n  backend: minio\n  minio:\n    bucket: files\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Storage.Backend != StorageMinIO || cfg.Storage.MinIO.Bucket != "files" {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:  ServerConfig{Port: 10000},
			Session: SessionConfig{Store: SessionCookie, Secret: "s"},
			Storage: StorageConfig{Backend: StorageLocal},
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"bad store", func(c *Config) { c.Session.Store = "memcache" }, true},
		{"bad backend", func(c *Config) { c.Storage.Backend = "s3" }, true},
		{"dev secret in production", func(c *Config) {
			c.App.Env = "production"
			c.Session.Secret = devSessionSecret
		}, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
