package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/state"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Scheduler.MaxCascade != state.DefaultMaxCascade {
		t.Errorf("Scheduler.MaxCascade = %d, want %d", cfg.Scheduler.MaxCascade, state.DefaultMaxCascade)
	}
	if cfg.Render.App != DefaultApp {
		t.Errorf("Render.App = %q, want %q", cfg.Render.App, DefaultApp)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{
			file: "hydra.json",
			content: `{
  "debug": true,
  "render": {"app": "todo", "title": "Todo"},
  "server": {"port": 8080, "maxSessions": 10},
  "snapshot": {"s3": {"bucket": "pages", "region": "eu-west-1"}}
}`,
		},
		{
			file: "hydra.toml",
			content: `debug = true

[render]
app = "todo"
title = "Todo"

[server]
port = 8080
maxSessions = 10

[snapshot.s3]
bucket = "pages"
region = "eu-west-1"
`,
		},
		{
			file: "hydra.yaml",
			content: `debug: true
render:
  app: todo
  title: Todo
server:
  port: 8080
  maxSessions: 10
snapshot:
  s3:
    bucket: pages
    region: eu-west-1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !cfg.Debug {
				t.Error("Debug = false, want true")
			}
			if cfg.Render.App != "todo" || cfg.Render.Title != "Todo" {
				t.Errorf("Render = %+v", cfg.Render)
			}
			if cfg.Server.Port != 8080 || cfg.Server.MaxSessions != 10 {
				t.Errorf("Server = %+v", cfg.Server)
			}
			if cfg.Server.Host != DefaultHost {
				t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
			}
			if !cfg.UseS3() || cfg.Snapshot.S3.Region != "eu-west-1" {
				t.Errorf("Snapshot = %+v", cfg.Snapshot)
			}
			if cfg.SlogLevel() != slog.LevelDebug {
				t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
			}
			if cfg.Dir() != dir {
				t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); !errors.HasCode(err, "E140") {
		t.Errorf("missing config error = %v, want E140", err)
	}

	bad := filepath.Join(dir, "hydra.json")
	if err := os.WriteFile(bad, []byte(`{"server": `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); !errors.HasCode(err, "E141") {
		t.Errorf("malformed config error = %v, want E141", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "hydra.ini")); !errors.HasCode(err, "E142") {
		t.Errorf("unknown extension error = %v, want E142", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative cascade", func(c *Config) { c.Scheduler.MaxCascade = -1 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"relative ws path", func(c *Config) { c.Server.WSPath = "ws" }},
		{"same paths", func(c *Config) { c.Server.WSPath = c.Server.MetricsPath }},
		{"bucket without region", func(c *Config) { c.Snapshot.S3.Bucket = "pages" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, "E143") {
				t.Errorf("Validate() = %v, want E143", err)
			}
		})
	}

	for _, format := range []string{"text", "json", "pretty"} {
		cfg := New()
		cfg.Log.Format = format
		if err := cfg.Validate(); err != nil {
			t.Errorf("format %q: %v", format, err)
		}
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	for _, name := range []string{"hydra.json", "hydra.toml", "hydra.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := New()
			cfg.Name = "demo"
			cfg.Server.Port = 4000
			cfg.Render.StyleSheets = []string{"/app.css"}

			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if loaded.Name != "demo" || loaded.Server.Port != 4000 {
				t.Errorf("loaded = %+v", loaded)
			}
			if len(loaded.Render.StyleSheets) != 1 || loaded.Render.StyleSheets[0] != "/app.css" {
				t.Errorf("StyleSheets = %v", loaded.Render.StyleSheets)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	cfg := New()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	if got := cfg.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", got)
	}
}
