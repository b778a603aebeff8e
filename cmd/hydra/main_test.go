package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/hydra/internal/config"
	"github.com/vango-dev/hydra/internal/errors"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRenderThenHydrate(t *testing.T) {
	page := filepath.Join(t.TempDir(), "page.html")
	if _, _, err := execute(t, "render", "counter", "--out", page); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, _, err := execute(t, "hydrate", "counter", "--file", page, "--click", "inc", "--click", "inc")
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !strings.Contains(out, `<span id="count">Count: 2</span>`) {
		t.Errorf("hydrate output = %s", out)
	}
}

func TestRender_Stdout(t *testing.T) {
	out, _, err := execute(t, "render", "toggle", "--fragment")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, `<div class="toggle">`) {
		t.Errorf("fragment = %s", out)
	}
}

func TestRender_Publish(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "hydra.json")
	if err := os.WriteFile(cfgPath, []byte(`{"snapshot":{"dir":"snaps"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "--config", cfgPath, "render", "todo", "--publish", "--name", "release-1")
	if err != nil {
		t.Fatalf("render --publish: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "snaps", "release-1.html"))
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if !bytes.Contains(data, []byte(`<h1>Todo</h1>`)) {
		t.Errorf("snapshot content = %s", data)
	}
}

func TestRender_UnknownApp(t *testing.T) {
	_, _, err := execute(t, "render", "nope")
	if !errors.HasCode(err, "E151") {
		t.Errorf("error = %v, want E151", err)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, "init", dir, "--format", "yaml", "--app", "todo"); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := config.LoadFile(filepath.Join(dir, "hydra.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Render.App != "todo" {
		t.Errorf("Render.App = %q, want todo", cfg.Render.App)
	}

	if _, _, err := execute(t, "init", dir, "--format", "yaml"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestApps(t *testing.T) {
	out, _, err := execute(t, "apps")
	if err != nil {
		t.Fatalf("apps: %v", err)
	}
	for _, name := range []string{"counter", "todo", "toggle"} {
		if !strings.Contains(out, name) {
			t.Errorf("apps output missing %s", name)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", "msg=hello"},
		{"json", `"msg":"hello"`},
		{"pretty", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := config.New()
			cfg.Log.Format = tt.format
			var buf bytes.Buffer
			logger := newLogger(cfg, &buf)
			logger.Info("hello", "app", "counter")
			logger.Debug("hidden")

			out := buf.String()
			if !strings.Contains(out, tt.want) || !strings.Contains(out, "counter") {
				t.Errorf("output %q lacks %q", out, tt.want)
			}
			if strings.Contains(out, "hidden") {
				t.Errorf("debug line logged at info level: %q", out)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}
