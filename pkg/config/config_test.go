package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"distlint/pkg/check"
	"distlint/pkg/config"
)

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.Filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write project file: %v", err)
	}
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeProjectFile(t, `target: es2017
browsers:
  - chrome 90
  - firefox 88
dist:
  - build
  - static
engine:
  command: custom-engine
  args:
    - --strict
`)

	cfg := config.Load(dir, nil)

	if cfg.Target != "es2017" {
		t.Errorf("Target = %q, want es2017", cfg.Target)
	}
	if !reflect.DeepEqual(cfg.Browsers, []string{"chrome 90", "firefox 88"}) {
		t.Errorf("Browsers = %v", cfg.Browsers)
	}
	if !reflect.DeepEqual([]string(cfg.Dist), []string{"build", "static"}) {
		t.Errorf("Dist = %v", cfg.Dist)
	}
	if cfg.Engine.Command != "custom-engine" {
		t.Errorf("Engine command = %q, want custom-engine", cfg.Engine.Command)
	}
	if !reflect.DeepEqual(cfg.Engine.Args, []string{"--strict"}) {
		t.Errorf("Engine args = %v", cfg.Engine.Args)
	}
}

func TestLoad_DistAsSingleString(t *testing.T) {
	dir := writeProjectFile(t, "dist: build\n")

	cfg := config.Load(dir, nil)

	if !reflect.DeepEqual([]string(cfg.Dist), []string{"build"}) {
		t.Errorf("Dist = %v, want [build]", cfg.Dist)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := config.Load(t.TempDir(), nil)

	if !reflect.DeepEqual(cfg, config.ProjectConfig{}) {
		t.Errorf("Expected an empty config for a missing file, got %+v", cfg)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := writeProjectFile(t, "target: [unterminated\n")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := config.Load(dir, logger)

	if !reflect.DeepEqual(cfg, config.ProjectConfig{}) {
		t.Errorf("Expected malformed YAML to be ignored, got %+v", cfg)
	}
	if !strings.Contains(buf.String(), "malformed project file") {
		t.Errorf("Expected a warning about the malformed file, got: %s", buf.String())
	}
}

func TestApply_FillsOnlyEmptyOptions(t *testing.T) {
	cfg := config.ProjectConfig{
		Target:   "es2017",
		Browsers: []string{"chrome 90"},
		Dist:     config.StringList{"build"},
	}

	opts := check.Options{Target: "es5", TargetSource: check.SourceFlag}
	cfg.Apply(&opts)

	if opts.Target != "es5" || opts.TargetSource != check.SourceFlag {
		t.Errorf("Explicit target must win, got %q from %q", opts.Target, opts.TargetSource)
	}
	if !reflect.DeepEqual(opts.Dist, []string{"build"}) {
		t.Errorf("Dist should come from the project file, got %v", opts.Dist)
	}
	if opts.DistSource != config.Filename {
		t.Errorf("DistSource = %q, want %q", opts.DistSource, config.Filename)
	}
	if !reflect.DeepEqual(opts.Browsers, []string{"chrome 90"}) {
		t.Errorf("Browsers should come from the project file, got %v", opts.Browsers)
	}
	if opts.BrowsersSource != config.Filename {
		t.Errorf("BrowsersSource = %q, want %q", opts.BrowsersSource, config.Filename)
	}
}

func TestLoad_DistWrongShapeIsIgnored(t *testing.T) {
	dir := writeProjectFile(t, "dist:\n  nested: map\n")

	cfg := config.Load(dir, nil)

	if len(cfg.Dist) != 0 {
		t.Errorf("Expected a non-list dist to be ignored, got %v", cfg.Dist)
	}
}
