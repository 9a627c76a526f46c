package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Workers != 1 {
		t.Errorf("expected 1 worker by default, got %d", cfg.Workers)
	}
	if cfg.Verbose {
		t.Error("expected verbose off by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("expected default sample rate 1.0, got %f", cfg.Telemetry.SampleRate)
	}
}

func TestLoad_NoSources(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(LoaderOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 1 {
		t.Errorf("expected default workers 1, got %d", cfg.Workers)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte("workers: 4\nverbose: true\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(LoaderOptions{ConfigFile: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if !cfg.Verbose {
		t.Error("expected verbose enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DELAYED_WORKERS", "8")
	t.Setenv("DELAYED_LOGGING_LEVEL", "warn")

	cfg, err := Load(LoaderOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected 8 workers from env, got %d", cfg.Workers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn' from env, got %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DELAYED_WORKERS=3\n"), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := Load(LoaderOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers from .env, got %d", cfg.Workers)
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DELAYED_WORKERS", "-2")

	if _, err := Load(LoaderOptions{}); err == nil {
		t.Fatal("expected validation error for negative workers")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(LoaderOptions{ConfigFile: "/nonexistent/config.yml"}); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "shouty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}
