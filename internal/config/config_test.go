package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvConfigFile, EnvPort, EnvLogLevel, EnvLogFormat, EnvBackendURL, EnvBackendTimeout, EnvHeadless} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFilename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.LogFormat() != "" {
		t.Errorf("LogFormat = %q, want empty", cfg.LogFormat())
	}
	if cfg.BackendURL() != DefaultBackendURL {
		t.Errorf("BackendURL = %q, want %q", cfg.BackendURL(), DefaultBackendURL)
	}
	if cfg.BackendTimeout() != 0 {
		t.Errorf("BackendTimeout = %v, want 0", cfg.BackendTimeout())
	}
	if cfg.Headless() {
		t.Error("Headless = true, want false")
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: 9100
log_level: debug
log_format: text
backend_url: https://scenes.example.com
backend_timeout_s: 45
headless: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
	if cfg.LogFormat() != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat())
	}
	if cfg.BackendURL() != "https://scenes.example.com" {
		t.Errorf("BackendURL = %q", cfg.BackendURL())
	}
	if cfg.BackendTimeout() != 45*time.Second {
		t.Errorf("BackendTimeout = %v, want 45s", cfg.BackendTimeout())
	}
	if !cfg.Headless() {
		t.Error("Headless = false, want true")
	}
	if cfg.Path() != path {
		t.Errorf("Path = %q, want %q", cfg.Path(), path)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "backend_url: http://10.0.0.5:10000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Port(), DefaultPort)
	}
	if cfg.BackendURL() != "http://10.0.0.5:10000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 9100\nbackend_url: https://file.example.com\n")
	t.Setenv(EnvPort, "9200")
	t.Setenv(EnvBackendURL, "https://env.example.com")
	t.Setenv(EnvHeadless, "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9200 {
		t.Errorf("Port = %d, want 9200", cfg.Port())
	}
	if cfg.BackendURL() != "https://env.example.com" {
		t.Errorf("BackendURL = %q", cfg.BackendURL())
	}
	if !cfg.Headless() {
		t.Error("Headless = false, want true")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		EnvPort:           "70000",
		EnvBackendTimeout: "-1",
		EnvHeadless:       "maybe",
		EnvLogFormat:      "xml",
		EnvBackendURL:     "ftp://example.com",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(name, value)

			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%q", name, value)
			}
		})
	}
}

func TestNew_UsesConfigEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 9300\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9300 {
		t.Errorf("Port = %d, want 9300", cfg.Port())
	}
}

func TestFileConfig_ImplementsConfig(t *testing.T) {
	var _ Config = (*FileConfig)(nil)
}
