package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Fatalf("Address = %q", cfg.Server.Address)
	}
	if cfg.Backend.GracePeriod != 5*time.Second || !cfg.Backend.Autostart {
		t.Fatalf("unexpected backend defaults %+v", cfg.Backend)
	}
	if cfg.Shutdown.Timeout != 12*time.Second || cfg.USB.Workers != 4 {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Shutdown, cfg.USB)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  address: 127.0.0.1:6000
backend:
  packaged: true
  resources_dir: /opt/agent/resources
  grace_period: 2s
  autostart: false
shutdown:
  timeout: 8s
usb:
  workers: 8
logging:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Address != "127.0.0.1:6000" || cfg.Backend.GracePeriod != 2*time.Second || cfg.Backend.Autostart {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Shutdown.Timeout != 8*time.Second || cfg.USB.Workers != 8 || cfg.Logging.Format != "json" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.Backend.OutputBufferBytes != 1<<20 {
		t.Fatalf("OutputBufferBytes = %d", cfg.Backend.OutputBufferBytes)
	}
	if got := cfg.Backend.Executable("/ignored"); got != "/opt/agent/resources/main" {
		t.Fatalf("Executable = %q", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  address: 127.0.0.1:6000\n")
	t.Setenv(EnvAddress, "0.0.0.0:7000")
	t.Setenv(EnvBackendPath, "/srv/backend/main")
	t.Setenv(EnvPackaged, "true")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Address != "0.0.0.0:7000" || cfg.Backend.Path != "/srv/backend/main" || !cfg.Backend.Packaged || cfg.Logging.Level != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Fatalf("expected parse error")
	}

	t.Setenv(EnvPackaged, "maybe")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), EnvPackaged) {
		t.Fatalf("expected %s error, got %v", EnvPackaged, err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":   func(c *Config) { c.Server.Address = " " },
		"half tls":        func(c *Config) { c.Server.TLS.Cert = "pem" },
		"allow list":      func(c *Config) { c.Server.AllowedClients = []string{"spiffe://agent/ui"} },
		"zero grace":      func(c *Config) { c.Backend.GracePeriod = 0 },
		"zero buffer":     func(c *Config) { c.Backend.OutputBufferBytes = 0 },
		"negative timout": func(c *Config) { c.Shutdown.Timeout = -time.Second },
		"no workers":      func(c *Config) { c.USB.Workers = 0 },
		"timeout at kill": func(c *Config) { c.Shutdown.Timeout = c.Backend.GracePeriod + runner.KillTimeout },
		"long grace":      func(c *Config) { c.Backend.GracePeriod = 30 * time.Second },
		"bad format":      func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	cfg := Default()
	cfg.Server.TLS = TLSConfig{Key: "k", Cert: "c", CACert: "ca"}
	cfg.Server.AllowedClients = []string{"spiffe://agent/ui"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("full TLS config rejected: %v", err)
	}

	cfg = Default()
	cfg.Backend.GracePeriod = 30 * time.Second
	cfg.Shutdown.Timeout = 40 * time.Second
	if err := cfg.Validate(); err != nil {
		t.Fatalf("timeout covering grace and kill rejected: %v", err)
	}
}

func TestExecutableResolution(t *testing.T) {
	cases := []struct {
		name string
		cfg  BackendConfig
		want string
	}{
		{"explicit", BackendConfig{Path: "/x/y/main", Packaged: true}, "/x/y/main"},
		{"packaged", BackendConfig{Packaged: true}, "/opt/agent/main"},
		{"packaged resources", BackendConfig{Packaged: true, ResourcesDir: "/opt/agent/resources"}, "/opt/agent/resources/main"},
		{"development", BackendConfig{}, "/opt/agent/server/dist/main"},
		{"development app dir", BackendConfig{AppDir: "/src/app"}, "/src/app/server/dist/main"},
	}
	for _, tc := range cases {
		if got := tc.cfg.Executable("/opt/agent"); got != tc.want {
			t.Fatalf("%s: Executable = %q, want %q", tc.name, got, tc.want)
		}
	}
}
