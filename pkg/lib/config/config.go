package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

// Environment variables that override file values.
const (
	EnvConfig      = "PRN_CONFIG"
	EnvAddress     = "PRN_ADDRESS"
	EnvTLSKey      = "PRN_TLS_KEY"
	EnvTLSCert     = "PRN_TLS_CERT"
	EnvCATLSCert   = "PRN_CA_TLS_CERT"
	EnvBackendPath = "PRN_BACKEND_PATH"
	EnvPackaged    = "PRN_PACKAGED"
	EnvLogLevel    = "PRN_LOG_LEVEL"
)

// DefaultAddress is where the agent listens when nothing else is configured.
const DefaultAddress = "localhost:50051"

// Config is the agent configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	USB      USBConfig      `yaml:"usb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	Address string    `yaml:"address"`
	TLS     TLSConfig `yaml:"tls"`
	// AllowedClients are SPIFFE IDs allowed to call mutating RPCs under mTLS.
	// Empty allows every verified client.
	AllowedClients []string `yaml:"allowed_clients"`
}

// TLSConfig holds PEM-encoded material. All three set enables mTLS; none set serves plaintext.
type TLSConfig struct {
	Key    string `yaml:"key"`
	Cert   string `yaml:"cert"`
	CACert string `yaml:"ca_cert"`
}

// Enabled reports whether any TLS material is configured.
func (t TLSConfig) Enabled() bool {
	return t.Key != "" || t.Cert != "" || t.CACert != ""
}

// BackendConfig describes the supervised backend executable.
type BackendConfig struct {
	// Path overrides executable resolution when set.
	Path string `yaml:"path"`
	// Packaged selects <resources_dir>/main instead of <app_dir>/server/dist/main.
	Packaged     bool     `yaml:"packaged"`
	ResourcesDir string   `yaml:"resources_dir"`
	AppDir       string   `yaml:"app_dir"`
	Args         []string `yaml:"args"`

	GracePeriod       time.Duration `yaml:"grace_period"`
	Autostart         bool          `yaml:"autostart"`
	OutputBufferBytes int           `yaml:"output_buffer_bytes"`
}

// ShutdownConfig bounds host shutdown.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// USBConfig tunes device enumeration.
type USBConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	// Console mirrors backend output to the terminal with a colored prefix.
	Console bool `yaml:"console"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: DefaultAddress},
		Backend: BackendConfig{
			GracePeriod:       5 * time.Second,
			Autostart:         true,
			OutputBufferBytes: 1 << 20,
		},
		Shutdown: ShutdownConfig{Timeout: 12 * time.Second},
		USB:      USBConfig{Workers: 4},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads path (when not empty) over the defaults, then applies PRN_* overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvAddress)); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv(EnvTLSKey); v != "" {
		cfg.Server.TLS.Key = v
	}
	if v := os.Getenv(EnvTLSCert); v != "" {
		cfg.Server.TLS.Cert = v
	}
	if v := os.Getenv(EnvCATLSCert); v != "" {
		cfg.Server.TLS.CACert = v
	}
	if v := os.Getenv(EnvBackendPath); v != "" {
		cfg.Backend.Path = v
	}
	if v := os.Getenv(EnvPackaged); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPackaged, err)
		}
		cfg.Backend.Packaged = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration for values the agent cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	t := c.Server.TLS
	if t.Enabled() && (t.Key == "" || t.Cert == "" || t.CACert == "") {
		errs = append(errs, fmt.Errorf("incomplete TLS configuration; require %s, %s, %s", EnvTLSKey, EnvTLSCert, EnvCATLSCert))
	}
	if len(c.Server.AllowedClients) > 0 && !t.Enabled() {
		errs = append(errs, errors.New("server.allowed_clients requires TLS"))
	}
	if c.Backend.GracePeriod <= 0 {
		errs = append(errs, errors.New("backend.grace_period must be positive"))
	}
	if c.Backend.OutputBufferBytes <= 0 {
		errs = append(errs, errors.New("backend.output_buffer_bytes must be positive"))
	}
	if c.Shutdown.Timeout <= 0 {
		errs = append(errs, errors.New("shutdown.timeout must be positive"))
	} else if minimum := c.Backend.GracePeriod + runner.KillTimeout; c.Backend.GracePeriod > 0 && c.Shutdown.Timeout <= minimum {
		// the agent must outlive SIGTERM, the grace period and the SIGKILL wait
		errs = append(errs, fmt.Errorf("shutdown.timeout %s must exceed backend.grace_period plus the %s kill wait (%s)",
			c.Shutdown.Timeout, runner.KillTimeout, minimum))
	}
	if c.USB.Workers <= 0 {
		errs = append(errs, errors.New("usb.workers must be positive"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}
	return errors.Join(errs...)
}
