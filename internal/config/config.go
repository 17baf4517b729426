// Package config loads settings from a TOML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rezonia/ubl/internal/validator"
)

// Environment variables overriding the file
const (
	EnvSchemaDir       = "UBL_SCHEMA_DIR"
	EnvSchematronImage = "UBL_SCHEMATRON_IMAGE"
	EnvDockerPath      = "UBL_DOCKER_PATH"
	EnvValidateTimeout = "UBL_VALIDATE_TIMEOUT"
	EnvConcurrency     = "UBL_CONCURRENCY"
	EnvServerAddress   = "UBL_SERVER_ADDRESS"
)

// Config is the complete configuration
type Config struct {
	Validator ValidatorConfig `toml:"validator"`
	Server    ServerConfig    `toml:"server"`
	Signing   SigningConfig   `toml:"signing"`
}

// ValidatorConfig configures the schema and Schematron engines
type ValidatorConfig struct {
	// SchemaDir holds the UBL 2.1 xsd tree (maindoc/, common/)
	SchemaDir       string `toml:"schema_dir"`
	SchematronImage string `toml:"schematron_image"`
	DockerPath      string `toml:"docker_path"`
	// Timeout is a Go duration string, e.g. "90s"
	Timeout     string `toml:"timeout"`
	Concurrency int    `toml:"concurrency"`
	TempDir     string `toml:"temp_dir,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address      string `toml:"address"`
	Debug        bool   `toml:"debug"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// SigningConfig points at the PEM key pair used to sign documents
type SigningConfig struct {
	CertFile string `toml:"cert_file,omitempty"`
	KeyFile  string `toml:"key_file,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Validator: ValidatorConfig{
			SchematronImage: validator.DefaultSchematronImage,
			DockerPath:      "docker",
			Timeout:         "2m",
			Concurrency:     4,
		},
		Server: ServerConfig{
			Address:      ":8080",
			MaxBodyBytes: 32 << 20,
		},
	}
}

// DefaultPath returns ~/.ubl/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ubl", "config.toml"), nil
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if _, err := c.Validator.TimeoutDuration(); err != nil {
		return err
	}
	if c.Validator.Concurrency < 1 {
		return fmt.Errorf("validator.concurrency must be at least 1, got %d", c.Validator.Concurrency)
	}
	if (c.Signing.CertFile == "") != (c.Signing.KeyFile == "") {
		return fmt.Errorf("signing.cert_file and signing.key_file must be set together")
	}
	return nil
}

// TimeoutDuration parses Timeout
func (v ValidatorConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(v.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid validator.timeout %q: %w", v.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("validator.timeout must be positive, got %s", v.Timeout)
	}
	return d, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvSchemaDir); v != "" {
		c.Validator.SchemaDir = v
	}
	if v := os.Getenv(EnvSchematronImage); v != "" {
		c.Validator.SchematronImage = v
	}
	if v := os.Getenv(EnvDockerPath); v != "" {
		c.Validator.DockerPath = v
	}
	if v := os.Getenv(EnvValidateTimeout); v != "" {
		c.Validator.Timeout = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvConcurrency, err)
		}
		c.Validator.Concurrency = n
	}
	if v := os.Getenv(EnvServerAddress); v != "" {
		c.Server.Address = v
	}
	return nil
}
