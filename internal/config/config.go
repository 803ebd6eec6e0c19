// Package config provides configuration management for scenegrab.
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// Default values
	DefaultPort       = 8788
	DefaultLogLevel   = "info"
	DefaultBackendURL = "http://127.0.0.1:10000"
	DefaultDataDir    = ".scenegrab"

	// Environment variable names
	EnvConfigFile     = "SCENEGRAB_CONFIG"
	EnvPort           = "SCENEGRAB_PORT"
	EnvLogLevel       = "SCENEGRAB_LOG_LEVEL"
	EnvLogFormat      = "SCENEGRAB_LOG_FORMAT"
	EnvBackendURL     = "SCENEGRAB_BACKEND_URL"
	EnvBackendTimeout = "SCENEGRAB_BACKEND_TIMEOUT_S"
	EnvHeadless       = "SCENEGRAB_HEADLESS"

	ConfigFilename = "config.yaml"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	LogFormat() string
	BackendURL() string
	BackendTimeout() time.Duration
	Headless() bool
}

type values struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	LogFormat       string `koanf:"log_format"`
	BackendURL      string `koanf:"backend_url"`
	BackendTimeoutS int    `koanf:"backend_timeout_s"`
	Headless        bool   `koanf:"headless"`
}

var defaults = values{
	Port:       DefaultPort,
	LogLevel:   DefaultLogLevel,
	BackendURL: DefaultBackendURL,
}

// FileConfig is a Config assembled from defaults, a YAML file and the
// environment.
type FileConfig struct {
	v    values
	path string
}

// New loads configuration from the file named by SCENEGRAB_CONFIG, or from
// ~/.scenegrab/config.yaml when that exists.
func New() (*FileConfig, error) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = filepath.Join(defaultDataDir(), ConfigFilename)
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	return Load(path)
}

// Load builds a configuration from path (skipped when empty) and the
// environment. An explicitly named file that cannot be read is an error.
func Load(path string) (*FileConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	var v values
	if err := k.Unmarshal("", &v); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := applyEnv(&v); err != nil {
		return nil, err
	}
	if err := validate(v); err != nil {
		return nil, err
	}

	return &FileConfig{v: v, path: path}, nil
}

func applyEnv(v *values) error {
	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		v.Port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		v.LogLevel = ll
	}
	if lf := os.Getenv(EnvLogFormat); lf != "" {
		v.LogFormat = lf
	}
	if bu := os.Getenv(EnvBackendURL); bu != "" {
		v.BackendURL = bu
	}

	if bt := os.Getenv(EnvBackendTimeout); bt != "" {
		secs, err := strconv.Atoi(bt)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBackendTimeout, err)
		}
		v.BackendTimeoutS = secs
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		v.Headless = headless
	}

	return nil
}

func validate(v values) error {
	if v.Port < 1 || v.Port > 65535 {
		return errors.New("invalid port: must be between 1 and 65535")
	}
	if v.BackendTimeoutS < 0 {
		return errors.New("invalid backend_timeout_s: must not be negative")
	}
	switch strings.ToLower(v.LogFormat) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log_format %q: must be json or text", v.LogFormat)
	}

	u, err := url.Parse(v.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must be an absolute http(s) URL", v.BackendURL)
	}
	return nil
}

// Port returns the web UI port
func (c *FileConfig) Port() int {
	return c.v.Port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *FileConfig) LogLevel() string {
	return c.v.LogLevel
}

// LogFormat returns json, text, or empty when each command picks its own.
func (c *FileConfig) LogFormat() string {
	return strings.ToLower(c.v.LogFormat)
}

func (c *FileConfig) BackendURL() string {
	return c.v.BackendURL
}

// BackendTimeout returns the per-request timeout; zero means none.
func (c *FileConfig) BackendTimeout() time.Duration {
	return time.Duration(c.v.BackendTimeoutS) * time.Second
}

func (c *FileConfig) Headless() bool {
	return c.v.Headless
}

// Path returns the config file that was read, or empty.
func (c *FileConfig) Path() string {
	return c.path
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
