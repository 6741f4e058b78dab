// Package uciconfig provides configuration loading and validation for
// the uci CLI's own preferences: where to find configs by default,
// where to keep delta logs, and the default strictness/color settings.
// This is distinct from the UCI wire format itself (pkg/uci parses
// that); this package governs only the CLI's dotfile.
package uciconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openuci/uci/internal/fsutil"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig is returned when the configuration file is not found.
	ErrNoConfig = errors.New("configuration file not found")
)

const (
	// DefaultConfDir is the default directory the CLI loads packages from.
	DefaultConfDir = "/etc/config"
	// DefaultSaveDir is the default directory delta logs are kept in.
	DefaultSaveDir = "/tmp/.uci"
	// DefaultConfigPath is the default path of the CLI's own preferences file.
	DefaultConfigPath = ".uci/config.yaml"
)

// Config holds the uci CLI's preferences.
type Config struct {
	ConfDir string `yaml:"confdir"`
	SaveDir string `yaml:"savedir"`
	Strict  bool   `yaml:"strict"`
	Color   bool   `yaml:"color"`
}

// Provider defines the interface for loading configuration.
type Provider interface {
	Load() (*Config, error)
}

// FSProvider implements Provider using the local filesystem.
type FSProvider struct {
	fs   fsutil.ReadWriteFS
	path string
}

var _ Provider = (*FSProvider)(nil)

// New creates a configuration provider for the default preferences
// path under the caller's home directory, falling back to the current
// directory if the home directory cannot be determined.
func New() Provider {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine home directory: %v\n", err)
		home = ""
	}
	return NewWithPath(fsutil.OS(), filepath.Join(home, DefaultConfigPath))
}

// NewWithPath creates a provider with a specific filesystem and path.
func NewWithPath(fs fsutil.ReadWriteFS, path string) Provider {
	return &FSProvider{fs: fs, path: path}
}

// Default returns the preferences used when no config file exists.
func Default() *Config {
	return &Config{
		ConfDir: DefaultConfDir,
		SaveDir: DefaultSaveDir,
		Strict:  true,
		Color:   true,
	}
}

// Load loads the configuration from the specified path.
func (p *FSProvider) Load() (*Config, error) {
	_ = p.ensureConfigDir()

	cfg, err := p.loadAndParse()
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			return Default(), nil
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Validate checks the configuration's required fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ConfDir) == "" {
		return errors.New("confdir cannot be empty")
	}
	if strings.TrimSpace(c.SaveDir) == "" {
		return errors.New("savedir cannot be empty")
	}
	return nil
}

func (p *FSProvider) ensureConfigDir() error {
	dir := filepath.Dir(p.path)
	if _, err := p.fs.Stat(dir); os.IsNotExist(err) {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return nil
}

func (p *FSProvider) loadAndParse() (*Config, error) {
	f, err := p.fs.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	return cfg, nil
}
