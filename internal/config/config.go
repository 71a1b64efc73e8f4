package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"frecfind/internal/domain"
)

// Config represents the application configuration. It is loaded once per
// process and treated as an immutable snapshot; components receive it at
// construction and never re-read global state mid-operation.
type Config struct {
	Version int `toml:"version"`

	// Engine is the command used to reach the external ranked store.
	// It may contain arguments ("frecd --db ~/.frecd.db").
	Engine string `toml:"engine"`

	// Query options passed through to the engine's find operation.
	ResultCap  int               `toml:"result_cap"` // 0 = no limit
	Syntax     domain.SyntaxMode `toml:"syntax"`
	Case       domain.CaseMode   `toml:"case"`
	HomeTilde  bool              `toml:"home_tilde"`
	Relative   bool              `toml:"relative_paths"`

	// Tracking options.
	DebounceMs int                `toml:"debounce_ms"`
	Weights    map[string]float64 `toml:"weights"` // event kind -> weight
	Exclude    []string           `toml:"exclude"` // doublestar globs, rejected paths

	// Selection handling.
	EditorCommand string `toml:"editor_command"` // empty = $EDITOR
	Preview       bool   `toml:"preview"`        // page the file instead of opening it

	// Nested directory pick.
	ListingExclude string `toml:"listing_exclude"`
	ListingCap     int    `toml:"listing_cap"`
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(cfg *Config) error
	Path() string
}

// service is the concrete implementation
type service struct {
	filePath string
}

// NewService creates a config service rooted at the user config directory.
func NewService() Service {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &service{
		filePath: filepath.Join(configDir, "frecfind", "frecfind.toml"),
	}
}

// NewServiceAt creates a config service for an explicit file path.
func NewServiceAt(path string) Service {
	return &service{filePath: path}
}

// Path returns the config file location.
func (s *service) Path() string {
	return s.filePath
}

// Load loads the configuration from file. A missing file yields the
// default configuration without error.
func (s *service) Load() (*Config, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into a zero config, then fill defaults for anything the
	// file left unset. A weights table in the file replaces the default
	// table wholesale, so an intentionally narrow table stays narrow.
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Save saves the configuration to file
func (s *service) Save(cfg *Config) error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Default returns the default configuration
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills every unset option.
func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Engine == "" {
		cfg.Engine = "frecd"
	}
	if cfg.Syntax == "" {
		cfg.Syntax = domain.SyntaxExtended
	}
	if cfg.Case == "" {
		cfg.Case = domain.CaseDefault
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = 500
	}
	if cfg.Weights == nil {
		cfg.Weights = map[string]float64{
			string(domain.KindOpen):       1.0,
			string(domain.KindManualSave): 1.0,
			string(domain.KindAutoSave):   0.3,
			string(domain.KindActive):     0.2,
			string(domain.KindDirVisit):   1.0,
		}
	}
	if cfg.Exclude == nil {
		cfg.Exclude = []string{"**/.git/**", "**/node_modules/**"}
	}
	if cfg.ListingExclude == "" {
		cfg.ListingExclude = "**/.git/**"
	}
	if cfg.ListingCap <= 0 {
		cfg.ListingCap = 500
	}
}
