// Package config holds one run's settings: credentials, target, output
// location, crawl mode and bounds. Values come from defaults, then an
// optional TOML file, then explicit command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Mode selects the traversal strategy.
type Mode string

const (
	// ModeSample visits a bounded slice of sections and processes.
	ModeSample Mode = "sample"
	// ModeFull visits every catalog section and every process in it.
	ModeFull Mode = "full"
	// ModeLibraryRecursive walks every reachable library page.
	ModeLibraryRecursive Mode = "library-recursive"
)

const (
	DefaultBaseURL      = "https://tlcengine.temenos.com"
	DefaultOutputDir    = "Temenos_SVG_Files"
	DefaultMaxSections  = 3
	DefaultMaxProcesses = 2
	DefaultMaxPages     = 1000
	DefaultTimeout      = 20 * time.Second
	DefaultSettle       = 2 * time.Second
)

// Config is one run's settings.
type Config struct {
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	BaseURL   string `toml:"base_url"`
	OutputDir string `toml:"output_dir"`
	Mode      Mode   `toml:"mode"`

	// Sample-mode bounds. Zero means unbounded.
	MaxSections  int `toml:"max_sections"`
	MaxProcesses int `toml:"max_processes"`
	// Library-recursive page budget.
	MaxPages int `toml:"max_pages"`

	Headless bool `toml:"headless"`
	Verbose  bool `toml:"verbose"`

	Timeout time.Duration `toml:"-"`
	Settle  time.Duration `toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		OutputDir:    DefaultOutputDir,
		Mode:         ModeSample,
		MaxSections:  DefaultMaxSections,
		MaxProcesses: DefaultMaxProcesses,
		MaxPages:     DefaultMaxPages,
		Headless:     true,
		Timeout:      DefaultTimeout,
		Settle:       DefaultSettle,
	}
}

// Load reads a TOML file over base. Keys absent from the file keep
// their base values.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config file: %w", err)
	}
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings that would otherwise fail mid-run.
func (c Config) Validate() error {
	if c.Username == "" || c.Password == "" {
		return errors.New("username and password are required")
	}
	switch c.Mode {
	case ModeSample, ModeFull, ModeLibraryRecursive:
	default:
		return fmt.Errorf("unknown mode %q (want sample, full or library-recursive)", c.Mode)
	}
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.MaxSections < 0 || c.MaxProcesses < 0 || c.MaxPages < 0 {
		return errors.New("crawl bounds must not be negative")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	return nil
}
