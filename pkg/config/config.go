// Package config assembles the per-invocation install configuration from
// command-line flags and an optional user defaults file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRepo is the GitHub repository releases are fetched from.
	DefaultRepo = "trackio/trackio-tui"

	// BinaryName is the executable shipped inside each release archive.
	BinaryName = "trackio-tui"
)

// Config is the resolved configuration for one install run.
// ExplicitVersion always wins over IncludePrerelease when both are set.
type Config struct {
	Repo              string
	BinDir            string
	System            bool
	ExplicitVersion   string
	IncludePrerelease bool
	DryRun            bool
}

// Flags carries the raw command-line flag values.
type Flags struct {
	Dir     string
	System  bool
	Version string
	Pre     bool
	DryRun  bool
}

// Defaults is the optional user defaults file. Both keys are optional and
// only fill in values the flags left empty.
type Defaults struct {
	BinDir string `yaml:"bin_dir"`
	Repo   string `yaml:"repo"`
}

// DefaultsPath returns the location of the user defaults file, or an empty
// string when no home directory is available.
func DefaultsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "trackio-tui", "install.yml")
}

// LoadDefaults reads and parses the defaults file at path. A missing file
// (or empty path) yields zero-value defaults; a malformed file is an error.
func LoadDefaults(path string) (Defaults, error) {
	var d Defaults
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, errors.Wrapf(err, "failed to read defaults file: %s", path)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, errors.Wrapf(err, "failed to parse defaults file: %s", path)
	}
	return d, nil
}

// Resolve merges flags over defaults into the effective configuration.
// Flags always win; the defaults file only supplies bin_dir and repo.
func Resolve(flags Flags, defaults Defaults) Config {
	cfg := Config{
		Repo:              DefaultRepo,
		BinDir:            flags.Dir,
		System:            flags.System,
		ExplicitVersion:   flags.Version,
		IncludePrerelease: flags.Pre,
		DryRun:            flags.DryRun,
	}
	if defaults.Repo != "" {
		cfg.Repo = defaults.Repo
	}
	if cfg.BinDir == "" {
		cfg.BinDir = defaults.BinDir
	}
	return cfg
}
