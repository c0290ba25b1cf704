// Package config builds the run configuration for assign-merged-prs.
//
// The fixed constants of the tool live in Default. They can be overridden by an
// optional YAML or TOML file, while credentials and the target repository only
// ever come from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvToken      = "GITHUB_TOKEN"
	EnvRepo       = "GITHUB_REPO"
	EnvConfigPath = "ASSIGN_MERGED_PRS_CONFIG"
	EnvDryRun     = "DRY_RUN"
	EnvVerbose    = "ASSIGN_MERGED_PRS_VERBOSE"
	EnvTUI        = "ASSIGN_MERGED_PRS_TUI"
)

var (
	// ErrMissingToken is returned when GITHUB_TOKEN is not set.
	ErrMissingToken = errors.New("Please set GITHUB_TOKEN environment")

	// ErrMissingRepo is returned when GITHUB_REPO is not set.
	ErrMissingRepo = errors.New("Please set GITHUB_REPO environment (i.e. yourorg/repo)")
)

// Config is the root configuration structure.
type Config struct {
	// Organization whose members own the PRs they author.
	Organization string `yaml:"organization" toml:"organization"`

	// OldestPR is the creation date floor that stops pagination.
	OldestPR string `yaml:"oldest_pr" toml:"oldest_pr"`

	// VerifyLabel is added to every qualifying PR.
	VerifyLabel string `yaml:"verify_label" toml:"verify_label"`

	// Prefixes are the conventional-commit title prefixes, without the colon.
	Prefixes []string `yaml:"prefixes" toml:"prefixes"`

	// DryRun computes and prints decisions without mutating anything.
	DryRun bool `yaml:"dry_run" toml:"dry_run"`

	// BaseBranch restricts the listed PRs to this base.
	BaseBranch string `yaml:"base_branch" toml:"base_branch"`

	// PerPage is the page size used when listing PRs and events.
	PerPage int `yaml:"per_page" toml:"per_page"`

	// The fields below are never read from a file.
	Token   string    `yaml:"-" toml:"-"`
	Repo    string    `yaml:"-" toml:"-"`
	Verbose bool      `yaml:"-" toml:"-"`
	TUI     bool      `yaml:"-" toml:"-"`
	Floor   time.Time `yaml:"-" toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Organization == "" {
		c.Organization = "argoproj"
	}
	if c.OldestPR == "" {
		c.OldestPR = "2020-06-01"
	}
	if c.VerifyLabel == "" {
		c.VerifyLabel = "needs-verification"
	}
	if len(c.Prefixes) == 0 {
		c.Prefixes = []string{"feat", "fix"}
	}
	if c.BaseBranch == "" {
		c.BaseBranch = "master"
	}
	if c.PerPage == 0 {
		c.PerPage = 100
	}
}

// Load reads a config file from the given path and expands environment variables.
// The format is picked from the extension: .toml is TOML, anything else is YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseRaw([]byte(os.ExpandEnv(string(data))), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parseRaw(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// FindConfigPath searches for a config file in standard locations.
// An explicit path is returned as is, so that a missing file surfaces as a load error.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	candidates := []string{
		".github/assign-merged-prs.yaml",
		".github/assign-merged-prs.yml",
		".github/assign-merged-prs.toml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// FromEnv builds the run configuration from environment lookups.
// getenv is usually os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	token := strings.TrimSpace(getenv(EnvToken))
	if token == "" {
		return nil, ErrMissingToken
	}
	repo := strings.TrimSpace(getenv(EnvRepo))
	if repo == "" {
		return nil, ErrMissingRepo
	}

	cfg := Default()
	if path := FindConfigPath(strings.TrimSpace(getenv(EnvConfigPath))); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Token = token
	cfg.Repo = repo
	cfg.DryRun = cfg.DryRun || envBool(getenv(EnvDryRun))
	cfg.Verbose = envBool(getenv(EnvVerbose))
	cfg.TUI = envBool(getenv(EnvTUI))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and resolves the pagination floor.
func (c *Config) Validate() error {
	if _, _, err := c.RepoParts(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Organization) == "" {
		return fmt.Errorf("organization cannot be empty")
	}
	if strings.TrimSpace(c.VerifyLabel) == "" {
		return fmt.Errorf("verify_label cannot be empty")
	}
	for _, p := range c.Prefixes {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("prefixes cannot contain empty values")
		}
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("per_page must be between 1 and 100, got %d", c.PerPage)
	}

	floor, err := dateparse.ParseLocal(c.OldestPR)
	if err != nil {
		return fmt.Errorf("invalid oldest_pr %q: %w", c.OldestPR, err)
	}
	c.Floor = floor
	return nil
}

// RepoParts splits Repo into owner and name.
func (c *Config) RepoParts() (string, string, error) {
	parts := strings.SplitN(c.Repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("invalid %s %q: expected organization/repo-name", EnvRepo, c.Repo)
	}
	return parts[0], parts[1], nil
}

// ParseSince parses the single command-line argument into the merge cutoff.
func ParseSince(arg string) (time.Time, error) {
	since, err := dateparse.ParseLocal(strings.TrimSpace(arg))
	if err != nil {
		return time.Time{}, fmt.Errorf("Invalid time specified: %w", err)
	}
	return since, nil
}

func envBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
