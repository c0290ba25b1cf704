package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// TestConfigDefaults verifies that default values are applied correctly.
func TestConfigDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "argoproj", cfg.Organization)
	assert.Equal(t, "2020-06-01", cfg.OldestPR)
	assert.Equal(t, "needs-verification", cfg.VerifyLabel)
	assert.Equal(t, []string{"feat", "fix"}, cfg.Prefixes)
	assert.Equal(t, "master", cfg.BaseBranch)
	assert.Equal(t, 100, cfg.PerPage)
	assert.False(t, cfg.DryRun)
}

func TestFromEnv_MissingRequired(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{EnvRepo: "argoproj/argo-cd"}))
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = FromEnv(envMap(map[string]string{EnvToken: "t"}))
	assert.ErrorIs(t, err, ErrMissingRepo)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvToken:   "secret",
		EnvRepo:    "argoproj/argo-cd",
		EnvDryRun:  "true",
		EnvVerbose: "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, "argoproj/argo-cd", cfg.Repo)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.TUI)
	assert.Equal(t, 2020, cfg.Floor.Year())
	assert.Equal(t, time.June, cfg.Floor.Month())
	assert.Equal(t, 1, cfg.Floor.Day())
}

func TestFromEnv_InvalidRepo(t *testing.T) {
	for _, repo := range []string{"argo-cd", "/argo-cd", "argoproj/", "a/b/c"} {
		t.Run(repo, func(t *testing.T) {
			_, err := FromEnv(envMap(map[string]string{EnvToken: "t", EnvRepo: repo}))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assign.yaml")
	content := `
organization: example
verify_label: qa-needed
prefixes: [feat, fix, perf]
dry_run: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := FromEnv(envMap(map[string]string{
		EnvToken:      "t",
		EnvRepo:       "example/repo",
		EnvConfigPath: path,
	}))
	require.NoError(t, err)

	assert.Equal(t, "example", cfg.Organization)
	assert.Equal(t, "qa-needed", cfg.VerifyLabel)
	assert.Equal(t, []string{"feat", "fix", "perf"}, cfg.Prefixes)
	assert.True(t, cfg.DryRun)
	// Unset keys keep their defaults.
	assert.Equal(t, "master", cfg.BaseBranch)
	assert.Equal(t, 100, cfg.PerPage)
}

func TestFromEnv_MissingConfigFile(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{
		EnvToken:      "t",
		EnvRepo:       "example/repo",
		EnvConfigPath: filepath.Join(t.TempDir(), "nope.yaml"),
	}))
	assert.Error(t, err)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assign.toml")
	content := `
organization = "example"
oldest_pr = "2023-01-15"
base_branch = "main"
per_page = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "example", cfg.Organization)
	assert.Equal(t, "2023-01-15", cfg.OldestPR)
	assert.Equal(t, "main", cfg.BaseBranch)
	assert.Equal(t, 50, cfg.PerPage)
	assert.Equal(t, "needs-verification", cfg.VerifyLabel)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_ORG_NAME", "from-env")
	path := filepath.Join(t.TempDir(), "assign.yml")
	require.NoError(t, os.WriteFile(path, []byte("organization: ${TEST_ORG_NAME}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Organization)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty org", func(c *Config) { c.Organization = " " }, true},
		{"empty label", func(c *Config) { c.VerifyLabel = "" }, true},
		{"empty prefix", func(c *Config) { c.Prefixes = []string{"feat", ""} }, true},
		{"page too large", func(c *Config) { c.PerPage = 101 }, true},
		{"bad floor", func(c *Config) { c.OldestPR = "zzz" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Repo = "argoproj/argo-cd"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSince(t *testing.T) {
	got, err := ParseSince("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), got)

	got, err = ParseSince("2024-02-01T10:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)))

	_, err = ParseSince("zzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid time specified")

	_, err = ParseSince("")
	assert.Error(t, err)
}
