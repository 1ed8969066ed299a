// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at an empty temp dir and
// clears every variable LoadConfig reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{
		"MERGEQUEUE_GH_PATH",
		"GITHUB_GRAPHQL_ENDPOINT",
		"MERGEQUEUE_DEFAULT_BRANCH",
		"MERGEQUEUE_LOOKUP_SOURCE",
		"MERGEQUEUE_LOG_LEVEL",
		"MERGEQUEUE_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GitHub.CLIPath != "gh" {
		t.Errorf("CLIPath = %s, want gh", cfg.GitHub.CLIPath)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.Defaults.BaseBranch != "main" {
		t.Errorf("BaseBranch = %s, want main", cfg.Defaults.BaseBranch)
	}
	if cfg.Defaults.LookupSource != LookupCLI {
		t.Errorf("LookupSource = %s, want cli", cfg.Defaults.LookupSource)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Retry.MaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := isolate(t)
	configPath := filepath.Join(tmpDir, "config.yaml")

	writeFile(t, configPath, `
github:
  cli_path: /opt/gh/bin/gh
  graphql_endpoint: https://github.enterprise.com/api/graphql
  token_env: GITHUB_ENTERPRISE_TOKEN

defaults:
  base_branch: trunk
  lookup_source: api

repositories:
  "org/repo":
    base_branch: develop
    lookup_source: payload

retry:
  max_retries: 2
  initial_backoff: 500ms
  max_backoff: 10s

log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GitHub.CLIPath != "/opt/gh/bin/gh" {
		t.Errorf("CLIPath = %s, want /opt/gh/bin/gh", cfg.GitHub.CLIPath)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_ENTERPRISE_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.Defaults.BaseBranch != "trunk" {
		t.Errorf("BaseBranch = %s, want trunk", cfg.Defaults.BaseBranch)
	}
	if cfg.Defaults.LookupSource != LookupAPI {
		t.Errorf("LookupSource = %s, want api", cfg.Defaults.LookupSource)
	}
	if cfg.Retry.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialBackoff != 500*time.Millisecond {
		t.Errorf("InitialBackoff = %s, want 500ms", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.MaxBackoff != 10*time.Second {
		t.Errorf("MaxBackoff = %s, want 10s", cfg.Retry.MaxBackoff)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}

	if got := cfg.GetDefaultBranch("org/repo"); got != "develop" {
		t.Errorf("GetDefaultBranch(org/repo) = %s, want develop", got)
	}
	if got := cfg.GetDefaultBranch("other/repo"); got != "trunk" {
		t.Errorf("GetDefaultBranch(other/repo) = %s, want trunk", got)
	}
	if got := cfg.GetLookupSource("org/repo"); got != LookupPayload {
		t.Errorf("GetLookupSource(org/repo) = %s, want payload", got)
	}
	if got := cfg.GetLookupSource("other/repo"); got != LookupAPI {
		t.Errorf("GetLookupSource(other/repo) = %s, want api", got)
	}
}

func TestLoadConfig_DefaultLocations(t *testing.T) {
	t.Run("current directory", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, ".mergequeue.yml"), "defaults:\n  base_branch: from-cwd\n")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Defaults.BaseBranch != "from-cwd" {
			t.Errorf("BaseBranch = %s, want from-cwd", cfg.Defaults.BaseBranch)
		}
	})

	t.Run("home directory", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, ".sirseer", "mergequeue.yaml"), "defaults:\n  base_branch: from-home\n")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Defaults.BaseBranch != "from-home" {
			t.Errorf("BaseBranch = %s, want from-home", cfg.Defaults.BaseBranch)
		}
	})

	t.Run("none found", func(t *testing.T) {
		isolate(t)

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Defaults.BaseBranch != "main" {
			t.Errorf("BaseBranch = %s, want main", cfg.Defaults.BaseBranch)
		}
	})
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := isolate(t)

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "defaults: [not, a, map]\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, `
github:
  cli_path: /from/file/gh
defaults:
  base_branch: trunk
  lookup_source: cli
`)

	t.Setenv("MERGEQUEUE_GH_PATH", "~/bin/gh")
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", "https://ghe.example.com/api/graphql")
	t.Setenv("MERGEQUEUE_DEFAULT_BRANCH", "master")
	t.Setenv("MERGEQUEUE_LOOKUP_SOURCE", "API")
	t.Setenv("MERGEQUEUE_LOG_LEVEL", "warn")
	t.Setenv("MERGEQUEUE_MAX_RETRIES", "4")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if want := filepath.Join(dir, "bin", "gh"); cfg.GitHub.CLIPath != want {
		t.Errorf("CLIPath = %s, want %s", cfg.GitHub.CLIPath, want)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://ghe.example.com/api/graphql" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.Defaults.BaseBranch != "master" {
		t.Errorf("BaseBranch = %s, want master", cfg.Defaults.BaseBranch)
	}
	if cfg.Defaults.LookupSource != LookupAPI {
		t.Errorf("LookupSource = %s, want api", cfg.Defaults.LookupSource)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Retry.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.Retry.MaxRetries)
	}
}

func TestEnvOverrides_InvalidRetries(t *testing.T) {
	for _, value := range []string{"many", "-1"} {
		isolate(t)
		t.Setenv("MERGEQUEUE_MAX_RETRIES", value)

		_, err := LoadConfig("")
		if err == nil {
			t.Errorf("MERGEQUEUE_MAX_RETRIES=%s: expected error", value)
			continue
		}
		if !strings.Contains(err.Error(), "MERGEQUEUE_MAX_RETRIES") {
			t.Errorf("error should name the variable: %v", err)
		}
	}
}

func TestTokenFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		tokenEnv string
		env      map[string]string
		want     string
	}{
		{
			name:     "configured variable",
			tokenEnv: "GITHUB_TOKEN",
			env:      map[string]string{"GITHUB_TOKEN": "primary", "GH_TOKEN": "secondary"},
			want:     "primary",
		},
		{
			name:     "custom variable",
			tokenEnv: "GHE_TOKEN",
			env:      map[string]string{"GHE_TOKEN": "enterprise", "GITHUB_TOKEN": "primary"},
			want:     "enterprise",
		},
		{
			name:     "falls back to GH_TOKEN",
			tokenEnv: "GITHUB_TOKEN",
			env:      map[string]string{"GH_TOKEN": "secondary"},
			want:     "secondary",
		},
		{
			name:     "nothing set",
			tokenEnv: "GITHUB_TOKEN",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"GITHUB_TOKEN", "GH_TOKEN", "GHE_TOKEN"} {
				t.Setenv(key, tt.env[key])
			}

			cfg := DefaultConfig()
			cfg.GitHub.TokenEnv = tt.tokenEnv
			if got := cfg.TokenFromEnv(); got != tt.want {
				t.Errorf("TokenFromEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty default branch",
			mutate:  func(c *Config) { c.Defaults.BaseBranch = "  " },
			wantErr: "default base branch",
		},
		{
			name:    "unknown lookup source",
			mutate:  func(c *Config) { c.Defaults.LookupSource = "rest" },
			wantErr: "unknown lookup source",
		},
		{
			name: "unknown repository lookup source",
			mutate: func(c *Config) {
				c.Repositories["org/repo"] = RepoConfig{LookupSource: "carrier-pigeon"}
			},
			wantErr: "org/repo",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Retry.MaxRetries = -1 },
			wantErr: "must not be negative",
		},
		{
			name: "retries without backoff",
			mutate: func(c *Config) {
				c.Retry.MaxRetries = 2
				c.Retry.InitialBackoff = 0
			},
			wantErr: "initial backoff",
		},
		{
			name: "max backoff below initial",
			mutate: func(c *Config) {
				c.Retry.MaxRetries = 1
				c.Retry.InitialBackoff = 5 * time.Second
				c.Retry.MaxBackoff = time.Second
			},
			wantErr: "max backoff",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: "invalid log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "empty cli path",
			mutate:  func(c *Config) { c.GitHub.CLIPath = "" },
			wantErr: "gh CLI path",
		},
		{
			name:    "empty graphql endpoint",
			mutate:  func(c *Config) { c.GitHub.GraphQLEndpoint = "" },
			wantErr: "GraphQL endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
