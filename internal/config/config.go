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

// Package config loads mergequeue settings from a YAML file and the
// environment.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Repository-specific configuration
//  4. Configuration file
//  5. Built-in defaults
//
// Flags are applied by the caller after LoadConfig returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from configPath, or from the first file
// found in the standard locations when configPath is empty:
//   - .mergequeue.yaml (current directory)
//   - .mergequeue.yml (current directory)
//   - ~/.sirseer/mergequeue.yaml
//
// A missing file in a standard location is not an error. Environment
// overrides are applied afterwards.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.GitHub.CLIPath = expandPath(cfg.GitHub.CLIPath)
	if cfg.Repositories == nil {
		cfg.Repositories = make(map[string]RepoConfig)
	}

	return cfg, nil
}

func defaultPaths() []string {
	return []string{
		".mergequeue.yaml",
		".mergequeue.yml",
		filepath.Join(homeDir(), ".sirseer", "mergequeue.yaml"),
	}
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if path := os.Getenv("MERGEQUEUE_GH_PATH"); path != "" {
		cfg.GitHub.CLIPath = path
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if branch := os.Getenv("MERGEQUEUE_DEFAULT_BRANCH"); branch != "" {
		cfg.Defaults.BaseBranch = branch
	}
	if source := os.Getenv("MERGEQUEUE_LOOKUP_SOURCE"); source != "" {
		cfg.Defaults.LookupSource = strings.ToLower(source)
	}
	if level := os.Getenv("MERGEQUEUE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if retries := os.Getenv("MERGEQUEUE_MAX_RETRIES"); retries != "" {
		n, err := parseNonNegativeInt(retries)
		if err != nil {
			return fmt.Errorf("MERGEQUEUE_MAX_RETRIES: %w", err)
		}
		cfg.Retry.MaxRetries = n
	}
	return nil
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

func parseNonNegativeInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i < 0 {
		return 0, fmt.Errorf("value must not be negative, got: %d", i)
	}
	return i, nil
}

// GetDefaultBranch returns the fallback base branch for repo, honouring a
// repository-specific override.
func (c *Config) GetDefaultBranch(repo string) string {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.BaseBranch != "" {
		return repoConfig.BaseBranch
	}
	return c.Defaults.BaseBranch
}

// GetLookupSource returns the live lookup source for repo.
func (c *Config) GetLookupSource(repo string) string {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.LookupSource != "" {
		return strings.ToLower(repoConfig.LookupSource)
	}
	return strings.ToLower(c.Defaults.LookupSource)
}

// TokenFromEnv returns the token from the configured environment variable,
// falling back to GH_TOKEN.
func (c *Config) TokenFromEnv() string {
	if c.GitHub.TokenEnv != "" {
		if token := os.Getenv(c.GitHub.TokenEnv); token != "" {
			return token
		}
	}
	return os.Getenv("GH_TOKEN")
}

// ValidLookupSource reports whether source names a known lookup source.
func ValidLookupSource(source string) bool {
	switch strings.ToLower(source) {
	case LookupPayload, LookupCLI, LookupAPI:
		return true
	default:
		return false
	}
}

// Validate checks if the configuration contains valid values. Call it after
// flags have been applied.
func (c *Config) Validate() error {
	if c.GitHub.CLIPath == "" {
		return errors.New("gh CLI path cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return errors.New("GitHub GraphQL endpoint cannot be empty")
	}
	if strings.TrimSpace(c.Defaults.BaseBranch) == "" {
		return errors.New("default base branch cannot be empty")
	}
	if !ValidLookupSource(c.Defaults.LookupSource) {
		return fmt.Errorf("unknown lookup source %q, expected one of: payload, cli, api", c.Defaults.LookupSource)
	}
	for repo, rc := range c.Repositories {
		if rc.LookupSource != "" && !ValidLookupSource(rc.LookupSource) {
			return fmt.Errorf("repository %s: unknown lookup source %q", repo, rc.LookupSource)
		}
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got: %d", c.Retry.MaxRetries)
	}
	if c.Retry.MaxRetries > 0 && c.Retry.InitialBackoff <= 0 {
		return fmt.Errorf("initial backoff must be positive when retries are enabled, got: %s", c.Retry.InitialBackoff)
	}
	if c.Retry.MaxRetries > 0 && c.Retry.MaxBackoff < c.Retry.InitialBackoff {
		return fmt.Errorf("max backoff %s is shorter than initial backoff %s", c.Retry.MaxBackoff, c.Retry.InitialBackoff)
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			return fmt.Errorf("invalid log level %q", c.Log.Level)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q, expected one of: text, json, logfmt", c.Log.Format)
	}
	return nil
}
