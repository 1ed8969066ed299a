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

import "time"

// Lookup sources for base branches the payload does not declare.
const (
	// LookupPayload disables the live lookup: payload, then default.
	LookupPayload = "payload"
	// LookupCLI asks the gh CLI.
	LookupCLI = "cli"
	// LookupAPI queries the GitHub GraphQL API directly.
	LookupAPI = "api"
)

// Config represents the complete configuration for mergequeue.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
	Retry        RetryConfig           `yaml:"retry"`
	Log          LogConfig             `yaml:"log"`
}

// GitHubConfig locates the gh binary and the API, and names the environment
// variable the token is read from.
type GitHubConfig struct {
	CLIPath         string `yaml:"cli_path"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig applies to every repository without an override.
type DefaultsConfig struct {
	BaseBranch   string `yaml:"base_branch"`
	LookupSource string `yaml:"lookup_source"`
}

// RepoConfig holds per-repository overrides, keyed by "owner/name".
type RepoConfig struct {
	BaseBranch   string `yaml:"base_branch"`
	LookupSource string `yaml:"lookup_source"`
}

// RetryConfig controls retries of transient gh failures. MaxRetries of zero
// aborts on the first failure.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			CLIPath:         "gh",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			BaseBranch:   "main",
			LookupSource: LookupCLI,
		},
		Repositories: make(map[string]RepoConfig),
		Retry: RetryConfig{
			MaxRetries:     0,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
