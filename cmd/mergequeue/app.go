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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-mergequeue/internal/config"
	"github.com/sirseerhq/sirseer-mergequeue/internal/event"
	"github.com/sirseerhq/sirseer-mergequeue/internal/ghcli"
	"github.com/sirseerhq/sirseer-mergequeue/internal/github"
	"github.com/sirseerhq/sirseer-mergequeue/internal/logging"
	"github.com/sirseerhq/sirseer-mergequeue/internal/output"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	token      string
	logLevel   string
	logFormat  string
	timeout    time.Duration
	outputFile string
}

// app carries what commands need: streams, configuration, logger and the
// gh runner. Tests replace runner with a ghcli.MockRunner.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	opts   globalOptions
	cfg    *config.Config
	logger *log.Logger
	runner ghcli.Runner
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(a.stderr, logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// token returns the --token flag, else the configured environment variable,
// else GH_TOKEN. An empty token lets gh use its own stored credentials.
func (a *app) token() string {
	if a.opts.token != "" {
		return a.opts.token
	}
	return a.cfg.TokenFromEnv()
}

// commandContext derives the command context, bounded by --timeout when set.
func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.opts.timeout > 0 {
		return context.WithTimeout(ctx, a.opts.timeout)
	}
	return context.WithCancel(ctx)
}

// ghRunner returns the injected runner or the real gh executable, wrapped
// with retries when configured.
func (a *app) ghRunner() ghcli.Runner {
	runner := a.runner
	if runner == nil {
		runner = ghcli.NewExecRunner(a.cfg.GitHub.CLIPath, a.logger)
	}
	if a.cfg.Retry.MaxRetries > 0 {
		runner = ghcli.NewRetryRunner(runner, &ghcli.RetryConfig{
			MaxRetries:        a.cfg.Retry.MaxRetries,
			InitialBackoff:    a.cfg.Retry.InitialBackoff,
			MaxBackoff:        a.cfg.Retry.MaxBackoff,
			BackoffMultiplier: 2.0,
		}, a.logger)
	}
	return runner
}

func (a *app) gateway(defaultBranch string) *ghcli.Gateway {
	return ghcli.New(a.ghRunner(),
		ghcli.WithLogger(a.logger),
		ghcli.WithDefaultBranch(defaultBranch),
	)
}

// lookup returns the live base-branch lookup for source, or nil when the
// payload is the only source consulted.
func (a *app) lookup(source, repo, defaultBranch string) (event.BaseBranchLookup, error) {
	switch source {
	case config.LookupPayload:
		return nil, nil
	case config.LookupCLI:
		return a.gateway(defaultBranch), nil
	case config.LookupAPI:
		if repo == "" {
			return nil, fmt.Errorf("the api lookup source needs the repository: pass --event or --repo")
		}
		ec := &event.EventContext{Repository: repo}
		owner, err := ec.Owner()
		if err != nil {
			return nil, err
		}
		name, err := ec.RepoName()
		if err != nil {
			return nil, err
		}
		return github.NewGraphQLClient(a.cfg.GitHub.GraphQLEndpoint, owner, name), nil
	default:
		return nil, fmt.Errorf("unknown lookup source %q, expected one of: payload, cli, api", source)
	}
}

// writer opens the record writer selected by --output.
func (a *app) writer() (output.RecordWriter, error) {
	if a.opts.outputFile == "" {
		return output.NewWriter(a.stdout), nil
	}
	return output.NewFileWriter(a.opts.outputFile)
}

// loadEvent reads the payload at path; "-" reads stdin.
func (a *app) loadEvent(path string) (*event.EventContext, error) {
	if path != "-" {
		return event.Load(path)
	}
	raw, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload from stdin: %w", err)
	}
	return event.Parse(raw)
}

// readBody returns the comment body from --body or --body-file ("-" reads
// stdin).
func (a *app) readBody(body, bodyFile string) (string, error) {
	if bodyFile == "" {
		return body, nil
	}
	if bodyFile == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read comment body from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(bodyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read comment body: %w", err)
	}
	return string(data), nil
}
