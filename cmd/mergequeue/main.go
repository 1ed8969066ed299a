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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-mergequeue/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := newRootCommand(a)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return exitOK
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mergequeue",
		Short: "Pull request gateway for merge queue workflows",
		Long: `mergequeue reads the event payload of a merge queue workflow and acts on
the pull request it names: comment on it, close it, label it, or report the
branch it targets.

Pull request operations run through the GitHub CLI (gh). Authentication is
taken from --token, the configured token variable (GITHUB_TOKEN by default)
or GH_TOKEN, in that order; without any, gh uses its own credentials.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Configuration file (default: .mergequeue.yaml or ~/.sirseer/mergequeue.yaml)")
	flags.StringVar(&a.opts.token, "token", "", "GitHub token passed to gh (overrides the configured token variable)")
	flags.StringVar(&a.opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&a.opts.logFormat, "log-format", "text", "Log format: text, json, logfmt")
	flags.DurationVar(&a.opts.timeout, "timeout", 0, "Abort the command after this long (0 means no limit)")
	flags.StringVar(&a.opts.outputFile, "output", "", "Write JSON records to this file instead of stdout")

	rootCmd.AddCommand(
		newContextCommand(a),
		newBaseBranchCommand(a),
		newCommentCommand(a),
		newCloseCommand(a),
		newLabelCommand(a),
	)

	return rootCmd
}
