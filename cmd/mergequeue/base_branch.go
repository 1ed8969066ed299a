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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-mergequeue/internal/config"
	"github.com/sirseerhq/sirseer-mergequeue/internal/event"
	"github.com/sirseerhq/sirseer-mergequeue/internal/output"
)

type baseBranchOptions struct {
	eventPath string
	repo      string
	source    string
	asJSON    bool
}

func newBaseBranchCommand(a *app) *cobra.Command {
	var opts baseBranchOptions

	cmd := &cobra.Command{
		Use:   "base-branch [pr]",
		Short: "Print the branch a pull request targets",
		Long: `Resolve the base branch of a pull request. The payload's base_ref wins;
otherwise the live lookup is asked (gh for --source cli, the GraphQL API for
--source api); if that fails or is disabled (--source payload) the default
branch is printed. Lookup failures are logged as warnings and never fail the
command.

The pull request comes from the argument, from --event, or both (they must
agree).`,
		Example: `  mergequeue base-branch --event event.json
  mergequeue base-branch 42 --source cli
  mergequeue base-branch 42 --repo acme/widgets --source api --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pr string
			if len(args) == 1 {
				pr = args[0]
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			return runBaseBranch(ctx, a, pr, opts)
		},
	}

	cmd.Flags().StringVar(&opts.eventPath, "event", "", "Event payload file (\"-\" reads stdin)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "Repository as <owner>/<name> when no payload is given")
	cmd.Flags().StringVar(&opts.source, "source", "", "Live lookup source: payload, cli or api (default from configuration)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print a JSON record including the resolution source")

	return cmd
}

func runBaseBranch(ctx context.Context, a *app, pr string, opts baseBranchOptions) error {
	var ec *event.EventContext
	repo := opts.repo

	if opts.eventPath != "" {
		loaded, err := a.loadEvent(opts.eventPath)
		if err != nil {
			return err
		}
		ec = loaded
		if pr != "" && pr != ec.PullRequestID() {
			return fmt.Errorf("pull request %s does not match the payload's pull request %s", pr, ec.PullRequestID())
		}
		pr = ec.PullRequestID()
		if repo == "" {
			repo = ec.RepositoryID()
		}
	}
	if pr == "" {
		return errors.New("no pull request given: pass it as an argument or use --event")
	}

	source := strings.ToLower(opts.source)
	if source == "" {
		source = a.cfg.GetLookupSource(repo)
	}
	if !config.ValidLookupSource(source) {
		return fmt.Errorf("unknown lookup source %q, expected one of: payload, cli, api", opts.source)
	}

	// A declared base_ref never consults the lookup.
	defaultBranch := a.cfg.GetDefaultBranch(repo)
	var lookup event.BaseBranchLookup
	if ec == nil || !ec.HasBaseRef() {
		l, err := a.lookup(source, repo, defaultBranch)
		if err != nil {
			return err
		}
		lookup = l
	}

	resolver := event.NewResolver(lookup, defaultBranch, a.logger)
	token := a.token()

	var res event.Resolution
	if ec != nil {
		res = resolver.Resolve(ctx, ec, token)
	} else {
		res = resolver.ResolvePullRequest(ctx, pr, token)
	}
	a.logger.Debug("resolved base branch", "pr", pr, "branch", res.Branch, "source", res.Source)

	if !opts.asJSON {
		_, err := fmt.Fprintln(a.stdout, res.Branch)
		return err
	}

	w, err := a.writer()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Write(output.BaseBranchRecord{
		PR:         pr,
		BaseBranch: res.Branch,
		Source:     string(res.Source),
	}); err != nil {
		return err
	}
	return w.Close()
}
