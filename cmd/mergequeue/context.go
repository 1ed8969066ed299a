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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-mergequeue/internal/output"
)

func newContextCommand(a *app) *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the pull request context of an event payload",
		Long: `Parse the event payload and print its pull request context as one JSON
line: repository, owner, repo, number, head_sha, base_branch, has_base_ref
and body.

base_branch is the payload's base_ref, or "main" when the payload has none.
No lookup is performed; use "mergequeue base-branch" for that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContext(a, eventPath)
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "Event payload file (\"-\" reads stdin)")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}

func runContext(a *app, eventPath string) error {
	ec, err := a.loadEvent(eventPath)
	if err != nil {
		return err
	}

	owner, err := ec.Owner()
	if err != nil {
		return err
	}
	name, err := ec.RepoName()
	if err != nil {
		return err
	}

	record := output.ContextRecord{
		Repository: ec.RepositoryID(),
		Owner:      owner,
		Repo:       name,
		Number:     ec.PullRequestNumber(),
		HeadSHA:    ec.HeadSHA(),
		BaseBranch: ec.BaseBranch(),
		HasBaseRef: ec.HasBaseRef(),
	}
	if body, ok := ec.Body(); ok {
		record.Body = &body
	}

	w, err := a.writer()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Write(record); err != nil {
		return err
	}
	return w.Close()
}
