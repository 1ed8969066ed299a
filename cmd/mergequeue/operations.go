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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-mergequeue/internal/output"
)

func newCommentCommand(a *app) *cobra.Command {
	var (
		body     string
		bodyFile string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "comment <pr>",
		Short: "Post a comment on a pull request",
		Args:  cobra.ExactArgs(1),
		Example: `  mergequeue comment 42 --body "Queued for merge"
  mergequeue comment 42 --body-file report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("body") == flags.Changed("body-file") {
				return errors.New("exactly one of --body or --body-file is required")
			}
			text, err := a.readBody(body, bodyFile)
			if err != nil {
				return err
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			out, err := a.gateway("").Comment(ctx, args[0], text, a.token())
			if err != nil {
				return err
			}
			return a.report("comment", args[0], out, asJSON)
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Comment text")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the comment text from a file (\"-\" reads stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON record instead of gh's output")

	return cmd
}

func newCloseCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "close <pr>",
		Short: "Close a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			out, err := a.gateway("").Close(ctx, args[0], a.token())
			if err != nil {
				return err
			}
			return a.report("close", args[0], out, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON record instead of gh's output")

	return cmd
}

func newLabelCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "label <pr> <label>",
		Short: "Add a label to a pull request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[1]) == "" {
				return errors.New("label must not be empty")
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			out, err := a.gateway("").AddLabel(ctx, args[0], args[1], a.token())
			if err != nil {
				return err
			}
			return a.report("label", args[0], out, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON record instead of gh's output")

	return cmd
}

// report prints the outcome of a pull request operation: gh's own output,
// or one JSON record.
func (a *app) report(operation, pr, out string, asJSON bool) error {
	if !asJSON {
		if out == "" {
			return nil
		}
		_, err := fmt.Fprint(a.stdout, out)
		return err
	}

	w, err := a.writer()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Write(output.OperationRecord{
		Operation: operation,
		PR:        pr,
		Output:    strings.TrimSpace(out),
	}); err != nil {
		return err
	}
	return w.Close()
}
