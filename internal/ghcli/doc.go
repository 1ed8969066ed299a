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

// Package ghcli is the command gateway between the merge queue and the gh
// command-line client. It turns pull request operations into gh invocations
// and maps their results to domain outcomes.
//
// The package includes:
//   - A Runner interface for executing gh, with an os/exec implementation
//   - A RetryRunner decorator for rate limits and network failures
//   - A Gateway exposing comment, close, add label and base branch lookups
//   - A MockRunner for tests
//
// Write operations (comment, close, add label) return an *errors.OperationError
// on failure and leave the decision to abort or retry to the caller. The base
// branch view never fails: it logs a warning and returns the default branch.
//
// Basic usage:
//
//	gw := ghcli.New(ghcli.NewExecRunner("gh", logger), ghcli.WithLogger(logger))
//	if _, err := gw.Comment(ctx, "42", "Queued for merge", token); err != nil {
//	    return err
//	}
//	base := gw.ViewBaseBranch(ctx, "42", token)
package ghcli
