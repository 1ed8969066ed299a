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

// Package main implements the mergequeue command-line interface, the
// pull request gateway used by merge queue workflows.
//
// Usage:
//
//	mergequeue context --event <path>
//	mergequeue base-branch [pr] [--event <path>] [--source payload|cli|api] [--json]
//	mergequeue comment <pr> --body <text> | --body-file <path>
//	mergequeue close <pr>
//	mergequeue label <pr> <label>
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	mergequeue base-branch --event "$RUNNER_TEMP/event.json"
//	mergequeue comment 42 --body "Merge queue failed, see the logs"
//	mergequeue label 42 merge-queue/failed
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
//   - 4: Invalid event payload or repository identifier
package main
