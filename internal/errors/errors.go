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

// Package errors defines sentinel errors for consistent error handling across the application.
// They fall into three groups that decide how a failure travels:
//   - parse errors (ErrInvalidPayload, ErrInvalidRepository) end the run
//   - operation errors (OperationError, ErrOperationFailed) are returned to the caller,
//     which decides whether to abort or retry
//   - lookup errors (ErrLookupFailed) never leave the base-branch resolution and
//     are replaced by the default branch
//
// The remaining sentinels classify the underlying cause and map to exit codes in the CLI.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidPayload indicates the event payload does not have the required shape.
	// Maps to exit code 4.
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrInvalidRepository indicates a repository identifier that is not "<owner>/<name>".
	// Maps to exit code 4.
	ErrInvalidRepository = errors.New("invalid repository identifier")

	// ErrOperationFailed indicates a comment, close or label operation did not succeed.
	ErrOperationFailed = errors.New("pull request operation failed")

	// ErrLookupFailed indicates the live base-branch lookup did not produce a branch.
	ErrLookupFailed = errors.New("base branch lookup failed")

	// ErrCommandNotFound indicates the gh executable could not be located.
	ErrCommandNotFound = errors.New("gh command not found")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrPullRequestNotFound indicates the pull request does not exist or is not accessible.
	// Maps to exit code 2.
	ErrPullRequestNotFound = errors.New("pull request not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")
)

// OperationError reports a failed write operation against a pull request.
// It matches ErrOperationFailed with errors.Is and unwraps to the cause.
type OperationError struct {
	Op  string
	PR  string
	Err error
}

// NewOperationError creates an OperationError for op on pr.
func NewOperationError(op, pr string, err error) *OperationError {
	return &OperationError{Op: op, PR: pr, Err: err}
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s pull request %s failed", e.Op, e.PR)
	}
	return fmt.Sprintf("%s pull request %s failed: %v", e.Op, e.PR, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrOperationFailed.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}
