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

package ghcli

import (
	"context"
	"fmt"
	"strings"
)

// Canned stderr for the failure modes tests need most often.
const (
	authFailureStderr    = "HTTP 401: Bad credentials (https://api.github.com/graphql)\nTry authenticating with:  gh auth login"
	networkFailureStderr = "error connecting to api.github.com\ncheck your internet connection or https://githubstatus.com"
)

// MockCall records one invocation of a MockRunner.
type MockCall struct {
	Args  []string
	Token string
}

// MockResponse is the scripted outcome of one invocation. A non-zero
// ExitCode or a non-nil Err makes the invocation fail.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// MockRunner is a mock implementation of the Runner interface for testing.
type MockRunner struct {
	// Responses are keyed by subcommand ("pr comment", "pr view", ...) and
	// consumed in order; the last one repeats.
	Responses map[string][]MockResponse

	// Default is returned for subcommands without responses.
	Default MockResponse

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	Calls []MockCall
}

// NewMockRunner creates a mock runner that succeeds with empty output unless
// configured otherwise.
func NewMockRunner(opts ...MockRunnerOption) *MockRunner {
	m := &MockRunner{
		Responses: make(map[string][]MockResponse),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run implements the Runner interface
func (m *MockRunner) Run(ctx context.Context, args []string, token string) (*Result, error) {
	m.Calls = append(m.Calls, MockCall{
		Args:  append([]string(nil), args...),
		Token: token,
	})

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	resp := m.next(strings.Join(subcommand(args), " "))
	switch {
	case m.ShouldFailAuth:
		resp = MockResponse{Stderr: authFailureStderr, ExitCode: 1}
	case m.ShouldFailNetwork:
		resp = MockResponse{Stderr: networkFailureStderr, ExitCode: 1}
	}

	result := &Result{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}
	if resp.ExitCode == 0 && resp.Err == nil {
		return result, nil
	}

	cause := resp.Err
	if cause == nil {
		cause = fmt.Errorf("exit status %d", resp.ExitCode)
	}
	if result.ExitCode == 0 {
		result.ExitCode = -1
	}
	return result, &CommandError{
		Args:     append([]string(nil), args...),
		ExitCode: result.ExitCode,
		Stderr:   resp.Stderr,
		Err:      cause,
	}
}

func (m *MockRunner) next(key string) MockResponse {
	queue := m.Responses[key]
	if len(queue) == 0 {
		return m.Default
	}
	resp := queue[0]
	if len(queue) > 1 {
		m.Responses[key] = queue[1:]
	}
	return resp
}

// CallCount returns the number of invocations so far.
func (m *MockRunner) CallCount() int {
	return len(m.Calls)
}

// LastCall returns the most recent invocation, or a zero MockCall.
func (m *MockRunner) LastCall() MockCall {
	if len(m.Calls) == 0 {
		return MockCall{}
	}
	return m.Calls[len(m.Calls)-1]
}

// MockRunnerOption allows configuring the mock runner
type MockRunnerOption func(*MockRunner)

// WithResponses appends scripted responses for a subcommand such as "pr view".
func WithResponses(subcommand string, responses ...MockResponse) MockRunnerOption {
	return func(m *MockRunner) {
		m.Responses[subcommand] = append(m.Responses[subcommand], responses...)
	}
}

// WithBaseBranch makes "gh pr view" report branch as the base branch.
func WithBaseBranch(branch string) MockRunnerOption {
	return WithResponses("pr view", MockResponse{
		Stdout: fmt.Sprintf("{%q:%q}\n", baseRefField, branch),
	})
}

// WithError makes every invocation fail with err.
func WithError(err error) MockRunnerOption {
	return func(m *MockRunner) {
		m.Default = MockResponse{Err: err, ExitCode: 1, Stderr: err.Error()}
	}
}

// WithAuthFailure makes the runner simulate an unauthenticated gh.
func WithAuthFailure() MockRunnerOption {
	return func(m *MockRunner) {
		m.ShouldFailAuth = true
	}
}

// WithNetworkFailure makes the runner simulate an unreachable GitHub.
func WithNetworkFailure() MockRunnerOption {
	return func(m *MockRunner) {
		m.ShouldFailNetwork = true
	}
}
