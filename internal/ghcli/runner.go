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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/charmbracelet/log"
	"github.com/cli/safeexec"

	mqerrors "github.com/sirseerhq/sirseer-mergequeue/internal/errors"
	"github.com/sirseerhq/sirseer-mergequeue/internal/logging"
)

// DefaultBinary is the executable name looked up on PATH when no path is configured.
const DefaultBinary = "gh"

// Runner executes one gh invocation. The token is handed to gh for that
// invocation only.
type Runner interface {
	Run(ctx context.Context, args []string, token string) (*Result, error)
}

// Result holds the captured output of a gh invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandError reports a gh invocation that could not be started or exited
// with a non-zero status.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	name := "gh " + strings.Join(subcommand(e.Args), " ")
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s failed (exit status %d): %v", name, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s failed (exit status %d): %s", name, e.ExitCode, stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs the real gh executable.
type ExecRunner struct {
	path   string
	logger *log.Logger
}

// NewExecRunner creates a runner for the gh executable at path. A bare name
// such as "gh" is resolved on PATH at call time.
func NewExecRunner(path string, logger *log.Logger) *ExecRunner {
	if path == "" {
		path = DefaultBinary
	}
	return &ExecRunner{
		path:   path,
		logger: logging.OrDiscard(logger),
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string, token string) (*Result, error) {
	bin, err := r.resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", mqerrors.ErrCommandNotFound, r.path, err)
	}

	r.logger.Debug("running gh", "command", shellescape.QuoteCommand(append([]string{bin}, args...)))

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "GH_PROMPT_DISABLED=1")
	if token != "" {
		cmd.Env = append(cmd.Env, "GH_TOKEN="+token)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		runErr = fmt.Errorf("%w: %w", ctxErr, runErr)
	}

	return result, &CommandError{
		Args:     args,
		ExitCode: result.ExitCode,
		Stderr:   result.Stderr,
		Err:      runErr,
	}
}

func (r *ExecRunner) resolve() (string, error) {
	if strings.ContainsRune(r.path, os.PathSeparator) {
		if _, err := os.Stat(r.path); err != nil {
			return "", err
		}
		return r.path, nil
	}
	return safeexec.LookPath(r.path)
}

// subcommand returns the leading words of args that name the gh operation,
// e.g. ["pr", "comment"].
func subcommand(args []string) []string {
	if len(args) > 2 {
		return args[:2]
	}
	return args
}
