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

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	mqerrors "github.com/sirseerhq/sirseer-mergequeue/internal/errors"
	"github.com/sirseerhq/sirseer-mergequeue/internal/giterror"
	"github.com/sirseerhq/sirseer-mergequeue/internal/logging"
)

// DefaultBaseBranch is the branch assumed when nothing better is known.
const DefaultBaseBranch = "main"

// baseRefField is the gh pr view JSON field holding the target branch.
const baseRefField = "baseRefName"

// Gateway performs pull request operations through gh.
type Gateway struct {
	runner        Runner
	logger        *log.Logger
	inspector     giterror.Inspector
	defaultBranch string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *log.Logger) Option {
	return func(g *Gateway) {
		g.logger = logging.OrDiscard(logger)
	}
}

// WithDefaultBranch overrides the branch ViewBaseBranch falls back to.
// Empty values are ignored.
func WithDefaultBranch(branch string) Option {
	return func(g *Gateway) {
		if branch != "" {
			g.defaultBranch = branch
		}
	}
}

// New creates a Gateway on top of runner.
func New(runner Runner, opts ...Option) *Gateway {
	g := &Gateway{
		runner:        runner,
		logger:        logging.Discard(),
		inspector:     giterror.NewErrorChainInspector(giterror.NewInspector()),
		defaultBranch: DefaultBaseBranch,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DefaultBranch returns the branch used when a lookup fails.
func (g *Gateway) DefaultBranch() string {
	return g.defaultBranch
}

// Comment posts body as a comment on pr and returns gh's output.
func (g *Gateway) Comment(ctx context.Context, pr, body, token string) (string, error) {
	return g.write(ctx, "comment on", pr, token, "pr", "comment", pr, "--body", body)
}

// Close closes pr and returns gh's output.
func (g *Gateway) Close(ctx context.Context, pr, token string) (string, error) {
	return g.write(ctx, "close", pr, token, "pr", "close", pr)
}

// AddLabel attaches label to pr and returns gh's output.
func (g *Gateway) AddLabel(ctx context.Context, pr, label, token string) (string, error) {
	return g.write(ctx, "add label to", pr, token, "pr", "edit", pr, "--add-label", label)
}

func (g *Gateway) write(ctx context.Context, op, pr, token string, args ...string) (string, error) {
	result, err := g.runner.Run(ctx, args, token)
	if err != nil {
		return "", mqerrors.NewOperationError(op, pr, giterror.Classify(g.inspector, err))
	}
	return stdout(result), nil
}

// LookupBaseBranch asks gh for the target branch of pr. Every failure wraps
// ErrLookupFailed.
func (g *Gateway) LookupBaseBranch(ctx context.Context, pr, token string) (string, error) {
	result, err := g.runner.Run(ctx, []string{"pr", "view", pr, "--json", baseRefField}, token)
	if err != nil {
		return "", fmt.Errorf("%w: viewing pull request %s: %w",
			mqerrors.ErrLookupFailed, pr, giterror.Classify(g.inspector, err))
	}

	out := stdout(result)
	if !gjson.Valid(out) {
		return "", fmt.Errorf("%w: pull request %s: gh returned invalid JSON", mqerrors.ErrLookupFailed, pr)
	}

	field := gjson.Get(out, baseRefField)
	if !field.Exists() {
		return "", fmt.Errorf("%w: pull request %s: JSON does not contain %q",
			mqerrors.ErrLookupFailed, pr, baseRefField)
	}
	if field.Type != gjson.String || field.Str == "" {
		return "", fmt.Errorf("%w: pull request %s: %q is not a branch name: %s",
			mqerrors.ErrLookupFailed, pr, baseRefField, field.Raw)
	}

	return field.Str, nil
}

// ViewBaseBranch returns the target branch of pr, or the default branch when
// gh fails, prints invalid JSON, or omits the field. It never fails.
func (g *Gateway) ViewBaseBranch(ctx context.Context, pr, token string) string {
	branch, err := g.LookupBaseBranch(ctx, pr, token)
	if err != nil {
		g.logger.Warn("failed to get base branch, falling back to default",
			"pr", pr, "error", err, "fallback", g.defaultBranch)
		return g.defaultBranch
	}
	return branch
}

func stdout(result *Result) string {
	if result == nil {
		return ""
	}
	return result.Stdout
}
