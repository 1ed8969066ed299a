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

package event

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/sirseerhq/sirseer-mergequeue/internal/logging"
)

// Source names the layer a base branch was resolved from.
type Source string

const (
	SourcePayload Source = "payload"
	SourceLive    Source = "live"
	SourceDefault Source = "default"
)

// Resolution is a resolved base branch and where it came from.
type Resolution struct {
	Branch string `json:"base_branch"`
	Source Source `json:"source"`
}

// BaseBranchLookup queries the hosting service for a pull request's base
// branch. ghcli.Gateway and github.GraphQLClient implement it.
type BaseBranchLookup interface {
	LookupBaseBranch(ctx context.Context, pr, token string) (string, error)
}

// Resolver resolves base branches: payload first, then the live lookup,
// then the default branch. Results are never cached.
type Resolver struct {
	lookup        BaseBranchLookup
	defaultBranch string
	logger        *log.Logger
}

// NewResolver creates a Resolver. A nil lookup disables the live layer and an
// empty defaultBranch means DefaultBaseBranch.
func NewResolver(lookup BaseBranchLookup, defaultBranch string, logger *log.Logger) *Resolver {
	if defaultBranch == "" {
		defaultBranch = DefaultBaseBranch
	}
	return &Resolver{
		lookup:        lookup,
		defaultBranch: defaultBranch,
		logger:        logging.OrDiscard(logger),
	}
}

// Resolve returns the base branch for the pull request in ec.
func (r *Resolver) Resolve(ctx context.Context, ec *EventContext, token string) Resolution {
	if ec.HasBaseRef() {
		return Resolution{Branch: *ec.BaseRef, Source: SourcePayload}
	}
	return r.ResolvePullRequest(ctx, ec.PullRequestID(), token)
}

// ResolvePullRequest resolves the base branch of pr without a payload: the
// live lookup, then the default branch.
func (r *Resolver) ResolvePullRequest(ctx context.Context, pr, token string) Resolution {
	if r.lookup == nil {
		r.logger.Debug("no live lookup configured, using default base branch", "pr", pr, "fallback", r.defaultBranch)
		return Resolution{Branch: r.defaultBranch, Source: SourceDefault}
	}

	branch, err := r.lookup.LookupBaseBranch(ctx, pr, token)
	if err != nil {
		r.logger.Warn("failed to get base branch, falling back to default",
			"pr", pr, "error", err, "fallback", r.defaultBranch)
		return Resolution{Branch: r.defaultBranch, Source: SourceDefault}
	}
	if branch == "" {
		r.logger.Warn("lookup returned an empty base branch, falling back to default",
			"pr", pr, "fallback", r.defaultBranch)
		return Resolution{Branch: r.defaultBranch, Source: SourceDefault}
	}

	return Resolution{Branch: branch, Source: SourceLive}
}
