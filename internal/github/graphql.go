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

package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shurcooL/graphql"

	mqerrors "github.com/sirseerhq/sirseer-mergequeue/internal/errors"
	"github.com/sirseerhq/sirseer-mergequeue/internal/giterror"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// GraphQLClient resolves base branches for pull requests of one repository.
type GraphQLClient struct {
	endpoint  string
	owner     string
	repo      string
	base      http.RoundTripper
	retries   int
	backoff   time.Duration
	inspector giterror.Inspector
}

// NewGraphQLClient creates a client for owner/repo. An empty endpoint means
// DefaultEndpoint; GitHub Enterprise installations pass their own.
func NewGraphQLClient(endpoint, owner, repo string) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GraphQLClient{
		endpoint:  endpoint,
		owner:     owner,
		repo:      repo,
		base:      newPooledTransport(),
		retries:   defaultTransportRetries,
		backoff:   time.Second,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// LookupBaseBranch returns the base branch of pull request pr. Every failure
// wraps ErrLookupFailed, and additionally one of the classification
// sentinels when the cause is recognised.
func (c *GraphQLClient) LookupBaseBranch(ctx context.Context, pr, token string) (string, error) {
	number, err := strconv.ParseInt(pr, 10, 32)
	if err != nil || number < 0 {
		return "", fmt.Errorf("%w: pull request %q is not a number GitHub accepts", mqerrors.ErrLookupFailed, pr)
	}

	var query struct {
		Repository struct {
			PullRequest *struct {
				BaseRefName graphql.String
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(c.owner),
		"repo":   graphql.String(c.repo),
		"number": graphql.Int(int32(number)), // #nosec G115 - parsed with bitSize 32
	}

	if err := c.client(token).Query(ctx, &query, variables); err != nil {
		return "", c.mapError(err, pr)
	}

	if query.Repository.PullRequest == nil {
		return "", fmt.Errorf("%w: pull request %s not found in %s/%s: %w",
			mqerrors.ErrLookupFailed, pr, c.owner, c.repo, mqerrors.ErrPullRequestNotFound)
	}

	branch := string(query.Repository.PullRequest.BaseRefName)
	if branch == "" {
		return "", fmt.Errorf("%w: pull request %s has an empty baseRefName", mqerrors.ErrLookupFailed, pr)
	}
	return branch, nil
}

// client builds a GraphQL client whose requests carry token.
func (c *GraphQLClient) client(token string) *graphql.Client {
	httpClient := &http.Client{
		Transport: &retryTransport{
			base: &authTransport{
				token: token,
				base:  c.base,
			},
			maxRetries: c.retries,
			backoff:    c.backoff,
		},
	}
	return graphql.NewClient(c.endpoint, httpClient)
}

// mapError tags err with the matching sentinel and ErrLookupFailed.
func (c *GraphQLClient) mapError(err error, pr string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: pull request %s in %s/%s: %w",
		mqerrors.ErrLookupFailed, pr, c.owner, c.repo, giterror.Classify(c.inspector, err))
}
