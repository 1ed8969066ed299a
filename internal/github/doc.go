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

// Package github looks up pull request base branches through GitHub's
// GraphQL API. It is the alternative to asking the gh CLI and is selected
// with the "api" lookup source.
//
// The client never stores a token. Each lookup attaches the caller's token
// through its own transport, so one client can serve several identities.
//
// Basic usage:
//
//	client := github.NewGraphQLClient("https://api.github.com/graphql", "acme", "widgets")
//	branch, err := client.LookupBaseBranch(ctx, "42", token)
//	if err != nil {
//	    // errors.Is(err, errors.ErrLookupFailed) holds
//	}
package github
