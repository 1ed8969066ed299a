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

// EventContext is the parsed event payload. It is built once per run by
// Parse or Load and only read afterwards.
type EventContext struct {
	// Repository is the "<owner>/<name>" identifier.
	Repository string `json:"repository"`

	// BaseRef is the base branch when the payload declares one.
	BaseRef *string `json:"base_ref,omitempty"`

	Event Event `json:"event"`
}

// Event wraps the pull request the run was triggered for.
type Event struct {
	PullRequest PullRequest `json:"pull_request"`
}

// PullRequest holds the pull request fields the merge queue consumes.
type PullRequest struct {
	Number uint32  `json:"number"`
	Head   Head    `json:"head"`
	Body   *string `json:"body,omitempty"`
}

// Head identifies the pull request's head commit.
type Head struct {
	SHA string `json:"sha"`
}
