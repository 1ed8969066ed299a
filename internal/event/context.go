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
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	mqerrors "github.com/sirseerhq/sirseer-mergequeue/internal/errors"
	"github.com/sirseerhq/sirseer-mergequeue/internal/ghcli"
)

// DefaultBaseBranch is returned by BaseBranch when the payload declares none.
const DefaultBaseBranch = ghcli.DefaultBaseBranch

// Parse decodes an event payload. The payload must match the expected shape
// completely; any deviation wraps ErrInvalidPayload.
func Parse(raw []byte) (*EventContext, error) {
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", mqerrors.ErrInvalidPayload, err)
	}

	var ec EventContext
	if err := json.Unmarshal(raw, &ec); err != nil {
		return nil, fmt.Errorf("%w: %w", mqerrors.ErrInvalidPayload, err)
	}
	return &ec, nil
}

// Load reads and parses the event payload stored at path.
func Load(path string) (*EventContext, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no event payload path given", mqerrors.ErrInvalidPayload)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	ec, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ec, nil
}

// RepositoryID returns the raw "<owner>/<name>" identifier.
func (ec *EventContext) RepositoryID() string {
	return ec.Repository
}

// Owner returns the owner segment of the repository identifier.
func (ec *EventContext) Owner() (string, error) {
	owner, _, err := splitRepository(ec.Repository)
	return owner, err
}

// RepoName returns the name segment of the repository identifier.
func (ec *EventContext) RepoName() (string, error) {
	_, name, err := splitRepository(ec.Repository)
	return name, err
}

// HasBaseRef reports whether the payload declares a base branch.
func (ec *EventContext) HasBaseRef() bool {
	return ec.BaseRef != nil && *ec.BaseRef != ""
}

// BaseBranch returns the declared base branch, or DefaultBaseBranch. It never
// performs a lookup; use a Resolver for that.
func (ec *EventContext) BaseBranch() string {
	if ec.HasBaseRef() {
		return *ec.BaseRef
	}
	return DefaultBaseBranch
}

// PullRequestNumber returns the pull request number.
func (ec *EventContext) PullRequestNumber() uint32 {
	return ec.Event.PullRequest.Number
}

// PullRequestID returns the pull request number in the form gh accepts.
func (ec *EventContext) PullRequestID() string {
	return strconv.FormatUint(uint64(ec.Event.PullRequest.Number), 10)
}

// HeadSHA returns the head commit of the pull request.
func (ec *EventContext) HeadSHA() string {
	return ec.Event.PullRequest.Head.SHA
}

// Body returns the pull request body and whether the payload carried one.
func (ec *EventContext) Body() (string, bool) {
	if ec.Event.PullRequest.Body == nil {
		return "", false
	}
	return *ec.Event.PullRequest.Body, true
}

func splitRepository(id string) (owner, name string, err error) {
	parts := strings.Split(id, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: expected <owner>/<name>, got %q", mqerrors.ErrInvalidRepository, id)
	}
	return parts[0], parts[1], nil
}
