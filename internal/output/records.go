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

package output

// ContextRecord describes a parsed event payload.
type ContextRecord struct {
	Repository string  `json:"repository"`
	Owner      string  `json:"owner"`
	Repo       string  `json:"repo"`
	Number     uint32  `json:"number"`
	HeadSHA    string  `json:"head_sha"`
	BaseBranch string  `json:"base_branch"`
	HasBaseRef bool    `json:"has_base_ref"`
	Body       *string `json:"body"`
}

// BaseBranchRecord is a resolved base branch and the layer it came from.
type BaseBranchRecord struct {
	PR         string `json:"pr"`
	BaseBranch string `json:"base_branch"`
	Source     string `json:"source"`
}

// OperationRecord reports a completed pull request operation.
type OperationRecord struct {
	Operation string `json:"operation"`
	PR        string `json:"pr"`
	Output    string `json:"output,omitempty"`
}
