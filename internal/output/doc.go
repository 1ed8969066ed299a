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

// Package output writes command results as NDJSON (Newline Delimited JSON):
// one JSON object per line, flushed as it is written, so workflow steps can
// pipe results into jq or read them line by line.
//
// Example usage:
//
//	w := output.NewWriter(os.Stdout)
//	defer w.Close()
//
//	if err := w.Write(output.BaseBranchRecord{PR: "42", BaseBranch: "develop", Source: "payload"}); err != nil {
//	    return err
//	}
package output
