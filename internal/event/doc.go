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

// Package event parses the event payload an automation run starts from and
// derives what the merge queue needs from it: the repository owner and name,
// the pull request, its head commit and the base branch to merge into.
//
// Base branch resolution is layered. The branch declared in the payload wins;
// without one, a live lookup is asked; when that fails too, the default
// branch ("main") is used. Lookup failures are logged and never returned.
//
// Basic usage:
//
//	ec, err := event.Load(os.Getenv("GITHUB_EVENT_PATH"))
//	if err != nil {
//	    return err
//	}
//	owner, err := ec.Owner()
//	...
//	res := event.NewResolver(gateway, "main", logger).Resolve(ctx, ec, token)
package event
