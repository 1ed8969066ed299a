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

package main

import (
	"errors"

	mqerrors "github.com/sirseerhq/sirseer-mergequeue/internal/errors"
)

// Process exit codes.
const (
	exitOK           = 0
	exitGeneral      = 1
	exitAuth         = 2
	exitNetwork      = 3
	exitInvalidInput = 4
)

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	if errors.Is(err, mqerrors.ErrInvalidPayload) ||
		errors.Is(err, mqerrors.ErrInvalidRepository) {
		return exitInvalidInput
	}

	if errors.Is(err, mqerrors.ErrInvalidToken) ||
		errors.Is(err, mqerrors.ErrPullRequestNotFound) ||
		errors.Is(err, mqerrors.ErrRateLimit) {
		return exitAuth
	}

	if errors.Is(err, mqerrors.ErrNetworkFailure) {
		return exitNetwork
	}

	return exitGeneral
}
