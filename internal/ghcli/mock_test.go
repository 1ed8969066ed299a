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
	"errors"
	"testing"
)

func TestMockRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("returns default response", func(t *testing.T) {
		mock := NewMockRunner()

		result, err := mock.Run(ctx, []string{"pr", "close", "1"}, "tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Stdout != "" {
			t.Errorf("expected empty stdout, got %q", result.Stdout)
		}

		// Verify call tracking
		if mock.CallCount() != 1 {
			t.Errorf("expected 1 call, got %d", mock.CallCount())
		}
		if mock.LastCall().Token != "tok" {
			t.Errorf("expected token 'tok', got %q", mock.LastCall().Token)
		}
	})

	t.Run("consumes scripted responses in order", func(t *testing.T) {
		mock := NewMockRunner(WithResponses("pr view",
			MockResponse{Stdout: "first"},
			MockResponse{Stdout: "second"},
		))

		for i, want := range []string{"first", "second", "second"} {
			result, err := mock.Run(ctx, []string{"pr", "view", "1"}, "")
			if err != nil {
				t.Fatalf("call %d: unexpected error: %v", i, err)
			}
			if result.Stdout != want {
				t.Errorf("call %d: Stdout = %q, want %q", i, result.Stdout, want)
			}
		}
	})

	t.Run("non-zero exit becomes CommandError", func(t *testing.T) {
		mock := NewMockRunner(WithResponses("pr edit", MockResponse{Stderr: "label not found", ExitCode: 1}))

		_, err := mock.Run(ctx, []string{"pr", "edit", "1", "--add-label", "x"}, "")
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			t.Fatalf("expected CommandError, got %v", err)
		}
		if cmdErr.Stderr != "label not found" {
			t.Errorf("Stderr = %q", cmdErr.Stderr)
		}
	})

	t.Run("with error", func(t *testing.T) {
		boom := errors.New("boom")
		mock := NewMockRunner(WithError(boom))

		_, err := mock.Run(ctx, []string{"pr", "comment", "1"}, "")
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		mock := NewMockRunner()

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := mock.Run(cancelCtx, []string{"pr", "close", "1"}, "")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("records a copy of args", func(t *testing.T) {
		mock := NewMockRunner()
		args := []string{"pr", "close", "1"}

		if _, err := mock.Run(ctx, args, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		args[2] = "2"

		if got := mock.LastCall().Args[2]; got != "1" {
			t.Errorf("recorded args changed: %q", got)
		}
	})
}

func TestMockRunner_LastCallEmpty(t *testing.T) {
	mock := NewMockRunner()
	if call := mock.LastCall(); call.Args != nil || call.Token != "" {
		t.Errorf("expected zero MockCall, got %+v", call)
	}
}
