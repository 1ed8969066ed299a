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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sirseerhq/sirseer-mergequeue/internal/giterror"
	"github.com/sirseerhq/sirseer-mergequeue/internal/logging"
)

// RetryConfig configures the retry behavior for gh invocations
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryRunner wraps a Runner with automatic retry logic for rate limits and
// transient network errors using exponential backoff. Any other failure is
// returned after the first attempt.
type RetryRunner struct {
	runner    Runner
	config    *RetryConfig
	inspector giterror.Inspector
	logger    *log.Logger
}

// NewRetryRunner creates a new RetryRunner with the given configuration
func NewRetryRunner(runner Runner, config *RetryConfig, logger *log.Logger) *RetryRunner {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryRunner{
		runner:    runner,
		config:    config,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
		logger:    logging.OrDiscard(logger),
	}
}

// Run implements the Runner interface with retry logic
func (r *RetryRunner) Run(ctx context.Context, args []string, token string) (*Result, error) {
	var (
		lastResult *Result
		lastErr    error
	)

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result, err := r.runner.Run(ctx, args, token)
		if err == nil {
			return result, nil
		}

		lastResult, lastErr = result, err

		// Don't retry on non-retryable errors
		if !giterror.IsRetryable(r.inspector, err) {
			return result, err
		}

		// Don't retry if context is cancelled
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if attempt == r.config.MaxRetries {
			break
		}

		backoff := r.calculateBackoff(attempt)

		reason := "network error"
		if r.inspector.IsRateLimitError(err) {
			reason = "rate limit"
		}
		r.logger.Warn("gh invocation failed, retrying",
			"command", "gh "+strings.Join(subcommand(args), " "), "reason", reason,
			"backoff", backoff, "attempt", attempt+1, "max_retries", r.config.MaxRetries)

		// Wait with context cancellation support
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return lastResult, ctx.Err()
		}
	}

	return lastResult, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryRunner) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// ±10% jitter
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
