package giterror

import (
	"errors"
	"fmt"
	"strings"

	mqerrors "github.com/sirseerhq/sirseer-mergequeue/internal/errors"
)

// Inspector provides methods for analyzing gh and GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a pull request or repository that does not exist.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// GitHubErrorInspector implements the Inspector interface by matching the
// messages gh and the GitHub API emit.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "bad credentials") ||
		strings.Contains(errStr, "authentication") ||
		strings.Contains(errStr, "gh auth login")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "no pull requests found") ||
		strings.Contains(errStr, "could not resolve to a pullrequest") ||
		strings.Contains(errStr, "could not resolve to a repository")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "secondary rate")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "error connecting to")
}

// IsRetryable reports whether err is worth another attempt: rate limits and
// network failures are, everything else is not.
func IsRetryable(inspector Inspector, err error) bool {
	if err == nil {
		return false
	}
	// Rate limit first, 403 is both auth and rate limit
	return inspector.IsRateLimitError(err) || inspector.IsNetworkError(err)
}

// Classify wraps err with the sentinel matching its cause so errors.Is works
// further up. Errors that already carry a sentinel, or match none, are
// returned unchanged.
func Classify(inspector Inspector, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		mqerrors.ErrRateLimit,
		mqerrors.ErrInvalidToken,
		mqerrors.ErrPullRequestNotFound,
		mqerrors.ErrNetworkFailure,
		mqerrors.ErrCommandNotFound,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	switch {
	case inspector.IsRateLimitError(err):
		return fmt.Errorf("%w: %w", mqerrors.ErrRateLimit, err)
	case inspector.IsAuthError(err):
		return fmt.Errorf("%w: %w", mqerrors.ErrInvalidToken, err)
	case inspector.IsNotFoundError(err):
		return fmt.Errorf("%w: %w", mqerrors.ErrPullRequestNotFound, err)
	case inspector.IsNetworkError(err):
		return fmt.Errorf("%w: %w", mqerrors.ErrNetworkFailure, err)
	}
	return err
}

// ErrorChainInspector wraps a base inspector and adds support for checking errors
// in the error chain using errors.Is and errors.As.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsAuthError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsAuthError(err error) bool {
	if errors.Is(err, mqerrors.ErrInvalidToken) {
		return true
	}
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) && authErr.IsAuthError() {
		return true
	}
	return e.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	if errors.Is(err, mqerrors.ErrPullRequestNotFound) {
		return true
	}
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) && notFoundErr.IsNotFoundError() {
		return true
	}
	return e.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRateLimitError(err error) bool {
	if errors.Is(err, mqerrors.ErrRateLimit) {
		return true
	}
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) && rateLimitErr.IsRateLimitError() {
		return true
	}
	return e.base.IsRateLimitError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	if errors.Is(err, mqerrors.ErrNetworkFailure) {
		return true
	}
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	return e.base.IsNetworkError(err)
}
