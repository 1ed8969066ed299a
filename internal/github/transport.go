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

package github

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/sirseer-mergequeue/pkg/version"
)

const (
	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 10 * 1024 * 1024

	defaultTransportRetries = 3
	maxTransportBackoff     = 30 * time.Second
)

func newPooledTransport() http.RoundTripper {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// limitedReader wraps a ReadCloser with a size limit.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)
	return n, err
}

// authTransport adds the authentication header and the response size limit.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("sirseer-mergequeue/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}
	return resp, nil
}

// retryTransport retries gateway errors with exponential backoff. The
// request body is replayed through GetBody on every attempt.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	backoff := t.backoff
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		attemptReq := req.Clone(req.Context())
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			return nil, err
		}
		if !isRetryableStatusCode(resp.StatusCode) || attempt == t.maxRetries {
			return resp, nil
		}

		lastErr = fmt.Errorf("received status %d (attempt %d/%d)", resp.StatusCode, attempt+1, t.maxRetries+1)
		_ = resp.Body.Close()

		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxTransportBackoff {
				backoff = maxTransportBackoff
			}
		case <-req.Context().Done():
			return nil, fmt.Errorf("%w (last error: %v)", req.Context().Err(), lastErr)
		}
	}

	return nil, lastErr
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
