package httpclient

import (
	"errors"
	"io"
	"io/ioutil"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/ansel1/merry"
)

// Retrying lives in the client layer: the dispatch.Executor itself is
// a pure pass-through and never retries.  Install this middleware on
// the Client if the application wants retry behavior.

// ShouldRetryFunc tests whether a request should be attempted again.
// resp may be nil.  attempt is the number of the attempt which just
// completed, starting at 1: if attempt=1, returning true means attempt
// 2 will be tried.
type ShouldRetryFunc func(attempt int, req *http.Request, resp *http.Response, err error) bool

// BackoffFunc returns how long to wait after the given attempt before
// trying again.
type BackoffFunc func(attempt int) time.Duration

// DefaultShouldRetry retries the request if the error is a timeout,
// temporary, or EOF error, or if the status code is >=500, except for
// 501 (Not Implemented).
func DefaultShouldRetry(attempt int, req *http.Request, resp *http.Response, err error) bool {
	var netError net.Error

	switch {
	case errors.Is(err, io.EOF):
		return true
	case errors.As(err, &netError) && (netError.Temporary() || netError.Timeout()):
		return true
	case err != nil:
		return false
	case resp.StatusCode == 500, resp.StatusCode > 501:
		return true
	}

	return false
}

// ExponentialBackoff returns a BackoffFunc which grows the delay by
// multiplier after each attempt, randomized by the jitter factor, and
// capped at maxDelay.  The growth curve is the same one grpc-go uses.
func ExponentialBackoff(baseDelay time.Duration, multiplier, jitter float64, maxDelay time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt == 1 {
			return baseDelay
		}

		backoff, max := float64(baseDelay), float64(maxDelay)
		for backoff < max && attempt > 1 {
			backoff *= multiplier
			attempt--
		}
		if backoff > max {
			backoff = max
		}

		// randomize so a cluster of requests started together won't
		// retry in lockstep
		// nolint:gosec
		backoff *= 1 + jitter*(rand.Float64()*2-1)
		if backoff < 0 {
			return 0
		}
		return time.Duration(backoff)
	}
}

// RetryConfig defines settings for the Retry middleware.
type RetryConfig struct {
	// MaxAttempts is the number of times to attempt the request.
	// Defaults to 3.
	MaxAttempts int

	// ShouldRetry tests whether a response should be retried.
	// Defaults to DefaultShouldRetry.
	ShouldRetry ShouldRetryFunc

	// Backoff returns how long to wait between retries.  Defaults to
	// an exponential backoff starting at 1s, capped at 2m, with some
	// jitter.
	Backoff BackoffFunc
}

func (c *RetryConfig) normalize() {
	if c.ShouldRetry == nil {
		c.ShouldRetry = DefaultShouldRetry
	}
	if c.Backoff == nil {
		c.Backoff = ExponentialBackoff(1*time.Second, 1.6, 0.2, 120*time.Second)
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
}

// Retry retries the request under certain conditions.  The number of
// attempts, the retry condition, and the delay between attempts can
// be configured.  If config is nil, defaults are used.
//
// Requests with bodies can only be retried if the request's GetBody
// function is set; it is used to rewind the body for the next
// attempt.  http.NewRequest sets it automatically for common body
// types, like strings, byte slices, and byte readers.
func Retry(config *RetryConfig) Middleware {
	var c RetryConfig
	if config != nil {
		c = *config
	}
	c.normalize()

	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			// if GetBody is not set, we can't retry anyway
			if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
				return next.Do(req)
			}

			var resp *http.Response
			var err error
			var attempt int
			for {
				resp, err = next.Do(req)
				attempt++
				if attempt >= c.MaxAttempts || !c.ShouldRetry(attempt, req, resp, err) {
					break
				}

				// fulfill our responsibilities as a response consumer:
				// drain and close the body so keep-alive connections
				// can be reused
				if resp != nil {
					drain(resp.Body)
				}

				req, err = resetRequest(req)
				if err != nil {
					return resp, err
				}

				select {
				case <-req.Context().Done():
					return nil, req.Context().Err()
				case <-time.After(c.Backoff(attempt)):
				}
			}
			return resp, err
		})
	}
}

func resetRequest(req *http.Request) (*http.Request, error) {
	// shallow copy the req.  The http package reads from the request
	// on another goroutine during the write loop, so it can't be
	// modified in place.
	copyReq := *req
	req = &copyReq

	// GetBody is never nil here; Retry checked before the first
	// attempt
	if req.Body != nil && req.Body != http.NoBody {
		b, err := req.GetBody()
		if err != nil {
			return nil, merry.Prepend(err, "calling req.GetBody")
		}
		req.Body = b
	}

	return req, nil
}

func drain(r io.ReadCloser) {
	if r == nil {
		return
	}
	defer func(r io.ReadCloser) {
		_ = r.Close()
	}(r)

	_, _ = io.Copy(ioutil.Discard, io.LimitReader(r, 4096))
}
