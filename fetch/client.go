// Package fetch retrieves raw dataset payloads from the remote data service.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/zimmerman-dev/gfdata/errors"
)

// MaxRedirects bounds redirect chains when following dataset download URLs.
const MaxRedirects = 10

// Client wraps http.Client with a request timeout and an optional
// politeness rate limit toward the remote data service.
//
// A fetch is a single attempt: no retry or backoff. Failures propagate
// to the caller, which treats the whole refresh run as failed.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter // nil = unlimited
}

// NewClient creates a fetch client. requestsPerMinute <= 0 disables
// rate limiting.
func NewClient(timeout time.Duration, requestsPerMinute int) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return errors.Newf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
	}

	if requestsPerMinute > 0 {
		// Burst of 1 keeps batch runs evenly spaced
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}

	return c
}

// Fetch downloads the payload at url with a plain GET.
// Non-2xx responses and transport errors are returned as errors; the
// response body is fully read into memory on success.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit wait interrupted")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid dataset URL %q", url)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response body from %s", url)
	}
	return body, nil
}
