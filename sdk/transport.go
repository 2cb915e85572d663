package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// doRequest performs one HTTP request against the APIC and maps 401 and 403
// to ErrUnauthorized.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, auth bool) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		drainAndCloseBody(resp)
		return nil, ErrUnauthorized
	}
	return resp, nil
}

// send performs one HTTP request and returns the response whatever its
// status. Requests are paced by the client's limiter and never retried.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, auth bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if auth {
		if err := c.addAuthCookie(req); err != nil {
			return nil, err
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// drainAndCloseBody reads and closes the response body to ensure connection reuse.
func drainAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
