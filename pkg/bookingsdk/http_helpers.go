package bookingsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
)

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends body as JSON. A non-empty token is sent as a bearer
// credential.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// call performs a request and decodes the response into out, which may be
// nil for bodiless responses.
func (c *Client) call(ctx context.Context, method, path, token string, in, out any, expected int) error {
	resp, err := c.doRequest(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	if out == nil {
		return checkStatus(resp, expected)
	}
	return decodeJSON(resp, out, expected)
}

// decodeJSON decodes a response whose status is one of accepted, or
// returns the *APIError in the body.
func decodeJSON(resp *http.Response, target any, accepted ...int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if !slices.Contains(accepted, resp.StatusCode) {
		return parseErrorResponse(resp, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response, expected int) error {
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}
