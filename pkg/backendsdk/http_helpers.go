package backendsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// postJSON performs a POST with a JSON body under the caller-supplied timeout.
// The returned response must be consumed via decodeJSON or closed by the
// caller. cancel must be deferred by callers through the returned func.
func (c *Client) postJSON(
	ctx context.Context,
	path string,
	payload any,
	timeout time.Duration,
) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	body, err := json.Marshal(payload)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, cancel, nil
}

// decodeJSON decodes a JSON response into target, mapping non-expected status
// codes to a typed *Error. target may be nil when only the status matters.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// unmarshalLenient unmarshals without failing the caller on empty bodies.
func unmarshalLenient(body []byte, target any) error {
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}
	return json.Unmarshal(body, target)
}
