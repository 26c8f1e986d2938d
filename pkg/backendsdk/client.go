// Package backendsdk is a typed client for the identity backend the gateway
// fronts. The gateway never interprets human-readable backend messages; every
// branching decision is driven by the status and error codes defined here.
//
// All calls take an explicit timeout supplied by the caller. The timeout is
// the only cancellation mechanism: a call either completes within it or is
// treated as failed, never retried automatically.
package backendsdk

import (
	"net/http"
	"strings"
)

// Client is a client for the identity backend API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a backend client. Deadlines are set per call, so the
// underlying http.Client carries no global timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}
