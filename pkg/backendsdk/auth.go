package backendsdk

import (
	"context"
	"net/http"
	"time"
)

// Login attempts a credential login. The result's Status field discriminates
// between issued tokens and the three verification-required outcomes.
func (c *Client) Login(
	ctx context.Context,
	req LoginRequest,
	timeout time.Duration,
) (*LoginResult, error) {
	resp, cancel, err := c.postJSON(ctx, "/auth/login", req, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var result LoginResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register opens a registration and returns the email-confirmation challenge.
func (c *Client) Register(
	ctx context.Context,
	req RegisterRequest,
	timeout time.Duration,
) (*ChallengeIssued, error) {
	resp, cancel, err := c.postJSON(ctx, "/auth/register", req, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var result ChallengeIssued
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// ForgotPassword opens a password-reset challenge for the given email.
func (c *Client) ForgotPassword(
	ctx context.Context,
	email string,
	timeout time.Duration,
) (*ChallengeIssued, error) {
	payload := map[string]string{"email": email}

	resp, cancel, err := c.postJSON(ctx, "/auth/password/forgot", payload, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var result ChallengeIssued
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh exchanges a refresh token for a fresh four-field token bundle.
// The backend rotates the refresh token; reuse of an already-rotated token
// is rejected, which is the only cross-tab coordination safeguard.
func (c *Client) Refresh(
	ctx context.Context,
	refreshToken string,
	timeout time.Duration,
) (*TokenBundle, error) {
	payload := map[string]string{"refresh_token": refreshToken}

	resp, cancel, err := c.postJSON(ctx, "/auth/refresh", payload, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var bundle TokenBundle
	if err := decodeJSON(resp, &bundle, http.StatusOK); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Revoke invalidates a refresh token server-side. Best effort on logout.
func (c *Client) Revoke(
	ctx context.Context,
	refreshToken string,
	timeout time.Duration,
) error {
	payload := map[string]string{"refresh_token": refreshToken}

	resp, cancel, err := c.postJSON(ctx, "/auth/revoke", payload, timeout)
	if err != nil {
		return err
	}
	defer cancel()

	return decodeJSON(resp, nil, http.StatusNoContent)
}
