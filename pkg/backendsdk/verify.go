package backendsdk

import (
	"context"
	"net/http"
	"time"
)

// codeSubmission is the shared request body for all three verify endpoints.
type codeSubmission struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
	Fingerprint    string `json:"fingerprint,omitempty"`
}

// VerifyRegister confirms a registration email code.
func (c *Client) VerifyRegister(
	ctx context.Context,
	challengeToken, code string,
	timeout time.Duration,
) error {
	payload := codeSubmission{ChallengeToken: challengeToken, Code: code}

	resp, cancel, err := c.postJSON(ctx, "/auth/register/verify-email", payload, timeout)
	if err != nil {
		return err
	}
	defer cancel()

	return decodeJSON(resp, nil, http.StatusOK)
}

// VerifyLogin confirms a login or device-trust code. On success the backend
// issues a fresh token bundle bound to the now-trusted fingerprint.
func (c *Client) VerifyLogin(
	ctx context.Context,
	challengeToken, code, fprint string,
	timeout time.Duration,
) (*VerifyLoginResult, error) {
	payload := codeSubmission{ChallengeToken: challengeToken, Code: code, Fingerprint: fprint}

	resp, cancel, err := c.postJSON(ctx, "/auth/login/verify-email", payload, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var result VerifyLoginResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyForgot confirms a password-reset code and returns the reset token
// that authorizes the change-password call.
func (c *Client) VerifyForgot(
	ctx context.Context,
	challengeToken, code string,
	timeout time.Duration,
) (*VerifyForgotResult, error) {
	payload := codeSubmission{ChallengeToken: challengeToken, Code: code}

	resp, cancel, err := c.postJSON(ctx, "/auth/password/forgot/verify-email", payload, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var result VerifyForgotResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResendRegister reissues a registration challenge. The previous challenge
// token and code are invalidated by the backend.
func (c *Client) ResendRegister(
	ctx context.Context,
	challengeToken string,
	timeout time.Duration,
) (*ChallengeIssued, error) {
	return c.resend(ctx, "/auth/register/resend-email", challengeToken, timeout)
}

// ResendForgot reissues a password-reset challenge.
func (c *Client) ResendForgot(
	ctx context.Context,
	challengeToken string,
	timeout time.Duration,
) (*ChallengeIssued, error) {
	return c.resend(ctx, "/auth/password/forgot/resend-email", challengeToken, timeout)
}

func (c *Client) resend(
	ctx context.Context,
	path, challengeToken string,
	timeout time.Duration,
) (*ChallengeIssued, error) {
	payload := map[string]string{"challenge_token": challengeToken}

	resp, cancel, err := c.postJSON(ctx, path, payload, timeout)
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
