package backendsdk

// TokenBundle is the four-field token set the backend issues on login,
// device-trust verification, and refresh.
type TokenBundle struct {
	// SessionID is the opaque, non-sensitive session identifier.
	SessionID string `json:"session_id"`

	// AccessToken is the short-lived bearer credential (JWT).
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived credential used only to mint new
	// access tokens. Single-use: the backend rotates it on every refresh.
	RefreshToken string `json:"refresh_token"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// RefreshExpiresIn is the refresh token lifetime in seconds.
	RefreshExpiresIn int `json:"refresh_expires_in"`
}

// LoginStatus is the backend-defined outcome of a credential login attempt.
type LoginStatus string

const (
	// LoginStatusOK means credentials were accepted and tokens were issued.
	LoginStatusOK LoginStatus = "ok"

	// LoginStatusOTPRequired means the account has OTP login enabled; the
	// caller must confirm a one-time code before tokens are issued.
	LoginStatusOTPRequired LoginStatus = "otp_required"

	// LoginStatusDeviceOTPRequired means the device fingerprint needs OTP
	// confirmation before it is trusted.
	LoginStatusDeviceOTPRequired LoginStatus = "device_otp_required"

	// LoginStatusDeviceEmailSent means the device fingerprint is not trusted
	// and the backend has dispatched an email verification code.
	LoginStatusDeviceEmailSent LoginStatus = "device_email_sent"
)

// LoginRequest carries a credential login attempt.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Fingerprint string `json:"fingerprint"`
}

// LoginResult is the discriminated login outcome. Tokens is set only for
// LoginStatusOK; ChallengeToken is set for every verification-required status.
type LoginResult struct {
	Status         LoginStatus  `json:"status"`
	Message        string       `json:"message,omitempty"`
	Tokens         *TokenBundle `json:"tokens,omitempty"`
	ChallengeToken string       `json:"challenge_token,omitempty"`
}

// RegisterRequest carries a registration attempt.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Fingerprint string `json:"fingerprint"`
}

// ChallengeIssued is returned whenever the backend opens a verification
// challenge (registration, forgot-password, resend).
type ChallengeIssued struct {
	ChallengeToken string `json:"challenge_token"`
}

// VerifyLoginResult is the outcome of confirming a login or device-trust code.
type VerifyLoginResult struct {
	// Tokens is the fresh session on success.
	Tokens *TokenBundle `json:"tokens,omitempty"`

	// RequiresRelogin is set when the pending login context expired while the
	// code was being confirmed; the user must authenticate again.
	RequiresRelogin bool `json:"requires_relogin,omitempty"`
}

// VerifyForgotResult carries the narrowly-scoped reset token that authorizes
// the subsequent change-password call.
type VerifyForgotResult struct {
	ResetToken string `json:"reset_token"`
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
