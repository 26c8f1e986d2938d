package http

// LoginSubmission is the body of POST /api/auth/login. The device fingerprint is
// derived server-side from request headers, never taken from the body.
type LoginSubmission struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterSubmission is the body of POST /api/auth/register.
type RegisterSubmission struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotSubmission is the body of POST /api/auth/password/forgot.
type ForgotSubmission struct {
	Email string `json:"email"`
}

// CodeSubmission is the body of the three verification endpoints. Digits
// carries the six per-character input slots exactly as the page holds them;
// an incomplete set is rejected without a backend call.
type CodeSubmission struct {
	ChallengeToken string    `json:"challenge_token"`
	Digits         [6]string `json:"digits"`
}

// ResendSubmission is the body of POST /api/auth/verify/{kind}/resend. The
// flow kind travels in the path.
type ResendSubmission struct {
	ChallengeToken string `json:"challenge_token"`
}

// PasteSubmission is the body of POST /api/auth/extract-code.
type PasteSubmission struct {
	Text string `json:"text"`
}

// FlowResponse tells the page where to navigate next. ChallengeToken is set
// when a verification step follows; ResetToken only after a confirmed
// forgot-password code.
type FlowResponse struct {
	Redirect       string `json:"redirect"`
	ChallengeToken string `json:"challenge_token,omitempty"`
	ResetToken     string `json:"reset_token,omitempty"`
	Message        string `json:"message,omitempty"`
}

// ExtractResponse is the outcome of POST /api/auth/extract-code. Filled is the
// number of leading slots populated; zero means the paste held nothing usable.
type ExtractResponse struct {
	Digits [6]string `json:"digits"`
	Filled int       `json:"filled"`
}
