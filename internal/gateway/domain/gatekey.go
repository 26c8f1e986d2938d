package domain

// Flow names for the gated auth pages. Each flow has a matching single-use
// gate key cookie that permits exactly one visit to its page.
const (
	FlowLogin             = "login"
	FlowRegister          = "register"
	FlowVerifyLogin       = "verify-login"
	FlowVerifyRegister    = "verify-register"
	FlowForgotPassword    = "forgot-password"
	FlowVerifyForgot      = "verify-forgot"
	FlowVerifyOTP         = "verify-otp"
	FlowVerifyFingerprint = "verify-fingerprint"
	FlowChangePassword    = "change-password"
)

// GateKeyValue is the only value a gate key cookie may hold. The gate is a
// flow-integrity control, not a security boundary; the real authorization is
// the challenge token the backend validates.
const GateKeyValue = "true"

// GateKeyCookieName returns the cookie name for a flow's gate key.
func GateKeyCookieName(flow string) string {
	return "gate-key-for-" + flow
}
