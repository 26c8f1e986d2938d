package domain

// ChallengeKind identifies which OTP confirmation flow a challenge belongs to.
type ChallengeKind string

const (
	// ChallengeRegister confirms a registration email address.
	ChallengeRegister ChallengeKind = "register"

	// ChallengeLoginDeviceTrust confirms a login from an untrusted device.
	ChallengeLoginDeviceTrust ChallengeKind = "login-device-trust"

	// ChallengeForgotPassword confirms a password-reset request.
	ChallengeForgotPassword ChallengeKind = "forgot-password"
)

// CodeLength is the exact number of characters in a verification code.
const CodeLength = 6

// SupportsResend reports whether a challenge kind can reissue its code.
// Device-trust login challenges cannot; the backend only dispatches that code
// once per login attempt.
func (k ChallengeKind) SupportsResend() bool {
	return k == ChallengeRegister || k == ChallengeForgotPassword
}

// Valid reports whether k is one of the three known kinds.
func (k ChallengeKind) Valid() bool {
	switch k {
	case ChallengeRegister, ChallengeLoginDeviceTrust, ChallengeForgotPassword:
		return true
	}
	return false
}
