package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/chainfolio/idgate/pkg/slogx"
)

var (
	// ErrIncompleteCode means fewer than six characters were entered. It is
	// raised before any network call.
	ErrIncompleteCode = errors.New("incomplete_code")

	// ErrInvalidCode means the backend rejected the one-time code. The
	// backend's message travels with the wrap and is shown verbatim.
	ErrInvalidCode = errors.New("invalid_code")

	// ErrChallengeExpired means the challenge token went stale. Surfaced to
	// the user identically to ErrInvalidCode.
	ErrChallengeExpired = errors.New("challenge_expired")

	// ErrUnsupportedResend means the flow cannot reissue its code.
	ErrUnsupportedResend = errors.New("resend_not_supported")

	// ErrMissingFingerprint flags a device-trust submission without a
	// fingerprint. Programming error, not user-facing.
	ErrMissingFingerprint = errors.New("missing_fingerprint")

	// ErrTimeout means an outbound call exceeded its deadline. Surfaced as a
	// generic retryable message; the user resubmits manually.
	ErrTimeout = errors.New("timeout")
)

// CodeBuffer is the per-character input buffer for a verification code.
type CodeBuffer [domain.CodeLength]string

// Complete reports whether every slot holds exactly one character.
func (b CodeBuffer) Complete() bool {
	for _, c := range b {
		if len(c) != 1 {
			return false
		}
	}
	return true
}

// Join concatenates the buffer into the code string sent to the backend.
func (b CodeBuffer) Join() string {
	var code string
	for _, c := range b {
		code += c
	}
	return code
}

// SubmitAction discriminates what follows a successful code confirmation.
type SubmitAction int

const (
	// ActionRedirectLogin sends the user to the login page (registration
	// confirmed, or the pending login context expired).
	ActionRedirectLogin SubmitAction = iota

	// ActionInstallSession installs the fresh Session and sends the user to
	// the dashboard.
	ActionInstallSession

	// ActionGateChangePassword admits the user into the change-password page.
	ActionGateChangePassword
)

// SubmitResult is the discriminated outcome of a successful Submit.
type SubmitResult struct {
	Action SubmitAction

	// Session is set for ActionInstallSession.
	Session domain.Session

	// ResetToken is set for ActionGateChangePassword.
	ResetToken string
}

// ChallengeService drives the three OTP confirmation flows against the
// backend. It holds no per-challenge state; the challenge token lives with
// the client between calls.
type ChallengeService struct {
	Backend *backendsdk.Client
	Tokens  *TokenService

	// Timeout bounds code confirmation calls; LightTimeout bounds resends.
	Timeout      time.Duration
	LightTimeout time.Duration
}

// Submit confirms a code for the given flow. Incomplete buffers fail fast
// with ErrIncompleteCode and never reach the network. On any error the caller
// clears the digit buffer and returns focus to the first input.
func (s *ChallengeService) Submit(
	ctx context.Context,
	kind domain.ChallengeKind,
	digits CodeBuffer,
	challengeToken, fprint string,
) (*SubmitResult, error) {
	log := slogx.FromContext(ctx)

	if !digits.Complete() {
		return nil, ErrIncompleteCode
	}
	code := digits.Join()

	switch kind {
	case domain.ChallengeRegister:
		if err := s.Backend.VerifyRegister(ctx, challengeToken, code, s.Timeout); err != nil {
			return nil, mapVerifyError(err)
		}
		return &SubmitResult{Action: ActionRedirectLogin}, nil

	case domain.ChallengeLoginDeviceTrust:
		if fprint == "" {
			return nil, ErrMissingFingerprint
		}

		result, err := s.Backend.VerifyLogin(ctx, challengeToken, code, fprint, s.Timeout)
		if err != nil {
			if backendsdk.HasCode(err, backendsdk.CodeReloginRequired) {
				return &SubmitResult{Action: ActionRedirectLogin}, nil
			}
			return nil, mapVerifyError(err)
		}

		if result.RequiresRelogin || result.Tokens == nil {
			log.Info("device-trust confirmed but login context expired")
			return &SubmitResult{Action: ActionRedirectLogin}, nil
		}

		return &SubmitResult{
			Action:  ActionInstallSession,
			Session: s.Tokens.SessionFromBundle(result.Tokens),
		}, nil

	case domain.ChallengeForgotPassword:
		result, err := s.Backend.VerifyForgot(ctx, challengeToken, code, s.Timeout)
		if err != nil {
			return nil, mapVerifyError(err)
		}
		return &SubmitResult{
			Action:     ActionGateChangePassword,
			ResetToken: result.ResetToken,
		}, nil

	default:
		return nil, fmt.Errorf("unknown challenge kind %q", kind)
	}
}

// Resend reissues a challenge, returning the replacement challenge token.
// The previous token and code are invalidated by the backend. Only the
// register and forgot-password flows expose resend.
func (s *ChallengeService) Resend(
	ctx context.Context,
	kind domain.ChallengeKind,
	challengeToken string,
) (string, error) {
	if !kind.SupportsResend() {
		return "", ErrUnsupportedResend
	}

	var (
		issued *backendsdk.ChallengeIssued
		err    error
	)
	switch kind {
	case domain.ChallengeRegister:
		issued, err = s.Backend.ResendRegister(ctx, challengeToken, s.LightTimeout)
	case domain.ChallengeForgotPassword:
		issued, err = s.Backend.ResendForgot(ctx, challengeToken, s.LightTimeout)
	}
	if err != nil {
		return "", mapVerifyError(err)
	}

	return issued.ChallengeToken, nil
}

// mapVerifyError folds backend errors into the gateway taxonomy.
func mapVerifyError(err error) error {
	switch {
	case backendsdk.IsTimeout(err):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case backendsdk.HasCode(err, backendsdk.CodeInvalidCode):
		var be *backendsdk.Error
		errors.As(err, &be)
		return fmt.Errorf("%w: %s", ErrInvalidCode, be.Message)
	case backendsdk.HasCode(err, backendsdk.CodeChallengeExpired):
		var be *backendsdk.Error
		errors.As(err, &be)
		return fmt.Errorf("%w: %s", ErrChallengeExpired, be.Message)
	default:
		return err
	}
}

// pasteMarker matches the email template's copyable snippet, e.g.
// "fingerprint-email-verification:a1b2c3".
var pasteMarker = regexp.MustCompile(`fingerprint-email-verification:([0-9a-fA-F]{6})`)

func isCodeChar(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ExtractPastedCode fills a code buffer from pasted text. It accepts either a
// raw code or a text blob containing the marker pattern, taking the first six
// usable characters. The returned count is how many slots were filled; zero
// means the paste had nothing usable and the caller should ignore it.
func ExtractPastedCode(raw string) (CodeBuffer, int) {
	var buf CodeBuffer

	if m := pasteMarker.FindStringSubmatch(raw); m != nil {
		for i, r := range m[1] {
			buf[i] = string(r)
		}
		return buf, domain.CodeLength
	}

	n := 0
	for _, r := range raw {
		if !isCodeChar(r) {
			continue
		}
		buf[n] = string(r)
		n++
		if n == domain.CodeLength {
			break
		}
	}
	return buf, n
}
