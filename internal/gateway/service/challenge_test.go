package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/stretchr/testify/require"
)

func bufferFrom(code string) CodeBuffer {
	var buf CodeBuffer
	for i, r := range code {
		if i == domain.CodeLength {
			break
		}
		buf[i] = string(r)
	}
	return buf
}

func TestSubmitRejectsIncompleteCodeWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{},
		Timeout: 5 * time.Second,
	}

	for _, code := range []string{"", "1", "12345", "1234567"} {
		_, err := svc.Submit(context.Background(), domain.ChallengeRegister, bufferFrom(code), "chal", "")
		require.ErrorIs(t, err, ErrIncompleteCode, "code %q", code)
	}

	// A buffer with an empty middle slot is incomplete too.
	buf := bufferFrom("123456")
	buf[3] = ""
	_, err := svc.Submit(context.Background(), domain.ChallengeRegister, buf, "chal", "")
	require.ErrorIs(t, err, ErrIncompleteCode)

	require.Zero(t, calls.Load(), "incomplete codes must never reach the backend")
}

func TestSubmitRegisterRedirectsToLogin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register/verify-email", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{},
		Timeout: 5 * time.Second,
	}

	result, err := svc.Submit(context.Background(), domain.ChallengeRegister, bufferFrom("a1b2c3"), "chal", "")
	require.NoError(t, err)
	require.Equal(t, ActionRedirectLogin, result.Action)
}

func TestSubmitDeviceTrustInstallsSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login/verify-email", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"tokens": {
				"session_id": "sid-9",
				"access_token": "at-9",
				"refresh_token": "rt-9",
				"expires_in": 900
			}
		}`))
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{Now: fixedClock(time.Unix(1_700_000_000, 0))},
		Timeout: 5 * time.Second,
	}

	result, err := svc.Submit(
		context.Background(), domain.ChallengeLoginDeviceTrust, bufferFrom("a1b2c3"), "chal", "fp-hash")
	require.NoError(t, err)
	require.Equal(t, ActionInstallSession, result.Action)
	require.Equal(t, "sid-9", result.Session.ID)
	require.Equal(t, "rt-9", result.Session.RefreshToken)
	require.Equal(t, int64(1_700_000_900), result.Session.AccessExpiry)
}

func TestSubmitDeviceTrustRequiresFingerprint(t *testing.T) {
	t.Parallel()

	svc := &ChallengeService{Backend: backendsdk.NewClient("http://unreachable.invalid"), Tokens: &TokenService{}}

	_, err := svc.Submit(context.Background(), domain.ChallengeLoginDeviceTrust, bufferFrom("a1b2c3"), "chal", "")
	require.ErrorIs(t, err, ErrMissingFingerprint)
}

func TestSubmitDeviceTrustRelogin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"requires_relogin": true}`))
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{},
		Timeout: 5 * time.Second,
	}

	result, err := svc.Submit(
		context.Background(), domain.ChallengeLoginDeviceTrust, bufferFrom("a1b2c3"), "chal", "fp")
	require.NoError(t, err)
	require.Equal(t, ActionRedirectLogin, result.Action)
}

func TestSubmitForgotGatesChangePassword(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/password/forgot/verify-email", r.URL.Path)
		_, _ = w.Write([]byte(`{"reset_token": "reset-1"}`))
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{},
		Timeout: 5 * time.Second,
	}

	result, err := svc.Submit(
		context.Background(), domain.ChallengeForgotPassword, bufferFrom("a1b2c3"), "chal", "")
	require.NoError(t, err)
	require.Equal(t, ActionGateChangePassword, result.Action)
	require.Equal(t, "reset-1", result.ResetToken)
}

func TestSubmitSurfacesBackendRejection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_code","error_description":"That code did not match"}`))
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{},
		Timeout: 5 * time.Second,
	}

	_, err := svc.Submit(context.Background(), domain.ChallengeRegister, bufferFrom("a1b2c3"), "chal", "")
	require.ErrorIs(t, err, ErrInvalidCode)
	require.Contains(t, err.Error(), "That code did not match", "backend message surfaces verbatim")
}

func TestSubmitTimeoutIsGeneric(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect and
		// cancel the request context; otherwise Close deadlocks on this handler.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend: backendsdk.NewClient(srv.URL),
		Tokens:  &TokenService{},
		Timeout: 50 * time.Millisecond,
	}

	_, err := svc.Submit(context.Background(), domain.ChallengeRegister, bufferFrom("a1b2c3"), "chal", "")
	require.ErrorIs(t, err, ErrTimeout)
}

func TestResend(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"challenge_token": "chal-new"}`))
	}))
	defer srv.Close()

	svc := &ChallengeService{
		Backend:      backendsdk.NewClient(srv.URL),
		Tokens:       &TokenService{},
		LightTimeout: 5 * time.Second,
	}

	token, err := svc.Resend(context.Background(), domain.ChallengeRegister, "chal-old")
	require.NoError(t, err)
	require.Equal(t, "chal-new", token)

	t.Run("device-trust has no resend", func(t *testing.T) {
		_, err := svc.Resend(context.Background(), domain.ChallengeLoginDeviceTrust, "chal")
		require.ErrorIs(t, err, ErrUnsupportedResend)
	})
}

func TestExtractPastedCode(t *testing.T) {
	t.Parallel()

	t.Run("marker pattern", func(t *testing.T) {
		buf, n := ExtractPastedCode("please use fingerprint-email-verification:a1b2c3 to continue")
		require.Equal(t, domain.CodeLength, n)
		require.Equal(t, CodeBuffer{"a", "1", "b", "2", "c", "3"}, buf)
	})

	t.Run("raw six characters", func(t *testing.T) {
		buf, n := ExtractPastedCode("a1b2c3")
		require.Equal(t, domain.CodeLength, n)
		require.Equal(t, CodeBuffer{"a", "1", "b", "2", "c", "3"}, buf)
	})

	t.Run("partial paste leaves trailing slots empty", func(t *testing.T) {
		buf, n := ExtractPastedCode("xyz12")
		require.Equal(t, 5, n)
		require.Equal(t, CodeBuffer{"x", "y", "z", "1", "2", ""}, buf)
		require.False(t, buf.Complete())
	})

	t.Run("separators are skipped", func(t *testing.T) {
		buf, n := ExtractPastedCode(" a-1 b/2 c:3 ")
		require.Equal(t, domain.CodeLength, n)
		require.Equal(t, CodeBuffer{"a", "1", "b", "2", "c", "3"}, buf)
	})

	t.Run("nothing usable is a no-op", func(t *testing.T) {
		_, n := ExtractPastedCode("!!! ---")
		require.Zero(t, n)
	})

	t.Run("extra characters beyond six are dropped", func(t *testing.T) {
		buf, n := ExtractPastedCode("abcdef123")
		require.Equal(t, domain.CodeLength, n)
		require.Equal(t, CodeBuffer{"a", "b", "c", "d", "e", "f"}, buf)
	})
}
