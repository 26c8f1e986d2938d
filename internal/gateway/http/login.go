package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/internal/gateway/service"
	"github.com/chainfolio/idgate/internal/gateway/store"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/chainfolio/idgate/pkg/fingerprint"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// AuthHandler handles the credential-entry endpoints: login, register,
// forgot-password and logout. The verification steps that may follow live on
// VerifyHandler.
type AuthHandler struct {
	Backend *backendsdk.Client
	Tokens  *service.TokenService
	Cookies CookiePolicy
	Audit   store.Events

	// Timeout bounds each outbound backend call.
	Timeout time.Duration

	// FingerprintLength is the configured hash length for derived device
	// fingerprints.
	FingerprintLength int
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Submit login credentials
//	@Description	Attempts a credential login. Depending on the account and device state the response directs the page to the dashboard or to one of the verification steps.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginSubmission	true	"Credentials"
//	@Success		200		{object}	FlowResponse	"Next navigation step"
//	@Failure		400		{object}	map[string]string	"Malformed body"
//	@Failure		401		{object}	map[string]string	"Invalid credentials"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Username and password are required")
		return
	}

	fprint, err := deriveFingerprint(r, h.FingerprintLength)
	if err != nil {
		log.Error("fingerprint derivation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal error")
		return
	}

	result, err := h.Backend.Login(ctx, backendsdk.LoginRequest{
		Username:    req.Username,
		Password:    req.Password,
		Fingerprint: fprint,
	}, h.Timeout)
	if err != nil {
		h.writeLoginError(w, r, fprint, err)
		return
	}

	switch result.Status {
	case backendsdk.LoginStatusOK:
		if result.Tokens == nil {
			log.Error("login returned ok without tokens")
			httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service misbehaved")
			return
		}
		recordEvent(r, h.Audit, domain.EventLoginSucceeded, fprint, "")
		h.Cookies.WriteSession(w, h.Tokens.SessionFromBundle(result.Tokens))
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{Redirect: "/dashboard"})

	case backendsdk.LoginStatusOTPRequired:
		recordEvent(r, h.Audit, domain.EventLoginChallenged, fprint, string(result.Status))
		h.Cookies.WriteGateKey(w, domain.FlowVerifyOTP)
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{
			Redirect:       "/verify-otp",
			ChallengeToken: result.ChallengeToken,
		})

	case backendsdk.LoginStatusDeviceOTPRequired:
		recordEvent(r, h.Audit, domain.EventLoginChallenged, fprint, string(result.Status))
		h.Cookies.WriteGateKey(w, domain.FlowVerifyFingerprint)
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{
			Redirect:       "/verify-fingerprint",
			ChallengeToken: result.ChallengeToken,
		})

	case backendsdk.LoginStatusDeviceEmailSent:
		recordEvent(r, h.Audit, domain.EventLoginChallenged, fprint, string(result.Status))
		h.Cookies.WriteGateKey(w, domain.FlowVerifyLogin)
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{
			Redirect:       "/verify-login",
			ChallengeToken: result.ChallengeToken,
			Message:        result.Message,
		})

	default:
		log.Error("unknown login status from backend", "status", result.Status)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service misbehaved")
	}
}

func (h *AuthHandler) writeLoginError(w http.ResponseWriter, r *http.Request, fprint string, err error) {
	log := slogx.FromContext(r.Context())

	recordEvent(r, h.Audit, domain.EventLoginFailed, fprint, "")

	switch {
	case backendsdk.HasCode(err, backendsdk.CodeInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case backendsdk.IsTimeout(err):
		log.Warn("login call timed out", "err", err)
		httpx.WriteError(w, http.StatusGatewayTimeout, "timeout", "Authentication service timed out, try again")
	default:
		log.Error("login call failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service unavailable")
	}
}

// deriveFingerprint hashes the caller's device signals. The fingerprint is
// derived from headers on every submission so the backend always sees the
// device actually making the request, and its shape is checked before it is
// forwarded.
func deriveFingerprint(r *http.Request, length int) (string, error) {
	sig := fingerprint.FromHeaders(r.Header.Get)
	hash := fingerprint.Derive(sig, length)
	if err := fingerprint.Validate(hash); err != nil {
		return "", err
	}
	return hash, nil
}
