package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/internal/gateway/service"
	"github.com/chainfolio/idgate/internal/gateway/store"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// VerifyHandler handles the verification-code endpoints shared by the
// register, device-trust login and forgot-password flows.
type VerifyHandler struct {
	Challenges *service.ChallengeService
	Cookies    CookiePolicy
	Audit      store.Events

	// FingerprintLength is the configured hash length for derived device
	// fingerprints.
	FingerprintLength int
}

// HandleVerifyRegister handles POST /api/auth/verify/register
//
//	@Summary		Confirm a registration code
//	@Description	Confirms the emailed registration code. On success the page is admitted to the login step.
//	@Tags			Verify
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeSubmission		true	"Challenge token and code digits"
//	@Success		200		{object}	FlowResponse		"Login step"
//	@Failure		400		{object}	map[string]string	"Incomplete or rejected code"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/verify/register [post].
func (h *VerifyHandler) HandleVerifyRegister(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.ChallengeRegister)
}

// HandleVerifyLogin handles POST /api/auth/verify/login
//
//	@Summary		Confirm a device-trust code
//	@Description	Confirms the emailed device-trust code together with the device fingerprint. On success the session is installed and the page goes to the dashboard; if the pending login expired the page is sent back to login.
//	@Tags			Verify
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeSubmission		true	"Challenge token and code digits"
//	@Success		200		{object}	FlowResponse		"Dashboard or login step"
//	@Failure		400		{object}	map[string]string	"Incomplete or rejected code"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/verify/login [post].
func (h *VerifyHandler) HandleVerifyLogin(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.ChallengeLoginDeviceTrust)
}

// HandleVerifyForgot handles POST /api/auth/verify/forgot
//
//	@Summary		Confirm a password-reset code
//	@Description	Confirms the emailed password-reset code. On success the page is admitted to the change-password step with a reset token.
//	@Tags			Verify
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeSubmission		true	"Challenge token and code digits"
//	@Success		200		{object}	FlowResponse		"Change-password step"
//	@Failure		400		{object}	map[string]string	"Incomplete or rejected code"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/verify/forgot [post].
func (h *VerifyHandler) HandleVerifyForgot(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.ChallengeForgotPassword)
}

func (h *VerifyHandler) submit(w http.ResponseWriter, r *http.Request, kind domain.ChallengeKind) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CodeSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.ChallengeToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Challenge token is required")
		return
	}

	var fprint string
	if kind == domain.ChallengeLoginDeviceTrust {
		var err error
		fprint, err = deriveFingerprint(r, h.FingerprintLength)
		if err != nil {
			log.Error("fingerprint derivation failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal error")
			return
		}
	}

	result, err := h.Challenges.Submit(ctx, kind, service.CodeBuffer(req.Digits), req.ChallengeToken, fprint)
	if err != nil {
		h.writeSubmitError(w, r, kind, fprint, err)
		return
	}

	recordEvent(r, h.Audit, domain.EventVerifySucceeded, fprint, string(kind))

	switch result.Action {
	case service.ActionRedirectLogin:
		h.Cookies.WriteGateKey(w, domain.FlowLogin)
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{Redirect: "/login"})

	case service.ActionInstallSession:
		h.Cookies.WriteSession(w, result.Session)
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{Redirect: "/dashboard"})

	case service.ActionGateChangePassword:
		h.Cookies.WriteGateKey(w, domain.FlowChangePassword)
		httpx.WriteJSON(w, http.StatusOK, FlowResponse{
			Redirect:   "/change-password",
			ResetToken: result.ResetToken,
		})

	default:
		log.Error("unknown submit action", "action", result.Action)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal error")
	}
}

func (h *VerifyHandler) writeSubmitError(w http.ResponseWriter, r *http.Request, kind domain.ChallengeKind, fprint string, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrIncompleteCode):
		httpx.WriteError(w, http.StatusBadRequest, "incomplete_code", "Enter all six characters")

	case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrChallengeExpired):
		recordEvent(r, h.Audit, domain.EventVerifyFailed, fprint, string(kind))
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", err.Error())

	case errors.Is(err, service.ErrTimeout):
		log.Warn("verification call timed out", "kind", kind, "err", err)
		httpx.WriteError(w, http.StatusGatewayTimeout, "timeout", "Verification timed out, try again")

	default:
		log.Error("verification call failed", "kind", kind, "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service unavailable")
	}
}

// HandleResend handles POST /api/auth/verify/{kind}/resend
//
//	@Summary		Resend a verification code
//	@Description	Reissues the emailed code for the register and forgot-password flows. The previous code and challenge token stop working; the response carries the replacement token.
//	@Tags			Verify
//	@Accept			json
//	@Produce		json
//	@Param			kind	path		string				true	"Flow kind: register or forgot"
//	@Param			request	body		ResendSubmission	true	"Current challenge token"
//	@Success		200		{object}	FlowResponse		"Replacement challenge token"
//	@Failure		400		{object}	map[string]string	"Unknown kind or resend not supported"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/verify/{kind}/resend [post].
func (h *VerifyHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	kind, ok := challengeKindFromPath(r.PathValue("kind"))
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown challenge kind")
		return
	}

	var req ResendSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.ChallengeToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Challenge token is required")
		return
	}

	token, err := h.Challenges.Resend(ctx, kind, req.ChallengeToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedResend):
			httpx.WriteError(w, http.StatusBadRequest, "resend_not_supported", "This flow cannot resend its code")
		case errors.Is(err, service.ErrChallengeExpired):
			httpx.WriteError(w, http.StatusBadRequest, "challenge_expired", "The challenge has expired, start over")
		case errors.Is(err, service.ErrTimeout):
			log.Warn("resend call timed out", "kind", kind, "err", err)
			httpx.WriteError(w, http.StatusGatewayTimeout, "timeout", "Resend timed out, try again")
		default:
			log.Error("resend call failed", "kind", kind, "err", err)
			httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service unavailable")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, FlowResponse{ChallengeToken: token})
}

// HandleExtractCode handles POST /api/auth/extract-code
//
//	@Summary		Extract a code from pasted text
//	@Description	Fills the six code slots from pasted text, preferring the email template's marker snippet over loose characters.
//	@Tags			Verify
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PasteSubmission	true	"Pasted text"
//	@Success		200		{object}	ExtractResponse	"Filled slots"
//	@Failure		400		{object}	map[string]string	"Malformed body"
//	@Router			/api/auth/extract-code [post].
func (h *VerifyHandler) HandleExtractCode(w http.ResponseWriter, r *http.Request) {
	var req PasteSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	buf, filled := service.ExtractPastedCode(req.Text)
	httpx.WriteJSON(w, http.StatusOK, ExtractResponse{
		Digits: [6]string(buf),
		Filled: filled,
	})
}

// challengeKindFromPath maps the short path segment to a challenge kind.
func challengeKindFromPath(segment string) (domain.ChallengeKind, bool) {
	switch segment {
	case "register":
		return domain.ChallengeRegister, true
	case "login":
		return domain.ChallengeLoginDeviceTrust, true
	case "forgot":
		return domain.ChallengeForgotPassword, true
	}
	return "", false
}
