package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Submit a registration
//	@Description	Opens a new account registration. The backend emails a six-character confirmation code; the response directs the page to the verify-register step.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterSubmission	true	"Account details"
//	@Success		200		{object}	FlowResponse		"Verify-register step"
//	@Failure		400		{object}	map[string]string	"Malformed body"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Username, email and password are required")
		return
	}

	fprint, err := deriveFingerprint(r, h.FingerprintLength)
	if err != nil {
		log.Error("fingerprint derivation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal error")
		return
	}

	issued, err := h.Backend.Register(ctx, backendsdk.RegisterRequest{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fprint,
	}, h.Timeout)
	if err != nil {
		var be *backendsdk.Error
		if errors.As(err, &be) && be.StatusCode == http.StatusConflict {
			httpx.WriteError(w, http.StatusConflict, be.Code, be.Message)
			return
		}
		if backendsdk.IsTimeout(err) {
			log.Warn("register call timed out", "err", err)
			httpx.WriteError(w, http.StatusGatewayTimeout, "timeout", "Authentication service timed out, try again")
			return
		}
		log.Error("register call failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service unavailable")
		return
	}

	h.Cookies.WriteGateKey(w, domain.FlowVerifyRegister)
	httpx.WriteJSON(w, http.StatusOK, FlowResponse{
		Redirect:       "/verify-register",
		ChallengeToken: issued.ChallengeToken,
	})
}
