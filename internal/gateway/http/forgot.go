package http

import (
	"encoding/json"
	"net/http"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// HandleForgotPassword handles POST /api/auth/password/forgot
//
//	@Summary		Open a password reset
//	@Description	Requests a password reset for the given email. The response always directs the page to the verify-forgot step, regardless of whether the address exists.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ForgotSubmission	true	"Account email"
//	@Success		200		{object}	FlowResponse		"Verify-forgot step"
//	@Failure		400		{object}	map[string]string	"Malformed body"
//	@Failure		502		{object}	map[string]string	"Backend unreachable"
//	@Router			/api/auth/password/forgot [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ForgotSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Email is required")
		return
	}

	issued, err := h.Backend.ForgotPassword(ctx, req.Email, h.Timeout)
	if err != nil {
		if backendsdk.IsTimeout(err) {
			log.Warn("forgot-password call timed out", "err", err)
			httpx.WriteError(w, http.StatusGatewayTimeout, "timeout", "Authentication service timed out, try again")
			return
		}
		log.Error("forgot-password call failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "Authentication service unavailable")
		return
	}

	h.Cookies.WriteGateKey(w, domain.FlowVerifyForgot)
	httpx.WriteJSON(w, http.StatusOK, FlowResponse{
		Redirect:       "/verify-forgot",
		ChallengeToken: issued.ChallengeToken,
	})
}
