package http

import (
	"net/http"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// HandleLogout handles POST /api/auth/logout
//
//	@Summary		End the current session
//	@Description	Revokes the refresh token server-side when one is present, then clears the full session cookie set. Always succeeds from the caller's point of view.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	FlowResponse	"Entry page"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sess := ReadSession(r)
	if sess.RefreshToken != "" {
		// Best effort: the cookies are cleared either way, and an orphaned
		// refresh token ages out on the backend.
		if err := h.Backend.Revoke(ctx, sess.RefreshToken, h.Timeout); err != nil {
			log.Warn("refresh token revocation failed", "err", err)
		} else {
			recordEvent(r, h.Audit, domain.EventSessionRevoked, "", "")
		}
	}

	h.Cookies.ClearSession(w)
	httpx.WriteJSON(w, http.StatusOK, FlowResponse{Redirect: "/"})
}
