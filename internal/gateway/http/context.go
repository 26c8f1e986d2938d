package http

import (
	"context"
	"net/http"

	"github.com/chainfolio/idgate/internal/gateway/domain"
)

type sessionCtxKey struct{}

// SessionContext is the authentication state the gatekeeper resolved for the
// current request. Downstream handlers read it instead of touching cookies.
type SessionContext struct {
	Session       domain.Session
	Authenticated bool
	// Refreshed is set when the gatekeeper rotated the session on this
	// pass. At most one refresh happens per request.
	Refreshed bool
}

func withSessionContext(r *http.Request, sc SessionContext) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, sc))
}

// SessionFromRequest returns the gatekeeper's resolved session state. The
// zero value means the gatekeeper never ran for this route.
func SessionFromRequest(r *http.Request) SessionContext {
	sc, _ := r.Context().Value(sessionCtxKey{}).(SessionContext)
	return sc
}
