package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/internal/gateway/service"
	"github.com/chainfolio/idgate/internal/gateway/store"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// Gatekeeper is the per-request edge middleware. Every request is classified
// into a route class and held to that class's admission rule before any
// handler runs.
type Gatekeeper struct {
	Tokens  *service.TokenService
	Cookies CookiePolicy

	// MarkerHeader/MarkerValue gate the internal API surface. The value is
	// derived at boot and shared with the dashboard's server-side runtime.
	MarkerHeader string
	MarkerValue  string

	DashboardPath string

	Audit store.Events
}

// Middleware applies the gatekeeper's admission rules ahead of next.
func (g *Gatekeeper) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class, flow := domain.ClassifyPath(r.URL.Path)

			switch class {
			case domain.RoutePublic:
				next.ServeHTTP(w, r)

			case domain.RouteRoot:
				g.serveRoot(w, r, next)

			case domain.RouteGated:
				g.serveGated(w, r, next, flow)

			case domain.RouteInternalAPI:
				g.serveInternalAPI(w, r, next)

			case domain.RouteProtected:
				g.serveProtected(w, r, next)

			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// serveRoot handles the entry page. An authenticated visitor is bounced
// straight to the dashboard; everyone else gets the gate keys for the pages
// reachable from the entry screen: login, register and forgot-password.
func (g *Gatekeeper) serveRoot(w http.ResponseWriter, r *http.Request, next http.Handler) {
	sess := ReadSession(r)
	if sess.Authenticated() {
		if _, ok := g.ensureFresh(w, r, sess); ok {
			http.Redirect(w, r, g.DashboardPath, http.StatusFound)
			return
		}
		// Refresh failed: cookies are already cleared, fall through to the
		// entry page as an anonymous visitor.
	}

	g.Cookies.WriteGateKey(w, domain.FlowLogin)
	g.Cookies.WriteGateKey(w, domain.FlowRegister)
	g.Cookies.WriteGateKey(w, domain.FlowForgotPassword)
	next.ServeHTTP(w, r)
}

// serveGated admits auth pages only to holders of the matching gate key.
// The key is consumed on admission, so a reload lands back on "/".
func (g *Gatekeeper) serveGated(w http.ResponseWriter, r *http.Request, next http.Handler, flow string) {
	if !HasGateKey(r, flow) {
		g.record(r, domain.EventGateDenied, flow)
		g.logger(r).Info("gate key missing, redirecting to entry",
			"flow", flow, "path", r.URL.Path)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	g.Cookies.ClearGateKey(w, flow)
	next.ServeHTTP(w, r)
}

// serveInternalAPI rejects API calls that do not carry the internal marker,
// then attaches (and if needed refreshes) the session for the proxy.
func (g *Gatekeeper) serveInternalAPI(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if g.MarkerValue == "" || r.Header.Get(g.MarkerHeader) != g.MarkerValue {
		g.record(r, domain.EventMarkerRejected, "")
		g.logger(r).Warn("internal marker missing or invalid", "path", r.URL.Path)
		if isNavigation(r) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "missing_internal_marker", "Missing internal marker")
		return
	}

	sess := ReadSession(r)
	if !sess.Authenticated() {
		next.ServeHTTP(w, withSessionContext(r, SessionContext{}))
		return
	}

	sc, ok := g.ensureFresh(w, r, sess)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_expired", "Session expired")
		return
	}
	next.ServeHTTP(w, withSessionContext(r, sc))
}

// serveProtected requires an authenticated session, refreshing it at most
// once when the access token is near expiry.
func (g *Gatekeeper) serveProtected(w http.ResponseWriter, r *http.Request, next http.Handler) {
	sess := ReadSession(r)
	if !sess.Authenticated() {
		g.deny(w, r)
		return
	}

	sc, ok := g.ensureFresh(w, r, sess)
	if !ok {
		g.deny(w, r)
		return
	}
	next.ServeHTTP(w, withSessionContext(r, sc))
}

// ensureFresh refreshes the session if its access token is near expiry. On
// refresh failure it clears the full cookie set and returns ok=false; it
// never retries.
func (g *Gatekeeper) ensureFresh(w http.ResponseWriter, r *http.Request, sess domain.Session) (SessionContext, bool) {
	if !g.Tokens.NeedsRefresh(sess) {
		return SessionContext{Session: sess, Authenticated: true}, true
	}

	fresh, err := g.Tokens.Refresh(r.Context(), sess)
	if err != nil {
		g.record(r, domain.EventRefreshFailed, "")
		g.logger(r).Info("session refresh failed, clearing session", "error", err)
		g.Cookies.ClearSession(w)
		return SessionContext{}, false
	}

	g.Cookies.WriteSession(w, fresh)
	return SessionContext{Session: fresh, Authenticated: true, Refreshed: true}, true
}

// deny sends the appropriate unauthenticated response for the request type:
// a redirect for page navigations, a 401 envelope for programmatic calls.
func (g *Gatekeeper) deny(w http.ResponseWriter, r *http.Request) {
	if isNavigation(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	httpx.WriteError(w, http.StatusUnauthorized, "session_expired", "Session expired")
}

func (g *Gatekeeper) record(r *http.Request, kind domain.AuthEventKind, flow string) {
	recordEvent(r, g.Audit, kind, "", flow)
}

func (g *Gatekeeper) logger(r *http.Request) *slog.Logger {
	return slogx.FromContext(r.Context())
}

// isNavigation reports whether the request is a browser page navigation as
// opposed to a fetch/XHR call.
func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
