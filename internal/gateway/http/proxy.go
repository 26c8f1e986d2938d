package http

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/chainfolio/idgate/pkg/slogx"
)

// NewBackendProxy builds the reverse proxy for the data API paths the
// gateway does not handle itself. The gatekeeper has already enforced the
// internal marker and refreshed the session; here the access token is
// attached as a bearer credential and the cookie jar stays at the edge.
func NewBackendProxy(backend *url.URL, markerHeader string) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(backend)
			pr.SetXForwarded()

			// The marker and the session cookies are gateway-edge concerns.
			pr.Out.Header.Del(markerHeader)
			pr.Out.Header.Del("Cookie")

			if sc := SessionFromRequest(pr.In); sc.Authenticated {
				pr.Out.Header.Set("Authorization", "Bearer "+sc.Session.AccessToken)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slogx.FromContext(r.Context()).Error("backend proxy failed",
				"path", r.URL.Path, "err", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return proxy
}
