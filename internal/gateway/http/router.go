package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/internal/gateway/service"
	"github.com/chainfolio/idgate/internal/gateway/store"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/chainfolio/idgate/pkg/httpx"
	"github.com/chainfolio/idgate/pkg/slogx"

	_ "github.com/chainfolio/idgate/api/gateway" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	backend      *backendsdk.Client
	backendURL   *url.URL
	cookies      CookiePolicy
	markerHeader string
	markerValue  string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService     *service.TokenService
	ChallengeService *service.ChallengeService

	// CallTimeout bounds the handlers' outbound backend calls.
	CallTimeout time.Duration

	// FingerprintLength is the configured device fingerprint hash length.
	FingerprintLength int

	// AssetsDir, when set, is served under /assets/.
	AssetsDir string
}

func NewRouter(
	backend *backendsdk.Client,
	backendURL *url.URL,
	cookies CookiePolicy,
	markerHeader, markerValue, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		backend:      backend,
		backendURL:   backendURL,
		cookies:      cookies,
		markerHeader: markerHeader,
		markerValue:  markerValue,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain. The gatekeeper runs inside the request
	// logger so denials are logged with request IDs.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	gatekeeper := &Gatekeeper{
		Tokens:        r.TokenService,
		Cookies:       r.cookies,
		MarkerHeader:  r.markerHeader,
		MarkerValue:   r.markerValue,
		DashboardPath: "/dashboard",
		Audit:         r.store.Events(),
	}
	r.middlewares = append(r.middlewares, gatekeeper.Middleware())

	r.registerPages()
	r.registerAuthAPI()
	r.registerProxy()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Identity Gateway API
//	@version		0.1.0
//	@description	Session and device-trust gateway fronting the identity dashboard.
//	@description
//	@description	Holds the session cookie set at the edge, gates the auth-flow pages with single-use keys, drives the email verification flows, and reverse-proxies data API calls to the backend with a bearer access token.
//
//	@contact.name	Chainfolio Team
//	@contact.url	https://github.com/chainfolio/idgate
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	pages := &PageHandler{MarkerValue: r.markerValue}

	r.Mux.Handle("GET /{$}", pages.Page("entry", "Welcome"))
	r.Mux.Handle("GET /dashboard", pages.Page("dashboard", "Dashboard"))
	r.Mux.Handle("GET /dashboard/", pages.Page("dashboard", "Dashboard"))
	r.Mux.Handle("GET /terms", pages.Page("terms", "Terms of Service"))
	r.Mux.Handle("GET /privacy", pages.Page("privacy", "Privacy Policy"))

	// One shell per gated flow. Admission is enforced by the gatekeeper
	// before these run.
	gated := map[string]string{
		domain.FlowLogin:             "Sign In",
		domain.FlowRegister:          "Create Account",
		domain.FlowVerifyLogin:       "Verify Device",
		domain.FlowVerifyRegister:    "Verify Email",
		domain.FlowForgotPassword:    "Reset Password",
		domain.FlowVerifyForgot:      "Verify Reset Code",
		domain.FlowVerifyOTP:         "Verify OTP",
		domain.FlowVerifyFingerprint: "Verify Device",
		domain.FlowChangePassword:    "Change Password",
	}
	for flow, title := range gated {
		r.Mux.Handle("GET /"+flow, pages.Page(flow, title))
	}

	if r.AssetsDir != "" {
		r.Mux.Handle("GET /assets/",
			httpx.Chain(
				http.StripPrefix("/assets/", http.FileServer(http.Dir(r.AssetsDir))),
				httpx.RateLimitByIP(httpx.PublicLimit),
			))
	}
}

func (r *Router) registerAuthAPI() {
	auth := &AuthHandler{
		Backend:           r.backend,
		Tokens:            r.TokenService,
		Cookies:           r.cookies,
		Audit:             r.store.Events(),
		Timeout:           r.CallTimeout,
		FingerprintLength: r.FingerprintLength,
	}
	verify := &VerifyHandler{
		Challenges:        r.ChallengeService,
		Cookies:           r.cookies,
		Audit:             r.store.Events(),
		FingerprintLength: r.FingerprintLength,
	}

	// POST /login - strict rate limit by IP + username to prevent brute force
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(auth.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(auth.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/password/forgot",
		httpx.Chain(http.HandlerFunc(auth.HandleForgotPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(auth.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Code confirmation - strict rate limit by IP (OTP brute force)
	r.Mux.Handle("POST /api/auth/verify/register",
		httpx.Chain(http.HandlerFunc(verify.HandleVerifyRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/verify/login",
		httpx.Chain(http.HandlerFunc(verify.HandleVerifyLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/verify/forgot",
		httpx.Chain(http.HandlerFunc(verify.HandleVerifyForgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/verify/{kind}/resend",
		httpx.Chain(http.HandlerFunc(verify.HandleResend),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/extract-code",
		httpx.Chain(http.HandlerFunc(verify.HandleExtractCode),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerProxy() {
	proxy := NewBackendProxy(r.backendURL, r.markerHeader)

	// Everything under /api/ not handled above forwards to the backend.
	r.Mux.Handle("/api/", proxy)

	// Websocket upgrades pass straight through; the gatekeeper treats /ws
	// as public and the backend authenticates the upgrade itself.
	r.Mux.Handle("/ws", proxy)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
