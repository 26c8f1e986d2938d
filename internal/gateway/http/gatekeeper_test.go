package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/internal/gateway/service"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/stretchr/testify/require"
)

const (
	testMarkerHeader = "X-Idgate-Internal"
	testMarkerValue  = "test-marker-value"
)

// refreshBackend counts refresh calls and either rotates tokens or rejects.
func refreshBackend(t *testing.T, succeed bool, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		calls.Add(1)

		if !succeed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "session_expired",
				"error_description": "refresh token revoked",
			})
			return
		}

		_ = json.NewEncoder(w).Encode(backendsdk.TokenBundle{
			SessionID:        "sess-2",
			AccessToken:      "access-2",
			RefreshToken:     "refresh-2",
			ExpiresIn:        900,
			RefreshExpiresIn: 604800,
		})
	}))
}

func newTestGatekeeper(backendURL string) *Gatekeeper {
	return &Gatekeeper{
		Tokens: &service.TokenService{
			Backend: backendsdk.NewClient(backendURL),
			Skew:    10 * time.Second,
			Timeout: 2 * time.Second,
		},
		Cookies: CookiePolicy{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			GateKeyTTL: 90 * time.Second,
		},
		MarkerHeader:  testMarkerHeader,
		MarkerValue:   testMarkerValue,
		DashboardPath: "/dashboard",
	}
}

// probeHandler records whether the inner handler ran and what session state
// it observed.
type probeHandler struct {
	hits int
	last SessionContext
}

func (p *probeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.hits++
	p.last = SessionFromRequest(r)
	w.WriteHeader(http.StatusOK)
}

func addSessionCookies(r *http.Request, sess domain.Session) {
	r.AddCookie(&http.Cookie{Name: CookieSessionID, Value: sess.ID})
	r.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: sess.AccessToken})
	r.AddCookie(&http.Cookie{Name: CookieAccessExp, Value: strconv.FormatInt(sess.AccessExpiry, 10)})
	r.AddCookie(&http.Cookie{Name: CookieRefreshToken, Value: sess.RefreshToken})
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestGatekeeperGatedPages(t *testing.T) {
	t.Parallel()

	gk := newTestGatekeeper("http://backend.invalid")
	probe := &probeHandler{}
	h := gk.Middleware()(probe)

	t.Run("without gate key redirects to entry", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify-fingerprint", nil))

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Zero(t, probe.hits)
	})

	t.Run("gate key admits once and is consumed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{
			Name:  domain.GateKeyCookieName(domain.FlowLogin),
			Value: domain.GateKeyValue,
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, probe.hits)

		cleared := cookieByName(t, rec.Result().Cookies(), domain.GateKeyCookieName(domain.FlowLogin))
		require.NotNil(t, cleared)
		require.Negative(t, cleared.MaxAge)
	})

	t.Run("mismatched gate key value is denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{
			Name:  domain.GateKeyCookieName(domain.FlowLogin),
			Value: "yes",
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, 1, probe.hits)
	})
}

func TestGatekeeperRoot(t *testing.T) {
	t.Parallel()

	gk := newTestGatekeeper("http://backend.invalid")
	probe := &probeHandler{}
	h := gk.Middleware()(probe)

	t.Run("anonymous visitor gets the entry-page gate keys", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()

		for _, flow := range []string{domain.FlowLogin, domain.FlowRegister, domain.FlowForgotPassword} {
			key := cookieByName(t, cookies, domain.GateKeyCookieName(flow))
			require.NotNil(t, key, "missing gate key for %s", flow)
			require.Equal(t, domain.GateKeyValue, key.Value)
		}
	})

	t.Run("live session redirects to dashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		addSessionCookies(req, domain.Session{
			ID:           "sess-1",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			AccessExpiry: time.Now().Add(10 * time.Minute).Unix(),
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}

func TestGatekeeperProtected(t *testing.T) {
	t.Parallel()

	t.Run("anonymous navigation redirects to entry", func(t *testing.T) {
		gk := newTestGatekeeper("http://backend.invalid")
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Sec-Fetch-Mode", "navigate")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Zero(t, probe.hits)
	})

	t.Run("fresh session passes with context attached", func(t *testing.T) {
		gk := newTestGatekeeper("http://backend.invalid")
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		addSessionCookies(req, domain.Session{
			ID:           "sess-1",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			AccessExpiry: time.Now().Add(10 * time.Minute).Unix(),
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, probe.hits)
		require.True(t, probe.last.Authenticated)
		require.False(t, probe.last.Refreshed)
		require.Equal(t, "access-1", probe.last.Session.AccessToken)
	})

	t.Run("expired access triggers exactly one refresh", func(t *testing.T) {
		var calls atomic.Int32
		backend := refreshBackend(t, true, &calls)
		defer backend.Close()

		gk := newTestGatekeeper(backend.URL)
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		addSessionCookies(req, domain.Session{
			ID:           "sess-1",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			AccessExpiry: time.Now().Add(-5 * time.Second).Unix(),
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, int32(1), calls.Load())
		require.True(t, probe.last.Refreshed)
		require.Equal(t, "access-2", probe.last.Session.AccessToken)

		cookies := rec.Result().Cookies()
		access := cookieByName(t, cookies, CookieAccessToken)
		require.NotNil(t, access)
		require.Equal(t, "access-2", access.Value)

		refresh := cookieByName(t, cookies, CookieRefreshToken)
		require.NotNil(t, refresh)
		require.Equal(t, "refresh-2", refresh.Value)
	})

	t.Run("refresh failure clears all four cookies and redirects", func(t *testing.T) {
		var calls atomic.Int32
		backend := refreshBackend(t, false, &calls)
		defer backend.Close()

		gk := newTestGatekeeper(backend.URL)
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Sec-Fetch-Mode", "navigate")
		addSessionCookies(req, domain.Session{
			ID:           "sess-1",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			AccessExpiry: time.Now().Add(-5 * time.Second).Unix(),
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Equal(t, int32(1), calls.Load())
		require.Zero(t, probe.hits)

		cookies := rec.Result().Cookies()
		for _, name := range []string{CookieSessionID, CookieAccessToken, CookieAccessExp, CookieRefreshToken} {
			c := cookieByName(t, cookies, name)
			require.NotNil(t, c, name)
			require.Empty(t, c.Value, name)
			require.Negative(t, c.MaxAge, name)
		}
	})
}

func TestGatekeeperInternalAPI(t *testing.T) {
	t.Parallel()

	t.Run("missing marker rejects programmatic calls", func(t *testing.T) {
		gk := newTestGatekeeper("http://backend.invalid")
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/holdings", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Zero(t, probe.hits)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "missing_internal_marker", body["error"])
	})

	t.Run("missing marker redirects navigations", func(t *testing.T) {
		gk := newTestGatekeeper("http://backend.invalid")
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/holdings", nil)
		req.Header.Set("Sec-Fetch-Mode", "navigate")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("marker admits anonymous calls", func(t *testing.T) {
		gk := newTestGatekeeper("http://backend.invalid")
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set(testMarkerHeader, testMarkerValue)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, probe.hits)
		require.False(t, probe.last.Authenticated)
	})

	t.Run("refresh failure yields 401", func(t *testing.T) {
		var calls atomic.Int32
		backend := refreshBackend(t, false, &calls)
		defer backend.Close()

		gk := newTestGatekeeper(backend.URL)
		probe := &probeHandler{}
		h := gk.Middleware()(probe)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/holdings", nil)
		req.Header.Set(testMarkerHeader, testMarkerValue)
		addSessionCookies(req, domain.Session{
			ID:           "sess-1",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			AccessExpiry: time.Now().Add(-5 * time.Second).Unix(),
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Zero(t, probe.hits)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "session_expired", body["error"])
	})
}
