package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
)

// Auth cookie names. The full set is always written or cleared together.
const (
	CookieSessionID    = "sessionId"
	CookieAccessToken  = "accessToken"
	CookieAccessExp    = "accessExp"
	CookieRefreshToken = "refreshToken"
)

// CookiePolicy is the single boundary through which auth cookies are written.
// Nothing else in the gateway sets an auth-related cookie.
type CookiePolicy struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	GateKeyTTL time.Duration
	Secure     bool
}

// ReadSession reconstructs the Session from the request's cookie jar. A
// malformed accessExp degrades to zero, which the lifecycle manager treats
// as "must refresh".
func ReadSession(r *http.Request) domain.Session {
	sess := domain.Session{
		ID:           cookieValue(r, CookieSessionID),
		AccessToken:  cookieValue(r, CookieAccessToken),
		RefreshToken: cookieValue(r, CookieRefreshToken),
	}

	if raw := cookieValue(r, CookieAccessExp); raw != "" {
		if exp, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sess.AccessExpiry = exp
		}
	}

	return sess
}

// WriteSession writes all four session cookies in one pass. Never write a
// subset: accessExp must always track accessToken or the next request's
// expiry check is garbage.
func (p CookiePolicy) WriteSession(w http.ResponseWriter, sess domain.Session) {
	accessMaxAge := int(p.AccessTTL.Seconds())
	refreshMaxAge := int(p.RefreshTTL.Seconds())

	// sessionId is the only session cookie page scripts may read.
	http.SetCookie(w, p.cookie(CookieSessionID, sess.ID, accessMaxAge, false))
	http.SetCookie(w, p.cookie(CookieAccessToken, sess.AccessToken, accessMaxAge, true))
	http.SetCookie(w, p.cookie(
		CookieAccessExp, strconv.FormatInt(sess.AccessExpiry, 10), accessMaxAge, true))
	http.SetCookie(w, p.cookie(CookieRefreshToken, sess.RefreshToken, refreshMaxAge, true))
}

// ClearSession expires all four session cookies. Always the full set, so a
// failed refresh can never leave a half-valid session to be retried.
func (p CookiePolicy) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, p.cookie(CookieSessionID, "", -1, false))
	http.SetCookie(w, p.cookie(CookieAccessToken, "", -1, true))
	http.SetCookie(w, p.cookie(CookieAccessExp, "", -1, true))
	http.SetCookie(w, p.cookie(CookieRefreshToken, "", -1, true))
}

// HasGateKey reports whether the request presents the flow's gate key.
func HasGateKey(r *http.Request, flow string) bool {
	return cookieValue(r, domain.GateKeyCookieName(flow)) == domain.GateKeyValue
}

// WriteGateKey issues the single-use gate key admitting one visit to the
// flow's page.
func (p CookiePolicy) WriteGateKey(w http.ResponseWriter, flow string) {
	http.SetCookie(w, p.cookie(
		domain.GateKeyCookieName(flow), domain.GateKeyValue, int(p.GateKeyTTL.Seconds()), false))
}

// ClearGateKey consumes the flow's gate key.
func (p CookiePolicy) ClearGateKey(w http.ResponseWriter, flow string) {
	http.SetCookie(w, p.cookie(domain.GateKeyCookieName(flow), "", -1, false))
}

func (p CookiePolicy) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
