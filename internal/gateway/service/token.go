package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/backendsdk"
	"github.com/chainfolio/idgate/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
)

// Policy defaults for the token lifecycle.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	// DefaultSkew absorbs clock drift and network latency when deciding
	// whether an access token is still usable.
	DefaultSkew = 10 * time.Second
)

var (
	// ErrRefreshFailed means the refresh call failed or the backend reported
	// non-success. It is never retried; callers must treat the session as
	// destroyed.
	ErrRefreshFailed = errors.New("refresh_failed")
)

// TokenService keeps the access token fresh without user-visible
// interruption. Refresh is not safe to call concurrently for one session;
// the gatekeeper invokes it at most once per request pass.
type TokenService struct {
	Backend *backendsdk.Client

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Skew       time.Duration

	// Timeout is the refresh call deadline.
	Timeout time.Duration

	// Now is injectable for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) skew() time.Duration {
	if s.Skew > 0 {
		return s.Skew
	}
	return DefaultSkew
}

// RemainingLifetime returns how long the session's access token remains
// usable, minus the skew allowance. A session with no recorded expiry gets a
// negative sentinel: it must refresh before trusting its access token.
func (s *TokenService) RemainingLifetime(sess domain.Session) time.Duration {
	if sess.AccessExpiry == 0 {
		return -time.Second
	}
	return time.Unix(sess.AccessExpiry, 0).Sub(s.now()) - s.skew()
}

// NeedsRefresh reports whether the session holds a refresh token whose
// access token is no longer usable.
func (s *TokenService) NeedsRefresh(sess domain.Session) bool {
	return sess.RefreshToken != "" && s.RemainingLifetime(sess) <= 0
}

// Refresh exchanges the session's refresh token for a fresh one, rewriting
// all four session fields. On any failure it returns ErrRefreshFailed and the
// caller must tear the session down; a failed refresh is never retried.
func (s *TokenService) Refresh(ctx context.Context, sess domain.Session) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	if sess.RefreshToken == "" {
		return domain.Session{}, fmt.Errorf("%w: no refresh token", ErrRefreshFailed)
	}

	bundle, err := s.Backend.Refresh(ctx, sess.RefreshToken, s.Timeout)
	if err != nil {
		if backendsdk.IsTimeout(err) {
			log.Warn("token refresh timed out")
		} else {
			log.Warn("token refresh rejected", "err", err)
		}
		return domain.Session{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	if bundle.RefreshToken == "" || bundle.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("%w: backend returned incomplete token bundle", ErrRefreshFailed)
	}

	return domain.Session{
		ID:           bundle.SessionID,
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		AccessExpiry: s.accessExpiry(bundle),
	}, nil
}

// SessionFromBundle converts a backend token bundle into a Session, computing
// the absolute access expiry the gatekeeper stores alongside the token.
func (s *TokenService) SessionFromBundle(bundle *backendsdk.TokenBundle) domain.Session {
	return domain.Session{
		ID:           bundle.SessionID,
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		AccessExpiry: s.accessExpiry(bundle),
	}
}

func (s *TokenService) accessExpiry(bundle *backendsdk.TokenBundle) int64 {
	if bundle.ExpiresIn > 0 {
		return s.now().Add(time.Duration(bundle.ExpiresIn) * time.Second).Unix()
	}

	// Backend omitted expires_in: recover the expiry from the JWT itself.
	// The token is not trusted off this parse, only dated; verification is
	// the backend's job on every proxied call.
	if exp := peekJWTExpiry(bundle.AccessToken); !exp.IsZero() {
		return exp.Unix()
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return s.now().Add(ttl).Unix()
}

// peekJWTExpiry extracts the exp claim without verifying the signature.
// Returns the zero time for opaque or malformed tokens.
func peekJWTExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
