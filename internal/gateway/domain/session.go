package domain

// Session is one authenticated principal-device pairing, as materialized in
// the caller's cookie jar. The four fields are always written and cleared
// together; a half-written set would make the next request's expiry check
// meaningless.
type Session struct {
	// ID is the opaque session identifier, visible to page scripts.
	ID string

	// AccessToken is the short-lived bearer credential. httpOnly.
	AccessToken string

	// RefreshToken is the long-lived credential used solely to mint new
	// access tokens. httpOnly.
	RefreshToken string

	// AccessExpiry is the absolute UNIX-second expiry of the access token,
	// stored alongside it so expiry checks never need to decode the token.
	// Zero means unknown, which callers treat as "must refresh".
	AccessExpiry int64
}

// Authenticated reports whether this session can be considered authenticated.
// Without a refresh token the session is unauthenticated regardless of any
// access token still present.
func (s Session) Authenticated() bool {
	return s.RefreshToken != ""
}
