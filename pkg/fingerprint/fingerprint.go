// Package fingerprint derives a stable device/browser identity from request
// signals. The derived hash intentionally ignores volatile signals (IP, exact
// OS patch level) so the same device keeps the same identity across sessions.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// DefaultLength is the hex length of a derived fingerprint.
	DefaultLength = 48

	// MinLength and MaxLength bound what the backend accepts.
	MinLength = 32
	MaxLength = 64

	platformMaxLen  = 8
	userAgentMaxLen = 50
)

// Signals is the bag of request-header signals a fingerprint is derived from.
// Missing signals degrade to empty components; they never cause an error.
type Signals struct {
	UserAgent string
	Mobile    bool
	Platform  string

	// Hints carries optional client-hint attributes. They are not part of the
	// hash input today but are kept on the struct so callers can log them.
	Hints map[string]string
}

// Derive computes the fingerprint hash for the given signals.
//
// The input space is {deviceType}_{platformShort}_{ua[:50]}: the device class
// from the mobile indicator, the platform lowercased and stripped to at most
// 8 alphanumerics, and the first 50 characters of the user agent. The SHA-256
// hex digest of that string is truncated to length. Lengths outside
// [MinLength, MaxLength] are clamped, so Derive is total.
func Derive(sig Signals, length int) string {
	if length < MinLength {
		length = MinLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	deviceType := "desktop"
	if sig.Mobile {
		deviceType = "mobile"
	}

	ua := sig.UserAgent
	if len(ua) > userAgentMaxLen {
		ua = ua[:userAgentMaxLen]
	}

	input := deviceType + "_" + normalizePlatform(sig.Platform) + "_" + ua

	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:length]
}

// Validate checks that hash has the shape of a derived fingerprint. It is a
// length check only; it does not re-derive or verify provenance.
func Validate(hash string) error {
	if hash == "" {
		return fmt.Errorf("fingerprint is empty")
	}
	if len(hash) < MinLength || len(hash) > MaxLength {
		return fmt.Errorf("fingerprint length %d outside [%d, %d]", len(hash), MinLength, MaxLength)
	}
	return nil
}

// normalizePlatform lowercases the platform string and keeps only
// alphanumerics, truncated to platformMaxLen.
func normalizePlatform(platform string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(platform) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= platformMaxLen {
				break
			}
		}
	}
	return b.String()
}

// FromHeaders builds Signals from standard request headers plus the
// client-hint headers browsers attach to same-origin requests.
func FromHeaders(get func(string) string) Signals {
	mobile := strings.EqualFold(get("Sec-CH-UA-Mobile"), "?1")
	if !mobile {
		// Fall back to a coarse UA sniff when client hints are absent.
		ua := strings.ToLower(get("User-Agent"))
		mobile = strings.Contains(ua, "mobile") || strings.Contains(ua, "android")
	}

	return Signals{
		UserAgent: get("User-Agent"),
		Mobile:    mobile,
		Platform:  strings.Trim(get("Sec-CH-UA-Platform"), `"`),
		Hints: map[string]string{
			"arch":  strings.Trim(get("Sec-CH-UA-Arch"), `"`),
			"model": strings.Trim(get("Sec-CH-UA-Model"), `"`),
		},
	}
}
