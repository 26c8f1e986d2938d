package fingerprint

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()

	sig := Signals{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Mobile:    false,
		Platform:  "Windows",
	}

	first := Derive(sig, DefaultLength)
	for range 10 {
		require.Equal(t, first, Derive(sig, DefaultLength))
	}
	require.Len(t, first, DefaultLength)
}

func TestDeriveLengthBounds(t *testing.T) {
	t.Parallel()

	sig := Signals{UserAgent: "curl/8.0", Platform: "Linux"}

	t.Run("clamps below minimum", func(t *testing.T) {
		require.Len(t, Derive(sig, 0), MinLength)
		require.Len(t, Derive(sig, -5), MinLength)
	})

	t.Run("clamps above maximum", func(t *testing.T) {
		require.Len(t, Derive(sig, 200), MaxLength)
	})

	t.Run("honours in-range lengths", func(t *testing.T) {
		require.Len(t, Derive(sig, 40), 40)
	})
}

func TestDeriveIsTotal(t *testing.T) {
	t.Parallel()

	// Empty signals degrade to empty components, never an error.
	hash := Derive(Signals{}, DefaultLength)
	require.Len(t, hash, DefaultLength)

	// Mobile flag changes the device class and therefore the hash.
	require.NotEqual(t, hash, Derive(Signals{Mobile: true}, DefaultLength))
}

func TestDeriveIgnoresVolatileSignals(t *testing.T) {
	t.Parallel()

	a := Signals{UserAgent: "agent", Platform: "macOS", Hints: map[string]string{"arch": "arm"}}
	b := Signals{UserAgent: "agent", Platform: "macOS", Hints: map[string]string{"arch": "x86"}}

	require.Equal(t, Derive(a, DefaultLength), Derive(b, DefaultLength))
}

func TestDerivePlatformNormalization(t *testing.T) {
	t.Parallel()

	// Case and punctuation differences in the platform must not change the hash.
	a := Signals{UserAgent: "agent", Platform: "Mac OS X"}
	b := Signals{UserAgent: "agent", Platform: "macosx"}
	require.Equal(t, Derive(a, DefaultLength), Derive(b, DefaultLength))

	// Platforms are truncated to 8 alphanumerics.
	c := Signals{UserAgent: "agent", Platform: "chromeos-flex-build"}
	d := Signals{UserAgent: "agent", Platform: "chromeosflex"}
	require.Equal(t, Derive(c, DefaultLength), Derive(d, DefaultLength))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(""))
	require.Error(t, Validate("abc123"))
	require.Error(t, Validate(Derive(Signals{}, DefaultLength)+Derive(Signals{}, DefaultLength)))
	require.NoError(t, Validate(Derive(Signals{UserAgent: "x"}, DefaultLength)))
}

func TestFromHeaders(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	h.Set("Sec-CH-UA-Mobile", "?1")
	h.Set("Sec-CH-UA-Platform", `"iOS"`)

	sig := FromHeaders(h.Get)
	require.True(t, sig.Mobile)
	require.Equal(t, "iOS", sig.Platform)

	t.Run("falls back to UA sniff", func(t *testing.T) {
		h := http.Header{}
		h.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14) Mobile Safari")
		require.True(t, FromHeaders(h.Get).Mobile)
	})
}
