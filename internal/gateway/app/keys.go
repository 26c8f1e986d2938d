package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/hkdf"

	"github.com/chainfolio/idgate/pkg/cryptox"
)

// markerInfo namespaces the marker derivation so the same secret can safely
// feed other derivations later without producing the same output.
const markerInfo = "idgate/internal-request-marker/v1"

// InitInternalMarker derives the internal-request marker value the gatekeeper
// requires on API calls. With a configured secret the marker is stable across
// restarts and replicas; without one a random secret is generated per boot,
// which is fine for a single instance but logs a warning since in-flight
// sessions lose their marker on restart.
func InitInternalMarker(cfg Config, logger *slog.Logger) (string, error) {
	secret := cfg.MarkerSecret
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return "", fmt.Errorf("failed to generate marker secret: %w", err)
		}
		secret = generated
		logger.Warn("no marker secret configured, derived a per-boot marker; " +
			"set GATEWAY_MARKER_SECRET for multi-instance deployments")
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(markerInfo))
	marker := make([]byte, 32)
	if _, err := io.ReadFull(reader, marker); err != nil {
		return "", fmt.Errorf("failed to derive internal marker: %w", err)
	}

	return hex.EncodeToString(marker), nil
}
