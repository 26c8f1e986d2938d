package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/internal/gateway/store"
	"github.com/chainfolio/idgate/pkg/idx"
	"github.com/chainfolio/idgate/pkg/slogx"
)

// recordEvent appends one audit record. Failures are logged and swallowed;
// the audit trail never blocks the auth path.
func recordEvent(r *http.Request, audit store.Events, kind domain.AuthEventKind, fprint, detail string) {
	if audit == nil {
		return
	}
	ev := domain.AuthEvent{
		ID:          idx.New().String(),
		Kind:        kind,
		Path:        r.URL.Path,
		Fingerprint: fprint,
		RemoteAddr:  remoteIP(r),
		Detail:      detail,
		CreatedAt:   time.Now().UTC(),
	}
	if err := audit.RecordEvent(r.Context(), ev); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to record auth event",
			"kind", kind, "error", err)
	}
}

func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
