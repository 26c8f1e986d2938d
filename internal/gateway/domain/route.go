package domain

import "strings"

// RouteClass is the closed set of policies the gatekeeper applies to a path.
type RouteClass int

const (
	// RoutePublic passes through unmodified: assets, legal pages, health
	// endpoints, the websocket upgrade path.
	RoutePublic RouteClass = iota

	// RouteGated requires a single-use gate key cookie for the page's flow.
	RouteGated

	// RouteInternalAPI requires the internal-request marker header and may
	// trigger a silent token refresh.
	RouteInternalAPI

	// RouteProtected is the authenticated dashboard area.
	RouteProtected

	// RouteRoot is the entry page, which redirects authenticated sessions
	// into the dashboard.
	RouteRoot
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteGated:
		return "gated"
	case RouteInternalAPI:
		return "internal_api"
	case RouteProtected:
		return "protected"
	case RouteRoot:
		return "root"
	default:
		return "unknown"
	}
}

// gatedFlows maps each gated auth page to its flow name. Adding a gated flow
// is a new table entry, not a new policy branch.
var gatedFlows = map[string]string{
	"/login":              FlowLogin,
	"/register":           FlowRegister,
	"/verify-login":       FlowVerifyLogin,
	"/verify-register":    FlowVerifyRegister,
	"/forgot-password":    FlowForgotPassword,
	"/verify-forgot":      FlowVerifyForgot,
	"/verify-otp":         FlowVerifyOTP,
	"/verify-fingerprint": FlowVerifyFingerprint,
	"/change-password":    FlowChangePassword,
}

var publicExact = map[string]struct{}{
	"/favicon.ico": {},
	"/robots.txt":  {},
	"/terms":       {},
	"/privacy":     {},
	"/livez":       {},
	"/readyz":      {},
	"/ws":          {},
}

var publicPrefixes = []string{
	"/assets/",
	"/static/",
	"/swagger/",
}

var protectedPrefixes = []string{
	"/dashboard",
}

const apiPrefix = "/api/"

// ClassifyPath maps a request path to its route class. For RouteGated the
// second return value is the flow name whose gate key admits the visit.
func ClassifyPath(path string) (RouteClass, string) {
	if path == "/" {
		return RouteRoot, ""
	}

	if _, ok := publicExact[path]; ok {
		return RoutePublic, ""
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return RoutePublic, ""
		}
	}

	if flow, ok := gatedFlows[path]; ok {
		return RouteGated, flow
	}

	if strings.HasPrefix(path, apiPrefix) {
		return RouteInternalAPI, ""
	}

	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return RouteProtected, ""
		}
	}

	// Unknown paths get the public policy; they will 404 downstream without
	// touching auth state.
	return RoutePublic, ""
}
