package server

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// accessCookieName holds the opaque session token proving the gate was passed
	accessCookieName = "universal_portfolio_access"
	// emailCookieName tracks which accessor the session belongs to
	emailCookieName = "accessor_email"
	// recordCookieName links heartbeat calls to the external session record.
	// Client-side script reads it, so it is deliberately not httpOnly.
	recordCookieName = "session_record_id"
)

func (s *Server) isSecureRequest(r *http.Request) bool {
	return getScheme(r) == "https" || s.env == "PROD"
}

func (s *Server) setAccessCookie(w http.ResponseWriter, r *http.Request, token string) {
	maxAge := int(s.config.GetSessionMaxAge().Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// setSessionCookies issues the full cookie triple after a grant. recordID <= 0
// means no external record was created and the record cookie is skipped.
func (s *Server) setSessionCookies(w http.ResponseWriter, r *http.Request, token, email string, recordID int) {
	maxAge := int(s.config.GetSessionMaxAge().Seconds())
	isSecure := s.isSecureRequest(r)

	s.setAccessCookie(w, r, token)

	http.SetCookie(w, &http.Cookie{
		Name:     emailCookieName,
		Value:    email,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})

	if recordID > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     recordCookieName,
			Value:    strconv.Itoa(recordID),
			Path:     "/",
			HttpOnly: false,
			Secure:   isSecure,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   maxAge,
		})
	}
}

// redirectToGate sends the browser back to the gate page with a reason code,
// preserving the email and intended destination for the form.
func redirectToGate(w http.ResponseWriter, r *http.Request, reason, email, redirectTo string) {
	values := url.Values{}
	if reason != "" {
		values.Set("error", reason)
	}
	if email != "" {
		values.Set("email", email)
	}
	if redirectTo != "" {
		values.Set("redirect", redirectTo)
	}
	target := RouteGatePage
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
