package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darkmatter-vc/portal/access"
	apperrors "github.com/darkmatter-vc/portal/internal/errors"
)

const (
	defaultGrantRedirect      = RoutePortfolio
	defaultTempAccessRedirect = RoutePortfolioConfidential
)

// VerifyEmailHandler processes the gate page's email form. A grant issues the
// session cookie triple and returns the visitor to where they were headed; a
// deny still logs the attempt so the team can approve the email later.
func (s *Server) VerifyEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectToGate(w, r, "invalid", "", "")
			return
		}

		email := r.FormValue("email")
		redirectTo := formRedirect(r, defaultGrantRedirect)

		if email == "" || !strings.Contains(email, "@") {
			redirectToGate(w, r, "invalid-email", "", redirectTo)
			return
		}
		normalized := access.NormalizeEmail(email)

		result := s.access.Evaluate(r.Context(), normalized)
		if !result.Allowed {
			// Capture the attempt so it shows up for manual approval
			if _, err := s.access.StartSession(r.Context(), normalized); err != nil {
				log.Err(err).Str("email", normalized).Msg("failed to log denied access attempt")
			}
			log.Info().Str("email", normalized).Str("status", string(access.StatusPending)).Msg("access denied, request logged")
			redirectToGate(w, r, string(access.StatusPending), normalized, redirectTo)
			return
		}

		recordID := 0
		record, err := s.access.StartSession(r.Context(), normalized)
		if err != nil {
			// A session-record failure never blocks a granted visitor
			log.Err(err).Str("email", normalized).Msg("failed to create session record")
		} else {
			recordID = record.ID
		}

		token := access.MintSessionToken(normalized)
		s.setSessionCookies(w, r, token, normalized, recordID)
		log.Info().Str("email", normalized).Str("status", string(result.Status)).Msg("email authenticated")
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
	}
}

// VerifyPasscodeHandler processes the shared-passcode form. No identity is
// involved, so only the access cookie is issued and no store record is made.
func (s *Server) VerifyPasscodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectToGate(w, r, "invalid", "", "")
			return
		}

		passcode := r.FormValue("passcode")
		redirectTo := formRedirect(r, defaultGrantRedirect)

		if passcode == "" {
			redirectToGate(w, r, "invalid", "", redirectTo)
			return
		}

		valid, err := access.VerifyPasscode(passcode,
			s.config.GetPasscodePlaintext(), s.config.GetPasscodeHash(), s.config.GetPasscodeSalt())
		if err != nil {
			if apperrors.Is(err, apperrors.ErrPasscodeNotConfigured) {
				log.Error().Msg("passcode not configured, check environment variables")
				http.Error(w, "Authentication not configured", http.StatusInternalServerError)
				return
			}
			log.Err(err).Msg("passcode verification failed")
			redirectToGate(w, r, "invalid", "", redirectTo)
			return
		}
		if !valid {
			log.Info().Msg("invalid passcode attempt")
			redirectToGate(w, r, "invalid", "", redirectTo)
			return
		}

		salt := s.config.GetPasscodeSalt()
		if salt == "" {
			salt = "dev-salt"
		}
		s.setAccessCookie(w, r, access.MintSessionToken(salt))
		log.Info().Msg("passcode validated, session created")
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
	}
}

// TempAccessHandler grants without any approval workflow: capture the email,
// set the cookies, move on. The session record is written in the background
// so a slow store never delays the visitor.
func (s *Server) TempAccessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectToGate(w, r, "invalid", "", "")
			return
		}

		email := r.FormValue("email")
		redirectTo := formRedirect(r, defaultTempAccessRedirect)

		if email == "" || !strings.Contains(email, "@") {
			redirectToGate(w, r, "invalid-email", "", "")
			return
		}
		normalized := access.NormalizeEmail(email)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := s.access.StartSession(ctx, normalized); err != nil {
				log.Err(err).Str("email", normalized).Msg("failed to log temp-access session")
			}
		}()

		token := access.MintSessionToken(normalized + strconv.FormatInt(time.Now().UnixMilli(), 10))
		s.setSessionCookies(w, r, token, normalized, 0)
		log.Info().Str("email", normalized).Msg("temporary access granted")
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
	}
}

// formRedirect returns the form's redirect target, restricted to same-site
// paths so the gate can never bounce a visitor to another origin.
func formRedirect(r *http.Request, fallback string) string {
	redirectTo := r.FormValue("redirect")
	if redirectTo == "" || !strings.HasPrefix(redirectTo, "/") || strings.HasPrefix(redirectTo, "//") {
		return fallback
	}
	return redirectTo
}
