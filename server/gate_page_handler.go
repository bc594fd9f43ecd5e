package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// GatePageData contains data for rendering the access gate page
type GatePageData struct {
	AppName  string
	Error    string
	Email    string // Preserve email on error
	Redirect string
}

// GatePageHandler displays the access gate page (GET /portfolio-gate)
func (s *Server) GatePageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("gate.html")
	if err != nil {
		panic("Failed to parse gate template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		redirectTo := query.Get("redirect")
		data := GatePageData{
			AppName:  s.config.GetAppName(),
			Error:    query.Get("error"),
			Email:    query.Get("email"),
			Redirect: redirectTo,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render gate template")
			http.Error(w, "Failed to render gate page", http.StatusInternalServerError)
		}
	}
}
