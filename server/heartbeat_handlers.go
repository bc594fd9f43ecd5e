package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

type heartbeatResponse struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

type sessionStatusResponse struct {
	HasSession      bool    `json:"hasSession"`
	SessionRecordID *string `json:"sessionRecordId"`
	Email           *string `json:"email"`
}

// HeartbeatHandler refreshes the session record's "last seen" time. The
// client-side script calls it periodically while confidential content is on
// screen; when the calls stop, the record's end time marks when viewing
// stopped.
func (s *Server) HeartbeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, ok := sessionRecordID(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, heartbeatResponse{Success: false, Error: "No session record ID"})
			return
		}

		seen, err := s.access.Heartbeat(r.Context(), recordID)
		if err != nil {
			log.Err(err).Int("record_id", recordID).Msg("heartbeat update failed")
			writeJSON(w, http.StatusInternalServerError, heartbeatResponse{Success: false, Error: "Failed to update session"})
			return
		}

		writeJSON(w, http.StatusOK, heartbeatResponse{Success: true, Timestamp: seen.UTC().Format(time.RFC3339)})
	}
}

// SessionStatusHandler is a read-only diagnostic of the cookie state. The
// email is masked so the endpoint never leaks the full address.
func (s *Server) SessionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := sessionStatusResponse{}

		if cookie, err := r.Cookie(recordCookieName); err == nil && cookie.Value != "" {
			resp.HasSession = true
			resp.SessionRecordID = &cookie.Value
		}
		if cookie, err := r.Cookie(emailCookieName); err == nil && cookie.Value != "" {
			masked := maskEmail(cookie.Value)
			resp.Email = &masked
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func sessionRecordID(r *http.Request) (int, bool) {
	cookie, err := r.Cookie(recordCookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}
	recordID, err := strconv.Atoi(cookie.Value)
	if err != nil {
		return 0, false
	}
	return recordID, true
}

func maskEmail(email string) string {
	if len(email) <= 3 {
		return email + "***"
	}
	return email[:3] + "***"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Err(err).Msg("failed to encode JSON response")
	}
}
