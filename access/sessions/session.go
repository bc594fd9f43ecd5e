package sessions

import "time"

// SessionRecord is one row in the external store capturing a single access
// attempt/session. Records are additive log entries: multiple records may
// exist for the same email, one per session. This system creates and updates
// records but never deletes them.
type SessionRecord struct {
	ID               int       // Record identifier assigned by the store
	Email            string    // Normalized (lowercased, trimmed) accessor email
	SessionStartTime time.Time // Set at creation, immutable
	SessionEndTime   time.Time // Rolling "last seen" time, zero until the first heartbeat
}

// Duration returns the effective session duration: last heartbeat time minus
// start time. Zero if no heartbeat has been recorded.
func (r SessionRecord) Duration() time.Duration {
	if r.SessionEndTime.IsZero() {
		return 0
	}
	return r.SessionEndTime.Sub(r.SessionStartTime)
}
