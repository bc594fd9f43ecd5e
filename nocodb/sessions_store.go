package nocodb

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/darkmatter-vc/portal/access/sessions"
	"github.com/darkmatter-vc/portal/internal/utils"
)

// sessionFields matches the email-access table schema.
type sessionFields struct {
	EmailOfAccessor  string  `json:"emailOfAccessor"`
	SessionStartTime string  `json:"sessionStartTime"`
	SessionEndTime   *string `json:"sessionEndTime,omitempty"`
}

// SessionsStore implements sessions.Store over a NocoDB table. One row per
// access attempt/session; rows are appended and patched, never deleted.
type SessionsStore struct {
	client  *Client
	tableID string
}

var _ sessions.Store = (*SessionsStore)(nil)

func NewSessionsStore(client *Client, tableID string) *SessionsStore {
	return &SessionsStore{client: client, tableID: tableID}
}

func (ss *SessionsStore) Create(ctx context.Context, email string, start time.Time) (*sessions.SessionRecord, error) {
	record, err := CreateRecord(ctx, ss.client, ss.tableID, sessionFields{
		EmailOfAccessor:  email,
		SessionStartTime: start.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[SessionsStore.Create]")
	}
	return toSessionRecord(record), nil
}

func (ss *SessionsStore) LatestByEmail(ctx context.Context, email string) (*sessions.SessionRecord, error) {
	response, err := FetchRecords[sessionFields](ctx, ss.client, ss.tableID, QueryParams{
		Where: fmt.Sprintf("(emailOfAccessor,eq,%s)", email),
		Limit: 1,
		Sort:  []SortParam{{Field: "sessionStartTime", Direction: "desc"}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[SessionsStore.LatestByEmail]")
	}
	if len(response.Records) == 0 {
		return nil, nil
	}
	return toSessionRecord(response.Records[0]), nil
}

func (ss *SessionsStore) UpdateLastSeen(ctx context.Context, recordID int, seen time.Time) error {
	err := UpdateRecords(ctx, ss.client, ss.tableID, []map[string]interface{}{
		{
			"id":             recordID,
			"sessionEndTime": seen.UTC().Format(time.RFC3339),
		},
	})
	return errors.Wrap(err, "[SessionsStore.UpdateLastSeen]")
}

func (ss *SessionsStore) ListByEmail(ctx context.Context, email string, limit int) ([]sessions.SessionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	params := QueryParams{
		Limit: limit,
		Sort:  []SortParam{{Field: "sessionStartTime", Direction: "desc"}},
	}
	if email != "" {
		params.Where = fmt.Sprintf("(emailOfAccessor,eq,%s)", email)
	}

	records, err := FetchAllRecords[sessionFields](ctx, ss.client, ss.tableID, params)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionsStore.ListByEmail]")
	}

	out := make([]sessions.SessionRecord, 0, len(records))
	for _, r := range records {
		out = append(out, *toSessionRecord(r))
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func toSessionRecord(record Record[sessionFields]) *sessions.SessionRecord {
	return &sessions.SessionRecord{
		ID:               record.ID,
		Email:            record.Fields.EmailOfAccessor,
		SessionStartTime: parseStoreTime(record.Fields.SessionStartTime),
		SessionEndTime:   parseStoreTime(utils.Value(record.Fields.SessionEndTime)),
	}
}

// parseStoreTime tolerates the timestamp shapes NocoDB emits. A malformed or
// empty value becomes the zero time rather than an error.
func parseStoreTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
