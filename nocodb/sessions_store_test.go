package nocodb_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/darkmatter-vc/portal/nocodb"
)

func TestSessionsStoreCreate(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"records":[{"id":42,"fields":{"emailOfAccessor":"new@example.com","sessionStartTime":"2026-03-14T12:00:00Z"}}]}`)
	})
	defer ts.Close()

	store := nocodb.NewSessionsStore(newTestClient(t, ts), "tbl_sessions")
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	record, err := store.Create(context.Background(), "new@example.com", start)
	require.NoError(t, err)
	require.Equal(t, 42, record.ID)
	require.Equal(t, "new@example.com", record.Email)
	require.Equal(t, start, record.SessionStartTime)
	require.True(t, record.SessionEndTime.IsZero())

	req := ts.requests[0]
	require.Equal(t, http.MethodPost, req.Method)
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.JSONEq(t,
		`[{"emailOfAccessor":"new@example.com","sessionStartTime":"2026-03-14T12:00:00Z"}]`,
		string(body))
}

func TestSessionsStoreLatestByEmail(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"records":[{"id":7,"fields":{"emailOfAccessor":"repeat@example.com","sessionStartTime":"2026-03-01T09:30:00Z","sessionEndTime":"2026-03-01T10:00:00Z"}}]}`)
	})
	defer ts.Close()

	store := nocodb.NewSessionsStore(newTestClient(t, ts), "tbl_sessions")

	record, err := store.LatestByEmail(context.Background(), "repeat@example.com")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, 7, record.ID)
	require.Equal(t, 30*time.Minute, record.Duration())

	query := ts.requests[0].URL.Query()
	require.Equal(t, "(emailOfAccessor,eq,repeat@example.com)", query.Get("where"))
	require.Equal(t, "1", query.Get("limit"))
	require.JSONEq(t, `[{"field":"sessionStartTime","direction":"desc"}]`, query.Get("sort"))
}

func TestSessionsStoreLatestByEmailNotFound(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"records":[]}`)
	})
	defer ts.Close()

	store := nocodb.NewSessionsStore(newTestClient(t, ts), "tbl_sessions")

	record, err := store.LatestByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestSessionsStoreUpdateLastSeen(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"records":[]}`)
	})
	defer ts.Close()

	store := nocodb.NewSessionsStore(newTestClient(t, ts), "tbl_sessions")
	seen := time.Date(2026, 3, 14, 12, 5, 0, 0, time.UTC)

	require.NoError(t, store.UpdateLastSeen(context.Background(), 42, seen))

	req := ts.requests[0]
	require.Equal(t, http.MethodPatch, req.Method)
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	var updates []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &updates))
	require.Len(t, updates, 1)
	require.EqualValues(t, 42, updates[0]["id"])
	require.Equal(t, "2026-03-14T12:05:00Z", updates[0]["sessionEndTime"])
}
