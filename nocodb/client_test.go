package nocodb_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/darkmatter-vc/portal/internal/cache"
	internalerrors "github.com/darkmatter-vc/portal/internal/errors"
	"github.com/darkmatter-vc/portal/nocodb"
)

type testFields struct {
	Name string `json:"name"`
}

type testServer struct {
	*httptest.Server
	requests []*http.Request
	respond  func(w http.ResponseWriter, r *http.Request)
}

func newTestServer(respond func(w http.ResponseWriter, r *http.Request)) *testServer {
	ts := &testServer{respond: respond}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		clone := r.Clone(r.Context())
		clone.Body = io.NopCloser(bytes.NewReader(body))
		ts.requests = append(ts.requests, clone)
		ts.respond(w, r)
	}))
	return ts
}

func newTestClient(t *testing.T, ts *testServer) *nocodb.Client {
	t.Helper()
	return nocodb.NewClient(nocodb.Config{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		BaseID:  "base1",
	}, cache.New[[]byte](5*time.Minute))
}

func recordsJSON(names ...string) string {
	records := make([]map[string]interface{}, 0, len(names))
	for i, n := range names {
		records = append(records, map[string]interface{}{
			"id":     i + 1,
			"fields": map[string]string{"name": n},
		})
	}
	body, _ := json.Marshal(map[string]interface{}{"records": records})
	return string(body)
}

func TestFetchRecordsBuildsQueryAndAuth(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recordsJSON("acme"))
	})
	defer ts.Close()

	c := newTestClient(t, ts)
	response, err := nocodb.FetchRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{
		Where: "(name,eq,acme)",
		Limit: 1,
		Sort:  []nocodb.SortParam{{Field: "name", Direction: "desc"}},
	})
	require.NoError(t, err)
	require.Len(t, response.Records, 1)
	require.Equal(t, "acme", response.Records[0].Fields.Name)

	require.Len(t, ts.requests, 1)
	req := ts.requests[0]
	require.Equal(t, "/api/v3/data/base1/tbl1/records", req.URL.Path)
	require.Equal(t, "test-key", req.Header.Get("xc-token"))
	require.Equal(t, "(name,eq,acme)", req.URL.Query().Get("where"))
	require.Equal(t, "1", req.URL.Query().Get("limit"))
	require.JSONEq(t, `[{"field":"name","direction":"desc"}]`, req.URL.Query().Get("sort"))
}

func TestFetchRecordsUsesCache(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recordsJSON("acme"))
	})
	defer ts.Close()

	c := newTestClient(t, ts)
	for i := 0; i < 3; i++ {
		_, err := nocodb.FetchRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{Limit: 1})
		require.NoError(t, err)
	}
	require.Len(t, ts.requests, 1)

	// Different params miss the cache
	_, err := nocodb.FetchRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, ts.requests, 2)
}

func TestCreateRecordClearsCache(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recordsJSON("acme"))
	})
	defer ts.Close()

	c := newTestClient(t, ts)
	_, err := nocodb.FetchRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{Limit: 1})
	require.NoError(t, err)

	record, err := nocodb.CreateRecord(context.Background(), c, "tbl1", testFields{Name: "acme"})
	require.NoError(t, err)
	require.Equal(t, 1, record.ID)

	// The fetch after a write goes back to the server
	_, err = nocodb.FetchRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, ts.requests, 3)

	createReq := ts.requests[1]
	require.Equal(t, http.MethodPost, createReq.Method)
}

func TestFetchAllRecordsPaginates(t *testing.T) {
	page := 0
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			fmt.Fprint(w, recordsJSON("a", "b"))
			return
		}
		fmt.Fprint(w, recordsJSON("c"))
	})
	defer ts.Close()

	c := newTestClient(t, ts)
	records, err := nocodb.FetchAllRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "", ts.requests[0].URL.Query().Get("offset"))
	require.Equal(t, "2", ts.requests[1].URL.Query().Get("offset"))
}

func TestUnconfiguredClientFailsClosed(t *testing.T) {
	c := nocodb.NewClient(nocodb.Config{BaseURL: "http://localhost:9", BaseID: "base1"},
		cache.New[[]byte](5*time.Minute))
	require.False(t, c.Configured())

	_, err := nocodb.FetchRecords[testFields](context.Background(), c, "tbl1", nocodb.QueryParams{})
	require.ErrorIs(t, err, internalerrors.ErrStoreNotConfigured)

	_, err = nocodb.CreateRecord(context.Background(), c, "tbl1", testFields{Name: "x"})
	require.ErrorIs(t, err, internalerrors.ErrStoreNotConfigured)
}

func TestAPIErrorSurfaces(t *testing.T) {
	ts := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"no such table"}`, http.StatusNotFound)
	})
	defer ts.Close()

	c := newTestClient(t, ts)
	_, err := nocodb.FetchRecords[testFields](context.Background(), c, "missing", nocodb.QueryParams{})
	require.Error(t, err)
}
