package access_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/darkmatter-vc/portal/access"
	fakesessionstore "github.com/darkmatter-vc/portal/access/sessions/storefakes"
	internalerrors "github.com/darkmatter-vc/portal/internal/errors"
)

var testAllowedDomains = []string{"darkmatter.vc", "darkmatterlongevity.com", "lossless.group"}

// testFixture holds all test dependencies
type testFixture struct {
	store   *fakesessionstore.FakeSessionStore
	service *access.AccessService
	now     time.Time
}

// setupTestFixture creates a service over a fake store with a controllable clock
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		store: fakesessionstore.NewFakeSessionStore(),
		now:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	service, err := access.NewAccessService(f.store, testAllowedDomains, access.WithNowTime(func() time.Time {
		return f.now
	}))
	require.NoError(t, err)

	f.service = service
	return f
}

func (f *testFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestNewAccessServiceRequiresStore(t *testing.T) {
	_, err := access.NewAccessService(nil, testAllowedDomains)
	require.Error(t, err)
}

func TestEvaluateAllowedDomainSkipsStore(t *testing.T) {
	f := setupTestFixture(t)

	// Any store round-trip would fail; a domain grant must not need one
	f.store.LookupErr = errors.New("store must not be consulted")

	result := f.service.Evaluate(context.Background(), "user@darkmatter.vc")
	require.True(t, result.Allowed)
	require.Equal(t, access.StatusDomainAllowed, result.Status)
	require.Nil(t, result.Record)
}

func TestEvaluateAllowedDomainIsCaseInsensitive(t *testing.T) {
	f := setupTestFixture(t)

	result := f.service.Evaluate(context.Background(), "  User@DARKMATTER.VC ")
	require.True(t, result.Allowed)
	require.Equal(t, access.StatusDomainAllowed, result.Status)
}

func TestEvaluateApprovedFromPriorSession(t *testing.T) {
	f := setupTestFixture(t)

	older, err := f.service.StartSession(context.Background(), "repeat@example.com")
	require.NoError(t, err)
	f.advance(2 * time.Hour)
	newer, err := f.service.StartSession(context.Background(), "repeat@example.com")
	require.NoError(t, err)

	result := f.service.Evaluate(context.Background(), "Repeat@Example.com")
	require.True(t, result.Allowed)
	require.Equal(t, access.StatusApproved, result.Status)
	require.NotNil(t, result.Record)
	require.Equal(t, newer.ID, result.Record.ID)
	require.NotEqual(t, older.ID, result.Record.ID)
}

func TestEvaluateUnknownEmailDenied(t *testing.T) {
	f := setupTestFixture(t)

	result := f.service.Evaluate(context.Background(), "new@example.com")
	require.False(t, result.Allowed)
	require.Equal(t, access.StatusNew, result.Status)
	require.Nil(t, result.Record)
}

func TestEvaluateFailsClosedOnStoreError(t *testing.T) {
	f := setupTestFixture(t)
	f.store.LookupErr = errors.New("store unreachable")

	result := f.service.Evaluate(context.Background(), "someone@example.com")
	require.False(t, result.Allowed)
	require.Equal(t, access.StatusNew, result.Status)
}

func TestStartSessionCreatesDistinctRecords(t *testing.T) {
	f := setupTestFixture(t)

	first, err := f.service.StartSession(context.Background(), "Visitor@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "visitor@example.com", first.Email)
	require.Equal(t, f.now, first.SessionStartTime)

	second, err := f.service.StartSession(context.Background(), "visitor@example.com")
	require.NoError(t, err)

	// Two logins are two sessions; no deduplication
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 2, f.store.Count())
}

func TestHeartbeatExtendsLastSeen(t *testing.T) {
	f := setupTestFixture(t)

	record, err := f.service.StartSession(context.Background(), "viewer@example.com")
	require.NoError(t, err)

	f.advance(30 * time.Second)
	firstSeen, err := f.service.Heartbeat(context.Background(), record.ID)
	require.NoError(t, err)

	f.advance(30 * time.Second)
	secondSeen, err := f.service.Heartbeat(context.Background(), record.ID)
	require.NoError(t, err)
	require.True(t, secondSeen.After(firstSeen))

	stored, ok := f.store.Get(record.ID)
	require.True(t, ok)
	require.Equal(t, secondSeen, stored.SessionEndTime)
	require.Equal(t, time.Minute, stored.Duration())
}

func TestHeartbeatUnknownRecord(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Heartbeat(context.Background(), 999)
	require.Error(t, err)
	require.ErrorIs(t, err, internalerrors.ErrSessionNotFound)
}

func TestEndSessionStampsFinalTime(t *testing.T) {
	f := setupTestFixture(t)

	record, err := f.service.StartSession(context.Background(), "viewer@example.com")
	require.NoError(t, err)

	f.advance(10 * time.Minute)
	require.NoError(t, f.service.EndSession(context.Background(), record.ID))

	stored, ok := f.store.Get(record.ID)
	require.True(t, ok)
	require.Equal(t, f.now, stored.SessionEndTime)
}

func TestSessionsListsNewestFirst(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.StartSession(context.Background(), "a@example.com")
	require.NoError(t, err)
	f.advance(time.Hour)
	_, err = f.service.StartSession(context.Background(), "b@example.com")
	require.NoError(t, err)

	records, err := f.service.Sessions(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "b@example.com", records[0].Email)

	records, err = f.service.Sessions(context.Background(), "a@example.com", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestVerifyPasscodePlaintext(t *testing.T) {
	ok, err := access.VerifyPasscode("letmein", "letmein", "", "")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = access.VerifyPasscode("wrong", "letmein", "", "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPasscodeHashed(t *testing.T) {
	salt := "pepper"
	sum := sha256.Sum256([]byte("letmein" + salt))
	hash := hex.EncodeToString(sum[:])

	ok, err := access.VerifyPasscode("letmein", "", hash, salt)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = access.VerifyPasscode("letmein", "", hash, "other-salt")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = access.VerifyPasscode("wrong", "", hash, salt)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPasscodeUnconfiguredFailsClosed(t *testing.T) {
	for _, tc := range []struct{ hash, salt string }{
		{"", ""},
		{"somehash", ""},
		{"", "somesalt"},
	} {
		ok, err := access.VerifyPasscode("anything", "", tc.hash, tc.salt)
		require.ErrorIs(t, err, internalerrors.ErrPasscodeNotConfigured)
		require.False(t, ok)
	}
}

func TestMintSessionToken(t *testing.T) {
	token := access.MintSessionToken("user@example.com")
	require.Len(t, token, 64)
	_, err := hex.DecodeString(token)
	require.NoError(t, err)

	require.NotEqual(t, token, access.MintSessionToken("user@example.com"))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "user@example.com", access.NormalizeEmail("  USER@Example.Com\t"))
}
