package fakesessionstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/darkmatter-vc/portal/access/sessions"
	"github.com/darkmatter-vc/portal/internal/errors"
)

var _ sessions.Store = (*FakeSessionStore)(nil)

// FakeSessionStore is an in-memory sessions.Store for tests. The error
// fields, when set, are returned by the corresponding method to exercise
// failure paths.
type FakeSessionStore struct {
	CreateErr error
	LookupErr error
	UpdateErr error

	records map[int]*sessions.SessionRecord
	nextID  int
	lock    sync.RWMutex
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{
		records: make(map[int]*sessions.SessionRecord),
		nextID:  1,
	}
}

func (ss *FakeSessionStore) Create(_ context.Context, email string, start time.Time) (*sessions.SessionRecord, error) {
	if ss.CreateErr != nil {
		return nil, ss.CreateErr
	}

	ss.lock.Lock()
	defer ss.lock.Unlock()

	record := &sessions.SessionRecord{
		ID:               ss.nextID,
		Email:            email,
		SessionStartTime: start,
	}
	ss.records[record.ID] = record
	ss.nextID++

	copied := *record
	return &copied, nil
}

func (ss *FakeSessionStore) LatestByEmail(_ context.Context, email string) (*sessions.SessionRecord, error) {
	if ss.LookupErr != nil {
		return nil, ss.LookupErr
	}

	ss.lock.RLock()
	defer ss.lock.RUnlock()

	var latest *sessions.SessionRecord
	for _, r := range ss.records {
		if r.Email != email {
			continue
		}
		if latest == nil || r.SessionStartTime.After(latest.SessionStartTime) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}

	copied := *latest
	return &copied, nil
}

func (ss *FakeSessionStore) UpdateLastSeen(_ context.Context, recordID int, seen time.Time) error {
	if ss.UpdateErr != nil {
		return ss.UpdateErr
	}

	ss.lock.Lock()
	defer ss.lock.Unlock()

	record, ok := ss.records[recordID]
	if !ok {
		return errors.ErrSessionNotFound
	}
	record.SessionEndTime = seen
	return nil
}

func (ss *FakeSessionStore) ListByEmail(_ context.Context, email string, limit int) ([]sessions.SessionRecord, error) {
	if ss.LookupErr != nil {
		return nil, ss.LookupErr
	}

	ss.lock.RLock()
	defer ss.lock.RUnlock()

	matched := make([]sessions.SessionRecord, 0)
	for _, r := range ss.records {
		if email != "" && r.Email != email {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SessionStartTime.After(matched[j].SessionStartTime)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Get returns the stored record by ID, for test assertions.
func (ss *FakeSessionStore) Get(recordID int) (sessions.SessionRecord, bool) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	record, ok := ss.records[recordID]
	if !ok {
		return sessions.SessionRecord{}, false
	}
	return *record, true
}

// Count returns the number of stored records, for test assertions.
func (ss *FakeSessionStore) Count() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return len(ss.records)
}
