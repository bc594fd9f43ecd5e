package access

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/darkmatter-vc/portal/access/sessions"
)

// AccessService decides whether an accessor may view gated content and
// manages the lifecycle of session records in the external store.
type AccessService struct {
	store          sessions.Store
	allowedDomains map[string]struct{}
	nowTime        func() time.Time // nowTime function (injectable for testing)
}

// AccessServiceOption defines a function type to modify the AccessService instance.
type AccessServiceOption func(*AccessService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AccessServiceOption {
	return func(as *AccessService) {
		as.nowTime = nowFunc
	}
}

// NewAccessService initializes a new AccessService with its session store and
// the set of auto-approved email domains.
func NewAccessService(store sessions.Store, allowedDomains []string, options ...AccessServiceOption) (*AccessService, error) {
	if store == nil {
		return nil, errors.New("[NewAccessService] session store is required")
	}

	domainSet := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domainSet[d] = struct{}{}
		}
	}

	accessService := &AccessService{
		store:          store,
		allowedDomains: domainSet,
		nowTime:        time.Now,
	}

	for _, opt := range options {
		opt(accessService)
	}

	return accessService, nil
}

// NormalizeEmail lowercases and trims an accessor email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailDomain extracts the domain part of an email, empty if absent.
func emailDomain(email string) string {
	_, domain, found := strings.Cut(NormalizeEmail(email), "@")
	if !found {
		return ""
	}
	return domain
}

// IsAllowedDomain reports whether the email is from an auto-approved domain.
func (as *AccessService) IsAllowedDomain(email string) bool {
	_, ok := as.allowedDomains[emailDomain(email)]
	return ok
}

// Evaluate decides whether an email may access gated content. An
// allow-listed domain grants immediately without a store round-trip;
// otherwise the store is consulted for a prior session record. Store
// failures evaluate closed: deny with StatusNew, never grant.
//
// Evaluate performs no mutation; recording the attempt is the issuance
// step's concern.
func (as *AccessService) Evaluate(ctx context.Context, email string) Result {
	normalized := NormalizeEmail(email)

	if as.IsAllowedDomain(normalized) {
		return Result{Allowed: true, Status: StatusDomainAllowed}
	}

	record, err := as.store.LatestByEmail(ctx, normalized)
	if err != nil {
		log.Err(err).Str("email", normalized).Msg("access evaluation failed, denying")
		return Result{Allowed: false, Status: StatusNew}
	}

	if record != nil {
		return Result{Allowed: true, Status: StatusApproved, Record: record}
	}

	return Result{Allowed: false, Status: StatusNew}
}

// StartSession appends a session record for email with the current time.
// Each call creates a distinct record; every login is its own session.
func (as *AccessService) StartSession(ctx context.Context, email string) (*sessions.SessionRecord, error) {
	normalized := NormalizeEmail(email)

	record, err := as.store.Create(ctx, normalized, as.nowTime())
	if err != nil {
		return nil, errors.Wrapf(err, "[AccessService.StartSession] create record for %s", normalized)
	}
	return record, nil
}

// Heartbeat overwrites the record's last-seen time with now. Idempotent and
// safe to call repeatedly; last write wins.
func (as *AccessService) Heartbeat(ctx context.Context, recordID int) (time.Time, error) {
	seen := as.nowTime()
	if err := as.store.UpdateLastSeen(ctx, recordID, seen); err != nil {
		return time.Time{}, errors.Wrapf(err, "[AccessService.Heartbeat] record %d", recordID)
	}
	return seen, nil
}

// EndSession stamps a final last-seen time on the record. Not wired to any
// user-facing endpoint; session expiry is otherwise passive via cookie TTL.
func (as *AccessService) EndSession(ctx context.Context, recordID int) error {
	if err := as.store.UpdateLastSeen(ctx, recordID, as.nowTime()); err != nil {
		return errors.Wrapf(err, "[AccessService.EndSession] record %d", recordID)
	}
	return nil
}

// Sessions returns up to limit session records, newest first, optionally
// filtered by email. Used for manual follow-up of pending requests.
func (as *AccessService) Sessions(ctx context.Context, email string, limit int) ([]sessions.SessionRecord, error) {
	records, err := as.store.ListByEmail(ctx, NormalizeEmail(email), limit)
	if err != nil {
		return nil, errors.Wrap(err, "[AccessService.Sessions] list records")
	}
	return records, nil
}
