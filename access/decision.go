package access

import "github.com/darkmatter-vc/portal/access/sessions"

// Status classifies the outcome of an access evaluation.
type Status string

const (
	// StatusDomainAllowed means the email's domain is on the allow-list;
	// granted without consulting the external store
	StatusDomainAllowed Status = "domain_allowed"
	// StatusApproved means a prior session record exists for the email
	StatusApproved Status = "approved"
	// StatusPending means a request has been captured but not yet approved;
	// also the gate redirect reason a denied visitor sees
	StatusPending Status = "pending"
	// StatusBlocked is reserved; not currently produced
	StatusBlocked Status = "blocked"
	// StatusNew means no record and no allow-listed domain
	StatusNew Status = "new"
)

// Result is the ephemeral outcome of one access evaluation.
type Result struct {
	Allowed bool
	Status  Status
	Record  *sessions.SessionRecord // set when Status is StatusApproved
}
