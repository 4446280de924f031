package schema

import "time"

// MentionID identifies a webmention on the moderation server.
type MentionID string

// PolicyID identifies a moderation policy.
type PolicyID int

// MentionStatus is the moderation state of a mention.
type MentionStatus string

const (
	// MentionStatusNew marks a mention that has been received but not verified.
	MentionStatusNew MentionStatus = "new"
	// MentionStatusPending marks a mention waiting for moderation.
	MentionStatusPending MentionStatus = "pending"
	// MentionStatusVerified marks a mention whose source links to its target.
	MentionStatusVerified MentionStatus = "verified"
	// MentionStatusApproved marks a mention approved for display.
	MentionStatusApproved MentionStatus = "approved"
	// MentionStatusRejected marks a mention rejected by an operator.
	MentionStatusRejected MentionStatus = "rejected"
	// MentionStatusInvalid marks a mention that failed verification.
	MentionStatusInvalid MentionStatus = "invalid"
)

// DefaultMentionStatus is the filter applied before the operator picks one.
const DefaultMentionStatus = MentionStatusVerified

// DefaultPageLimit is the page size used when none is configured.
const DefaultPageLimit = 50

// KnownMentionStatuses lists the statuses the server reports.
var KnownMentionStatuses = []MentionStatus{
	MentionStatusNew,
	MentionStatusPending,
	MentionStatusVerified,
	MentionStatusApproved,
	MentionStatusRejected,
	MentionStatusInvalid,
}

// PolicyKind is the action a policy applies to matching mentions.
type PolicyKind string

// PolicyApprove automatically approves mentions whose source matches.
const PolicyApprove PolicyKind = "approve"

// Mention is an immutable snapshot of a webmention as returned by the server.
type Mention struct {
	ID         MentionID     `json:"id,omitempty"`
	Type       string        `json:"type,omitempty"`
	Source     string        `json:"source"`
	Target     string        `json:"target"`
	Title      string        `json:"title,omitempty"`
	Status     MentionStatus `json:"status,omitempty"`
	CreatedAt  string        `json:"created_at,omitempty"`
	Content    string        `json:"content,omitempty"`
	AuthorName string        `json:"author_name,omitempty"`
	RSVP       string        `json:"rsvp,omitempty"`
}

// PagedMentionList is one page of a filtered mention collection.
type PagedMentionList struct {
	Items []Mention `json:"items"`
	Total int       `json:"total"`
	Next  string    `json:"next,omitempty"`
}

// PagingWindow describes which slice of a filtered collection is loaded.
type PagingWindow struct {
	Offset int
	Limit  int
	Total  int
}

// Policy is a moderation rule keyed by URL pattern and weight.
type Policy struct {
	ID         PolicyID   `json:"id"`
	URLPattern string     `json:"url_pattern"`
	Weight     int        `json:"weight"`
	Policy     PolicyKind `json:"policy"`
}

// SendTargetStatus reports the outcome of sending to a single target.
type SendTargetStatus struct {
	URL      string `json:"url"`
	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

// SendReport is the server's answer to a send request.
type SendReport struct {
	Source  string             `json:"source"`
	Targets []SendTargetStatus `json:"targets"`
}

// Failed reports whether any target failed.
func (r SendReport) Failed() bool {
	for _, target := range r.Targets {
		if target.Error != "" {
			return true
		}
	}
	return false
}

// StatusSummary reports totals per mention status.
type StatusSummary struct {
	Totals    map[MentionStatus]int
	FetchedAt time.Time
}
