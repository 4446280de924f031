package schema

import "time"

// Operation names a tracked client operation.
type Operation string

const (
	OpAuthenticate        Operation = "authenticate"
	OpRequestToken        Operation = "requestToken"
	OpGetMentions         Operation = "getMentions"
	OpMutateMentionStatus Operation = "mutateMentionStatus"
	OpDeleteMention       Operation = "deleteMention"
	OpSendMention         Operation = "sendMention"
	OpGetPolicies         Operation = "getPolicies"
	OpCreatePolicy        Operation = "createPolicy"
	OpDeletePolicy        Operation = "deletePolicy"
	OpGetSummary          Operation = "getSummary"
)

// OperationState is the lifecycle state of a tracked operation.
type OperationState string

const (
	StateIdle      OperationState = "idle"
	StatePending   OperationState = "pending"
	StateSucceeded OperationState = "succeeded"
	StateFailed    OperationState = "failed"
)

// SessionEventType identifies a session transition.
type SessionEventType string

const (
	// SessionLoggedIn is emitted after a token was stored.
	SessionLoggedIn SessionEventType = "logged_in"
	// SessionLoggedOut is emitted once per transition to logged out.
	SessionLoggedOut SessionEventType = "logged_out"
)

// SessionEvent reports a session transition.
type SessionEvent struct {
	Type   SessionEventType
	Reason string
	At     time.Time
}

// OperationEvent reports a state change of a tracked operation.
type OperationEvent struct {
	Operation Operation
	State     OperationState
	Err       string
	At        time.Time
}
