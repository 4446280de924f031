package core

import "pkt.systems/webmentionctl/schema"

// EventSink receives session transitions and operation status changes.
type EventSink interface {
	OnSession(event schema.SessionEvent)
	OnOperation(event schema.OperationEvent)
}
