package webmentionctl

import (
	"pkt.systems/webmentionctl/core"
	"pkt.systems/webmentionctl/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnSession(event schema.SessionEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnSession(event)
	}
}

func (f eventFanout) OnOperation(event schema.OperationEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnOperation(event)
	}
}
