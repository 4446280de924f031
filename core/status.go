package core

import (
	"sync"
	"time"

	"pkt.systems/webmentionctl/schema"
)

// StatusSnapshot is a point-in-time copy of an AsyncStatus.
type StatusSnapshot[T any] struct {
	Operation  schema.Operation
	State      schema.OperationState
	LastError  error
	LastResult T
	HasResult  bool
}

// AsyncStatus tracks the lifecycle of one named operation:
// idle -> pending -> succeeded|failed. Instances are independent.
type AsyncStatus[T any] struct {
	op   schema.Operation
	sink EventSink
	now  func() time.Time

	mu        sync.RWMutex
	state     schema.OperationState
	lastErr   error
	result    T
	hasResult bool
}

// NewAsyncStatus constructs an idle status for op. sink may be nil.
func NewAsyncStatus[T any](op schema.Operation, sink EventSink) *AsyncStatus[T] {
	return &AsyncStatus[T]{op: op, sink: sink, now: time.Now, state: schema.StateIdle}
}

// Operation returns the tracked operation name.
func (s *AsyncStatus[T]) Operation() schema.Operation {
	return s.op
}

// Begin moves the status to pending and clears the previous error.
func (s *AsyncStatus[T]) Begin() {
	s.mu.Lock()
	s.state = schema.StatePending
	s.lastErr = nil
	s.mu.Unlock()
	s.emit(schema.StatePending, nil)
}

// Succeed records result and moves the status to succeeded.
func (s *AsyncStatus[T]) Succeed(result T) {
	s.mu.Lock()
	s.state = schema.StateSucceeded
	s.lastErr = nil
	s.result = result
	s.hasResult = true
	s.mu.Unlock()
	s.emit(schema.StateSucceeded, nil)
}

// Fail records err and moves the status to failed. The last result is kept.
func (s *AsyncStatus[T]) Fail(err error) {
	s.mu.Lock()
	s.state = schema.StateFailed
	s.lastErr = err
	s.mu.Unlock()
	s.emit(schema.StateFailed, err)
}

// Reset returns the status to idle and drops error and result.
func (s *AsyncStatus[T]) Reset() {
	var zero T
	s.mu.Lock()
	changed := s.state != schema.StateIdle || s.hasResult || s.lastErr != nil
	s.state = schema.StateIdle
	s.lastErr = nil
	s.result = zero
	s.hasResult = false
	s.mu.Unlock()
	if changed {
		s.emit(schema.StateIdle, nil)
	}
}

// State returns the current lifecycle state.
func (s *AsyncStatus[T]) State() schema.OperationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the error recorded by the last failure, if the status is failed.
func (s *AsyncStatus[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Result returns the last successful result.
func (s *AsyncStatus[T]) Result() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.hasResult
}

// Snapshot copies the current status.
func (s *AsyncStatus[T]) Snapshot() StatusSnapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatusSnapshot[T]{
		Operation:  s.op,
		State:      s.state,
		LastError:  s.lastErr,
		LastResult: s.result,
		HasResult:  s.hasResult,
	}
}

func (s *AsyncStatus[T]) emit(state schema.OperationState, err error) {
	if s.sink == nil {
		return
	}
	event := schema.OperationEvent{Operation: s.op, State: state, At: s.now()}
	if err != nil {
		event.Err = err.Error()
	}
	s.sink.OnOperation(event)
}
