package core

import (
	"context"
	"sync"

	"pkt.systems/webmentionctl/schema"
)

type fakeAPI struct {
	mu    sync.Mutex
	token string
	calls []string

	authenticate  func(ctx context.Context, token string) (string, error)
	accessKey     func(ctx context.Context, key string) (string, error)
	requestLogin  func(ctx context.Context, email string) error
	listMentions  func(ctx context.Context, query schema.MentionQuery) (schema.PagedMentionList, error)
	approve       func(ctx context.Context, id schema.MentionID) error
	rejectMention func(ctx context.Context, id schema.MentionID) error
	deleteMention func(ctx context.Context, id schema.MentionID) error
	send          func(ctx context.Context, req schema.SendRequest) (schema.SendReport, error)
	listPolicies  func(ctx context.Context) ([]schema.Policy, error)
	createPolicy  func(ctx context.Context, req schema.CreatePolicyRequest) error
	deletePolicy  func(ctx context.Context, id schema.PolicyID) error
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) Authenticate(ctx context.Context, token string) (string, error) {
	f.record("authenticate")
	if f.authenticate != nil {
		return f.authenticate(ctx, token)
	}
	return "session-token", nil
}

func (f *fakeAPI) AuthenticateAccessKey(ctx context.Context, key string) (string, error) {
	f.record("accessKey")
	if f.accessKey != nil {
		return f.accessKey(ctx, key)
	}
	return "key-token", nil
}

func (f *fakeAPI) RequestLogin(ctx context.Context, email string) error {
	f.record("requestLogin")
	if f.requestLogin != nil {
		return f.requestLogin(ctx, email)
	}
	return nil
}

func (f *fakeAPI) ListMentions(ctx context.Context, query schema.MentionQuery) (schema.PagedMentionList, error) {
	f.record("listMentions")
	if f.listMentions != nil {
		return f.listMentions(ctx, query)
	}
	return schema.PagedMentionList{Items: []schema.Mention{}}, nil
}

func (f *fakeAPI) ApproveMention(ctx context.Context, id schema.MentionID) error {
	f.record("approve")
	if f.approve != nil {
		return f.approve(ctx, id)
	}
	return nil
}

func (f *fakeAPI) RejectMention(ctx context.Context, id schema.MentionID) error {
	f.record("reject")
	if f.rejectMention != nil {
		return f.rejectMention(ctx, id)
	}
	return nil
}

func (f *fakeAPI) DeleteMention(ctx context.Context, id schema.MentionID) error {
	f.record("deleteMention")
	if f.deleteMention != nil {
		return f.deleteMention(ctx, id)
	}
	return nil
}

func (f *fakeAPI) SendMention(ctx context.Context, req schema.SendRequest) (schema.SendReport, error) {
	f.record("send")
	if f.send != nil {
		return f.send(ctx, req)
	}
	return schema.SendReport{Source: req.Source}, nil
}

func (f *fakeAPI) ListPolicies(ctx context.Context) ([]schema.Policy, error) {
	f.record("listPolicies")
	if f.listPolicies != nil {
		return f.listPolicies(ctx)
	}
	return []schema.Policy{}, nil
}

func (f *fakeAPI) CreatePolicy(ctx context.Context, req schema.CreatePolicyRequest) error {
	f.record("createPolicy")
	if f.createPolicy != nil {
		return f.createPolicy(ctx, req)
	}
	return nil
}

func (f *fakeAPI) DeletePolicy(ctx context.Context, id schema.PolicyID) error {
	f.record("deletePolicy")
	if f.deletePolicy != nil {
		return f.deletePolicy(ctx, id)
	}
	return nil
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.sets++
	return nil
}

func (m *memoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type recordingSink struct {
	mu         sync.Mutex
	sessions   []schema.SessionEvent
	operations []schema.OperationEvent
}

func (r *recordingSink) OnSession(event schema.SessionEvent) {
	r.mu.Lock()
	r.sessions = append(r.sessions, event)
	r.mu.Unlock()
}

func (r *recordingSink) OnOperation(event schema.OperationEvent) {
	r.mu.Lock()
	r.operations = append(r.operations, event)
	r.mu.Unlock()
}

func (r *recordingSink) sessionEvents() []schema.SessionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]schema.SessionEvent{}, r.sessions...)
}

func (r *recordingSink) operationStates(op schema.Operation) []schema.OperationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	var states []schema.OperationState
	for _, event := range r.operations {
		if event.Operation == op {
			states = append(states, event.State)
		}
	}
	return states
}

type harness struct {
	api     *fakeAPI
	store   *memoryStore
	sink    *recordingSink
	deps    Deps
	session *Session
}

func newHarness() *harness {
	h := &harness{api: &fakeAPI{}, store: newMemoryStore(), sink: &recordingSink{}}
	h.deps = Deps{API: h.api, Store: h.store, Sink: h.sink}
	h.session = NewSession(h.deps)
	return h
}

func (h *harness) loggedIn() *harness {
	h.session.Login("tok")
	return h
}

func unauthorized(op schema.Operation) error {
	return schema.NewStatusError(string(op), 401, "Error")
}
