package core

import (
	"strings"
	"sync"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/internal/persist"
	"pkt.systems/webmentionctl/schema"
)

const legacyBearerPrefix = "Bearer "

// Logout reasons reported on session events.
const (
	ReasonExplicit     = "logout"
	ReasonUnauthorized = "unauthorized"
)

// TokenSetter receives the bearer token to attach to outgoing requests.
type TokenSetter interface {
	SetToken(token string)
}

// Session holds the operator's bearer token. It is logged in exactly when
// a token is held. The token is mirrored into the transport and persisted
// under persist.SessionKey.
type Session struct {
	store     TokenStore
	transport TokenSetter
	sink      EventSink
	log       pslog.Logger
	now       func() time.Time

	mu        sync.Mutex
	token     string
	listeners []func(reason string)
}

// NewSession constructs a logged out session. Call Restore to load a
// persisted token.
func NewSession(deps Deps) *Session {
	return &Session{
		store:     deps.Store,
		transport: deps.API,
		sink:      deps.Sink,
		log:       deps.logger(),
		now:       deps.clock(),
	}
}

// Restore reads the persisted token. Presence of the key is the only
// source of truth for being logged in.
func (s *Session) Restore() bool {
	if s.store == nil {
		return false
	}
	raw, ok, err := s.store.Get(persist.SessionKey)
	if err != nil {
		s.log.Warn("session restore failed", "err", err)
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(raw, legacyBearerPrefix))
	if !ok || token == "" {
		s.log.Debug("session restore miss")
		return false
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.setTransportToken(token)
	s.log.Debug("session restored")
	return true
}

// Login stores token, marks the session logged in and configures the
// transport header. Persistence failures are logged, not returned.
func (s *Session) Login(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.log.Warn("session login ignored", "err", schema.ErrEmptyToken)
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.Set(persist.SessionKey, token); err != nil {
			s.log.Warn("session persist failed", "err", err)
		}
	}
	s.setTransportToken(token)
	s.log.Info("session login")
	if s.sink != nil {
		s.sink.OnSession(schema.SessionEvent{Type: schema.SessionLoggedIn, At: s.now()})
	}
}

// Logout ends the session. Calling it while logged out is a no-op.
func (s *Session) Logout() {
	s.invalidate(ReasonExplicit)
}

// Invalidate ends the session because the server rejected it.
func (s *Session) Invalidate() {
	s.invalidate(ReasonUnauthorized)
}

// IsLoggedIn reports whether a token is held.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the held token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// OnLogout registers fn to run synchronously inside every logout, before
// Logout returns.
func (s *Session) OnLogout(fn func(reason string)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) invalidate(reason string) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Remove(persist.SessionKey); err != nil {
			s.log.Warn("session remove failed", "err", err)
		}
	}
	s.setTransportToken("")
	for _, fn := range listeners {
		fn(reason)
	}
	s.log.Info("session logout", "reason", reason)
	if s.sink != nil {
		s.sink.OnSession(schema.SessionEvent{Type: schema.SessionLoggedOut, Reason: reason, At: s.now()})
	}
}

func (s *Session) setTransportToken(token string) {
	if s.transport != nil {
		s.transport.SetToken(token)
	}
}
