package core

// Controllers bundles every controller bound to one Session.
type Controllers struct {
	Session   *Session
	Auth      *Auth
	Mentions  *MentionCollection
	Mutations *MentionMutations
	Policies  *Policies
	Sender    *Sender
	Summary   *Summary
}

// NewControllers builds a Session and every controller on top of it. The
// persisted token is restored before any controller issues a request.
func NewControllers(deps Deps, opts CollectionOptions) *Controllers {
	session := NewSession(deps)
	session.Restore()
	return &Controllers{
		Session:   session,
		Auth:      NewAuth(deps, session),
		Mentions:  NewMentionCollection(deps, session, opts),
		Mutations: NewMentionMutations(deps, session),
		Policies:  NewPolicies(deps, session),
		Sender:    NewSender(deps, session),
		Summary:   NewSummary(deps, session),
	}
}
