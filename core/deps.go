package core

import (
	"context"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/schema"
)

// API is the moderation API surface the controllers call.
type API interface {
	SetToken(token string)
	Authenticate(ctx context.Context, token string) (string, error)
	AuthenticateAccessKey(ctx context.Context, key string) (string, error)
	RequestLogin(ctx context.Context, email string) error
	ListMentions(ctx context.Context, query schema.MentionQuery) (schema.PagedMentionList, error)
	ApproveMention(ctx context.Context, id schema.MentionID) error
	RejectMention(ctx context.Context, id schema.MentionID) error
	DeleteMention(ctx context.Context, id schema.MentionID) error
	SendMention(ctx context.Context, req schema.SendRequest) (schema.SendReport, error)
	ListPolicies(ctx context.Context) ([]schema.Policy, error)
	CreatePolicy(ctx context.Context, req schema.CreatePolicyRequest) error
	DeletePolicy(ctx context.Context, id schema.PolicyID) error
}

// TokenStore persists the session token between runs.
type TokenStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Deps captures the collaborators shared by every controller.
type Deps struct {
	API    API
	Store  TokenStore
	Sink   EventSink
	Logger pslog.Logger
	Now    func() time.Time
}

func (d Deps) logger() pslog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return pslog.Ctx(context.Background())
}

func (d Deps) clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}
