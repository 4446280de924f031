package core

import (
	"context"

	"github.com/go-playground/validator/v10"
	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/internal/logx"
	"pkt.systems/webmentionctl/schema"
)

// Policies lists, creates and deletes moderation policies. Each call has
// its own status so a failed delete never masks a create.
type Policies struct {
	api      API
	session  *Session
	validate *validator.Validate
	list     *AsyncStatus[[]schema.Policy]
	create   *AsyncStatus[schema.CreatePolicyRequest]
	remove   *AsyncStatus[schema.PolicyID]
}

// NewPolicies constructs the policy controller.
func NewPolicies(deps Deps, session *Session) *Policies {
	p := &Policies{
		api:      deps.API,
		session:  session,
		validate: newValidator(),
		list:     NewAsyncStatus[[]schema.Policy](schema.OpGetPolicies, deps.Sink),
		create:   NewAsyncStatus[schema.CreatePolicyRequest](schema.OpCreatePolicy, deps.Sink),
		remove:   NewAsyncStatus[schema.PolicyID](schema.OpDeletePolicy, deps.Sink),
	}
	if session != nil {
		session.OnLogout(func(string) {
			p.list.Reset()
			p.create.Reset()
			p.remove.Reset()
		})
	}
	return p
}

// List fetches every policy.
func (p *Policies) List(ctx context.Context) ([]schema.Policy, error) {
	return track(ctx, p.session, p.list, p.api.ListPolicies)
}

// Create validates req and creates the policy.
func (p *Policies) Create(ctx context.Context, req schema.CreatePolicyRequest) error {
	if req.Policy == "" {
		req.Policy = schema.PolicyApprove
	}
	if err := validateRequest(p.validate, req); err != nil {
		return reject(ctx, p.create, err)
	}
	ctx = pslog.ContextWithLogger(ctx, logx.WithPolicy(logx.Ctx(ctx), 0, req.URLPattern))
	_, err := track(ctx, p.session, p.create, func(ctx context.Context) (schema.CreatePolicyRequest, error) {
		return req, p.api.CreatePolicy(ctx, req)
	})
	return err
}

// Delete removes the policy with id.
func (p *Policies) Delete(ctx context.Context, id schema.PolicyID) error {
	if id <= 0 {
		return reject(ctx, p.remove, schema.ErrInvalidPolicyID)
	}
	ctx = pslog.ContextWithLogger(ctx, logx.WithPolicy(logx.Ctx(ctx), id, ""))
	_, err := track(ctx, p.session, p.remove, func(ctx context.Context) (schema.PolicyID, error) {
		return id, p.api.DeletePolicy(ctx, id)
	})
	return err
}

// ListStatus exposes the getPolicies operation status.
func (p *Policies) ListStatus() *AsyncStatus[[]schema.Policy] {
	return p.list
}

// CreateStatus exposes the createPolicy operation status.
func (p *Policies) CreateStatus() *AsyncStatus[schema.CreatePolicyRequest] {
	return p.create
}

// DeleteStatus exposes the deletePolicy operation status.
func (p *Policies) DeleteStatus() *AsyncStatus[schema.PolicyID] {
	return p.remove
}
