package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/webmentionctl/schema"
)

func TestPoliciesCreateDefaultsToApprove(t *testing.T) {
	h := newHarness().loggedIn()
	var got schema.CreatePolicyRequest
	h.api.createPolicy = func(ctx context.Context, req schema.CreatePolicyRequest) error {
		got = req
		return nil
	}
	policies := NewPolicies(h.deps, h.session)
	err := policies.Create(context.Background(), schema.CreatePolicyRequest{URLPattern: "https://a.com/*", Weight: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Policy != schema.PolicyApprove || got.URLPattern != "https://a.com/*" || got.Weight != 1 {
		t.Fatalf("unexpected request %+v", got)
	}
	if policies.CreateStatus().State() != schema.StateSucceeded {
		t.Fatalf("expected succeeded")
	}
}

func TestPoliciesCreateValidation(t *testing.T) {
	cases := []struct {
		name string
		req  schema.CreatePolicyRequest
	}{
		{name: "missing pattern", req: schema.CreatePolicyRequest{Weight: 1}},
		{name: "unknown policy", req: schema.CreatePolicyRequest{URLPattern: "x", Policy: "block"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness().loggedIn()
			policies := NewPolicies(h.deps, h.session)
			err := policies.Create(context.Background(), tc.req)
			if schema.KindOf(err) != schema.ErrorValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if h.api.callCount() != 0 {
				t.Fatalf("expected no request")
			}
		})
	}
}

func TestPoliciesCreateAcceptsNegativeWeight(t *testing.T) {
	h := newHarness().loggedIn()
	var got schema.CreatePolicyRequest
	h.api.createPolicy = func(ctx context.Context, req schema.CreatePolicyRequest) error {
		got = req
		return nil
	}
	policies := NewPolicies(h.deps, h.session)
	req := schema.CreatePolicyRequest{URLPattern: "https://a.com/*", Weight: -1, Policy: schema.PolicyApprove}
	if err := policies.Create(context.Background(), req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.api.callCount() != 1 || got.Weight != -1 {
		t.Fatalf("expected request with weight -1, got %+v calls=%d", got, h.api.callCount())
	}
}

func TestPoliciesStatusesAreIndependent(t *testing.T) {
	h := newHarness().loggedIn()
	h.api.deletePolicy = func(ctx context.Context, id schema.PolicyID) error {
		return schema.NewStatusError(string(schema.OpDeletePolicy), 500, "boom")
	}
	policies := NewPolicies(h.deps, h.session)
	ctx := context.Background()
	if err := policies.Create(ctx, schema.CreatePolicyRequest{URLPattern: "https://a.com/*"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := policies.Delete(ctx, 3); schema.KindOf(err) != schema.ErrorTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if policies.CreateStatus().State() != schema.StateSucceeded {
		t.Fatalf("expected create status untouched, got %s", policies.CreateStatus().State())
	}
	if policies.DeleteStatus().State() != schema.StateFailed {
		t.Fatalf("expected delete failed")
	}
	if policies.ListStatus().State() != schema.StateIdle {
		t.Fatalf("expected list idle")
	}
}

func TestPoliciesListAndDelete(t *testing.T) {
	h := newHarness().loggedIn()
	h.api.listPolicies = func(ctx context.Context) ([]schema.Policy, error) {
		return []schema.Policy{{ID: 1, URLPattern: "https://a.com/*", Weight: 1, Policy: schema.PolicyApprove}}, nil
	}
	var deleted schema.PolicyID
	h.api.deletePolicy = func(ctx context.Context, id schema.PolicyID) error {
		deleted = id
		return nil
	}
	policies := NewPolicies(h.deps, h.session)
	ctx := context.Background()
	list, err := policies.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if err := policies.Delete(ctx, list[0].ID); err != nil || deleted != 1 {
		t.Fatalf("delete: %v id=%d", err, deleted)
	}
	if err := policies.Delete(ctx, 0); !errors.Is(err, schema.ErrInvalidPolicyID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestPoliciesUnauthorizedResetsStatuses(t *testing.T) {
	h := newHarness().loggedIn()
	h.api.listPolicies = func(ctx context.Context) ([]schema.Policy, error) {
		return nil, unauthorized(schema.OpGetPolicies)
	}
	policies := NewPolicies(h.deps, h.session)
	ctx := context.Background()
	if err := policies.Create(ctx, schema.CreatePolicyRequest{URLPattern: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := policies.List(ctx); !schema.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if h.session.IsLoggedIn() {
		t.Fatalf("expected logged out")
	}
	if policies.CreateStatus().State() != schema.StateIdle {
		t.Fatalf("expected create status reset on logout, got %s", policies.CreateStatus().State())
	}
	if policies.ListStatus().State() != schema.StateFailed {
		t.Fatalf("expected list failed, got %s", policies.ListStatus().State())
	}
}
