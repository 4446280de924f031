package command

import (
	"errors"
	"reflect"
	"testing"

	"pkt.systems/webmentionctl/schema"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
		want  Command
	}{
		{input: "approve 1", ok: false},
		{input: "/", ok: true, want: Command{}},
		{input: "  /Filter verified", ok: true, want: Command{Name: "filter", Args: []string{"verified"}, Raw: "Filter verified"}},
		{input: "/n", ok: true, want: Command{Name: "next", Args: []string{}, Raw: "n"}},
		{input: "/policy add https://a.com/*  2", ok: true, want: Command{Name: "policy", Args: []string{"add", "https://a.com/*", "2"}, Raw: "policy add https://a.com/*  2"}},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.input)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v", tc.input, tc.ok)
		}
		if ok && !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: expected %+v, got %+v", tc.input, tc.want, got)
		}
	}
}

func mustParse(t *testing.T, input string) Command {
	t.Helper()
	cmd, ok := Parse(input)
	if !ok {
		t.Fatalf("%q: not a command", input)
	}
	return cmd
}

func TestCommandMentionID(t *testing.T) {
	id, err := mustParse(t, "/approve 42").MentionID()
	if err != nil || id != schema.MentionID("42") {
		t.Fatalf("expected id 42, got %q %v", id, err)
	}
	var usageErr *UsageError
	_, err = mustParse(t, "/reject").MentionID()
	if !errors.As(err, &usageErr) || err.Error() != "usage: /reject <id>" {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := mustParse(t, "/delete 1 2").MentionID(); !errors.As(err, &usageErr) {
		t.Fatalf("expected usage error for extra args, got %v", err)
	}
}

func TestCommandLimit(t *testing.T) {
	if n, err := mustParse(t, "/limit 25").Limit(); err != nil || n != 25 {
		t.Fatalf("expected 25, got %d %v", n, err)
	}
	if _, err := mustParse(t, "/limit many").Limit(); err == nil || err.Error() != "usage: /limit <n>" {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestCommandPolicy(t *testing.T) {
	cases := []struct {
		input   string
		create  *schema.CreatePolicyRequest
		remove  schema.PolicyID
		wantErr error
	}{
		{input: "/policy add https://a.com/*", create: &schema.CreatePolicyRequest{URLPattern: "https://a.com/*", Policy: schema.PolicyApprove}},
		{input: "/policy ADD https://a.com/* -3", create: &schema.CreatePolicyRequest{URLPattern: "https://a.com/*", Weight: -3, Policy: schema.PolicyApprove}},
		{input: "/policy rm 7", remove: 7},
		{input: "/policy delete 8", remove: 8},
		{input: "/policy rm zero", wantErr: schema.ErrInvalidPolicyID},
	}
	for _, tc := range cases {
		got, err := mustParse(t, tc.input).Policy()
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%q: expected %v, got %v", tc.input, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.input, err)
		}
		if !reflect.DeepEqual(got.Create, tc.create) || got.Remove != tc.remove {
			t.Fatalf("%q: unexpected %+v", tc.input, got)
		}
	}
	var usageErr *UsageError
	for _, input := range []string{"/policy", "/policy add", "/policy add x 1 2", "/policy add x heavy", "/policy set x"} {
		if _, err := mustParse(t, input).Policy(); !errors.As(err, &usageErr) {
			t.Fatalf("%q: expected usage error, got %v", input, err)
		}
	}
}
