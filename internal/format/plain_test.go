package format

import (
	"strings"
	"testing"
	"time"

	"pkt.systems/webmentionctl/schema"
)

func TestPageRendersLoadingAndEmpty(t *testing.T) {
	p := NewPlainRenderer()
	paging := schema.PagingWindow{Offset: 0, Limit: 50}
	loading := p.Page(schema.MentionStatusVerified, paging, nil)
	if loading[len(loading)-1] != "loading..." {
		t.Fatalf("expected loading line, got %v", loading)
	}
	empty := p.Page(schema.MentionStatusVerified, paging, []schema.Mention{})
	if empty[len(empty)-1] != "no mentions" {
		t.Fatalf("expected empty line, got %v", empty)
	}
	if !strings.Contains(empty[0], "total 0") {
		t.Fatalf("expected total in header, got %q", empty[0])
	}
}

func TestPageHeaderRange(t *testing.T) {
	p := NewPlainRenderer()
	items := []schema.Mention{{ID: "a", Source: "https://s/1", Target: "https://t"}, {ID: "b", Source: "https://s/2", Target: "https://t"}}
	lines := p.Page(schema.MentionStatusApproved, schema.PagingWindow{Offset: 10, Limit: 10, Total: 12}, items)
	if lines[0] != "approved mentions 11-12 of 12 (limit 10)" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "[a] mention https://s/1" {
		t.Fatalf("unexpected mention line %q", lines[1])
	}
}

func TestClipTruncates(t *testing.T) {
	p := &PlainRenderer{Width: 10}
	if got := p.clip("https://example.org/long"); got != "https:/..." {
		t.Fatalf("unexpected clip %q", got)
	}
	if got := (&PlainRenderer{}).clip("unchanged"); got != "unchanged" {
		t.Fatalf("expected no truncation, got %q", got)
	}
}

func TestSendReportLines(t *testing.T) {
	p := NewPlainRenderer()
	lines := p.SendReport(schema.SendReport{Source: "https://a", Targets: []schema.SendTargetStatus{
		{URL: "https://b", Endpoint: "https://b/wm"},
		{URL: "https://c"},
		{URL: "https://d", Error: "timeout"},
	}})
	want := []string{"sent from https://a:", "- https://b ok via https://b/wm", "- https://c no endpoint", "- https://d failed: timeout"}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestSummaryOrder(t *testing.T) {
	p := NewPlainRenderer()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	lines := p.Summary(schema.StatusSummary{Totals: map[schema.MentionStatus]int{
		schema.MentionStatusApproved: 3,
		schema.MentionStatusNew:      1,
	}, FetchedAt: at})
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "new") || !strings.HasPrefix(lines[1], "approved") {
		t.Fatalf("unexpected summary %v", lines)
	}
	if lines[2] != "as of 2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp line %q", lines[2])
	}
}

func TestPoliciesTable(t *testing.T) {
	p := NewPlainRenderer()
	if got := p.Policies(nil); got[0] != "no policies" {
		t.Fatalf("unexpected empty table %v", got)
	}
	lines := p.Policies([]schema.Policy{{ID: 1, URLPattern: "https://a.com/*", Weight: 2, Policy: schema.PolicyApprove}})
	if len(lines) != 2 || !strings.HasSuffix(lines[1], "https://a.com/*") {
		t.Fatalf("unexpected table %v", lines)
	}
}
