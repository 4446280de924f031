package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pkt.systems/webmentionctl/schema"
)

// PlainRenderer formats client state as plain text lines.
type PlainRenderer struct {
	// Width truncates long titles and URLs. Zero disables truncation.
	Width int
}

// NewPlainRenderer returns a default plain-text renderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{Width: 80}
}

// Page renders one page of mentions with a paging header.
func (p *PlainRenderer) Page(filter schema.MentionStatus, paging schema.PagingWindow, items []schema.Mention) []string {
	lines := []string{pageHeader(filter, paging, len(items))}
	if items == nil {
		return append(lines, "loading...")
	}
	if len(items) == 0 {
		return append(lines, "no mentions")
	}
	for _, mention := range items {
		lines = append(lines, p.Mention(mention)...)
	}
	return lines
}

// Mention renders a single mention.
func (p *PlainRenderer) Mention(m schema.Mention) []string {
	kind := m.Type
	if kind == "" {
		kind = "mention"
	}
	head := fmt.Sprintf("[%s] %s %s", m.ID, kind, p.clip(m.Source))
	if m.Status != "" {
		head += " (" + string(m.Status) + ")"
	}
	lines := []string{head, "  -> " + p.clip(m.Target)}
	if title := strings.TrimSpace(m.Title); title != "" {
		lines = append(lines, "  "+p.clip(title))
	}
	if m.CreatedAt != "" {
		lines = append(lines, "  created "+m.CreatedAt)
	}
	return lines
}

// Policies renders the policy table.
func (p *PlainRenderer) Policies(policies []schema.Policy) []string {
	if len(policies) == 0 {
		return []string{"no policies"}
	}
	lines := make([]string, 0, len(policies)+1)
	lines = append(lines, "ID  WEIGHT  POLICY   PATTERN")
	for _, policy := range policies {
		lines = append(lines, fmt.Sprintf("%-3d %-7d %-8s %s", policy.ID, policy.Weight, policy.Policy, p.clip(policy.URLPattern)))
	}
	return lines
}

// SendReport renders the per-target outcome of a send.
func (p *PlainRenderer) SendReport(report schema.SendReport) []string {
	if len(report.Targets) == 0 {
		return []string{fmt.Sprintf("no targets found in %s", report.Source)}
	}
	lines := []string{fmt.Sprintf("sent from %s:", report.Source)}
	for _, target := range report.Targets {
		switch {
		case target.Error != "":
			lines = append(lines, fmt.Sprintf("- %s failed: %s", target.URL, target.Error))
		case target.Endpoint == "":
			lines = append(lines, fmt.Sprintf("- %s no endpoint", target.URL))
		default:
			lines = append(lines, fmt.Sprintf("- %s ok via %s", target.URL, target.Endpoint))
		}
	}
	return lines
}

// Summary renders mention totals in the order of the known statuses.
func (p *PlainRenderer) Summary(summary schema.StatusSummary) []string {
	lines := make([]string, 0, len(summary.Totals)+1)
	seen := map[schema.MentionStatus]bool{}
	for _, status := range schema.KnownMentionStatuses {
		if total, ok := summary.Totals[status]; ok {
			lines = append(lines, fmt.Sprintf("%-9s %d", status, total))
			seen[status] = true
		}
	}
	var extra []string
	for status := range summary.Totals {
		if !seen[status] {
			extra = append(extra, string(status))
		}
	}
	sort.Strings(extra)
	for _, status := range extra {
		lines = append(lines, fmt.Sprintf("%-9s %d", status, summary.Totals[schema.MentionStatus(status)]))
	}
	if !summary.FetchedAt.IsZero() {
		lines = append(lines, "as of "+summary.FetchedAt.Format(time.RFC3339))
	}
	return lines
}

// Operation renders one status line.
func (p *PlainRenderer) Operation(op schema.Operation, state schema.OperationState, err error) string {
	if err != nil && state == schema.StateFailed {
		return fmt.Sprintf("%s: %s: %v", op, state, err)
	}
	return fmt.Sprintf("%s: %s", op, state)
}

// Session renders the login state.
func (p *PlainRenderer) Session(loggedIn bool) string {
	if loggedIn {
		return "session: logged in"
	}
	return "session: logged out"
}

func pageHeader(filter schema.MentionStatus, paging schema.PagingWindow, count int) string {
	if count == 0 {
		return fmt.Sprintf("%s mentions, offset %d, limit %d, total %d", filter, paging.Offset, paging.Limit, paging.Total)
	}
	return fmt.Sprintf("%s mentions %d-%d of %d (limit %d)", filter, paging.Offset+1, paging.Offset+count, paging.Total, paging.Limit)
}

func (p *PlainRenderer) clip(value string) string {
	if p == nil || p.Width <= 3 || len(value) <= p.Width {
		return value
	}
	return value[:p.Width-3] + "..."
}
