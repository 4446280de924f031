package core

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"pkt.systems/webmentionctl/schema"
)

// Summary counts mentions per status.
type Summary struct {
	api      API
	session  *Session
	now      func() time.Time
	statuses []schema.MentionStatus
	status   *AsyncStatus[schema.StatusSummary]
}

// NewSummary constructs the summary controller.
func NewSummary(deps Deps, session *Session) *Summary {
	s := &Summary{
		api:      deps.API,
		session:  session,
		now:      deps.clock(),
		statuses: append([]schema.MentionStatus{}, schema.KnownMentionStatuses...),
		status:   NewAsyncStatus[schema.StatusSummary](schema.OpGetSummary, deps.Sink),
	}
	if session != nil {
		session.OnLogout(func(string) { s.status.Reset() })
	}
	return s
}

// Load queries the total of every known status concurrently. The first
// failure cancels the remaining queries.
func (s *Summary) Load(ctx context.Context) (schema.StatusSummary, error) {
	return track(ctx, s.session, s.status, func(ctx context.Context) (schema.StatusSummary, error) {
		var mu sync.Mutex
		totals := make(map[schema.MentionStatus]int, len(s.statuses))
		group, gctx := errgroup.WithContext(ctx)
		for _, status := range s.statuses {
			group.Go(func() error {
				page, err := s.api.ListMentions(gctx, schema.MentionQuery{Status: status, Limit: 1})
				if err != nil {
					return err
				}
				mu.Lock()
				totals[status] = page.Total
				mu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return schema.StatusSummary{}, err
		}
		return schema.StatusSummary{Totals: totals, FetchedAt: s.now()}, nil
	})
}

// Status exposes the getSummary operation status.
func (s *Summary) Status() *AsyncStatus[schema.StatusSummary] {
	return s.status
}
