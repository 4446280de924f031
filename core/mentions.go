package core

import (
	"context"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/internal/logx"
	"pkt.systems/webmentionctl/schema"
)

// CollectionOptions configures a MentionCollection.
type CollectionOptions struct {
	DefaultStatus schema.MentionStatus
	Limit         int
}

// CollectionSnapshot is a copy of the collection state for rendering.
type CollectionSnapshot struct {
	Filter schema.MentionStatus
	Paging schema.PagingWindow
	// Items is nil while a page is loading and non-nil (possibly empty)
	// once a page has been applied.
	Items  []schema.Mention
	Next   string
	Status StatusSnapshot[schema.PagedMentionList]
}

// MentionCollection owns the status filter, the paging window and the
// currently loaded page of mentions.
type MentionCollection struct {
	api           API
	session       *Session
	log           pslog.Logger
	status        *AsyncStatus[schema.PagedMentionList]
	defaultFilter schema.MentionStatus

	mu     sync.Mutex
	filter schema.MentionStatus
	paging schema.PagingWindow
	items  []schema.Mention
	next   string
	// seq numbers fetch dispatches. Only the response of the latest
	// dispatch is applied.
	seq uint64
}

// NewMentionCollection constructs a collection and subscribes it to
// session logout.
func NewMentionCollection(deps Deps, session *Session, opts CollectionOptions) *MentionCollection {
	filter := opts.DefaultStatus
	if filter == "" {
		filter = schema.DefaultMentionStatus
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = schema.DefaultPageLimit
	}
	c := &MentionCollection{
		api:           deps.API,
		session:       session,
		log:           deps.logger(),
		status:        NewAsyncStatus[schema.PagedMentionList](schema.OpGetMentions, deps.Sink),
		defaultFilter: filter,
		filter:        filter,
		paging:        schema.PagingWindow{Limit: limit},
	}
	if session != nil {
		session.OnLogout(c.reset)
	}
	return c
}

// Fetch loads the page selected by the current filter and paging window.
// On failure the current items are left untouched.
func (c *MentionCollection) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	query := schema.MentionQuery{Status: c.filter, Offset: c.paging.Offset, Limit: c.paging.Limit}
	c.status.Begin()
	c.mu.Unlock()

	log := logx.WithOperation(ctx, schema.OpGetMentions).With("status", query.Status, "offset", query.Offset, "limit", query.Limit)
	page, err := c.api.ListMentions(ctx, query)
	if err != nil {
		if schema.IsUnauthorized(err) {
			log.Warn("operation unauthorized", "err", err)
			if c.session != nil {
				c.session.Invalidate()
			}
			c.status.Fail(err)
			return err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq {
			log.Debug("mentions response superseded", "err", err)
			return err
		}
		log.Warn("operation failed", "kind", schema.KindOf(err), "err", err)
		c.status.Fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		log.Debug("mentions response superseded")
		return nil
	}
	items := page.Items
	if items == nil {
		items = []schema.Mention{}
	}
	c.items = items
	c.next = page.Next
	c.paging.Total = page.Total
	c.status.Succeed(page)
	log.Debug("operation ok", "items", len(items), "total", page.Total)
	return nil
}

// SetFilter switches the status filter. Offset is reset to 0 and the page
// cleared before the fetch is dispatched.
func (c *MentionCollection) SetFilter(ctx context.Context, status schema.MentionStatus) error {
	normalized, err := schema.NormalizeMentionStatus(string(status))
	if err != nil {
		return reject(ctx, c.status, err)
	}
	c.mu.Lock()
	c.paging.Offset = 0
	c.items = nil
	c.next = ""
	c.filter = normalized
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// NextPage advances the offset by exactly one limit and fetches. There is
// no upper bound; past the end the server answers with an empty page.
func (c *MentionCollection) NextPage(ctx context.Context) error {
	c.mu.Lock()
	c.paging.Offset += c.paging.Limit
	c.items = nil
	c.next = ""
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// PreviousPage moves back one limit and fetches. When that would make the
// offset negative it does nothing.
func (c *MentionCollection) PreviousPage(ctx context.Context) error {
	c.mu.Lock()
	offset := c.paging.Offset - c.paging.Limit
	if offset < 0 {
		c.mu.Unlock()
		return nil
	}
	c.paging.Offset = offset
	c.items = nil
	c.next = ""
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetLimit changes the page size. The offset is kept.
func (c *MentionCollection) SetLimit(limit int) error {
	if limit <= 0 {
		return schema.NewValidationError(string(schema.OpGetMentions), schema.ErrInvalidLimit)
	}
	c.mu.Lock()
	c.paging.Limit = limit
	c.mu.Unlock()
	return nil
}

// SetOffset moves the window to offset without fetching. The page is
// cleared so the next Fetch starts from a loading state.
func (c *MentionCollection) SetOffset(offset int) error {
	if offset < 0 {
		return schema.NewValidationError(string(schema.OpGetMentions), schema.ErrInvalidOffset)
	}
	c.mu.Lock()
	c.paging.Offset = offset
	c.items = nil
	c.next = ""
	c.mu.Unlock()
	return nil
}

// Snapshot copies the collection state.
func (c *MentionCollection) Snapshot() CollectionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	var items []schema.Mention
	if c.items != nil {
		items = append([]schema.Mention{}, c.items...)
	}
	return CollectionSnapshot{
		Filter: c.filter,
		Paging: c.paging,
		Items:  items,
		Next:   c.next,
		Status: c.status.Snapshot(),
	}
}

// Status exposes the getMentions operation status.
func (c *MentionCollection) Status() *AsyncStatus[schema.PagedMentionList] {
	return c.status
}

// reset drops filter, paging and page after logout. Responses of fetches
// still in flight are discarded.
func (c *MentionCollection) reset(reason string) {
	c.mu.Lock()
	c.seq++
	c.filter = c.defaultFilter
	c.paging = schema.PagingWindow{Limit: c.paging.Limit}
	c.items = nil
	c.next = ""
	c.status.Reset()
	c.mu.Unlock()
	c.log.Debug("mentions reset", "reason", reason)
}
