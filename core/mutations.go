package core

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/internal/logx"
	"pkt.systems/webmentionctl/schema"
)

// MentionMutations changes the moderation status of single mentions. It
// never edits a loaded page; callers re-fetch to observe the change.
type MentionMutations struct {
	api     API
	session *Session
	mutate  *AsyncStatus[schema.MentionID]
	remove  *AsyncStatus[schema.MentionID]
}

// NewMentionMutations constructs the mutation controller.
func NewMentionMutations(deps Deps, session *Session) *MentionMutations {
	m := &MentionMutations{
		api:     deps.API,
		session: session,
		mutate:  NewAsyncStatus[schema.MentionID](schema.OpMutateMentionStatus, deps.Sink),
		remove:  NewAsyncStatus[schema.MentionID](schema.OpDeleteMention, deps.Sink),
	}
	if session != nil {
		session.OnLogout(func(string) {
			m.mutate.Reset()
			m.remove.Reset()
		})
	}
	return m
}

// Approve marks the mention approved.
func (m *MentionMutations) Approve(ctx context.Context, id schema.MentionID) error {
	return m.run(ctx, m.mutate, id, m.api.ApproveMention)
}

// Reject marks the mention rejected.
func (m *MentionMutations) Reject(ctx context.Context, id schema.MentionID) error {
	return m.run(ctx, m.mutate, id, m.api.RejectMention)
}

// Delete removes the mention.
func (m *MentionMutations) Delete(ctx context.Context, id schema.MentionID) error {
	return m.run(ctx, m.remove, id, m.api.DeleteMention)
}

// Status exposes the mutateMentionStatus operation status.
func (m *MentionMutations) Status() *AsyncStatus[schema.MentionID] {
	return m.mutate
}

// DeleteStatus exposes the deleteMention operation status.
func (m *MentionMutations) DeleteStatus() *AsyncStatus[schema.MentionID] {
	return m.remove
}

func (m *MentionMutations) run(ctx context.Context, status *AsyncStatus[schema.MentionID], id schema.MentionID, call func(context.Context, schema.MentionID) error) error {
	if err := schema.ValidateMentionID(id); err != nil {
		return reject(ctx, status, err)
	}
	ctx = pslog.ContextWithLogger(ctx, logx.WithMention(logx.Ctx(ctx), id))
	_, err := track(ctx, m.session, status, func(ctx context.Context) (schema.MentionID, error) {
		if err := call(ctx, id); err != nil {
			return "", err
		}
		return id, nil
	})
	return err
}
