package core

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"pkt.systems/webmentionctl/schema"
)

// Sender asks the server to send webmentions on behalf of a source page.
type Sender struct {
	api      API
	session  *Session
	validate *validator.Validate
	status   *AsyncStatus[schema.SendReport]
}

// NewSender constructs the send controller.
func NewSender(deps Deps, session *Session) *Sender {
	s := &Sender{
		api:      deps.API,
		session:  session,
		validate: newValidator(),
		status:   NewAsyncStatus[schema.SendReport](schema.OpSendMention, deps.Sink),
	}
	if session != nil {
		session.OnLogout(func(string) { s.status.Reset() })
	}
	return s
}

// Send dispatches mentions for every external link in source. When some
// targets fail the returned error is a *schema.SendError carrying the
// report, which is also returned.
func (s *Sender) Send(ctx context.Context, source string) (schema.SendReport, error) {
	req := schema.SendRequest{Source: strings.TrimSpace(source)}
	if err := validateRequest(s.validate, req); err != nil {
		return schema.SendReport{}, reject(ctx, s.status, err)
	}
	return track(ctx, s.session, s.status, func(ctx context.Context) (schema.SendReport, error) {
		return s.api.SendMention(ctx, req)
	})
}

// Status exposes the sendMention operation status.
func (s *Sender) Status() *AsyncStatus[schema.SendReport] {
	return s.status
}
