package core

import (
	"context"

	"pkt.systems/webmentionctl/internal/logx"
	"pkt.systems/webmentionctl/schema"
)

// track runs call under status. A 401 ends the session before the status
// reports failed, so logout listeners see the session gone first.
func track[T any](ctx context.Context, session *Session, status *AsyncStatus[T], call func(context.Context) (T, error)) (T, error) {
	log := logx.WithOperation(ctx, status.Operation())
	ctx = logx.ContextWithOperationLogger(ctx, log, status.Operation())
	status.Begin()
	log.Trace("operation pending")
	result, err := call(ctx)
	if err != nil {
		failOperation(ctx, session, status, err)
		return result, err
	}
	status.Succeed(result)
	log.Debug("operation ok")
	return result, nil
}

// failOperation records err on status, ending the session first on a 401.
func failOperation[T any](ctx context.Context, session *Session, status *AsyncStatus[T], err error) {
	log := logx.WithOperation(ctx, status.Operation())
	if schema.IsUnauthorized(err) && session != nil {
		log.Warn("operation unauthorized", "err", err)
		session.Invalidate()
	} else {
		log.Warn("operation failed", "kind", schema.KindOf(err), "err", err)
	}
	status.Fail(err)
}

// reject records a request refused before dispatch.
func reject[T any](ctx context.Context, status *AsyncStatus[T], err error) error {
	apiErr := schema.NewValidationError(string(status.Operation()), err)
	status.Begin()
	failOperation[T](ctx, nil, status, apiErr)
	return apiErr
}
