package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/schema"
)

type contextKey int

const (
	operationKey contextKey = iota
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithOperation annotates the logger with the tracked operation name.
func WithOperation(ctx context.Context, op schema.Operation) pslog.Logger {
	log := pslog.Ctx(ctx)
	if op != "" {
		if current, ok := ctx.Value(operationKey).(schema.Operation); ok && current == op {
			return log
		}
		log = log.With("op", op)
	}
	return log
}

// WithMention annotates the logger with a mention id when available.
func WithMention(log pslog.Logger, id schema.MentionID) pslog.Logger {
	if id != "" {
		log = log.With("mention", id)
	}
	return log
}

// WithPolicy annotates the logger with policy metadata when available.
func WithPolicy(log pslog.Logger, id schema.PolicyID, pattern string) pslog.Logger {
	if id > 0 {
		log = log.With("policy", int(id))
	}
	if pattern != "" {
		log = log.With("url_pattern", pattern)
	}
	return log
}

// ContextWithOperation stores the operation marker on the context for log de-duplication.
func ContextWithOperation(ctx context.Context, op schema.Operation) context.Context {
	if ctx == nil || op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// ContextWithOperationLogger attaches the logger and operation marker to the context.
func ContextWithOperationLogger(ctx context.Context, log pslog.Logger, op schema.Operation) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithOperation(ctx, op)
}
