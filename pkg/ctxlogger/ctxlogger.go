package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// AppendCtx returns a context carrying attr in addition to any attrs
// already stored by previous AppendCtx calls.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if attrs, ok := parent.Value(ctxKey{}).([]slog.Attr); ok {
		attrs = append(attrs[:len(attrs):len(attrs)], attr)
		return context.WithValue(parent, ctxKey{}, attrs)
	}

	return context.WithValue(parent, ctxKey{}, []slog.Attr{attr})
}

// ContextHandler decorates a slog.Handler with the attrs stored in the
// record's context.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		for _, attr := range attrs {
			r.AddAttrs(attr)
		}
	}

	return h.Handler.Handle(ctx, r)
}
