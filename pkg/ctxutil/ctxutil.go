// Package ctxutil carries request-scoped values (editor, request id) through
// context.Context.
package ctxutil

import (
	"context"
	"log/slog"
	"strings"
)

type (
	editorKey    struct{}
	requestIDKey struct{}
)

// Editor identifies the authenticated caller of an editorial route.
type Editor struct {
	Subject string
	Role    string
}

// WithEditor stores the editor in the context.
func WithEditor(ctx context.Context, e Editor) context.Context {
	return context.WithValue(ctx, editorKey{}, e)
}

// EditorFromCtx extracts the editor from the context.
// An editor with a blank subject counts as absent.
func EditorFromCtx(ctx context.Context) (Editor, bool) {
	e, ok := ctx.Value(editorKey{}).(Editor)
	if !ok || strings.TrimSpace(e.Subject) == "" {
		return Editor{}, false
	}
	return e, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromCtx extracts the request ID from the context, or "".
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LogAttrs returns the request_id and editor attributes present in ctx.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if e, ok := EditorFromCtx(ctx); ok {
		attrs = append(attrs, slog.String("editor", e.Subject))
	}
	return attrs
}
