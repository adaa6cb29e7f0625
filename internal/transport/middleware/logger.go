package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/polyglot-dictionary/pkg/ctxutil"
)

// Logger returns middleware that logs each HTTP request with method, path,
// status code, duration, request_id and, on editorial routes, the editor.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			// The editor is attached further down the chain, so it is read
			// back through a holder the inner handlers can see.
			holder := &editorHolder{}
			next.ServeHTTP(sw, r.WithContext(withEditorHolder(r.Context(), holder)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if holder.subject != "" {
				attrs = append(attrs, slog.String("editor", holder.subject))
			}

			level := slog.LevelInfo
			if sw.status >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b)
}

type editorHolderKey struct{}

type editorHolder struct {
	subject string
}

func withEditorHolder(ctx context.Context, h *editorHolder) context.Context {
	return context.WithValue(ctx, editorHolderKey{}, h)
}

// recordEditor reports the authenticated editor to an enclosing Logger.
func recordEditor(ctx context.Context, subject string) {
	if h, ok := ctx.Value(editorHolderKey{}).(*editorHolder); ok {
		h.subject = subject
	}
}
