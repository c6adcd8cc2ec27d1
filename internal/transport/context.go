package transport

import (
	"context"
	"net/http"
	"slices"
)

type ctxKey string

const incomingRequestKey ctxKey = "incomingRequest"

// WithIncoming stores the browser request so outgoing backend calls can
// act on behalf of the same visitor.
func WithIncoming(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, incomingRequestKey, r)
}

func IncomingFrom(ctx context.Context) *http.Request {
	r, _ := ctx.Value(incomingRequestKey).(*http.Request)
	return r
}

// ForwardCookies copies the visitor's cookies onto an outgoing request.
// Cookies listed in skip stay local to this server.
func ForwardCookies(ctx context.Context, out *http.Request, skip ...string) {
	in := IncomingFrom(ctx)
	if in == nil {
		return
	}
	for _, c := range in.Cookies() {
		if slices.Contains(skip, c.Name) {
			continue
		}
		out.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

// Middleware makes the current request available through the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithIncoming(r.Context(), r)))
	})
}
