package session

import "context"

type ctxKey string

const ctxKeySession ctxKey = "session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func FromContext(ctx context.Context) *Session {
	if v := ctx.Value(ctxKeySession); v != nil {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}
