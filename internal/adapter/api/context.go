package api

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID 透传到上游的 X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}
