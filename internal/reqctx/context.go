package reqctx

import "context"

type ctxKey string

const keyRID ctxKey = "rid"

// WithRequestID stores the correlation id used in log fields.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RequestID returns the correlation id if present.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}
