package middleware

import "context"

type contextKey string

const (
	ctxProfile contextKey = "profile"
	ctxUserID  contextKey = "user_id"
)

// ProfileFromContext returns the device profile resolved by Shopper.
func ProfileFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxProfile).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

func WithProfile(ctx context.Context, profile string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfile, profile)
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}
