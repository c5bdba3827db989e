package context

import "context"

type requestIDKey struct{}
type actorKey struct{}

// WithRequestID stores the correlation id for the current request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithActor stores the authenticated user id and role.
func WithActor(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, actorKey{}, [2]string{userID, role})
}

func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	v, ok := ctx.Value(actorKey{}).([2]string)
	if !ok {
		return "", ""
	}
	return v[0], v[1]
}
