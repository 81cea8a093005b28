package kpi

import "context"

// ActivityContext captures actor/tenant identifiers for activity events.
type ActivityContext struct {
	ActorID  string
	TenantID string
	// Origin identifies the client instance (browser tab) issuing the change.
	Origin string
}

type activityContextKey struct{}

// ContextWithActivity stores activity context on the provided context.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

func activityContextFrom(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	if meta, ok := ctx.Value(activityContextKey{}).(ActivityContext); ok {
		return meta
	}
	return ActivityContext{}
}

// ContextWithOrigin sets the client origin, keeping any actor or tenant
// already on ctx. A blank origin leaves ctx unchanged.
func ContextWithOrigin(ctx context.Context, origin string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if origin == "" {
		return ctx
	}
	meta := activityContextFrom(ctx)
	meta.Origin = origin
	return ContextWithActivity(ctx, meta)
}
