package kpi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWithOriginKeepsActivity(t *testing.T) {
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "admin", TenantID: "t1"})
	ctx = ContextWithOrigin(ctx, "tab-3")

	meta := activityContextFrom(ctx)
	assert.Equal(t, ActivityContext{ActorID: "admin", TenantID: "t1", Origin: "tab-3"}, meta)
}

func TestContextWithOriginBlankIsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithOrigin(ctx, ""))
}

func TestMountUsesRequestOrigin(t *testing.T) {
	service := newTestService(t, Options{})
	prefs, err := service.Mount(ContextWithOrigin(context.Background(), "tab-3"), ViewerContext{UserID: "u1"}, "test.report")
	assert.NoError(t, err)
	assert.Equal(t, "tab-3", prefs.Origin())
}
