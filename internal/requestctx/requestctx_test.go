package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"appraisal/internal/domain/auth"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetActorRequiresAuthenticatedActor(t *testing.T) {
	_, ok := GetActor(context.Background())
	assert.False(t, ok)

	_, ok = GetActor(WithActor(context.Background(), auth.Actor{ID: "u1"}))
	assert.False(t, ok, "actor without a valid role is not authenticated")

	actor, ok := GetActor(WithActor(context.Background(), auth.Actor{ID: "u1", Role: auth.RoleManager}))
	assert.True(t, ok)
	assert.Equal(t, auth.RoleManager, actor.Role)
}
