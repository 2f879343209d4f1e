package attribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SystemActor, ActorFromContext(context.Background()))

	ctx := WithActor(context.Background(), " cm@example.org ")
	assert.Equal(t, "cm@example.org", ActorFromContext(ctx))

	assert.Equal(t, "cm@example.org", ActorFromContext(WithActor(ctx, "  ")),
		"a blank actor should not replace an existing one")
}
