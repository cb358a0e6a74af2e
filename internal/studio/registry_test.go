package studio

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreatesOncePerClient(t *testing.T) {
	created := map[string]int{}
	r := NewRegistry(10, func(_ context.Context, id string) *Controller {
		created[id]++
		return NewController(id)
	})
	ctx := context.Background()

	a := r.Get(ctx, "a")
	assert.Same(t, a, r.Get(ctx, "a"))
	assert.Equal(t, "a", a.ClientID())
	assert.Equal(t, 1, created["a"])
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_AcquireReportsCreation(t *testing.T) {
	r := NewRegistry(10, func(_ context.Context, id string) *Controller {
		return NewController(id)
	})
	ctx := context.Background()

	first, created := r.Acquire(ctx, "a")
	assert.True(t, created)

	again, created := r.Acquire(ctx, "a")
	assert.False(t, created)
	assert.Same(t, first, again)
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	r := NewRegistry(2, func(_ context.Context, id string) *Controller {
		return NewController(id)
	})
	ctx := context.Background()

	r.Get(ctx, "a")
	r.Get(ctx, "b")
	r.Get(ctx, "a")
	r.Get(ctx, "c")

	assert.Equal(t, 2, r.Len())
	_, ok := r.Peek("b")
	assert.False(t, ok)
	_, ok = r.Peek("a")
	assert.True(t, ok)
	_, ok = r.Peek("c")
	assert.True(t, ok)
}

func TestRegistry_RemoveAndClose(t *testing.T) {
	r := NewRegistry(0, func(_ context.Context, id string) *Controller {
		return NewController(id)
	})
	ctx := context.Background()

	r.Get(ctx, "a")
	require.Equal(t, 1, r.Len())
	r.Remove("a")
	assert.Equal(t, 0, r.Len())

	r.Get(ctx, "b")
	r.Close()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_EvictionCancelsPendingLogo(t *testing.T) {
	gate := make(chan struct{})
	dec := &gatedDecoder{
		images: map[string]image.Image{"red": solid(red)},
		gates:  map[string]chan struct{}{"red": gate},
	}
	r := NewRegistry(1, func(_ context.Context, id string) *Controller {
		return NewController(id, WithRenderer(newSpy()), WithDecoder(dec))
	})
	ctx := context.Background()

	task := r.Get(ctx, "a").UploadLogo(ctx, "red")
	r.Get(ctx, "b")

	close(gate)
	assert.ErrorIs(t, wait(t, task), ErrLogoSuperseded)
}
