package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contextworks/mcp-gateway/pkg/logging"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := New(logging.Discard())

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe("thing/changed", func(ctx context.Context, payload interface{}) {
			order = append(order, i)
		})
	}

	bus.Publish(context.Background(), "thing/changed", nil)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPublishCarriesPayload(t *testing.T) {
	bus := New(logging.Discard())

	var got interface{}
	bus.Subscribe("instructions/updated", func(ctx context.Context, payload interface{}) {
		got = payload
	})

	bus.Publish(context.Background(), "instructions/updated", "new text")
	assert.Equal(t, "new text", got)
}

func TestPanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	bus := New(logging.Discard())

	var delivered []string
	bus.Subscribe("evt", func(ctx context.Context, payload interface{}) {
		delivered = append(delivered, "first")
	})
	bus.Subscribe("evt", func(ctx context.Context, payload interface{}) {
		panic("subscriber bug")
	})
	bus.Subscribe("evt", func(ctx context.Context, payload interface{}) {
		delivered = append(delivered, "third")
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "evt", nil)
	})
	assert.Equal(t, []string{"first", "third"}, delivered)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := New(logging.Discard())
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "nobody/listens", 42)
	})
}

func TestNilHandlerIgnored(t *testing.T) {
	bus := New(logging.Discard())
	bus.Subscribe("evt", nil)
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "evt", nil)
	})
}

func TestSubscribersIsolatedByEvent(t *testing.T) {
	bus := New(logging.Discard())

	calls := 0
	bus.Subscribe("a", func(ctx context.Context, payload interface{}) { calls++ })

	bus.Publish(context.Background(), "b", nil)
	assert.Zero(t, calls)
	bus.Publish(context.Background(), "a", nil)
	assert.Equal(t, 1, calls)
}
