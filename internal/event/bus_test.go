package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New()

	var first, second []any
	bus.Subscribe("user.registered", func(e any) { first = append(first, e) })
	bus.Subscribe("user.registered", func(e any) { second = append(second, e) })

	bus.Publish("user.registered", "payload")

	assert.Equal(t, []any{"payload"}, first)
	assert.Equal(t, []any{"payload"}, second)
}

func TestPublishWithoutSubscribersIsSafe(t *testing.T) {
	bus := New()

	assert.NotPanics(t, func() {
		bus.Publish("nobody.listens", 1)
	})
}

func TestSubscribersAreTopicScoped(t *testing.T) {
	bus := New()

	var got []any
	bus.Subscribe("a", func(e any) { got = append(got, e) })

	bus.Publish("b", "ignored")
	bus.Publish("a", "seen")

	assert.Equal(t, []any{"seen"}, got)
}
