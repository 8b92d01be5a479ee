package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventBusRoutesByMetadata(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, "game.created.v1")
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"ok":true}`))
	msg.Metadata.Set(TopicMetadataKey, "game.created.v1")
	require.NoError(t, bus.Publish("", msg))

	select {
	case got := <-messages:
		assert.Equal(t, msg.UUID, got.UUID)
		got.Ack()
	case <-ctx.Done():
		t.Fatal("message was not delivered")
	}
}

func TestInMemoryEventBusRequiresTopic(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	err := bus.Publish("", message.NewMessage(watermill.NewUUID(), nil))
	assert.True(t, errors.Is(err, ErrNoTopic))
	assert.NoError(t, bus.CreateStream(context.Background(), "game", "game.>"))
}
