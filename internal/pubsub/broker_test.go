package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_PublishSubscribe(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := broker.Subscribe(ctx)
	broker.Publish(CreatedEvent, "hello")

	select {
	case event := <-sub:
		require.Equal(t, CreatedEvent, event.Type)
		require.Equal(t, "hello", event.Payload)
		require.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1 := broker.Subscribe(ctx)
	sub2 := broker.Subscribe(ctx)
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(UpdatedEvent, 42)

	for _, sub := range []<-chan Event[int]{sub1, sub2} {
		select {
		case event := <-sub:
			require.Equal(t, 42, event.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroker_SubscribeAfterClose(t *testing.T) {
	broker := NewBroker[string]()
	broker.Close()

	sub := broker.Subscribe(context.Background())
	_, ok := <-sub
	require.False(t, ok, "subscription after close should return a closed channel")
}

func TestBroker_CancelledContextRemovesSubscriber(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	select {
	case _, ok := <-sub:
		require.False(t, ok, "channel should close after context cancel")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	require.Eventually(t, func() bool {
		return broker.SubscriberCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBroker_CloseIsIdempotent(t *testing.T) {
	broker := NewBroker[string]()
	broker.Close()
	broker.Close()
	broker.Publish(CreatedEvent, "dropped")
}
