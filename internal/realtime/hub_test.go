package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_PublishReachesRoomSubscribersOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())

	a, cancelA := hub.Subscribe(UserRoom("alice"))
	defer cancelA()
	b, cancelB := hub.Subscribe(UserRoom("bob"))
	defer cancelB()

	hub.Publish(UserRoom("alice"), "notification", "hi")

	select {
	case ev := <-a:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "hi", ev.Payload)
	default:
		t.Fatal("expected an event for alice")
	}

	select {
	case <-b:
		t.Fatal("bob must not receive alice's event")
	default:
	}
}

func TestHub_PublishToEmptyRoomDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Publish(PostRoom(1), "new_comment", nil)
}

func TestHub_SlowSubscriberIsSkipped(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch, cancel := hub.Subscribe(PostRoom(7))
	defer cancel()

	// Overfill the buffer; extra publishes are dropped, not blocked.
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(PostRoom(7), "new_comment", i)
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}

	assert.Equal(t, subscriberBuffer, received)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch, cancel := hub.Subscribe(UserRoom("alice"))
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe is a no-op.
	hub.Publish(UserRoom("alice"), "notification", nil)
}
