package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/presence.report/internal/ld2410"
)

func TestPublishCoalescesBacklog(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	// several publishes before the consumer drains merge into one mask
	hub.Publish(ld2410.ChangedDetection)
	hub.Publish(ld2410.ChangedDetection)
	hub.Publish(ld2410.ChangedGates)
	hub.Publish(ld2410.ChangedConfig)

	<-sub.Ready()
	changes := sub.Drain()
	assert.Equal(t, ld2410.ChangedDetection|ld2410.ChangedGates|ld2410.ChangedConfig, changes)

	// nothing pending afterwards
	assert.Zero(t, sub.Drain())
	select {
	case <-sub.Ready():
		// a second wake may have been buffered while draining; it must carry
		// an empty mask, not a duplicate redraw
		assert.Zero(t, sub.Drain())
	default:
	}
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// nobody drains; publishing must still return promptly
		for i := 0; i < 10000; i++ {
			hub.Publish(ld2410.ChangedDetection)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a non-draining subscriber")
	}
}

func TestPublishZeroIsNoop(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	hub.Publish(0)
	select {
	case <-sub.Ready():
		t.Error("no wake expected for an empty change mask")
	default:
	}
}

func TestClosedSubscriptionStopsReceiving(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	sub.Close()

	hub.Publish(ld2410.ChangedDetection)
	select {
	case <-sub.Ready():
		t.Error("closed subscription should not be woken")
	default:
	}
}

func TestIndependentSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	defer a.Close()
	b := hub.Subscribe()
	defer b.Close()

	hub.Publish(ld2410.ChangedSensitivity)

	<-a.Ready()
	<-b.Ready()
	assert.Equal(t, ld2410.ChangedSensitivity, a.Drain())
	assert.Equal(t, ld2410.ChangedSensitivity, b.Drain(), "draining one subscriber must not affect another")
}
