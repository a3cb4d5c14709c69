package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/models"
)

func TestPublishSubscribe(t *testing.T) {
	service := NewService(arbor.NewLogger())

	ch, cancel := service.Subscribe()
	defer cancel()

	service.Publish(models.SyncEvent{
		Type:        models.SyncEventQueued,
		WorkItemID:  "wi_1",
		WorkspaceID: "ws-1",
	})

	select {
	case event := <-ch:
		assert.Equal(t, models.SyncEventQueued, event.Type)
		assert.Equal(t, "wi_1", event.WorkItemID)
		assert.False(t, event.Timestamp.IsZero(), "publish stamps a timestamp")
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	service := NewService(arbor.NewLogger())

	ch1, cancel1 := service.Subscribe()
	defer cancel1()
	ch2, cancel2 := service.Subscribe()
	defer cancel2()

	service.Publish(models.SyncEvent{Type: models.SyncEventDone})

	for _, ch := range []<-chan models.SyncEvent{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, models.SyncEventDone, event.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed event")
		}
	}
}

func TestCancelClosesChannel(t *testing.T) {
	service := NewService(arbor.NewLogger())

	ch, cancel := service.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Double cancel is safe.
	cancel()
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	service := NewService(arbor.NewLogger())

	ch, cancel := service.Subscribe()
	defer cancel()

	// Overfill the subscriber buffer without draining.
	for i := 0; i < subscriberBuffer+10; i++ {
		service.Publish(models.SyncEvent{Type: models.SyncEventFetching})
	}

	// Publishing never blocked; the buffer holds at most its capacity.
	require.Equal(t, subscriberBuffer, len(ch))
}

func TestPublishWithNoSubscribers(t *testing.T) {
	service := NewService(arbor.NewLogger())

	// Must not panic or block.
	service.Publish(models.SyncEvent{Type: models.SyncEventFailed})
}
