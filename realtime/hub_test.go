package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/cleancity/models"
)

func TestEventMatches(t *testing.T) {
	event := Event{
		Events: []string{
			"collections.waste_reports.documents.r1.update",
			UpdatePattern,
		},
	}

	assert.True(t, event.Matches(UpdatePattern))
	assert.True(t, event.Matches("collections.waste_reports.documents.r1.update"))
	assert.False(t, event.Matches(CreatePattern))
	assert.False(t, event.Matches("collections.waste_reports.documents.r2.update"))
	assert.False(t, event.Matches("collections.waste_reports.documents"))
}

func TestHubFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	subA := hub.Subscribe()
	subB := hub.Subscribe()
	defer subA.Unsubscribe()
	defer subB.Unsubscribe()

	hub.PublishUpdate(models.WasteReport{ID: "r1", Status: models.StatusAssigned})

	eventA := <-subA.C
	eventB := <-subB.C
	assert.Equal(t, "r1", eventA.Payload.ID)
	assert.Equal(t, "r1", eventB.Payload.ID)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	sub.Unsubscribe()

	_, ok := <-sub.C
	assert.False(t, ok, "channel must be closed after unsubscribe")

	// Publishing after unsubscribe must not panic or deliver.
	hub.PublishCreate(models.WasteReport{ID: "r2"})

	// Double unsubscribe is safe.
	sub.Unsubscribe()
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Unsubscribe()

	// Overflow the buffer; the excess is dropped, not blocked on.
	for i := 0; i < subscriptionBuffer*2; i++ {
		hub.PublishUpdate(models.WasteReport{ID: "r1"})
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	require.Equal(t, subscriptionBuffer, received)
}
