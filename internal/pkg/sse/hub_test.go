package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishRespectsWatchedUsers(t *testing.T) {
	h := NewHub()

	team, cleanupTeam := h.Subscribe([]string{"u1", "u2"})
	defer cleanupTeam()
	self, cleanupSelf := h.Subscribe([]string{"u3"})
	defer cleanupSelf()

	h.Publish(Event{UserID: "u2", Event: "punch", Data: "check-in"})

	require.Len(t, team, 1)
	got := <-team
	assert.Equal(t, "u2", got.UserID)
	assert.Empty(t, self)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()

	ch, cleanup := h.Subscribe([]string{"u1"})
	assert.Equal(t, 1, h.TotalSubscribers())

	cleanup()
	cleanup()

	assert.Equal(t, 0, h.TotalSubscribers())
	_, open := <-ch
	assert.False(t, open)

	// Publishing after cleanup must not panic on the closed channel
	h.Publish(Event{UserID: "u1"})
}

func TestHub_DropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe([]string{"u1"})
	defer cleanup()

	for i := 0; i < 25; i++ {
		h.Publish(Event{UserID: "u1", Event: "punch"})
	}
	assert.Len(t, ch, cap(ch))
}
