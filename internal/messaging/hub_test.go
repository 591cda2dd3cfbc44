// internal/messaging/hub_test.go

package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func registerTestClient(t *testing.T, hub *Hub, userID int64) *Client {
	t.Helper()
	client := NewClient(hub, nil, userID, nil)
	hub.clientsMux.Lock()
	hub.clients[userID] = client
	hub.clientsMux.Unlock()
	return client
}

func TestSendEventToOpenClient(t *testing.T) {
	hub := NewHub()
	client := registerTestClient(t, hub, 1)

	ok := hub.SendEvent(1, WSTypeTyping, TypingEvent{MatchID: 7, UserID: 2, Typing: true})

	assert.True(t, ok)
	assert.Len(t, client.send, 1)
}

func TestSendEventToOfflineUser(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.SendEvent(42, WSTypeTyping, TypingEvent{MatchID: 1}))
}

func TestSendEventAfterClientClosed(t *testing.T) {
	hub := NewHub()
	client := registerTestClient(t, hub, 1)
	client.close()

	// A connection can be torn down between the lookup and the send;
	// the event must be dropped, not panic.
	assert.NotPanics(t, func() {
		assert.False(t, hub.SendEvent(1, WSTypeTyping, TypingEvent{MatchID: 1}))
	})
}

func TestClientCloseIsIdempotent(t *testing.T) {
	client := NewClient(NewHub(), nil, 1, nil)

	assert.NotPanics(t, func() {
		client.close()
		client.close()
	})

	queued, open := client.trySend([]byte("{}"))
	assert.False(t, queued)
	assert.False(t, open)
}
