// internal/messaging/models.go

package messaging

import (
	"encoding/json"
	"time"
)

// Message types.
const (
	TypeText = "text"
)

// Message is a chat message inside a match conversation.
type Message struct {
	ID          int64      `json:"id" db:"id"`
	MatchID     int64      `json:"match_id" db:"match_id"`
	SenderID    int64      `json:"sender_id" db:"sender_id"`
	ReceiverID  int64      `json:"receiver_id" db:"receiver_id"`
	Content     string     `json:"content" db:"content"`
	MessageType string     `json:"message_type" db:"message_type"`
	IsRead      bool       `json:"is_read" db:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// SendMessageRequest is the payload for posting a message to a match.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// UnreadSummary breaks a user's unread messages down by conversation.
type UnreadSummary struct {
	Total   int           `json:"total"`
	ByMatch map[int64]int `json:"by_match"`
}

// WebSocket event types pushed to connected peers.
const (
	WSTypeMessage = "message"
	WSTypeRead    = "read"
	WSTypeTyping  = "typing"
	WSTypeDeleted = "message_deleted"
)

// WSMessage is the envelope for every websocket frame.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ReadEvent notifies a sender that their messages in a match were read.
type ReadEvent struct {
	MatchID  int64 `json:"match_id"`
	ReaderID int64 `json:"reader_id"`
}

// DeleteEvent tells the receiver a message was removed by its sender.
type DeleteEvent struct {
	MatchID   int64 `json:"match_id"`
	MessageID int64 `json:"message_id"`
}

// TypingEvent relays a typing indicator to the match partner.
type TypingEvent struct {
	MatchID int64 `json:"match_id"`
	UserID  int64 `json:"user_id"`
	Typing  bool  `json:"typing"`
}
