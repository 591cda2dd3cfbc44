// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/uniroomhq/uniroom-backend/internal/matching"
)

var (
	ErrMatchNotActive      = errors.New("conversation is closed")
	ErrNotParticipant      = errors.New("you are not part of this conversation")
	ErrNotMessageSender    = errors.New("only the sender can delete a message")
	ErrDeleteWindowExpired = errors.New("messages can only be deleted within 10 minutes")
)

// Senders can retract a message for this long after sending it.
const deleteWindow = 10 * time.Minute

type Service interface {
	SendMessage(ctx context.Context, senderID, matchID int64, req *SendMessageRequest) (*Message, error)
	GetMessages(ctx context.Context, userID, matchID int64, page, limit int) ([]*Message, int, error)
	DeleteMessage(ctx context.Context, userID, messageID int64) error
	UnreadCount(ctx context.Context, userID int64) (*UnreadSummary, error)
	NotifyTyping(ctx context.Context, userID, matchID int64, typing bool) error
}

type service struct {
	repo    Repository
	matches matching.Repository
	hub     *Hub
}

// NewService wires the message store to the match store. hub may be
// nil; realtime delivery is then skipped and messages are only
// persisted.
func NewService(repo Repository, matches matching.Repository, hub *Hub) Service {
	return &service{repo: repo, matches: matches, hub: hub}
}

// SendMessage persists a message in a conversation the sender belongs
// to and pushes it to the receiver when they are online.
func (s *service) SendMessage(ctx context.Context, senderID, matchID int64, req *SendMessageRequest) (*Message, error) {
	match, err := s.conversation(ctx, senderID, matchID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		MatchID:     matchID,
		SenderID:    senderID,
		ReceiverID:  match.PartnerID(senderID),
		Content:     req.Content,
		MessageType: TypeText,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	messagesSentTotal.Inc()

	summary := &matching.LastMessage{
		SenderID: senderID,
		Content:  msg.Content,
		SentAt:   msg.CreatedAt,
	}
	if err := s.matches.UpdateLastMessage(ctx, matchID, summary); err != nil {
		return nil, err
	}

	if s.hub != nil && s.hub.SendEvent(msg.ReceiverID, WSTypeMessage, msg) {
		now := time.Now()
		msg.DeliveredAt = &now
		if err := s.repo.MarkDelivered(ctx, msg.ID); err != nil {
			return nil, err
		}
	}

	return msg, nil
}

// GetMessages returns one page of the conversation and marks every
// message addressed to the caller as read, notifying the partner.
func (s *service) GetMessages(ctx context.Context, userID, matchID int64, page, limit int) ([]*Message, int, error) {
	match, err := s.conversation(ctx, userID, matchID)
	if err != nil {
		return nil, 0, err
	}

	messages, total, err := s.repo.ListByMatch(ctx, matchID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	marked, err := s.repo.MarkReadForReceiver(ctx, matchID, userID)
	if err != nil {
		return nil, 0, err
	}
	if marked > 0 && s.hub != nil {
		s.hub.SendEvent(match.PartnerID(userID), WSTypeRead, ReadEvent{
			MatchID:  matchID,
			ReaderID: userID,
		})
	}

	return messages, total, nil
}

// DeleteMessage removes a message its sender regrets. Only the sender
// may delete, and only within the delete window; the receiver is told
// so their client can drop the bubble.
func (s *service) DeleteMessage(ctx context.Context, userID, messageID int64) error {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return ErrNotMessageSender
	}
	if time.Since(msg.CreatedAt) > deleteWindow {
		return ErrDeleteWindowExpired
	}

	if err := s.repo.Delete(ctx, messageID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendEvent(msg.ReceiverID, WSTypeDeleted, DeleteEvent{
			MatchID:   msg.MatchID,
			MessageID: msg.ID,
		})
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, userID int64) (*UnreadSummary, error) {
	byMatch, err := s.repo.UnreadByMatch(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range byMatch {
		total += count
	}
	return &UnreadSummary{Total: total, ByMatch: byMatch}, nil
}

func (s *service) NotifyTyping(ctx context.Context, userID, matchID int64, typing bool) error {
	match, err := s.conversation(ctx, userID, matchID)
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.SendEvent(match.PartnerID(userID), WSTypeTyping, TypingEvent{
			MatchID: matchID,
			UserID:  userID,
			Typing:  typing,
		})
	}
	return nil
}

// conversation resolves a match and checks the caller may chat in it.
func (s *service) conversation(ctx context.Context, userID, matchID int64) (*matching.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, ErrNotParticipant
	}
	if !match.IsActive || match.Status != matching.StatusMatched {
		return nil, ErrMatchNotActive
	}
	return match, nil
}
