// internal/messaging/service_test.go

package messaging

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniroomhq/uniroom-backend/internal/matching"
	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

type memoryMessageRepo struct {
	mu       sync.Mutex
	messages []*Message
	nextID   int64
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{nextID: 1}
}

func (r *memoryMessageRepo) Create(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	msg.CreatedAt = time.Now()
	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *memoryMessageRepo) ListByMatch(_ context.Context, matchID int64, page, limit int) ([]*Message, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := []*Message{}
	for _, m := range r.messages {
		if m.MatchID == matchID {
			copied := *m
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	total := len(all)
	start := total - page*limit
	end := start + limit
	if end < 0 {
		return []*Message{}, total, nil
	}
	if start < 0 {
		start = 0
	}
	return all[start:end], total, nil
}

func (r *memoryMessageRepo) MarkReadForReceiver(_ context.Context, matchID, receiverID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var marked int64
	now := time.Now()
	for _, m := range r.messages {
		if m.MatchID == matchID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &now
			marked++
		}
	}
	return marked, nil
}

func (r *memoryMessageRepo) GetMessage(_ context.Context, messageID int64) (*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.ID == messageID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, ErrMessageNotFound
}

func (r *memoryMessageRepo) Delete(_ context.Context, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.messages {
		if m.ID == messageID {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return ErrMessageNotFound
}

func (r *memoryMessageRepo) UnreadByMatch(_ context.Context, userID int64) (map[int64]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byMatch := map[int64]int{}
	for _, m := range r.messages {
		if m.ReceiverID == userID && !m.IsRead {
			byMatch[m.MatchID]++
		}
	}
	return byMatch, nil
}

// backdate shifts a stored message's creation time for window tests.
func (r *memoryMessageRepo) backdate(messageID int64, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.ID == messageID {
			m.CreatedAt = m.CreatedAt.Add(-d)
		}
	}
}

func (r *memoryMessageRepo) MarkDelivered(_ context.Context, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, m := range r.messages {
		if m.ID == messageID && m.DeliveredAt == nil {
			m.DeliveredAt = &now
		}
	}
	return nil
}

func setupConversation(t *testing.T) (Service, *memoryMessageRepo, matching.Repository, int64) {
	t.Helper()
	matches := matching.NewMemoryRepository()
	matches.SeedProfile(&profile.Profile{UserID: 1, Age: 22, IsActive: true})
	matches.SeedProfile(&profile.Profile{UserID: 2, Age: 23, IsActive: true})

	match := &matching.Match{User1ID: 1, User2ID: 2, Status: matching.StatusMatched, InitiatedBy: 1, Score: 80}
	require.NoError(t, matches.CreateMatch(context.Background(), match))

	repo := newMemoryMessageRepo()
	svc := NewService(repo, matches, nil)
	return svc, repo, matches, match.ID
}

func TestSendMessage(t *testing.T) {
	svc, _, matches, matchID := setupConversation(t)
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "hey, still looking for a roommate?"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), msg.ReceiverID)
	assert.Equal(t, TypeText, msg.MessageType)
	assert.False(t, msg.IsRead)

	// the match carries the summary
	match, err := matches.GetMatch(ctx, matchID)
	require.NoError(t, err)
	require.NotNil(t, match.LastMessage)
	assert.Equal(t, int64(1), match.LastMessage.SenderID)
	assert.Equal(t, msg.Content, match.LastMessage.Content)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	svc, _, _, matchID := setupConversation(t)

	_, err := svc.SendMessage(context.Background(), 3, matchID, &SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.SendMessage(context.Background(), 1, 999, &SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, matching.ErrMatchNotFound)
}

func TestSendMessageClosedConversation(t *testing.T) {
	svc, _, matches, matchID := setupConversation(t)
	ctx := context.Background()

	require.NoError(t, matches.DeactivateMatch(ctx, matchID))

	_, err := svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrMatchNotActive)
}

func TestGetMessagesMarksRead(t *testing.T) {
	svc, _, _, matchID := setupConversation(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "first"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "second"})
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, unread.Total)
	assert.Equal(t, 2, unread.ByMatch[matchID])

	messages, total, err := svc.GetMessages(ctx, 2, matchID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)

	unread, err = svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, unread.Total)

	// the sender's own fetch marks nothing
	unread, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, unread.Total)
}

func TestDeleteMessage(t *testing.T) {
	svc, _, _, matchID := setupConversation(t)
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "typo everywhere"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMessage(ctx, 1, msg.ID))

	unread, err := svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, unread.Total)

	messages, total, err := svc.GetMessages(ctx, 2, matchID, 1, 50)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, messages)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, 1, msg.ID), ErrMessageNotFound)
}

func TestDeleteMessageOnlySender(t *testing.T) {
	svc, _, _, matchID := setupConversation(t)
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, 2, msg.ID), ErrNotMessageSender)
}

func TestDeleteMessageWindowExpired(t *testing.T) {
	svc, repo, _, matchID := setupConversation(t)
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, matchID, &SendMessageRequest{Content: "hi"})
	require.NoError(t, err)

	repo.backdate(msg.ID, 11*time.Minute)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, 1, msg.ID), ErrDeleteWindowExpired)
}

func TestUnreadSummaryByMatch(t *testing.T) {
	matches := matching.NewMemoryRepository()
	for id := int64(1); id <= 3; id++ {
		matches.SeedProfile(&profile.Profile{UserID: id, Age: 22, IsActive: true})
	}

	first := &matching.Match{User1ID: 1, User2ID: 2, Status: matching.StatusMatched, InitiatedBy: 1, Score: 80}
	require.NoError(t, matches.CreateMatch(context.Background(), first))
	second := &matching.Match{User1ID: 1, User2ID: 3, Status: matching.StatusMatched, InitiatedBy: 3, Score: 70}
	require.NoError(t, matches.CreateMatch(context.Background(), second))

	svc := NewService(newMemoryMessageRepo(), matches, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 2, first.ID, &SendMessageRequest{Content: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 3, second.ID, &SendMessageRequest{Content: "two"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 3, second.ID, &SendMessageRequest{Content: "three"})
	require.NoError(t, err)

	summary, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.ByMatch[first.ID])
	assert.Equal(t, 2, summary.ByMatch[second.ID])
}
