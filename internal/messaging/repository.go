// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrMessageNotFound = errors.New("message not found")

type Repository interface {
	Create(ctx context.Context, msg *Message) error
	GetMessage(ctx context.Context, messageID int64) (*Message, error)
	Delete(ctx context.Context, messageID int64) error
	ListByMatch(ctx context.Context, matchID int64, page, limit int) ([]*Message, int, error)
	MarkReadForReceiver(ctx context.Context, matchID, receiverID int64) (int64, error)
	UnreadByMatch(ctx context.Context, userID int64) (map[int64]int, error)
	MarkDelivered(ctx context.Context, messageID int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (match_id, sender_id, receiver_id, content, message_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at`

	return r.db.QueryRowxContext(ctx, query,
		msg.MatchID, msg.SenderID, msg.ReceiverID, msg.Content, msg.MessageType,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
}

func (r *postgresRepository) GetMessage(ctx context.Context, messageID int64) (*Message, error) {
	msg := &Message{}
	err := r.db.GetContext(ctx, msg, `SELECT * FROM messages WHERE id = $1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *postgresRepository) Delete(ctx context.Context, messageID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, messageID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ListByMatch returns one page of a conversation, oldest first within
// the page, newest pages first.
func (r *postgresRepository) ListByMatch(ctx context.Context, matchID int64, page, limit int) ([]*Message, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM messages WHERE match_id = $1`, matchID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	messages := []*Message{}
	query := `
		SELECT * FROM (
			SELECT * FROM messages WHERE match_id = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3
		) page ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &messages, query, matchID, limit, offset); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *postgresRepository) MarkReadForReceiver(ctx context.Context, matchID, receiverID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = true, read_at = NOW()
		WHERE match_id = $1 AND receiver_id = $2 AND is_read = false`,
		matchID, receiverID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepository) UnreadByMatch(ctx context.Context, userID int64) (map[int64]int, error) {
	rows := []struct {
		MatchID int64 `db:"match_id"`
		Count   int   `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT match_id, COUNT(*) AS count
		FROM messages
		WHERE receiver_id = $1 AND is_read = false
		GROUP BY match_id`, userID)
	if err != nil {
		return nil, err
	}

	byMatch := make(map[int64]int, len(rows))
	for _, row := range rows {
		byMatch[row.MatchID] = row.Count
	}
	return byMatch, nil
}

func (r *postgresRepository) MarkDelivered(ctx context.Context, messageID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET delivered_at = NOW() WHERE id = $1 AND delivered_at IS NULL`,
		messageID)
	return err
}
