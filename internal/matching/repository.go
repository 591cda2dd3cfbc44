// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrAlreadyLiked    = errors.New("profile already liked")
	ErrAlreadyDisliked = errors.New("profile already disliked")
	// ErrMatchExists is the storage-level unique violation on the pair;
	// the service translates it into an idempotent already-matched result.
	ErrMatchExists = errors.New("match already exists for this pair")
)

type Repository interface {
	GetProfile(ctx context.Context, userID int64) (*profile.Profile, error)

	AddLike(ctx context.Context, userID, targetID int64) error
	HasLiked(ctx context.Context, userID, targetID int64) (bool, error)
	AddDislike(ctx context.Context, userID, targetID int64) error

	CreateMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, id int64) (*Match, error)
	FindMatchByPair(ctx context.Context, a, b int64) (*Match, error)
	ListMatches(ctx context.Context, userID int64, page, limit int) ([]*Match, int, error)
	SetMatchStatus(ctx context.Context, id int64, status string) error
	DeactivateMatch(ctx context.Context, id int64) error
	UpdateLastMessage(ctx context.Context, matchID int64, lm *LastMessage) error

	FindCandidates(ctx context.Context, requester *profile.Profile, filters *CandidateFilters, pool int) ([]*profile.Profile, error)
	Stats(ctx context.Context, userID int64) (*MatchStats, error)
}

type postgresRepository struct {
	db       *sqlx.DB
	profiles profile.Repository
}

func NewPostgresRepository(db *sqlx.DB, profiles profile.Repository) Repository {
	return &postgresRepository{db: db, profiles: profiles}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*profile.Profile, error) {
	return r.profiles.GetByUserID(ctx, userID)
}

func (r *postgresRepository) AddLike(ctx context.Context, userID, targetID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_likes (user_id, target_id) VALUES ($1, $2)`,
		userID, targetID)
	if isUniqueViolation(err) {
		return ErrAlreadyLiked
	}
	return err
}

func (r *postgresRepository) HasLiked(ctx context.Context, userID, targetID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM profile_likes WHERE user_id = $1 AND target_id = $2)`,
		userID, targetID)
	return exists, err
}

func (r *postgresRepository) AddDislike(ctx context.Context, userID, targetID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_dislikes (user_id, target_id) VALUES ($1, $2)`,
		userID, targetID)
	if isUniqueViolation(err) {
		return ErrAlreadyDisliked
	}
	return err
}

func (r *postgresRepository) CreateMatch(ctx context.Context, m *Match) error {
	query := `
		INSERT INTO matches (
			user1_id, user2_id, status, initiated_by, matched_at,
			score, score_lifestyle, score_interests, score_budget,
			score_location, score_preferences, is_active
		) VALUES (
			$1, $2, $3, $4, NOW(),
			$5, $6, $7, $8, $9, $10, true
		)
		RETURNING id, matched_at, is_active, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		m.User1ID, m.User2ID, m.Status, m.InitiatedBy,
		m.Score, m.Lifestyle, m.Interests, m.Budget,
		m.Location, m.Preferences,
	).Scan(&m.ID, &m.MatchedAt, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrMatchExists
	}
	return err
}

func (r *postgresRepository) GetMatch(ctx context.Context, id int64) (*Match, error) {
	var m Match
	err := r.db.GetContext(ctx, &m, `SELECT * FROM matches WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepository) FindMatchByPair(ctx context.Context, a, b int64) (*Match, error) {
	if a > b {
		a, b = b, a
	}
	var m Match
	err := r.db.GetContext(ctx, &m,
		`SELECT * FROM matches WHERE user1_id = $1 AND user2_id = $2`, a, b)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepository) ListMatches(ctx context.Context, userID int64, page, limit int) ([]*Match, int, error) {
	where := `(user1_id = $1 OR user2_id = $1) AND is_active = true AND status = 'matched'`

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM matches WHERE `+where, userID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	matches := []*Match{}
	err := r.db.SelectContext(ctx, &matches,
		`SELECT * FROM matches WHERE `+where+` ORDER BY matched_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *postgresRepository) SetMatchStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *postgresRepository) DeactivateMatch(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *postgresRepository) UpdateLastMessage(ctx context.Context, matchID int64, lm *LastMessage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET last_message = $1, updated_at = NOW() WHERE id = $2`, lm, matchID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// FindCandidates applies the hard filters: active profiles only, never
// the requester, never anyone already liked, disliked, or actively
// matched, only the requester's city, and the requester's stated
// gender/age preferences.
func (r *postgresRepository) FindCandidates(ctx context.Context, requester *profile.Profile, _ *CandidateFilters, pool int) ([]*profile.Profile, error) {
	conditions := []string{
		"p.is_active = true",
		"p.user_id <> $1",
		"p.user_id NOT IN (SELECT target_id FROM profile_likes WHERE user_id = $1)",
		"p.user_id NOT IN (SELECT target_id FROM profile_dislikes WHERE user_id = $1)",
		`p.user_id NOT IN (
			SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
			FROM matches
			WHERE (user1_id = $1 OR user2_id = $1)
			  AND is_active = true AND status = 'matched')`,
	}
	args := []interface{}{requester.UserID}

	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch requester.Preferences.GenderPreference {
	case "same":
		conditions = append(conditions, "p.gender = "+addArg(requester.Gender))
	case "different":
		conditions = append(conditions, "p.gender <> "+addArg(requester.Gender))
	}

	if ar := requester.Preferences.AgeRange; ar.Min > 0 || ar.Max > 0 {
		if ar.Min > 0 {
			conditions = append(conditions, "p.age >= "+addArg(ar.Min))
		}
		if ar.Max > 0 {
			conditions = append(conditions, "p.age <= "+addArg(ar.Max))
		}
	}

	if requester.Location.City != "" {
		conditions = append(conditions, "p.location->>'city' = "+addArg(requester.Location.City))
	}

	query := `SELECT p.* FROM profiles p WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY p.last_active DESC LIMIT ` + addArg(pool)

	candidates := []*profile.Profile{}
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *postgresRepository) Stats(ctx context.Context, userID int64) (*MatchStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM matches WHERE user1_id = $1 OR user2_id = $1) AS total_matches,
			(SELECT COUNT(*) FROM matches WHERE (user1_id = $1 OR user2_id = $1)
				AND is_active = true AND status = 'matched') AS active_matches,
			(SELECT COUNT(*) FROM matches WHERE (user1_id = $1 OR user2_id = $1)
				AND status = 'declined') AS declined_matches,
			(SELECT COUNT(*) FROM profile_likes WHERE user_id = $1) AS likes_given,
			(SELECT COUNT(*) FROM profile_dislikes WHERE user_id = $1) AS dislikes_given,
			(SELECT COUNT(*) FROM matches WHERE (user1_id = $1 OR user2_id = $1)
				AND is_active = true AND status = 'matched' AND score >= 80) AS high_compat,
			(SELECT COUNT(*) FROM matches WHERE (user1_id = $1 OR user2_id = $1)
				AND is_active = true AND status = 'matched' AND score >= 60 AND score < 80) AS medium_compat,
			(SELECT COUNT(*) FROM matches WHERE (user1_id = $1 OR user2_id = $1)
				AND is_active = true AND status = 'matched' AND score < 60) AS low_compat`

	var stats MatchStats
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMatchNotFound
	}
	return nil
}
