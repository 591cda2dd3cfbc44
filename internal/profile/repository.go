// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID int64) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	TouchLastActive(ctx context.Context, userID int64) error
	List(ctx context.Context, requesterID int64, filters *ListFilters) ([]*Profile, int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
        INSERT INTO profiles (
            user_id, name, avatar, university, course, graduation_year,
            age, gender, bio, interests, lifestyle, location, budget,
            preferences, is_active, last_active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, TRUE, CURRENT_TIMESTAMP)
        ON CONFLICT (user_id) DO UPDATE SET
            name = $2, avatar = $3, university = $4, course = $5,
            graduation_year = $6, age = $7, gender = $8, bio = $9,
            interests = $10, lifestyle = $11, location = $12, budget = $13,
            preferences = $14, updated_at = CURRENT_TIMESTAMP
        RETURNING id, is_active, last_active, created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.Name, p.Avatar, p.University, p.Course, p.GraduationYear,
		p.Age, p.Gender, p.Bio, p.Interests, p.Lifestyle, p.Location,
		p.Budget, p.Preferences,
	).Scan(&p.ID, &p.IsActive, &p.LastActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	query := `SELECT * FROM profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *Profile) error {
	query := `
        UPDATE profiles
        SET university = $2, course = $3, graduation_year = $4, age = $5,
            bio = $6, interests = $7, lifestyle = $8, location = $9,
            budget = $10, preferences = $11, is_active = $12,
            updated_at = CURRENT_TIMESTAMP
        WHERE user_id = $1
        RETURNING updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.University, p.Course, p.GraduationYear, p.Age,
		p.Bio, p.Interests, p.Lifestyle, p.Location, p.Budget,
		p.Preferences, p.IsActive,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}

	return err
}

func (r *postgresRepository) TouchLastActive(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET last_active = CURRENT_TIMESTAMP WHERE user_id = $1`, userID)
	return err
}

// List returns active profiles matching the directory filters, excluding the
// requester and anyone the requester has already liked, disliked, or matched.
func (r *postgresRepository) List(ctx context.Context, requesterID int64, filters *ListFilters) ([]*Profile, int, error) {
	conditions := []string{
		"p.is_active = TRUE",
		"p.user_id <> $1",
		"p.user_id NOT IN (SELECT target_id FROM profile_likes WHERE user_id = $1)",
		"p.user_id NOT IN (SELECT target_id FROM profile_dislikes WHERE user_id = $1)",
		`p.user_id NOT IN (
            SELECT CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
            FROM matches m
            WHERE (m.user1_id = $1 OR m.user2_id = $1)
              AND m.is_active = TRUE AND m.status = 'matched'
        )`,
	}
	args := []interface{}{requesterID}

	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.University != "" {
		conditions = append(conditions, "p.university ILIKE "+addArg("%"+filters.University+"%"))
	}
	if filters.Course != "" {
		conditions = append(conditions, "p.course ILIKE "+addArg("%"+filters.Course+"%"))
	}
	if filters.City != "" {
		conditions = append(conditions, "p.location->>'city' ILIKE "+addArg(filters.City))
	}
	if filters.Gender != "" {
		conditions = append(conditions, "p.gender = "+addArg(filters.Gender))
	}
	if filters.MinAge > 0 {
		conditions = append(conditions, "p.age >= "+addArg(filters.MinAge))
	}
	if filters.MaxAge > 0 {
		conditions = append(conditions, "p.age <= "+addArg(filters.MaxAge))
	}
	if filters.MinBudget > 0 {
		conditions = append(conditions, "(p.budget->>'max')::int >= "+addArg(filters.MinBudget))
	}
	if filters.MaxBudget > 0 {
		conditions = append(conditions, "(p.budget->>'min')::int <= "+addArg(filters.MaxBudget))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM profiles p WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(
		"SELECT p.* FROM profiles p WHERE %s ORDER BY p.last_active DESC LIMIT %s OFFSET %s",
		where, addArg(limit), addArg((page-1)*limit),
	)

	profiles := []*Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
