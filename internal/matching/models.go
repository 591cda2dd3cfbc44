// internal/matching/models.go

package matching

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

// Match statuses.
const (
	StatusMatched  = "matched"
	StatusDeclined = "declined"
)

// Actions accepted by UpdateMatch.
const (
	ActionDecline = "decline"
	ActionUnmatch = "unmatch"
)

// LastMessage is a denormalized summary of the newest chat message,
// kept on the match row so conversation lists avoid a join.
type LastMessage struct {
	SenderID int64     `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

func (m LastMessage) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *LastMessage) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}

// Match is created exactly once per unordered pair when the second,
// reciprocal like lands. User1ID is always the smaller of the two ids.
// A match is never deleted: declining sets Status, unmatching clears
// IsActive.
type Match struct {
	ID          int64     `json:"id" db:"id"`
	User1ID     int64     `json:"user1_id" db:"user1_id"`
	User2ID     int64     `json:"user2_id" db:"user2_id"`
	Status      string    `json:"status" db:"status"`
	InitiatedBy int64     `json:"initiated_by" db:"initiated_by"`
	MatchedAt   time.Time `json:"matched_at" db:"matched_at"`
	Score       int       `json:"score" db:"score"`

	// factor sub-scores snapshotted at creation time
	CompatibilityFactors

	LastMessage *LastMessage `json:"last_message,omitempty" db:"last_message"`
	IsActive    bool         `json:"is_active" db:"is_active"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// PartnerID returns the other side of the match for the given user.
func (m *Match) PartnerID(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// Involves reports whether userID is one of the two participants.
func (m *Match) Involves(userID int64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// LikeResult is returned by Like. MatchID and Score are set only when
// the like was reciprocal and a match was created (or already existed).
type LikeResult struct {
	Matched bool   `json:"matched"`
	MatchID *int64 `json:"match_id,omitempty"`
	Score   *int   `json:"score,omitempty"`
}

// MatchSummary pairs a match with the partner's profile for listing.
type MatchSummary struct {
	Match   *Match           `json:"match"`
	Partner *profile.Profile `json:"partner"`
}

// Candidate is a scored entry in the candidate feed.
type Candidate struct {
	Profile       *profile.Profile    `json:"profile"`
	Compatibility CompatibilityResult `json:"compatibility"`
}

// CandidateFilters narrow the feed before scoring. The requester's own
// stated preferences and city are always applied as hard filters on top.
type CandidateFilters struct {
	Limit int `json:"limit"`
}

// MatchStats aggregates a user's matching activity. The compatibility
// buckets split active matches at scores of 80 and 60.
type MatchStats struct {
	TotalMatches     int `json:"total_matches" db:"total_matches"`
	ActiveMatches    int `json:"active_matches" db:"active_matches"`
	DeclinedMatches  int `json:"declined_matches" db:"declined_matches"`
	LikesGiven       int `json:"likes_given" db:"likes_given"`
	DislikesGiven    int `json:"dislikes_given" db:"dislikes_given"`
	HighCompat       int `json:"high_compatibility" db:"high_compat"`
	MediumCompat     int `json:"medium_compatibility" db:"medium_compat"`
	LowCompat        int `json:"low_compatibility" db:"low_compat"`
}

// UpdateMatchRequest selects a state transition on an existing match.
type UpdateMatchRequest struct {
	Action string `json:"action" validate:"required,oneof=decline unmatch"`
}
