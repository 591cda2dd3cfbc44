// internal/matching/memory.go

package matching

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

// memoryRepository is an in-process Repository used by tests and local
// development. It enforces the same invariants the postgres schema
// does: like/dislike pairs are unique and at most one match row exists
// per unordered pair.
type memoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]*profile.Profile
	likes    map[int64]map[int64]bool
	dislikes map[int64]map[int64]bool
	matches  map[int64]*Match
	nextID   int64
}

func NewMemoryRepository() *memoryRepository {
	return &memoryRepository{
		profiles: make(map[int64]*profile.Profile),
		likes:    make(map[int64]map[int64]bool),
		dislikes: make(map[int64]map[int64]bool),
		matches:  make(map[int64]*Match),
		nextID:   1,
	}
}

// SeedProfile registers a profile keyed by its user id.
func (r *memoryRepository) SeedProfile(p *profile.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
}

func (r *memoryRepository) GetProfile(_ context.Context, userID int64) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (r *memoryRepository) AddLike(_ context.Context, userID, targetID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[userID][targetID] {
		return ErrAlreadyLiked
	}
	if r.likes[userID] == nil {
		r.likes[userID] = make(map[int64]bool)
	}
	r.likes[userID][targetID] = true
	return nil
}

func (r *memoryRepository) HasLiked(_ context.Context, userID, targetID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.likes[userID][targetID], nil
}

func (r *memoryRepository) AddDislike(_ context.Context, userID, targetID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dislikes[userID][targetID] {
		return ErrAlreadyDisliked
	}
	if r.dislikes[userID] == nil {
		r.dislikes[userID] = make(map[int64]bool)
	}
	r.dislikes[userID][targetID] = true
	return nil
}

func (r *memoryRepository) CreateMatch(_ context.Context, m *Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.matches {
		if existing.User1ID == m.User1ID && existing.User2ID == m.User2ID {
			return ErrMatchExists
		}
	}
	now := time.Now()
	m.ID = r.nextID
	r.nextID++
	m.MatchedAt = now
	m.IsActive = true
	m.CreatedAt = now
	m.UpdatedAt = now
	stored := *m
	r.matches[m.ID] = &stored
	return nil
}

func (r *memoryRepository) GetMatch(_ context.Context, id int64) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *memoryRepository) FindMatchByPair(_ context.Context, a, b int64) (*Match, error) {
	if a > b {
		a, b = b, a
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.matches {
		if m.User1ID == a && m.User2ID == b {
			copied := *m
			return &copied, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (r *memoryRepository) ListMatches(_ context.Context, userID int64, page, limit int) ([]*Match, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*Match{}
	for _, m := range r.matches {
		if m.Involves(userID) && m.IsActive && m.Status == StatusMatched {
			copied := *m
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].MatchedAt.After(all[j].MatchedAt)
	})

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []*Match{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *memoryRepository) SetMatchStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return ErrMatchNotFound
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepository) DeactivateMatch(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return ErrMatchNotFound
	}
	m.IsActive = false
	m.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepository) UpdateLastMessage(_ context.Context, matchID int64, lm *LastMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return ErrMatchNotFound
	}
	m.LastMessage = lm
	m.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepository) FindCandidates(_ context.Context, requester *profile.Profile, _ *CandidateFilters, pool int) ([]*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make(map[int64]bool)
	for _, m := range r.matches {
		if m.Involves(requester.UserID) && m.IsActive && m.Status == StatusMatched {
			matched[m.PartnerID(requester.UserID)] = true
		}
	}

	out := []*profile.Profile{}
	for _, p := range r.profiles {
		if p.UserID == requester.UserID || !p.IsActive {
			continue
		}
		if r.likes[requester.UserID][p.UserID] || r.dislikes[requester.UserID][p.UserID] || matched[p.UserID] {
			continue
		}
		if !candidatePassesHardFilters(requester, p) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActive.After(out[j].LastActive)
	})
	if len(out) > pool {
		out = out[:pool]
	}
	return out, nil
}

func candidatePassesHardFilters(requester, p *profile.Profile) bool {
	switch requester.Preferences.GenderPreference {
	case "same":
		if p.Gender != requester.Gender {
			return false
		}
	case "different":
		if p.Gender == requester.Gender {
			return false
		}
	}
	if ar := requester.Preferences.AgeRange; ar.Min > 0 || ar.Max > 0 {
		if ar.Min > 0 && p.Age < ar.Min {
			return false
		}
		if ar.Max > 0 && p.Age > ar.Max {
			return false
		}
	}
	if requester.Location.City != "" && p.Location.City != requester.Location.City {
		return false
	}
	return true
}

func (r *memoryRepository) Stats(_ context.Context, userID int64) (*MatchStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &MatchStats{
		LikesGiven:    len(r.likes[userID]),
		DislikesGiven: len(r.dislikes[userID]),
	}
	for _, m := range r.matches {
		if !m.Involves(userID) {
			continue
		}
		stats.TotalMatches++
		if m.Status == StatusDeclined {
			stats.DeclinedMatches++
		}
		if m.IsActive && m.Status == StatusMatched {
			stats.ActiveMatches++
			switch {
			case m.Score >= 80:
				stats.HighCompat++
			case m.Score >= 60:
				stats.MediumCompat++
			default:
				stats.LowCompat++
			}
		}
	}
	return stats, nil
}
