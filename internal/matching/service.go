// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"sort"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

var (
	ErrSelfAction     = errors.New("cannot perform this action on your own profile")
	ErrNotParticipant = errors.New("you are not part of this match")
	ErrMatchInactive  = errors.New("match is no longer active")
	ErrInvalidAction  = errors.New("unknown match action")
)

type Service interface {
	ScoreCompatibility(ctx context.Context, userID, targetID int64) (*CompatibilityResult, error)
	Like(ctx context.Context, likerID, targetID int64) (*LikeResult, error)
	Dislike(ctx context.Context, userID, targetID int64) error
	GetCandidates(ctx context.Context, userID int64, filters *CandidateFilters) ([]*Candidate, error)
	GetMatches(ctx context.Context, userID int64, page, limit int) ([]*MatchSummary, int, error)
	GetMatch(ctx context.Context, userID, matchID int64) (*MatchSummary, error)
	UpdateMatch(ctx context.Context, userID, matchID int64, action string) (*Match, error)
	GetStats(ctx context.Context, userID int64) (*MatchStats, error)
}

type service struct {
	repo           Repository
	candidateLimit int
}

func NewService(repo Repository, candidateLimit int) Service {
	if candidateLimit <= 0 {
		candidateLimit = 10
	}
	return &service{repo: repo, candidateLimit: candidateLimit}
}

// candidatePoolSize caps how many pre-scored profiles are pulled from
// storage per feed request.
const candidatePoolSize = 100

func (s *service) ScoreCompatibility(ctx context.Context, userID, targetID int64) (*CompatibilityResult, error) {
	if userID == targetID {
		return nil, ErrSelfAction
	}
	self, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.repo.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}
	result := Score(self, other)
	observeCompatibilityScore(result.Total)
	return &result, nil
}

// Like records the like and, when the target has already liked back,
// creates the match. A repeated like from the same side is rejected
// with ErrAlreadyLiked rather than silently accepted. A concurrent
// reciprocal like that loses the insert race is translated into the
// same matched response the winner got.
func (s *service) Like(ctx context.Context, likerID, targetID int64) (*LikeResult, error) {
	if likerID == targetID {
		return nil, ErrSelfAction
	}

	liker, err := s.repo.GetProfile(ctx, likerID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddLike(ctx, likerID, targetID); err != nil {
		return nil, err
	}
	likesTotal.Inc()

	reciprocal, err := s.repo.HasLiked(ctx, targetID, likerID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return &LikeResult{Matched: false}, nil
	}

	compat := Score(liker, target)
	observeCompatibilityScore(compat.Total)

	match := &Match{
		User1ID:     likerID,
		User2ID:     targetID,
		Status:      StatusMatched,
		InitiatedBy: likerID,
		Score:       compat.Total,
		CompatibilityFactors: compat.Factors,
	}
	if match.User1ID > match.User2ID {
		match.User1ID, match.User2ID = match.User2ID, match.User1ID
	}

	if err := s.repo.CreateMatch(ctx, match); err != nil {
		if errors.Is(err, ErrMatchExists) {
			existing, ferr := s.repo.FindMatchByPair(ctx, likerID, targetID)
			if ferr != nil {
				return nil, ferr
			}
			score := existing.Score
			return &LikeResult{Matched: true, MatchID: &existing.ID, Score: &score}, nil
		}
		return nil, err
	}
	matchesTotal.Inc()

	score := match.Score
	return &LikeResult{Matched: true, MatchID: &match.ID, Score: &score}, nil
}

func (s *service) Dislike(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return ErrSelfAction
	}
	if _, err := s.repo.GetProfile(ctx, userID); err != nil {
		return err
	}
	if _, err := s.repo.GetProfile(ctx, targetID); err != nil {
		return err
	}
	if err := s.repo.AddDislike(ctx, userID, targetID); err != nil {
		return err
	}
	dislikesTotal.Inc()
	return nil
}

// GetCandidates scores the hard-filtered pool and returns it sorted by
// descending compatibility, ties broken by most recent activity.
func (s *service) GetCandidates(ctx context.Context, userID int64, filters *CandidateFilters) ([]*Candidate, error) {
	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.FindCandidates(ctx, requester, filters, candidatePoolSize)
	if err != nil {
		return nil, err
	}

	candidates := make([]*Candidate, 0, len(pool))
	for _, p := range pool {
		candidates = append(candidates, &Candidate{
			Profile:       p,
			Compatibility: Score(requester, p),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Compatibility.Total != candidates[j].Compatibility.Total {
			return candidates[i].Compatibility.Total > candidates[j].Compatibility.Total
		}
		return candidates[i].Profile.LastActive.After(candidates[j].Profile.LastActive)
	})

	limit := s.candidateLimit
	if filters != nil && filters.Limit > 0 {
		limit = filters.Limit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	candidateFeedsTotal.Inc()
	return candidates, nil
}

func (s *service) GetMatches(ctx context.Context, userID int64, page, limit int) ([]*MatchSummary, int, error) {
	matches, total, err := s.repo.ListMatches(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*MatchSummary, 0, len(matches))
	for _, m := range matches {
		partner, err := s.repo.GetProfile(ctx, m.PartnerID(userID))
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				continue
			}
			return nil, 0, err
		}
		summaries = append(summaries, &MatchSummary{Match: m, Partner: partner})
	}
	return summaries, total, nil
}

func (s *service) GetMatch(ctx context.Context, userID, matchID int64) (*MatchSummary, error) {
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.Involves(userID) {
		return nil, ErrNotParticipant
	}
	partner, err := s.repo.GetProfile(ctx, m.PartnerID(userID))
	if err != nil {
		return nil, err
	}
	return &MatchSummary{Match: m, Partner: partner}, nil
}

// UpdateMatch transitions an existing match. Declining keeps the row
// active but flags it declined; unmatching deactivates it so both
// sides drop out of each other's match list and matched-set exclusions.
func (s *service) UpdateMatch(ctx context.Context, userID, matchID int64, action string) (*Match, error) {
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.Involves(userID) {
		return nil, ErrNotParticipant
	}
	if !m.IsActive {
		return nil, ErrMatchInactive
	}

	switch action {
	case ActionDecline:
		if err := s.repo.SetMatchStatus(ctx, matchID, StatusDeclined); err != nil {
			return nil, err
		}
	case ActionUnmatch:
		if err := s.repo.DeactivateMatch(ctx, matchID); err != nil {
			return nil, err
		}
		unmatchesTotal.Inc()
	default:
		return nil, ErrInvalidAction
	}

	return s.repo.GetMatch(ctx, matchID)
}

func (s *service) GetStats(ctx context.Context, userID int64) (*MatchStats, error) {
	return s.repo.Stats(ctx, userID)
}
