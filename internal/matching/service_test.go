// internal/matching/service_test.go

package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

func newTestService(t *testing.T, userIDs ...int64) (Service, *memoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	for _, id := range userIDs {
		repo.SeedProfile(testProfile(id))
	}
	return NewService(repo, 10), repo
}

func TestLikeWithoutReciprocal(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)

	result, err := svc.Like(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Nil(t, result.MatchID)
}

func TestReciprocalLikeCreatesOneMatch(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	first, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first.Matched)

	second, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, second.Matched)
	require.NotNil(t, second.MatchID)
	require.NotNil(t, second.Score)

	match, err := repo.GetMatch(ctx, *second.MatchID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, match.Status)
	assert.Equal(t, int64(2), match.InitiatedBy)
	assert.Less(t, match.User1ID, match.User2ID)
	assert.True(t, match.IsActive)
	assert.Equal(t, *second.Score, match.Score)

	// exactly one match row for the pair
	assert.Len(t, repo.matches, 1)
}

func TestDoubleLikeRejected(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.Like(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestSelfLikeRejected(t *testing.T) {
	svc, _ := newTestService(t, 1)

	_, err := svc.Like(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfAction)

	err = svc.Dislike(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfAction)
}

func TestLikeUnknownProfile(t *testing.T) {
	svc, _ := newTestService(t, 1)

	_, err := svc.Like(context.Background(), 1, 99)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

// When the insert race is lost the caller still gets the matched
// response instead of an error.
func TestLikeTranslatesConflictingMatch(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	// reciprocal like already recorded and the match row already exists,
	// as if the opposite direction won the race
	require.NoError(t, repo.AddLike(ctx, 2, 1))
	existing := &Match{User1ID: 1, User2ID: 2, Status: StatusMatched, InitiatedBy: 2, Score: 77}
	require.NoError(t, repo.CreateMatch(ctx, existing))

	result, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, result.Matched)
	require.NotNil(t, result.MatchID)
	assert.Equal(t, existing.ID, *result.MatchID)
	require.NotNil(t, result.Score)
	assert.Equal(t, 77, *result.Score)
	assert.Len(t, repo.matches, 1)
}

func TestDislikeNeverMatches(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Dislike(ctx, 2, 1))
	assert.Empty(t, repo.matches)

	err = svc.Dislike(ctx, 2, 1)
	assert.ErrorIs(t, err, ErrAlreadyDisliked)
}

func TestGetCandidatesExclusions(t *testing.T) {
	svc, _ := newTestService(t, 1, 2, 3, 4, 5, 6)
	ctx := context.Background()

	// 2: liked, 3: disliked, 4: matched
	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Dislike(ctx, 1, 3))

	_, err = svc.Like(ctx, 1, 4)
	require.NoError(t, err)
	matched, err := svc.Like(ctx, 4, 1)
	require.NoError(t, err)
	require.True(t, matched.Matched)

	candidates, err := svc.GetCandidates(ctx, 1, nil)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, c := range candidates {
		seen[c.Profile.UserID] = true
	}
	assert.False(t, seen[1], "feed must not contain the requester")
	assert.False(t, seen[2], "feed must not contain liked profiles")
	assert.False(t, seen[3], "feed must not contain disliked profiles")
	assert.False(t, seen[4], "feed must not contain matched profiles")
	assert.True(t, seen[5])
	assert.True(t, seen[6])
}

func TestGetCandidatesSkipsInactive(t *testing.T) {
	repo := NewMemoryRepository()
	repo.SeedProfile(testProfile(1))
	inactive := testProfile(2)
	inactive.IsActive = false
	repo.SeedProfile(inactive)
	svc := NewService(repo, 10)

	candidates, err := svc.GetCandidates(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGetCandidatesSortedByScore(t *testing.T) {
	repo := NewMemoryRepository()
	repo.SeedProfile(testProfile(1))

	weak := testProfile(2)
	weak.Lifestyle.SleepSchedule = "night-owl"
	weak.Lifestyle.Cleanliness = "messy"
	weak.Interests = []string{"gaming"}
	repo.SeedProfile(weak)

	strong := testProfile(3)
	repo.SeedProfile(strong)

	svc := NewService(repo, 10)
	candidates, err := svc.GetCandidates(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, int64(3), candidates[0].Profile.UserID)
	assert.Equal(t, int64(2), candidates[1].Profile.UserID)
	assert.Greater(t, candidates[0].Compatibility.Total, candidates[1].Compatibility.Total)
}

func TestGetCandidatesHardFilters(t *testing.T) {
	repo := NewMemoryRepository()

	requester := testProfile(1)
	requester.Preferences.GenderPreference = "same"
	requester.Preferences.AgeRange = profile.AgeRange{Min: 20, Max: 25}
	repo.SeedProfile(requester)

	wrongGender := testProfile(2)
	wrongGender.Gender = "male"
	repo.SeedProfile(wrongGender)

	tooOld := testProfile(3)
	tooOld.Age = 35
	repo.SeedProfile(tooOld)

	otherCity := testProfile(4)
	otherCity.Location.City = "Campinas"
	repo.SeedProfile(otherCity)

	keeper := testProfile(5)
	repo.SeedProfile(keeper)

	svc := NewService(repo, 10)
	candidates, err := svc.GetCandidates(context.Background(), 1, nil)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, int64(5), candidates[0].Profile.UserID)
}

func TestGetCandidatesRestrictedToRequesterCity(t *testing.T) {
	repo := NewMemoryRepository()
	repo.SeedProfile(testProfile(1))

	elsewhere := testProfile(2)
	elsewhere.Location.City = "Campinas"
	repo.SeedProfile(elsewhere)

	local := testProfile(3)
	repo.SeedProfile(local)

	svc := NewService(repo, 10)
	candidates, err := svc.GetCandidates(context.Background(), 1, nil)
	require.NoError(t, err)

	// Cross-city profiles never reach the feed, filters or not.
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(3), candidates[0].Profile.UserID)
}

func TestUnmatchKeepsRecord(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	result, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	require.True(t, result.Matched)

	updated, err := svc.UpdateMatch(ctx, 1, *result.MatchID, ActionUnmatch)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, StatusMatched, updated.Status)

	// the row survives
	match, err := repo.GetMatch(ctx, *result.MatchID)
	require.NoError(t, err)
	assert.False(t, match.IsActive)

	// no longer listed as a match
	matches, total, err := svc.GetMatches(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, total)

	// the pair stays out of the feed through the surviving likes
	candidates, err := svc.GetCandidates(ctx, 1, nil)
	require.NoError(t, err)
	for _, c := range candidates {
		assert.NotEqual(t, int64(2), c.Profile.UserID)
	}
}

func TestDeclineMatch(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	result, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateMatch(ctx, 2, *result.MatchID, ActionDecline)
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, updated.Status)
	assert.True(t, updated.IsActive)
}

func TestUpdateMatchAuthorization(t *testing.T) {
	svc, _ := newTestService(t, 1, 2, 3)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	result, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	_, err = svc.UpdateMatch(ctx, 3, *result.MatchID, ActionUnmatch)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.UpdateMatch(ctx, 1, *result.MatchID, "block")
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.UpdateMatch(ctx, 1, 999, ActionUnmatch)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGetMatchesReturnsPartner(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	matches, total, err := svc.GetMatches(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Partner.UserID)

	matches, _, err = svc.GetMatches(ctx, 2, 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].Partner.UserID)
}

func TestGetStats(t *testing.T) {
	svc, _ := newTestService(t, 1, 2, 3, 4)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	result, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.NoError(t, svc.Dislike(ctx, 1, 3))
	_, err = svc.Like(ctx, 1, 4)
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalMatches)
	assert.Equal(t, 1, stats.ActiveMatches)
	assert.Equal(t, 2, stats.LikesGiven)
	assert.Equal(t, 1, stats.DislikesGiven)
	assert.Equal(t, 1, stats.HighCompat+stats.MediumCompat+stats.LowCompat)
}

func TestScoreCompatibilityGuards(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)

	_, err := svc.ScoreCompatibility(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfAction)

	result, err := svc.ScoreCompatibility(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Total, 0)
	assert.LessOrEqual(t, result.Total, 100)
}
