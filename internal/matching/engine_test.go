// internal/matching/engine_test.go

package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

func testProfile(userID int64) *profile.Profile {
	return &profile.Profile{
		UserID: userID,
		Age:    22,
		Gender: "female",
		Lifestyle: profile.Lifestyle{
			SleepSchedule:   "early-bird",
			Cleanliness:     "clean",
			SocialLevel:     "moderate",
			StudyHabits:     "quiet",
			SmokingDrinking: "never",
		},
		Location: profile.Location{City: "São Paulo", Country: "Brazil"},
		Budget:   profile.Budget{Min: 800, Max: 1500, Currency: "BRL"},
		Interests: []string{"music", "sports"},
		Preferences: profile.Preferences{
			GenderPreference: "no-preference",
			AgeRange:         profile.AgeRange{Min: 18, Max: 30},
		},
		IsActive: true,
	}
}

func TestScoreIdenticalLifestyle(t *testing.T) {
	a := testProfile(1)
	b := testProfile(2)

	result := Score(a, b)
	assert.Equal(t, 100.0, result.Factors.Lifestyle)
}

func TestScoreLifestylePartialMatch(t *testing.T) {
	a := testProfile(1)
	b := testProfile(2)
	b.Lifestyle.SleepSchedule = "night-owl"
	b.Lifestyle.Cleanliness = "relaxed"

	result := Score(a, b)
	assert.Equal(t, 60.0, result.Factors.Lifestyle)
}

func TestScoreInterests(t *testing.T) {
	a := testProfile(1)
	b := testProfile(2)

	t.Run("identical sets score 100", func(t *testing.T) {
		a.Interests = []string{"music", "sports"}
		b.Interests = []string{"music", "sports"}
		assert.Equal(t, 100.0, Score(a, b).Factors.Interests)
	})

	t.Run("disjoint sets score 0", func(t *testing.T) {
		a.Interests = []string{"music", "sports"}
		b.Interests = []string{"art", "cooking"}
		assert.Equal(t, 0.0, Score(a, b).Factors.Interests)
	})

	t.Run("empty set scores 0", func(t *testing.T) {
		a.Interests = nil
		b.Interests = []string{"music"}
		assert.Equal(t, 0.0, Score(a, b).Factors.Interests)
	})

	t.Run("partial overlap divides by larger set", func(t *testing.T) {
		a.Interests = []string{"music", "sports"}
		b.Interests = []string{"music", "art", "cooking", "gaming"}
		assert.Equal(t, 25.0, Score(a, b).Factors.Interests)
	})
}

func TestScoreBudget(t *testing.T) {
	a := testProfile(1)
	b := testProfile(2)

	t.Run("overlapping budgets score 100", func(t *testing.T) {
		a.Budget = profile.Budget{Min: 800, Max: 1500}
		b.Budget = profile.Budget{Min: 1000, Max: 2000}
		assert.Equal(t, 100.0, Score(a, b).Factors.Budget)
	})

	t.Run("disjoint budgets score 0", func(t *testing.T) {
		a.Budget = profile.Budget{Min: 500, Max: 800}
		b.Budget = profile.Budget{Min: 1500, Max: 2000}
		assert.Equal(t, 0.0, Score(a, b).Factors.Budget)
	})

	t.Run("touching intervals have zero-width overlap", func(t *testing.T) {
		a.Budget = profile.Budget{Min: 500, Max: 1000}
		b.Budget = profile.Budget{Min: 1000, Max: 2000}
		assert.Equal(t, 0.0, Score(a, b).Factors.Budget)
	})
}

func TestScoreLocation(t *testing.T) {
	a := testProfile(1)
	b := testProfile(2)

	t.Run("same city scores 100", func(t *testing.T) {
		assert.Equal(t, 100.0, Score(a, b).Factors.Location)
	})

	t.Run("comparison is case sensitive", func(t *testing.T) {
		b.Location.City = "são paulo"
		assert.Equal(t, 0.0, Score(a, b).Factors.Location)
	})
}

func TestScorePreferences(t *testing.T) {
	a := testProfile(1)
	b := testProfile(2)

	t.Run("mutually acceptable pair scores 100", func(t *testing.T) {
		assert.Equal(t, 100.0, Score(a, b).Factors.Preferences)
	})

	t.Run("age check must hold in both directions", func(t *testing.T) {
		b.Preferences.AgeRange = profile.AgeRange{Min: 25, Max: 35}
		// a is 22, outside b's range
		assert.Equal(t, 50.0, Score(a, b).Factors.Preferences)
		b.Preferences.AgeRange = profile.AgeRange{Min: 18, Max: 30}
	})

	t.Run("gender preference is direction dependent", func(t *testing.T) {
		a.Preferences.GenderPreference = "same"
		b.Gender = "male"
		assert.Equal(t, 50.0, Score(a, b).Factors.Preferences)
	})

	t.Run("unset age range accepts everyone", func(t *testing.T) {
		a = testProfile(1)
		b = testProfile(2)
		a.Preferences.AgeRange = profile.AgeRange{}
		assert.Equal(t, 100.0, Score(a, b).Factors.Preferences)
	})
}

func TestScoreTotalWithinBounds(t *testing.T) {
	variants := []*profile.Profile{testProfile(2), testProfile(3), testProfile(4)}
	variants[1].Lifestyle = profile.Lifestyle{SleepSchedule: "night-owl", Cleanliness: "messy", SocialLevel: "very-social", StudyHabits: "music", SmokingDrinking: "regularly"}
	variants[1].Interests = []string{"gaming"}
	variants[1].Budget = profile.Budget{Min: 3000, Max: 4000}
	variants[1].Location.City = "Rio de Janeiro"
	variants[1].Age = 45
	variants[2].Interests = nil

	a := testProfile(1)
	for i, b := range variants {
		t.Run(fmt.Sprintf("variant %d", i), func(t *testing.T) {
			result := Score(a, b)
			assert.GreaterOrEqual(t, result.Total, 0)
			assert.LessOrEqual(t, result.Total, 100)
		})
	}
}

// Two students in São Paulo with identical lifestyles, one shared
// interest out of two, and overlapping budgets.
func TestScoreConcreteScenario(t *testing.T) {
	a := testProfile(1)
	a.Interests = []string{"music", "sports"}
	a.Budget = profile.Budget{Min: 800, Max: 1500}

	b := testProfile(2)
	b.Interests = []string{"music", "art"}
	b.Budget = profile.Budget{Min: 1000, Max: 2000}

	result := Score(a, b)

	assert.Equal(t, 100.0, result.Factors.Lifestyle)
	assert.Equal(t, 50.0, result.Factors.Interests)
	assert.Equal(t, 100.0, result.Factors.Budget)
	assert.Equal(t, 100.0, result.Factors.Location)
	assert.Equal(t, 100.0, result.Factors.Preferences)

	// 100*0.3 + 50*0.2 + 100*0.2 + 100*0.15 + 100*0.15
	assert.Equal(t, 90, result.Total)
}

func TestScoreIsSymmetric(t *testing.T) {
	a := testProfile(1)
	a.Interests = []string{"music", "sports"}
	a.Budget = profile.Budget{Min: 800, Max: 1500}
	a.Preferences.GenderPreference = "same"
	a.Preferences.AgeRange = profile.AgeRange{Min: 20, Max: 28}

	b := testProfile(2)
	b.Interests = []string{"music", "art", "cooking"}
	b.Budget = profile.Budget{Min: 1000, Max: 2000}
	b.Lifestyle.SocialLevel = "introvert"
	b.Age = 26

	assert.Equal(t, Score(a, b), Score(b, a))
}
