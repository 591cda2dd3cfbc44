// internal/matching/engine.go

package matching

import (
	"math"

	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

// Factor weights. They must sum to 1.
const (
	weightLifestyle   = 0.30
	weightInterests   = 0.20
	weightBudget      = 0.20
	weightLocation    = 0.15
	weightPreferences = 0.15
)

// Policy constants for the fallback branches. Budget and location are
// scored as binary factors: full credit on overlap / exact city match,
// nothing otherwise.
const (
	budgetOverlapScore    = 100.0
	budgetNoOverlapScore  = 0.0
	locationMatchScore    = 100.0
	locationMismatchScore = 0.0
	preferenceCheckScore  = 50.0
)

// CompatibilityFactors holds the five sub-scores, each in [0,100].
type CompatibilityFactors struct {
	Lifestyle   float64 `json:"lifestyle" db:"score_lifestyle"`
	Interests   float64 `json:"interests" db:"score_interests"`
	Budget      float64 `json:"budget" db:"score_budget"`
	Location    float64 `json:"location" db:"score_location"`
	Preferences float64 `json:"preferences" db:"score_preferences"`
}

// CompatibilityResult is the outcome of scoring one profile against another.
type CompatibilityResult struct {
	Total   int                  `json:"total"`
	Factors CompatibilityFactors `json:"factors"`
}

// Score computes the compatibility of other as a roommate for self.
// It is pure and deterministic, and because every factor checks both
// directions (the preferences factor requires mutual acceptance),
// Score(a, b) == Score(b, a).
func Score(self, other *profile.Profile) CompatibilityResult {
	factors := CompatibilityFactors{
		Lifestyle:   lifestyleFactor(self.Lifestyle, other.Lifestyle),
		Interests:   interestsFactor(self.Interests, other.Interests),
		Budget:      budgetFactor(self.Budget, other.Budget),
		Location:    locationFactor(self.Location, other.Location),
		Preferences: preferencesFactor(self, other),
	}

	total := factors.Lifestyle*weightLifestyle +
		factors.Interests*weightInterests +
		factors.Budget*weightBudget +
		factors.Location*weightLocation +
		factors.Preferences*weightPreferences

	return CompatibilityResult{
		Total:   int(math.Round(total)),
		Factors: factors,
	}
}

// lifestyleFactor awards an equal share of 100 for every lifestyle
// attribute both profiles answered identically.
func lifestyleFactor(a, b profile.Lifestyle) float64 {
	pairs := [][2]string{
		{a.SleepSchedule, b.SleepSchedule},
		{a.Cleanliness, b.Cleanliness},
		{a.SocialLevel, b.SocialLevel},
		{a.StudyHabits, b.StudyHabits},
		{a.SmokingDrinking, b.SmokingDrinking},
	}

	matches := 0
	for _, p := range pairs {
		if p[0] != "" && p[0] == p[1] {
			matches++
		}
	}
	return float64(matches) / float64(len(pairs)) * 100
}

// interestsFactor is the intersection size divided by the larger set
// size. Empty sets score 0 outright.
func interestsFactor(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}

	common := 0
	for _, v := range b {
		if _, ok := set[v]; ok {
			common++
		}
	}

	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(common) / float64(larger) * 100
}

func budgetFactor(a, b profile.Budget) float64 {
	low := a.Min
	if b.Min > low {
		low = b.Min
	}
	high := a.Max
	if b.Max < high {
		high = b.Max
	}
	if high-low > 0 {
		return budgetOverlapScore
	}
	return budgetNoOverlapScore
}

// locationFactor compares cities exactly, without normalization.
func locationFactor(a, b profile.Location) float64 {
	if a.City != "" && a.City == b.City {
		return locationMatchScore
	}
	return locationMismatchScore
}

// preferencesFactor runs two 50-point sub-checks, each applied in both
// directions: the pair must fall inside each other's acceptable age
// range, and each must satisfy the other's gender preference.
func preferencesFactor(self, other *profile.Profile) float64 {
	score := 0.0
	if ageAcceptable(self.Preferences, other.Age) && ageAcceptable(other.Preferences, self.Age) {
		score += preferenceCheckScore
	}
	if genderAcceptable(self, other) && genderAcceptable(other, self) {
		score += preferenceCheckScore
	}
	return score
}

func ageAcceptable(prefs profile.Preferences, age int) bool {
	min, max := prefs.AgeRange.Min, prefs.AgeRange.Max
	if min == 0 && max == 0 {
		return true
	}
	return age >= min && age <= max
}

func genderAcceptable(scorer, candidate *profile.Profile) bool {
	switch scorer.Preferences.GenderPreference {
	case "same":
		return candidate.Gender == scorer.Gender
	case "different":
		return candidate.Gender != scorer.Gender
	default:
		// "no-preference" or unset accepts everyone
		return true
	}
}
