// internal/profile/service.go
// Service layer contains the business logic for roommate profiles

package profile

import (
	"context"
	"strings"
)

type Service interface {
	SetupProfile(ctx context.Context, userID int64, name string, req *SetupProfileRequest) (*Profile, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)
	RecordActivity(ctx context.Context, userID int64) error
	ListProfiles(ctx context.Context, requesterID int64, filters *ListFilters) ([]*Profile, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetupProfile(ctx context.Context, userID int64, name string, req *SetupProfileRequest) (*Profile, error) {
	p := &Profile{
		UserID:         userID,
		Name:           name,
		University:     strings.TrimSpace(req.University),
		Course:         strings.TrimSpace(req.Course),
		GraduationYear: req.GraduationYear,
		Age:            req.Age,
		Gender:         req.Gender,
		Bio:            req.Bio,
		Interests:      normalizeInterests(req.Interests),
		Lifestyle: Lifestyle{
			SleepSchedule:   req.Lifestyle.SleepSchedule,
			Cleanliness:     req.Lifestyle.Cleanliness,
			SocialLevel:     req.Lifestyle.SocialLevel,
			StudyHabits:     req.Lifestyle.StudyHabits,
			SmokingDrinking: req.Lifestyle.SmokingDrinking,
		},
		Location: Location{
			City:           strings.TrimSpace(req.Location.City),
			State:          strings.TrimSpace(req.Location.State),
			Country:        strings.TrimSpace(req.Location.Country),
			PreferredAreas: req.Location.PreferredAreas,
		},
		Budget:      budgetFromInput(req.Budget),
		Preferences: prefsFromInput(req.Preferences),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.University != nil {
		p.University = strings.TrimSpace(*req.University)
	}
	if req.Course != nil {
		p.Course = strings.TrimSpace(*req.Course)
	}
	if req.GraduationYear != nil {
		p.GraduationYear = *req.GraduationYear
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.Interests != nil {
		p.Interests = normalizeInterests(req.Interests)
	}
	if req.Lifestyle != nil {
		p.Lifestyle = Lifestyle{
			SleepSchedule:   req.Lifestyle.SleepSchedule,
			Cleanliness:     req.Lifestyle.Cleanliness,
			SocialLevel:     req.Lifestyle.SocialLevel,
			StudyHabits:     req.Lifestyle.StudyHabits,
			SmokingDrinking: req.Lifestyle.SmokingDrinking,
		}
	}
	if req.Location != nil {
		p.Location = Location{
			City:           strings.TrimSpace(req.Location.City),
			State:          strings.TrimSpace(req.Location.State),
			Country:        strings.TrimSpace(req.Location.Country),
			PreferredAreas: req.Location.PreferredAreas,
		}
	}
	if req.Budget != nil {
		p.Budget = budgetFromInput(*req.Budget)
	}
	if req.Preferences != nil {
		p.Preferences = prefsFromInput(req.Preferences)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) RecordActivity(ctx context.Context, userID int64) error {
	return s.repo.TouchLastActive(ctx, userID)
}

func (s *service) ListProfiles(ctx context.Context, requesterID int64, filters *ListFilters) ([]*Profile, int, error) {
	return s.repo.List(ctx, requesterID, filters)
}

// normalizeInterests trims whitespace and drops duplicates, preserving order
func normalizeInterests(interests []string) []string {
	seen := make(map[string]bool, len(interests))
	result := make([]string, 0, len(interests))

	for _, interest := range interests {
		trimmed := strings.TrimSpace(interest)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, trimmed)
	}

	return result
}

func budgetFromInput(in BudgetInput) Budget {
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	return Budget{Min: in.Min, Max: in.Max, Currency: currency}
}

// prefsFromInput applies the same defaults the registration flow promises:
// missing preferences mean "no-preference" and an 18-30 age range.
func prefsFromInput(in *PrefsInput) Preferences {
	prefs := Preferences{
		GenderPreference: "no-preference",
		AgeRange:         AgeRange{Min: 18, Max: 30},
		MaxRoommates:     3,
		DrinkingOk:       true,
	}

	if in == nil {
		return prefs
	}

	if in.GenderPreference != "" {
		prefs.GenderPreference = in.GenderPreference
	}
	if in.AgeRangeMin > 0 {
		prefs.AgeRange.Min = in.AgeRangeMin
	}
	if in.AgeRangeMax > 0 {
		prefs.AgeRange.Max = in.AgeRangeMax
	}
	if in.MaxRoommates > 0 {
		prefs.MaxRoommates = in.MaxRoommates
	}
	if in.PetFriendly != nil {
		prefs.PetFriendly = *in.PetFriendly
	}
	if in.SmokingOk != nil {
		prefs.SmokingOk = *in.SmokingOk
	}
	if in.DrinkingOk != nil {
		prefs.DrinkingOk = *in.DrinkingOk
	}

	return prefs
}
