// internal/profile/models.go

package profile

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Lifestyle holds the categorical living-habit attributes used for matching
type Lifestyle struct {
	SleepSchedule   string `json:"sleep_schedule"`
	Cleanliness     string `json:"cleanliness"`
	SocialLevel     string `json:"social_level"`
	StudyHabits     string `json:"study_habits"`
	SmokingDrinking string `json:"smoking_drinking"`
}

// Scan implements the sql.Scanner interface for Lifestyle
func (l *Lifestyle) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, l)
	}
	return nil
}

// Value implements the driver.Valuer interface for Lifestyle
func (l Lifestyle) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Location holds where a user wants to live
type Location struct {
	City           string   `json:"city"`
	State          string   `json:"state"`
	Country        string   `json:"country"`
	PreferredAreas []string `json:"preferred_areas,omitempty"`
}

func (l *Location) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, l)
	}
	return nil
}

func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Budget is the monthly rent range a user can afford
type Budget struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

func (b *Budget) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, b)
	}
	return nil
}

func (b Budget) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// AgeRange bounds the acceptable roommate age
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences holds what a user wants in a roommate
type Preferences struct {
	GenderPreference string   `json:"gender_preference"` // same, different, no-preference
	AgeRange         AgeRange `json:"age_range"`
	MaxRoommates     int      `json:"max_roommates"`
	PetFriendly      bool     `json:"pet_friendly"`
	SmokingOk        bool     `json:"smoking_ok"`
	DrinkingOk       bool     `json:"drinking_ok"`
}

func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, p)
	}
	return nil
}

func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Profile represents a user's roommate-matching profile
type Profile struct {
	ID             int64          `json:"id" db:"id"`
	UserID         int64          `json:"user_id" db:"user_id"`
	Name           string         `json:"name" db:"name"`
	Avatar         *string        `json:"avatar,omitempty" db:"avatar"`
	University     string         `json:"university" db:"university"`
	Course         string         `json:"course" db:"course"`
	GraduationYear int            `json:"graduation_year" db:"graduation_year"`
	Age            int            `json:"age" db:"age"`
	Gender         string         `json:"gender" db:"gender"`
	Bio            *string        `json:"bio,omitempty" db:"bio"`
	Interests      pq.StringArray `json:"interests" db:"interests"`
	Lifestyle      Lifestyle      `json:"lifestyle" db:"lifestyle"`
	Location       Location       `json:"location" db:"location"`
	Budget         Budget         `json:"budget" db:"budget"`
	Preferences    Preferences    `json:"preferences" db:"preferences"`
	IsVerified     bool           `json:"is_verified" db:"is_verified"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	LastActive     time.Time      `json:"last_active" db:"last_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// ListFilters narrows the profile directory listing
type ListFilters struct {
	University string
	Course     string
	City       string
	Gender     string
	MinAge     int
	MaxAge     int
	MinBudget  int
	MaxBudget  int
	Page       int
	Limit      int
}

// SetupProfileRequest creates or replaces the caller's profile
type SetupProfileRequest struct {
	University     string          `json:"university" validate:"required,max=200"`
	Course         string          `json:"course" validate:"required,max=200"`
	GraduationYear int             `json:"graduation_year" validate:"required,gte=2000,lte=2100"`
	Age            int             `json:"age" validate:"required,gte=18"`
	Gender         string          `json:"gender" validate:"required,oneof=male female other prefer-not-to-say"`
	Bio            *string         `json:"bio" validate:"omitempty,max=500"`
	Interests      []string        `json:"interests" validate:"omitempty,max=10,dive,min=1,max=50"`
	Lifestyle      LifestyleInput  `json:"lifestyle" validate:"required"`
	Location       LocationInput   `json:"location" validate:"required"`
	Budget         BudgetInput     `json:"budget" validate:"required"`
	Preferences    *PrefsInput     `json:"preferences"`
}

// UpdateProfileRequest patches individual profile fields
type UpdateProfileRequest struct {
	University     *string         `json:"university" validate:"omitempty,max=200"`
	Course         *string         `json:"course" validate:"omitempty,max=200"`
	GraduationYear *int            `json:"graduation_year" validate:"omitempty,gte=2000,lte=2100"`
	Age            *int            `json:"age" validate:"omitempty,gte=18"`
	Bio            *string         `json:"bio" validate:"omitempty,max=500"`
	Interests      []string        `json:"interests" validate:"omitempty,max=10,dive,min=1,max=50"`
	Lifestyle      *LifestyleInput `json:"lifestyle"`
	Location       *LocationInput  `json:"location"`
	Budget         *BudgetInput    `json:"budget"`
	Preferences    *PrefsInput     `json:"preferences"`
	IsActive       *bool           `json:"is_active"`
}

type LifestyleInput struct {
	SleepSchedule   string `json:"sleep_schedule" validate:"required,oneof=early-bird night-owl flexible"`
	Cleanliness     string `json:"cleanliness" validate:"required,oneof=very-clean clean moderate relaxed"`
	SocialLevel     string `json:"social_level" validate:"required,oneof=very-social social moderate private"`
	StudyHabits     string `json:"study_habits" validate:"required,oneof=very-quiet quiet moderate flexible"`
	SmokingDrinking string `json:"smoking_drinking" validate:"required,oneof=never occasionally regularly"`
}

type LocationInput struct {
	City           string   `json:"city" validate:"required,max=100"`
	State          string   `json:"state" validate:"required,max=100"`
	Country        string   `json:"country" validate:"required,max=100"`
	PreferredAreas []string `json:"preferred_areas" validate:"omitempty,max=10"`
}

type BudgetInput struct {
	Min      int    `json:"min" validate:"gte=0"`
	Max      int    `json:"max" validate:"required,gtefield=Min"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

type PrefsInput struct {
	GenderPreference string `json:"gender_preference" validate:"omitempty,oneof=same different no-preference"`
	AgeRangeMin      int    `json:"age_range_min" validate:"omitempty,gte=18"`
	AgeRangeMax      int    `json:"age_range_max" validate:"omitempty,gtefield=AgeRangeMin"`
	MaxRoommates     int    `json:"max_roommates" validate:"omitempty,gte=1,lte=10"`
	PetFriendly      *bool  `json:"pet_friendly"`
	SmokingOk        *bool  `json:"smoking_ok"`
	DrinkingOk       *bool  `json:"drinking_ok"`
}
