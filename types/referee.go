package types

import (
	"time"

	"github.com/google/uuid"
)

// ExperienceLevel represents a referee certification tier
type ExperienceLevel string

const (
	ExperienceVolunteer    ExperienceLevel = "VOLUNTEER"
	ExperienceBeginner     ExperienceLevel = "BEGINNER"
	ExperienceIntermediate ExperienceLevel = "INTERMEDIATE"
	ExperienceExperienced  ExperienceLevel = "EXPERIENCED"
	ExperienceCertified    ExperienceLevel = "CERTIFIED"
)

// Rank returns the ordinal position of the tier, VOLUNTEER=0 .. CERTIFIED=4.
// Unknown tiers rank below VOLUNTEER so they never satisfy a requirement.
func (e ExperienceLevel) Rank() int {
	switch e {
	case ExperienceVolunteer:
		return 0
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceExperienced:
		return 3
	case ExperienceCertified:
		return 4
	default:
		return -1
	}
}

// Meets reports whether this tier satisfies the required tier.
func (e ExperienceLevel) Meets(required ExperienceLevel) bool {
	return e.Rank() >= required.Rank()
}

// OfficialRole represents the duty an official performs during a game
type OfficialRole string

const (
	RoleHeadReferee       OfficialRole = "HEAD_REFEREE"
	RoleAssistantReferee  OfficialRole = "ASSISTANT_REFEREE"
	RoleScorekeeper       OfficialRole = "SCOREKEEPER"
	RoleClockOperator     OfficialRole = "CLOCK_OPERATOR"
	RoleShotClockOperator OfficialRole = "SHOT_CLOCK_OPERATOR"
)

// PayMultiplier returns the role component of the pay-rate formula.
func (r OfficialRole) PayMultiplier() float64 {
	switch r {
	case RoleHeadReferee:
		return 1.5
	case RoleAssistantReferee:
		return 1.2
	default:
		return 1.0
	}
}

// RefereeStatus represents the administrative state of a referee record
type RefereeStatus string

const (
	RefereeActive    RefereeStatus = "ACTIVE"
	RefereeInactive  RefereeStatus = "INACTIVE"
	RefereeSuspended RefereeStatus = "SUSPENDED"
)

// SpecializationLevel represents how proficient a referee is in a division
type SpecializationLevel string

const (
	SpecializationExpert     SpecializationLevel = "EXPERT"
	SpecializationProficient SpecializationLevel = "PROFICIENT"
	SpecializationFamiliar   SpecializationLevel = "FAMILIAR"
)

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AvailabilityRule describes a recurring weekly window during which a referee
// accepts assignments. Minutes are counted from midnight local to the rule.
type AvailabilityRule struct {
	DayOfWeek      time.Weekday `json:"day_of_week"`
	StartMinute    int          `json:"start_minute"`
	EndMinute      int          `json:"end_minute"`
	EffectiveFrom  *time.Time   `json:"effective_from,omitempty"`
	EffectiveUntil *time.Time   `json:"effective_until,omitempty"`
}

// Covers reports whether the rule admits a game starting at t.
func (a AvailabilityRule) Covers(t time.Time) bool {
	if t.Weekday() != a.DayOfWeek {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	if minute < a.StartMinute || minute >= a.EndMinute {
		return false
	}
	if a.EffectiveFrom != nil && t.Before(*a.EffectiveFrom) {
		return false
	}
	if a.EffectiveUntil != nil && t.After(*a.EffectiveUntil) {
		return false
	}
	return true
}

// BlackoutWindow marks a date range during which a referee must not be
// assigned. When StartMinute/EndMinute are set the blackout only applies to
// that sub-range of each day in the window.
type BlackoutWindow struct {
	From        time.Time `json:"from"`
	Until       time.Time `json:"until"`
	StartMinute *int      `json:"start_minute,omitempty"`
	EndMinute   *int      `json:"end_minute,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

// Contains reports whether a game starting at t falls inside the blackout.
func (b BlackoutWindow) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	fromDay := time.Date(b.From.Year(), b.From.Month(), b.From.Day(), 0, 0, 0, 0, b.From.Location())
	untilDay := time.Date(b.Until.Year(), b.Until.Month(), b.Until.Day(), 0, 0, 0, 0, b.Until.Location())
	if day.Before(fromDay) || day.After(untilDay) {
		return false
	}
	if b.StartMinute == nil || b.EndMinute == nil {
		return true
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= *b.StartMinute && minute < *b.EndMinute
}

// Referee represents an official eligible for assignment. Records are owned
// by the referee-management collaborator; the engine treats them as read-only.
type Referee struct {
	ID                   uuid.UUID                         `json:"id"`
	Name                 string                            `json:"name"`
	Status               RefereeStatus                     `json:"status"`
	Experience           ExperienceLevel                   `json:"experience"`
	Roles                []OfficialRole                    `json:"roles"`
	Availability         []AvailabilityRule                `json:"availability"`
	BlackoutDates        []BlackoutWindow                  `json:"blackout_dates,omitempty"`
	AvoidPartners        []uuid.UUID                       `json:"avoid_partners,omitempty"`
	HomeLocation         Coordinates                       `json:"home_location"`
	TravelRadiusMiles    float64                           `json:"travel_radius_miles"`
	PreferredVenues      []uuid.UUID                       `json:"preferred_venues,omitempty"`
	Specializations      map[uuid.UUID]SpecializationLevel `json:"specializations,omitempty"`
	MaxGamesPerDay       int                               `json:"max_games_per_day"`
	MaxGamesPerWeek      int                               `json:"max_games_per_week"`
	MinRestMinutes       int                               `json:"min_rest_minutes"`
	BaseRate             float64                           `json:"base_rate"`
	ExperienceMultiplier float64                           `json:"experience_multiplier"`
	PerformanceRating    float64                           `json:"performance_rating"` // 0-5
	Reliability          float64                           `json:"reliability"`        // 0-100
	Punctuality          float64                           `json:"punctuality"`        // 0-100
	GamesOfficiated      int                               `json:"games_officiated"`
}

// IsActive reports whether the referee may receive new assignments.
func (r *Referee) IsActive() bool {
	return r.Status == RefereeActive
}

// CanOfficiate reports whether the referee is capable of the given role.
func (r *Referee) CanOfficiate(role OfficialRole) bool {
	for _, capable := range r.Roles {
		if capable == role {
			return true
		}
	}
	return false
}

// AvailableAt reports whether any availability rule admits a game at t.
func (r *Referee) AvailableAt(t time.Time) bool {
	for _, rule := range r.Availability {
		if rule.Covers(t) {
			return true
		}
	}
	return false
}

// BlackedOut reports whether t falls in any of the referee's blackout windows.
func (r *Referee) BlackedOut(t time.Time) bool {
	for _, window := range r.BlackoutDates {
		if window.Contains(t) {
			return true
		}
	}
	return false
}

// Avoids reports whether the referee must not co-officiate with other.
func (r *Referee) Avoids(other uuid.UUID) bool {
	for _, id := range r.AvoidPartners {
		if id == other {
			return true
		}
	}
	return false
}

// PrefersVenue reports whether the venue is on the referee's preferred list.
func (r *Referee) PrefersVenue(venueID uuid.UUID) bool {
	for _, id := range r.PreferredVenues {
		if id == venueID {
			return true
		}
	}
	return false
}
