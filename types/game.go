package types

import (
	"time"

	"github.com/google/uuid"
)

// GameImportance represents how consequential a game is for pay and priority
type GameImportance string

const (
	ImportanceCritical GameImportance = "CRITICAL"
	ImportanceHigh     GameImportance = "HIGH"
	ImportanceNormal   GameImportance = "NORMAL"
	ImportanceLow      GameImportance = "LOW"
)

// PayMultiplier returns the importance component of the pay-rate formula.
func (i GameImportance) PayMultiplier() float64 {
	switch i {
	case ImportanceCritical:
		return 1.5
	case ImportanceHigh:
		return 1.25
	case ImportanceLow:
		return 0.9
	default:
		return 1.0
	}
}

// GameType categorizes the competition format
type GameType string

const (
	GameChampionship GameType = "CHAMPIONSHIP"
	GamePlayoff      GameType = "PLAYOFF"
	GameTournament   GameType = "TOURNAMENT"
	GameRegular      GameType = "REGULAR"
	GameFriendly     GameType = "FRIENDLY"
)

// RequiredOfficial declares how many officials of a role a game needs and the
// minimum experience tier each of them must hold.
type RequiredOfficial struct {
	Role          OfficialRole    `json:"role"`
	Quantity      int             `json:"quantity"`
	MinExperience ExperienceLevel `json:"min_experience"`
}

// Game represents a scheduled game needing officials
type Game struct {
	ID                uuid.UUID          `json:"id"`
	VenueID           uuid.UUID          `json:"venue_id"`
	DivisionID        uuid.UUID          `json:"division_id"`
	ScheduledTime     time.Time          `json:"scheduled_time"`
	DurationMinutes   int                `json:"duration_minutes"`
	Importance        GameImportance     `json:"importance"`
	Type              GameType           `json:"type"`
	RequiredOfficials []RequiredOfficial `json:"required_officials"`
}

// EndTime returns the game's estimated end.
func (g *Game) EndTime() time.Time {
	return g.ScheduledTime.Add(time.Duration(g.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the two games' time windows intersect.
func (g *Game) Overlaps(other *Game) bool {
	return g.ScheduledTime.Before(other.EndTime()) && other.ScheduledTime.Before(g.EndTime())
}

// TotalSlots returns the number of official slots the game requires.
func (g *Game) TotalSlots() int {
	total := 0
	for _, req := range g.RequiredOfficials {
		total += req.Quantity
	}
	return total
}

// Venue represents a game location
type Venue struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address,omitempty"`
	Location Coordinates `json:"location"`
}

// AssignmentStatus tracks the lifecycle of an assignment. The engine only
// ever creates PENDING assignments; the confirmation workflow collaborator
// moves them through the remaining states.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentConfirmed AssignmentStatus = "CONFIRMED"
	AssignmentDeclined  AssignmentStatus = "DECLINED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// Bonus is a typed pay supplement attached to an assignment
type Bonus struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// Assignment binds a referee to one official slot of a game
type Assignment struct {
	ID           uuid.UUID        `json:"id"`
	GameID       uuid.UUID        `json:"game_id"`
	RefereeID    uuid.UUID        `json:"referee_id"`
	Role         OfficialRole     `json:"role"`
	SlotIndex    int              `json:"slot_index"`
	Status       AssignmentStatus `json:"status"`
	PayRate      float64          `json:"pay_rate"`
	Bonuses      []Bonus          `json:"bonuses,omitempty"`
	TotalPay     float64          `json:"total_pay"`
	AutoAssigned bool             `json:"auto_assigned"`
	AssignedAt   time.Time        `json:"assigned_at"`
}
