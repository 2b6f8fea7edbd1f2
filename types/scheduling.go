package types

import (
	"context"

	"github.com/google/uuid"
)

// OptimizationObjective selects which quality the optimization driver favors
type OptimizationObjective string

const (
	ObjectiveMaximizeCoverage OptimizationObjective = "MAXIMIZE_COVERAGE"
	ObjectiveBalanceWorkload  OptimizationObjective = "BALANCE_WORKLOAD"
	ObjectiveMinimizeCost     OptimizationObjective = "MINIMIZE_COST"
	ObjectiveMinimizeTravel   OptimizationObjective = "MINIMIZE_TRAVEL"
)

// AllObjectives lists the objectives the optimization driver competes, in the
// deterministic order used to break score ties.
func AllObjectives() []OptimizationObjective {
	return []OptimizationObjective{
		ObjectiveMaximizeCoverage,
		ObjectiveBalanceWorkload,
		ObjectiveMinimizeCost,
		ObjectiveMinimizeTravel,
	}
}

// AssignmentConstraints carries league-wide defaults applied when a referee
// record leaves the corresponding field unset.
type AssignmentConstraints struct {
	MaxGamesPerDay  int `json:"max_games_per_day"`
	MaxGamesPerWeek int `json:"max_games_per_week"`
	MinRestMinutes  int `json:"min_rest_minutes"`
}

// SchedulingContext is the complete read-only input to a scheduling run
type SchedulingContext struct {
	Games       []Game                `json:"games"`
	Referees    []Referee             `json:"referees"`
	Venues      []Venue               `json:"venues"`
	Constraints AssignmentConstraints `json:"constraints"`
	Objective   OptimizationObjective `json:"objective,omitempty"`
}

// TotalSlots returns the number of official slots across all games.
func (c *SchedulingContext) TotalSlots() int {
	total := 0
	for i := range c.Games {
		total += c.Games[i].TotalSlots()
	}
	return total
}

// ConflictType categorizes a scheduling conflict
type ConflictType string

const (
	ConflictDoubleBooking      ConflictType = "DOUBLE_BOOKING"
	ConflictExperienceMismatch ConflictType = "EXPERIENCE_MISMATCH"
	ConflictNoGames            ConflictType = "NO_GAMES"
	ConflictNoReferees         ConflictType = "NO_REFEREES"
	ConflictNoVenues           ConflictType = "NO_VENUES"
	ConflictUnfilledSlot       ConflictType = "UNFILLED_SLOT"
	ConflictBudgetExhausted    ConflictType = "SEARCH_BUDGET_EXHAUSTED"
	ConflictInternalError      ConflictType = "INTERNAL_ERROR"
)

// ConflictSeverity grades how damaging a conflict is
type ConflictSeverity string

const (
	SeverityLow      ConflictSeverity = "LOW"
	SeverityMedium   ConflictSeverity = "MEDIUM"
	SeverityHigh     ConflictSeverity = "HIGH"
	SeverityCritical ConflictSeverity = "CRITICAL"
)

// SatisfactionPenalty returns the points a conflict of this severity removes
// from the satisfaction score.
func (s ConflictSeverity) SatisfactionPenalty() float64 {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// Conflict records a problem found while scheduling
type Conflict struct {
	Type             ConflictType     `json:"type"`
	Severity         ConflictSeverity `json:"severity"`
	Description      string           `json:"description"`
	AffectedGames    []uuid.UUID      `json:"affected_games,omitempty"`
	AffectedReferees []uuid.UUID      `json:"affected_referees,omitempty"`
	Resolution       string           `json:"resolution,omitempty"`
}

// SuggestionType categorizes a human-actionable recommendation
type SuggestionType string

const (
	SuggestAddReferees      SuggestionType = "ADD_REFEREES"
	SuggestRescheduleGames  SuggestionType = "RESCHEDULE_GAMES"
	SuggestBalanceWorkload  SuggestionType = "BALANCE_WORKLOAD"
	SuggestRelaxConstraints SuggestionType = "RELAX_CONSTRAINTS"
)

// Suggestion is a degraded-but-successful outcome surfaced for a human
type Suggestion struct {
	Type        SuggestionType `json:"type"`
	Description string         `json:"description"`
	Priority    int            `json:"priority"` // 1 = most urgent
}

// UnassignedGame identifies an official slot the solver could not fill
type UnassignedGame struct {
	GameID    uuid.UUID    `json:"game_id"`
	Role      OfficialRole `json:"role"`
	SlotIndex int          `json:"slot_index"`
	Reason    string       `json:"reason"`
}

// SchedulingMetrics summarizes the quality of a scheduling result
type SchedulingMetrics struct {
	TotalSlots         int     `json:"total_slots"`
	AssignedSlots      int     `json:"assigned_slots"`
	CoverageRate       float64 `json:"coverage_rate"`
	TotalCost          float64 `json:"total_cost"`
	AverageTravelMiles float64 `json:"average_travel_miles"`
	WorkloadBalance    float64 `json:"workload_balance"`    // 1 - Gini, higher is fairer
	SatisfactionScore  float64 `json:"satisfaction_score"`  // 0-100
	BacktracksUsed     int64   `json:"backtracks_used"`
	SolveTimeMs        int64   `json:"solve_time_ms"`
}

// SchedulingResult is the complete output of a scheduling run
type SchedulingResult struct {
	Success         bool                  `json:"success"`
	Objective       OptimizationObjective `json:"objective,omitempty"`
	Assignments     []Assignment          `json:"assignments"`
	UnassignedGames []UnassignedGame      `json:"unassigned_games"`
	Conflicts       []Conflict            `json:"conflicts"`
	Metrics         SchedulingMetrics     `json:"metrics"`
	Suggestions     []Suggestion          `json:"suggestions"`
}

// Collaborator interfaces. The engine consumes or feeds these; it never
// implements them. Transport, persistence and notification delivery belong
// to the surrounding system.

// ContextProvider supplies a SchedulingContext from upstream repositories.
type ContextProvider interface {
	LoadContext(ctx context.Context) (*SchedulingContext, error)
}

// AssignmentSink persists the assignments the engine produced.
type AssignmentSink interface {
	StoreAssignments(ctx context.Context, assignments []Assignment) error
}

// NotificationSender delivers assignment-lifecycle events to referees.
type NotificationSender interface {
	NotifyAssignment(ctx context.Context, assignment Assignment) error
}

// PaymentRecorder receives completed assignment pay records.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, assignment Assignment) error
}
