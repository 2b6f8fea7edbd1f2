// Package scheduler assigns officials to scheduled games under hard
// constraints (availability, travel, rest, double booking, experience,
// blackouts, partner avoidance) using backtracking search with
// minimum-remaining-values selection and forward checking, then grades the
// outcome for coverage, cost and workload balance.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/pkg/config"
	"github.com/courtside-dev/ref-scheduler/pkg/logger"
	"github.com/courtside-dev/ref-scheduler/types"
)

// Unassigned-slot reasons.
const (
	reasonNoEligible   = "no eligible referees after filtering"
	reasonNoConsistent = "no consistent assignment found"
	reasonBudget       = "search budget exhausted"
	reasonDeadline     = "search deadline exceeded"
)

// Service is the assignment engine. It holds no per-request state beyond the
// shared distance cache, so one value can serve concurrent requests.
type Service struct {
	cfg       *config.EngineConfig
	log       *logrus.Logger
	distances *distanceCache

	// nowFunc is swapped in tests to pin bonus calculations.
	nowFunc func() time.Time
}

// NewService constructs the engine. A nil config selects the defaults.
func NewService(cfg *config.EngineConfig, log *logrus.Logger) *Service {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Service{
		cfg:       cfg,
		log:       log,
		distances: newDistanceCache(),
		nowFunc:   time.Now,
	}
}

// ScheduleReferees runs one full scheduling pass under the context's
// objective (or plain suitability order when none is set). The method never
// returns an error: every failure mode is reported inside the result.
func (s *Service) ScheduleReferees(ctx context.Context, input *types.SchedulingContext) *types.SchedulingResult {
	objective := types.OptimizationObjective("")
	if input != nil {
		objective = input.Objective
	}
	return s.scheduleWithObjective(ctx, input, objective)
}

// OptimizeSchedule runs the pipeline once per optimization objective,
// in parallel, and returns the best-scoring result. The four runs share the
// distance cache but nothing else.
func (s *Service) OptimizeSchedule(ctx context.Context, input *types.SchedulingContext) *types.SchedulingResult {
	if invalid := s.validate(input); invalid != nil {
		return invalid
	}

	objectives := types.AllObjectives()
	results := make([]*types.SchedulingResult, len(objectives))

	var wg sync.WaitGroup
	for i, objective := range objectives {
		wg.Add(1)
		go func(i int, objective types.OptimizationObjective) {
			defer wg.Done()
			results[i] = s.scheduleWithObjective(ctx, input, objective)
		}(i, objective)
	}
	wg.Wait()

	var maxCost float64
	for _, result := range results {
		if result.Metrics.TotalCost > maxCost {
			maxCost = result.Metrics.TotalCost
		}
	}

	best := results[0]
	bestScore := objectiveScore(best, objectives[0], maxCost)
	for i := 1; i < len(results); i++ {
		score := objectiveScore(results[i], objectives[i], maxCost)
		if score > bestScore {
			best, bestScore = results[i], score
		}
	}

	s.log.WithFields(logrus.Fields{
		"winning_objective": best.Objective,
		"winning_score":     bestScore,
	}).Info("Objective comparison complete")
	return best
}

func (s *Service) scheduleWithObjective(ctx context.Context, input *types.SchedulingContext, objective types.OptimizationObjective) (result *types.SchedulingResult) {
	if invalid := s.validate(input); invalid != nil {
		return invalid
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := newRun(s.cfg, s.log.WithField("component", "scheduler"), input, objective, s.distances, s.nowFunc())
	runFields := logrus.Fields{"schedule_id": r.id}
	if objective != "" {
		runFields["objective"] = objective
	}
	r.log = r.log.WithFields(runFields)
	start := time.Now()

	result = &types.SchedulingResult{Objective: objective}

	// The caller must never receive a panic from the engine; an unexpected
	// failure becomes a CRITICAL conflict on whatever was computed so far.
	defer func() {
		if rec := recover(); rec != nil {
			r.log.WithField("panic", rec).Error("Scheduling run panicked")
			result.Success = false
			result.Conflicts = append(result.Conflicts, types.Conflict{
				Type:        types.ConflictInternalError,
				Severity:    types.SeverityCritical,
				Description: fmt.Sprintf("internal error during search: %v", rec),
				Resolution:  "manual intervention required",
			})
		}
	}()

	r.log.WithFields(logrus.Fields{
		"games":    len(input.Games),
		"referees": len(input.Referees),
		"venues":   len(input.Venues),
	}).Info("Starting scheduling run")

	domains := r.buildDomains()
	r.propagateUnary(domains)

	// Slots with no eligible referee at all cannot participate in search;
	// they go straight to the unassigned list so the rest can still solve.
	var unassigned []types.UnassignedGame
	solvable := make(domainMap, len(domains))
	for key, domain := range domains {
		if len(domain) == 0 {
			unassigned = append(unassigned, types.UnassignedGame{
				GameID:    key.GameID,
				Role:      key.Role,
				SlotIndex: key.SlotIndex,
				Reason:    reasonNoEligible,
			})
			continue
		}
		solvable[key] = domain
	}

	outcome := r.solve(ctx, solvable)

	for key := range solvable {
		if _, bound := outcome.assignments[key]; !bound {
			reason := reasonNoConsistent
			if outcome.budgetExhausted {
				reason = reasonBudget
			} else if outcome.deadlineExceeded {
				reason = reasonDeadline
			}
			unassigned = append(unassigned, types.UnassignedGame{
				GameID:    key.GameID,
				Role:      key.Role,
				SlotIndex: key.SlotIndex,
				Reason:    reason,
			})
		}
	}
	sort.Slice(unassigned, func(i, j int) bool {
		a, b := unassigned[i], unassigned[j]
		if a.GameID != b.GameID {
			return a.GameID.String() < b.GameID.String()
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.SlotIndex < b.SlotIndex
	})

	assignments := make([]types.Assignment, 0, len(outcome.assignments))
	for _, key := range sortedKeys(domains) {
		if a, ok := outcome.assignments[key]; ok {
			assignments = append(assignments, a)
		}
	}

	conflicts := r.evaluateConflicts(assignments, unassigned)
	if outcome.budgetExhausted || outcome.deadlineExceeded {
		conflicts = append(conflicts, types.Conflict{
			Type:        types.ConflictBudgetExhausted,
			Severity:    types.SeverityMedium,
			Description: fmt.Sprintf("search stopped after %d backtracks; result is best-effort", r.backtracks),
			Resolution:  "raise the search budget or reduce the problem size",
		})
	}

	metrics := r.computeMetrics(assignments, unassigned, conflicts)
	metrics.BacktracksUsed = r.backtracks
	metrics.SolveTimeMs = time.Since(start).Milliseconds()

	result.Assignments = assignments
	result.UnassignedGames = unassigned
	result.Conflicts = conflicts
	result.Metrics = metrics
	result.Suggestions = r.buildSuggestions(metrics, unassigned)
	result.Success = metrics.CoverageRate > s.cfg.CoverageSuccessThreshold && !hasCritical(conflicts)

	r.log.WithFields(logrus.Fields{
		"success":       result.Success,
		"coverage":      metrics.CoverageRate,
		"assignments":   len(assignments),
		"unassigned":    len(unassigned),
		"conflicts":     len(conflicts),
		"total_cost":    metrics.TotalCost,
		"solve_time_ms": metrics.SolveTimeMs,
	}).Info("Scheduling run complete")

	return result
}

// validate short-circuits structurally empty inputs before any search starts.
func (s *Service) validate(input *types.SchedulingContext) *types.SchedulingResult {
	var conflicts []types.Conflict

	if input == nil || len(input.Games) == 0 {
		conflicts = append(conflicts, types.Conflict{
			Type:        types.ConflictNoGames,
			Severity:    types.SeverityHigh,
			Description: "no games supplied to scheduler",
			Resolution:  "supply at least one game",
		})
	}
	if input == nil || len(input.Referees) == 0 {
		conflicts = append(conflicts, types.Conflict{
			Type:        types.ConflictNoReferees,
			Severity:    types.SeverityCritical,
			Description: "no referees supplied to scheduler",
			Resolution:  "supply at least one referee",
		})
	}
	if input == nil || len(input.Venues) == 0 {
		conflicts = append(conflicts, types.Conflict{
			Type:        types.ConflictNoVenues,
			Severity:    types.SeverityHigh,
			Description: "no venues supplied to scheduler",
			Resolution:  "supply at least one venue",
		})
	}

	if len(conflicts) == 0 {
		return nil
	}
	return &types.SchedulingResult{
		Success:   false,
		Conflicts: conflicts,
	}
}

func hasCritical(conflicts []types.Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == types.SeverityCritical {
			return true
		}
	}
	return false
}
