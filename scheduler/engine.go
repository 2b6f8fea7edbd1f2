package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/pkg/config"
	"github.com/courtside-dev/ref-scheduler/types"
)

// slotKey identifies one decision variable: a single official slot of a game.
type slotKey struct {
	GameID    uuid.UUID
	Role      types.OfficialRole
	SlotIndex int
}

func (k slotKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.GameID, k.Role, k.SlotIndex)
}

// less orders slot keys deterministically so MRV ties and iteration order are
// reproducible across runs.
func (k slotKey) less(other slotKey) bool {
	a, b := k.GameID.String(), other.GameID.String()
	if a != b {
		return a < b
	}
	if k.Role != other.Role {
		return k.Role < other.Role
	}
	return k.SlotIndex < other.SlotIndex
}

// run carries the per-request state of one scheduling pass: indexed context,
// the shared distance cache and the search budget counters.
type run struct {
	id        string
	cfg       *config.EngineConfig
	log       *logrus.Entry
	input     *types.SchedulingContext
	objective types.OptimizationObjective
	now       time.Time

	games     map[uuid.UUID]*types.Game
	venues    map[uuid.UUID]*types.Venue
	referees  map[uuid.UUID]*types.Referee
	distances *distanceCache

	requirements map[slotKey]types.RequiredOfficial

	backtracks int64
	deadline   time.Time
}

func newRun(cfg *config.EngineConfig, log *logrus.Entry, input *types.SchedulingContext, objective types.OptimizationObjective, distances *distanceCache, now time.Time) *run {
	r := &run{
		id:           uuid.New().String(),
		cfg:          cfg,
		log:          log,
		input:        input,
		objective:    objective,
		now:          now,
		games:        make(map[uuid.UUID]*types.Game, len(input.Games)),
		venues:       make(map[uuid.UUID]*types.Venue, len(input.Venues)),
		referees:     make(map[uuid.UUID]*types.Referee, len(input.Referees)),
		distances:    distances,
		requirements: make(map[slotKey]types.RequiredOfficial),
	}
	for i := range input.Games {
		r.games[input.Games[i].ID] = &input.Games[i]
	}
	for i := range input.Venues {
		r.venues[input.Venues[i].ID] = &input.Venues[i]
	}
	for i := range input.Referees {
		r.referees[input.Referees[i].ID] = &input.Referees[i]
	}
	if cfg.Deadline > 0 {
		// Wall clock, not r.now: r.now may be pinned for pay calculations.
		r.deadline = time.Now().Add(cfg.Deadline)
	}
	return r
}

func (r *run) game(id uuid.UUID) *types.Game       { return r.games[id] }
func (r *run) venue(id uuid.UUID) *types.Venue     { return r.venues[id] }
func (r *run) referee(id uuid.UUID) *types.Referee { return r.referees[id] }

// Effective per-referee limits, falling back to the league-wide constraints
// when the referee record leaves a field unset.

func (r *run) maxGamesPerDay(ref *types.Referee) int {
	if ref.MaxGamesPerDay > 0 {
		return ref.MaxGamesPerDay
	}
	if r.input.Constraints.MaxGamesPerDay > 0 {
		return r.input.Constraints.MaxGamesPerDay
	}
	return 3
}

func (r *run) maxGamesPerWeek(ref *types.Referee) int {
	if ref.MaxGamesPerWeek > 0 {
		return ref.MaxGamesPerWeek
	}
	if r.input.Constraints.MaxGamesPerWeek > 0 {
		return r.input.Constraints.MaxGamesPerWeek
	}
	return 10
}

func (r *run) minRestMinutes(ref *types.Referee) int {
	if ref.MinRestMinutes > 0 {
		return ref.MinRestMinutes
	}
	return r.input.Constraints.MinRestMinutes
}

// homeToVenueMiles returns the referee's travel distance to a game's venue.
// Unknown venues are treated as unreachable.
func (r *run) homeToVenueMiles(ref *types.Referee, game *types.Game) (float64, bool) {
	venue := r.venue(game.VenueID)
	if venue == nil {
		return 0, false
	}
	return r.distances.Miles(ref.HomeLocation, venue.Location), true
}

// travelMinutes estimates door-to-door travel between two venues, including
// the fixed transition buffer.
func (r *run) travelMinutes(fromVenue, toVenue uuid.UUID) float64 {
	if fromVenue == toVenue {
		return 0
	}
	from := r.venue(fromVenue)
	to := r.venue(toVenue)
	if from == nil || to == nil {
		return float64(r.cfg.TravelBufferMinutes)
	}
	miles := r.distances.Miles(from.Location, to.Location)
	return miles/r.cfg.TravelSpeedMph*60 + float64(r.cfg.TravelBufferMinutes)
}

func (r *run) logPhase(phase string, fields logrus.Fields) {
	entry := r.log.WithField("phase", phase)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Info("Scheduling phase complete")
}
