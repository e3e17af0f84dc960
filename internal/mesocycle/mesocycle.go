// Package mesocycle models the periodization state machine that scales
// displayed training volume across a fixed-length cycle.
//
// The multiplier only ever affects the presentation copy of a program;
// the stored baseline is never mutated.
package mesocycle

import (
	"math"
	"time"

	"github.com/claude/trainload/internal/models"
)

// Phase is one stage of the cycle.
type Phase string

const (
	PhaseIntro        Phase = "intro"
	PhaseAccumulation Phase = "accumulation"
	PhaseOverreaching Phase = "overreaching"
	PhaseDeload       Phase = "deload"
)

// DefaultCycleWeeks is the standard mesocycle length.
const DefaultCycleWeeks = 6

// State is the periodization position for one user. A single instance
// runs per user, advanced by the weekly clock.
type State struct {
	WeekNumber       int       `json:"week_number"`
	TotalWeeks       int       `json:"total_weeks"`
	Phase            Phase     `json:"phase"`
	VolumeMultiplier float64   `json:"volume_multiplier"`
	StartDate        time.Time `json:"start_date"`
}

// NewState starts a fresh cycle at week 1.
func NewState(start time.Time) State {
	phase, mult := phaseFor(1, DefaultCycleWeeks)
	return State{
		WeekNumber:       1,
		TotalWeeks:       DefaultCycleWeeks,
		Phase:            phase,
		VolumeMultiplier: mult,
		StartDate:        start,
	}
}

// phaseFor maps a week number within the cycle to its phase and
// multiplier: intro(w1, x0.7), accumulation(w2-3, x1.0),
// overreaching(w4-5, x1.2), deload(final week, x0.5).
func phaseFor(week, total int) (Phase, float64) {
	switch {
	case week <= 1:
		return PhaseIntro, 0.7
	case week >= total:
		return PhaseDeload, 0.5
	case week >= total-2:
		return PhaseOverreaching, 1.2
	default:
		return PhaseAccumulation, 1.0
	}
}

// AdvanceWeek returns the state one week later, wrapping into a new
// cycle after the deload week. It never mutates its input.
func AdvanceWeek(s State) State {
	total := s.TotalWeeks
	if total <= 0 {
		total = DefaultCycleWeeks
	}
	week := s.WeekNumber + 1
	start := s.StartDate
	if week > total {
		week = 1
		start = start.AddDate(0, 0, 7*total)
	}
	phase, mult := phaseFor(week, total)
	return State{
		WeekNumber:       week,
		TotalWeeks:       total,
		Phase:            phase,
		VolumeMultiplier: mult,
		StartDate:        start,
	}
}

// DisplayProgram returns a presentation copy of the baseline with every
// exercise's declared sets scaled by the phase multiplier, rounded up.
// The baseline itself is untouched.
func DisplayProgram(baseline *models.Program, s State) *models.Program {
	if baseline == nil {
		return nil
	}
	out := baseline.Clone()
	for si := range out.Sessions {
		for ei := range out.Sessions[si].Exercises {
			ex := &out.Sessions[si].Exercises[ei]
			ex.Sets = int(math.Ceil(float64(ex.Sets) * s.VolumeMultiplier))
			if ex.Sets < 1 {
				ex.Sets = 1
			}
		}
	}
	return out
}
