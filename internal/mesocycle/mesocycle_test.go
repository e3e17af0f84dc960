package mesocycle

import (
	"testing"
	"time"

	"github.com/claude/trainload/internal/models"
)

var cycleStart = time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)

// TestPhaseProgression verifies the full 6-week phase sequence and its
// multipliers, then the wrap into a new cycle.
func TestPhaseProgression(t *testing.T) {
	want := []struct {
		week  int
		phase Phase
		mult  float64
	}{
		{1, PhaseIntro, 0.7},
		{2, PhaseAccumulation, 1.0},
		{3, PhaseAccumulation, 1.0},
		{4, PhaseOverreaching, 1.2},
		{5, PhaseOverreaching, 1.2},
		{6, PhaseDeload, 0.5},
		{1, PhaseIntro, 0.7}, // new cycle
	}

	s := NewState(cycleStart)
	for i, w := range want {
		if s.WeekNumber != w.week || s.Phase != w.phase || s.VolumeMultiplier != w.mult {
			t.Errorf("step %d: got week %d %s x%v, want week %d %s x%v",
				i, s.WeekNumber, s.Phase, s.VolumeMultiplier, w.week, w.phase, w.mult)
		}
		s = AdvanceWeek(s)
	}
}

// TestAdvanceWrapsStartDate verifies the new cycle's start date moves
// forward by the full cycle length.
func TestAdvanceWrapsStartDate(t *testing.T) {
	s := NewState(cycleStart)
	for i := 0; i < DefaultCycleWeeks; i++ {
		s = AdvanceWeek(s)
	}
	want := cycleStart.AddDate(0, 0, 7*DefaultCycleWeeks)
	if !s.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", s.StartDate, want)
	}
}

// TestDisplayProgramRoundsUp verifies overreaching scales a 3-set
// exercise to ceil(3 x 1.2) = 4 without touching the baseline.
func TestDisplayProgramRoundsUp(t *testing.T) {
	baseline := &models.Program{
		Name: "Base",
		Sessions: []models.ProgramSession{
			{Name: "Push", Exercises: []models.ProgramExercise{
				{Name: "Bench Press", Sets: 3, RepRange: "6-10", Weight: 80},
			}},
		},
	}
	s := State{WeekNumber: 4, TotalWeeks: 6, Phase: PhaseOverreaching, VolumeMultiplier: 1.2}

	shown := DisplayProgram(baseline, s)
	if got := shown.Sessions[0].Exercises[0].Sets; got != 4 {
		t.Errorf("displayed sets = %d, want 4", got)
	}
	if got := baseline.Sessions[0].Exercises[0].Sets; got != 3 {
		t.Errorf("baseline sets = %d, want untouched 3", got)
	}
}

// TestDisplayProgramDeloadFloor verifies deload never drops an exercise
// below one set.
func TestDisplayProgramDeloadFloor(t *testing.T) {
	baseline := &models.Program{
		Sessions: []models.ProgramSession{
			{Exercises: []models.ProgramExercise{{Name: "Plank", Sets: 1}}},
		},
	}
	s := State{Phase: PhaseDeload, VolumeMultiplier: 0.5, TotalWeeks: 6, WeekNumber: 6}

	shown := DisplayProgram(baseline, s)
	if got := shown.Sessions[0].Exercises[0].Sets; got != 1 {
		t.Errorf("displayed sets = %d, want 1", got)
	}
}
