package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/trainload/internal/autoreg"
	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/mesocycle"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/volume"
)

func TestFormatVolumeReport(t *testing.T) {
	report := volume.WeeklyReport{
		WeekStart: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		Muscles: []volume.MuscleVolume{
			{Name: "Chest", TotalSets: 12, Target: knowledge.VolumeBand{Min: 10, Optimal: 14, Max: 20}, Status: volume.StatusOptimal},
			{Name: "Back", TotalSets: 4, Target: knowledge.VolumeBand{Min: 10, Optimal: 16, Max: 22}, Status: volume.StatusUnder},
		},
		OverallStatus:   volume.OverallMixed,
		Recommendations: []string{"Add sets for Back"},
	}

	got := formatVolumeReport(report)
	for _, want := range []string{"Aug 17", "Chest: 12 sets", "target 10-20", "mixed", "Add sets for Back"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatVolumeReport missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatRecovery(t *testing.T) {
	a := autoreg.Analysis{
		OverallStatus:    autoreg.StatusUnderRecovered,
		AvgPumpQuality:   2.5,
		AvgSoreness:      4.2,
		PerformanceTrend: models.TrendDeclining,
		PainReported:     true,
		PainLocations:    []string{"left knee"},
	}
	rec := autoreg.Recommend(a)

	got := formatRecovery(a, rec)
	for _, want := range []string{"under_recovered", "2.5", "declining", "left knee"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatRecovery missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatProgram(t *testing.T) {
	p := &models.Program{
		Name: "PPL",
		Sessions: []models.ProgramSession{
			{Name: "Push", Exercises: []models.ProgramExercise{
				{Name: "Bench Press", Sets: 4, RepRange: "8-12", Weight: 80},
				{Name: "Lateral Raise", Sets: 3},
			}},
		},
	}
	state := mesocycle.NewState(time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC))

	got := formatProgram(p, state)
	for _, want := range []string{"PPL", "week 1", "intro", "Bench Press — 4 sets × 8-12 @ 80.0kg", "Lateral Raise — 3 sets"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatProgram missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatMesocycle(t *testing.T) {
	s := mesocycle.State{
		WeekNumber:       6,
		TotalWeeks:       6,
		Phase:            mesocycle.PhaseDeload,
		VolumeMultiplier: 0.5,
		StartDate:        time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC),
	}
	got := formatMesocycle(s)
	for _, want := range []string{"Week 6 of 6", "deload", "0.5", "Jul 13"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatMesocycle missing %q in:\n%s", want, got)
		}
	}
}
