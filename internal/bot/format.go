package bot

import (
	"fmt"
	"strings"

	"github.com/claude/trainload/internal/autoreg"
	"github.com/claude/trainload/internal/mesocycle"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/volume"
)

func statusMark(s volume.Status) string {
	switch s {
	case volume.StatusOptimal:
		return "✅"
	case volume.StatusOver:
		return "⚠️"
	default:
		return "🔻"
	}
}

func formatVolumeReport(r volume.WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s\n\n", r.WeekStart.Format("Jan 2"))
	for _, mv := range r.Muscles {
		fmt.Fprintf(&b, "%s %s: %d sets (target %d-%d)\n",
			statusMark(mv.Status), mv.Name, mv.TotalSets, mv.Target.Min, mv.Target.Max)
	}
	fmt.Fprintf(&b, "\nOverall: %s", r.OverallStatus)
	if len(r.Recommendations) > 0 {
		b.WriteString("\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "\n• %s", rec)
		}
	}
	return b.String()
}

func formatRecovery(a autoreg.Analysis, rec autoreg.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recovery: %s\n", a.OverallStatus)
	fmt.Fprintf(&b, "Pump %.1f/5, soreness %.1f/5, trend %s\n", a.AvgPumpQuality, a.AvgSoreness, a.PerformanceTrend)
	if a.PainReported {
		fmt.Fprintf(&b, "Pain reported: %s\n", strings.Join(a.PainLocations, ", "))
	}
	fmt.Fprintf(&b, "\nRecommendation: %s", rec.Reason)
	for _, w := range rec.Warnings {
		fmt.Fprintf(&b, "\n⚠️ %s", w)
	}
	for _, s := range rec.Suggestions {
		fmt.Fprintf(&b, "\n• %s", s)
	}
	return b.String()
}

func formatProgram(p *models.Program, state mesocycle.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (week %d, %s ×%.1f)\n", p.Name, state.WeekNumber, state.Phase, state.VolumeMultiplier)
	for _, sess := range p.Sessions {
		fmt.Fprintf(&b, "\n%s\n", sess.Name)
		for _, ex := range sess.Exercises {
			fmt.Fprintf(&b, "  %s — %d sets", ex.Name, ex.Sets)
			if ex.RepRange != "" {
				fmt.Fprintf(&b, " × %s", ex.RepRange)
			}
			if ex.Weight > 0 {
				fmt.Fprintf(&b, " @ %.1fkg", ex.Weight)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMesocycle(s mesocycle.State) string {
	return fmt.Sprintf("Week %d of %d — %s phase (volume ×%.1f)\nCycle started %s",
		s.WeekNumber, s.TotalWeeks, s.Phase, s.VolumeMultiplier, s.StartDate.Format("Jan 2"))
}
