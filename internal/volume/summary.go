package volume

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
)

// SummaryStatus grades the overall weekly coverage.
type SummaryStatus string

const (
	SummaryNoData    SummaryStatus = "no_data"
	SummaryNeedsWork SummaryStatus = "needs_work"
	SummaryGood      SummaryStatus = "good"
	SummaryExcellent SummaryStatus = "excellent"
)

// Score bands for the summary status.
const (
	scoreGood      = 50
	scoreExcellent = 80
	scorePctCap    = 150 // per-muscle contribution cap before averaging
)

// Summary condenses the weekly report into a dashboard-card shape:
// major movers separated from the smaller assistance muscles, plus a
// single 0-100 coverage score.
type Summary struct {
	WeekStart        time.Time      `json:"week_start"`
	PrimaryMuscles   []MuscleVolume `json:"primary_muscles"`
	SecondaryMuscles []MuscleVolume `json:"secondary_muscles"`
	OverallScore     int            `json:"overall_score"`
	Status           SummaryStatus  `json:"status"`
}

// VolumeSummary partitions the weekly report into primary/secondary
// buckets and grades overall coverage.
func (a *Aggregator) VolumeSummary(logs []models.WorkoutLog, tier knowledge.ExperienceTier, now time.Time) Summary {
	report := a.WeeklyVolume(logs, tier, now)

	s := Summary{WeekStart: report.WeekStart}
	totalVolume := 0
	pctSum := 0.0
	for _, row := range report.Muscles {
		totalVolume += row.TotalSets
		pctSum += math.Min(float64(row.PercentOfOptimal), scorePctCap)
		if m := a.kb.Muscle(row.Muscle); m != nil && m.Major {
			s.PrimaryMuscles = append(s.PrimaryMuscles, row)
		} else {
			s.SecondaryMuscles = append(s.SecondaryMuscles, row)
		}
	}

	if totalVolume == 0 {
		s.Status = SummaryNoData
		return s
	}

	score := int(math.Round(pctSum / float64(len(report.Muscles))))
	if score > 100 {
		score = 100
	}
	s.OverallScore = score
	switch {
	case score >= scoreExcellent:
		s.Status = SummaryExcellent
	case score >= scoreGood:
		s.Status = SummaryGood
	default:
		s.Status = SummaryNeedsWork
	}
	return s
}

// PromptBlock renders a weekly report as the plain-text block embedded
// verbatim in LLM prompts. Downstream prompts key off the exact labels,
// so treat the format as a soft wire contract.
func PromptBlock(report WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "WEEKLY TRAINING VOLUME (week of %s)\n", report.WeekStart.Format("2006-01-02"))
	fmt.Fprintf(&b, "overall_status: %s\n", report.OverallStatus)
	for _, row := range report.Muscles {
		fmt.Fprintf(&b, "- %s: total_sets=%d direct=%d indirect=%.1f target=%d-%d status=%s percent_of_optimal=%d\n",
			row.Muscle, row.TotalSets, row.DirectSets, row.IndirectSets,
			row.Target.Min, row.Target.Max, row.Status, row.PercentOfOptimal)
	}
	if len(report.Recommendations) > 0 {
		b.WriteString("recommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	return b.String()
}
