// Package volume aggregates weekly training volume per muscle against
// experience-adjusted target bands.
//
// Every function is pure: output depends only on the supplied logs, tier,
// and reference time. Nothing is cached, so callers recompute after each
// appended log and never serve a stale snapshot.
package volume

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/resolver"
)

// Status classifies one muscle's weekly volume against its band.
type Status string

const (
	StatusUnder   Status = "under"
	StatusOptimal Status = "optimal"
	StatusOver    Status = "over"
)

// OverallStatus summarizes the whole week.
type OverallStatus string

const (
	OverallNeedsMore OverallStatus = "needs_more"
	OverallTooMuch   OverallStatus = "too_much"
	OverallMixed     OverallStatus = "mixed"
	OverallOptimal   OverallStatus = "optimal"
)

// Thresholds for deriving the overall weekly status.
const (
	needsMoreUnderCount = 3 // more than this many under-volume muscles
	tooMuchOverCount    = 2 // more than this many over-volume muscles
	maxRecommendations  = 3
)

// MuscleVolume is the per-muscle weekly volume row. IndirectSets is the
// fractional synergist credit, rounded for display.
type MuscleVolume struct {
	Muscle           knowledge.MuscleID   `json:"muscle"`
	Name             string               `json:"name"`
	DirectSets       int                  `json:"direct_sets"`
	IndirectSets     float64              `json:"indirect_sets"`
	TotalSets        int                  `json:"total_sets"`
	Target           knowledge.VolumeBand `json:"target"`
	Status           Status               `json:"status"`
	PercentOfOptimal int                  `json:"percent_of_optimal"`
}

// WeeklyReport is the full weekly volume breakdown.
type WeeklyReport struct {
	WeekStart       time.Time      `json:"week_start"`
	Muscles         []MuscleVolume `json:"muscles"`
	OverallStatus   OverallStatus  `json:"overall_status"`
	Recommendations []string       `json:"recommendations"`
}

// Aggregator computes volume reports from workout history.
type Aggregator struct {
	kb  *knowledge.Base
	res *resolver.Resolver
}

// New creates an Aggregator over the given knowledge base.
func New(kb *knowledge.Base, res *resolver.Resolver) *Aggregator {
	return &Aggregator{kb: kb, res: res}
}

// WeekStart returns the Monday 00:00 of the week containing t, in t's
// location. Week windows are half-open [start, start+7d).
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started 6 days ago
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.AddDate(0, 0, -(weekday - 1))
}

// WeeklyVolume aggregates the current week's volume. The week window is
// Monday-aligned around now.
func (a *Aggregator) WeeklyVolume(logs []models.WorkoutLog, tier knowledge.ExperienceTier, now time.Time) WeeklyReport {
	start := WeekStart(now)
	return a.weekReport(logs, tier, start, start.AddDate(0, 0, 7))
}

// VolumeHistory returns one report per trailing calendar week, oldest
// first, ending with the week containing now.
func (a *Aggregator) VolumeHistory(logs []models.WorkoutLog, tier knowledge.ExperienceTier, weeks int, now time.Time) []WeeklyReport {
	current := WeekStart(now)
	reports := make([]WeeklyReport, 0, weeks)
	for w := weeks - 1; w >= 0; w-- {
		start := current.AddDate(0, 0, -7*w)
		reports = append(reports, a.weekReport(logs, tier, start, start.AddDate(0, 0, 7)))
	}
	return reports
}

func (a *Aggregator) weekReport(logs []models.WorkoutLog, tier knowledge.ExperienceTier, start, end time.Time) WeeklyReport {
	direct := make(map[knowledge.MuscleID]int)
	indirect := make(map[knowledge.MuscleID]float64)
	logged := 0

	for _, l := range logs {
		if l.Date.Before(start) || !l.Date.Before(end) {
			continue
		}
		logged++
		for _, ex := range l.Exercises {
			if ex.IsWarmup {
				continue
			}
			sets := ex.SetCount()
			if sets <= 0 {
				continue
			}
			res := a.res.Resolve(ex.Name)
			direct[res.Primary] += sets
			for _, sec := range res.Secondary {
				indirect[sec] += float64(sets) * a.kb.SynergistMultiplier(res.Primary, sec)
			}
		}
	}

	report := WeeklyReport{WeekStart: start}
	var underCount, overCount int
	for _, m := range a.kb.Muscles {
		row := MuscleVolume{
			Muscle:       m.ID,
			Name:         m.Name,
			DirectSets:   direct[m.ID],
			IndirectSets: math.Round(indirect[m.ID]*10) / 10,
			Target:       m.Bands[tier],
		}
		row.TotalSets = row.DirectSets + int(math.Round(indirect[m.ID]))
		switch {
		case row.TotalSets < row.Target.Min:
			row.Status = StatusUnder
			underCount++
		case row.TotalSets > row.Target.Max:
			row.Status = StatusOver
			overCount++
		default:
			row.Status = StatusOptimal
		}
		if row.Target.Optimal > 0 {
			row.PercentOfOptimal = int(math.Round(float64(row.TotalSets) / float64(row.Target.Optimal) * 100))
		}
		report.Muscles = append(report.Muscles, row)
	}

	sort.SliceStable(report.Muscles, func(i, j int) bool {
		return statusRank(report.Muscles[i].Status) < statusRank(report.Muscles[j].Status)
	})

	switch {
	case underCount > needsMoreUnderCount:
		report.OverallStatus = OverallNeedsMore
	case overCount > tooMuchOverCount:
		report.OverallStatus = OverallTooMuch
	case underCount > 0 || overCount > 0:
		report.OverallStatus = OverallMixed
	default:
		report.OverallStatus = OverallOptimal
	}

	report.Recommendations = a.recommendations(report, logged)
	return report
}

func statusRank(s Status) int {
	switch s {
	case StatusUnder:
		return 0
	case StatusOptimal:
		return 1
	default:
		return 2
	}
}

// recommendations produces up to three short coaching hints. The muscle
// list is already sorted under-first, and within the under block rows keep
// their taxonomy order, so picking from the front names the most relevant
// gaps.
func (a *Aggregator) recommendations(report WeeklyReport, logged int) []string {
	if logged == 0 {
		return []string{"No workouts logged this week. Log your sessions to track volume coverage."}
	}

	var under, over []MuscleVolume
	for _, row := range report.Muscles {
		switch row.Status {
		case StatusUnder:
			under = append(under, row)
		case StatusOver:
			over = append(over, row)
		}
	}
	// Most undertrained first.
	sort.SliceStable(under, func(i, j int) bool {
		return under[i].PercentOfOptimal < under[j].PercentOfOptimal
	})

	var recs []string
	for _, row := range under {
		if len(recs) >= maxRecommendations-1 && len(over) > 0 {
			break
		}
		if len(recs) >= maxRecommendations {
			break
		}
		missing := row.Target.Min - row.TotalSets
		recs = append(recs, fmt.Sprintf("Add at least %d weekly sets for %s (currently %d, minimum %d).",
			missing, row.Name, row.TotalSets, row.Target.Min))
	}
	for _, row := range over {
		if len(recs) >= maxRecommendations {
			break
		}
		recs = append(recs, fmt.Sprintf("Reduce %s volume: %d weekly sets exceeds the %d-set recoverable maximum.",
			row.Name, row.TotalSets, row.Target.Max))
	}
	return recs
}
