// Package autoreg turns subjective recovery feedback into structural load
// adjustments on the training program.
//
// All functions are pure and total. Missing feedback fields fall back to
// the neutral defaults documented in the models package.
package autoreg

import (
	"fmt"
	"math"

	"github.com/claude/trainload/internal/models"
)

// RecoveryStatus is the overall read on the lifter's recovery state.
type RecoveryStatus string

const (
	StatusUnderStimulated RecoveryStatus = "under_stimulated"
	StatusOptimal         RecoveryStatus = "optimal"
	StatusUnderRecovered  RecoveryStatus = "under_recovered"
)

// AdjustmentType is the direction of a volume adjustment.
type AdjustmentType string

const (
	AdjustIncrease AdjustmentType = "increase"
	AdjustDecrease AdjustmentType = "decrease"
	AdjustMaintain AdjustmentType = "maintain"
)

// Thresholds carried over from the original rule tables.
const (
	DefaultWindow = 3

	lowPumpThreshold      = 2 // pump at or below this counts as low
	highSorenessThreshold = 4 // soreness at or above this counts as high

	techniqueWarningRun = 3 // consecutive low-pump workouts before flagging technique

	lowReadinessAvg  = 2.5 // windowed average below this forces a deload
	veryLowReadiness = 2.0 // latest score below this suggests a light day
	highReadinessAvg = 4.0 // windowed average at or above this allows pushing

	minSetsPerExercise = 1
	maxSetsPerExercise = 6
)

// Readiness composite weights (inputs are 1-5 each).
const (
	readinessSleepWeight    = 0.35
	readinessFoodWeight     = 0.20
	readinessStressWeight   = 0.20
	readinessSorenessWeight = 0.25
)

// Analysis summarizes recent subjective feedback.
type Analysis struct {
	OverallStatus           RecoveryStatus          `json:"overall_status"`
	AvgPumpQuality          float64                 `json:"avg_pump_quality"`
	AvgSoreness             float64                 `json:"avg_soreness"`
	PerformanceTrend        models.PerformanceTrend `json:"performance_trend"`
	ConsecutiveLowPump      int                     `json:"consecutive_low_pump_workouts"`
	ConsecutiveHighSoreness int                     `json:"consecutive_high_soreness_workouts"`
	PainReported            bool                    `json:"pain_reported"`
	PainLocations           []string                `json:"pain_locations,omitempty"`
}

// Adjustment is the structural change applied to every exercise.
type Adjustment struct {
	Type         AdjustmentType `json:"type"`
	SetsChange   int            `json:"sets_change"`
	WeightChange float64        `json:"weight_change_pct"`
}

// Recommendation is the full autoregulation output.
type Recommendation struct {
	Adjustment  Adjustment `json:"adjustment"`
	Reason      string     `json:"reason"`
	Warnings    []string   `json:"warnings,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

// Analyze inspects the trailing window of logs (chronological order,
// oldest first). An empty window yields neutral defaults: pump and
// soreness 3, stable trend, no pain.
func Analyze(logs []models.WorkoutLog, window int) Analysis {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(logs) > window {
		logs = logs[len(logs)-window:]
	}

	a := Analysis{
		AvgPumpQuality:   models.DefaultPumpQuality,
		AvgSoreness:      models.DefaultSoreness,
		PerformanceTrend: models.TrendStable,
	}
	if len(logs) == 0 {
		a.OverallStatus = StatusOptimal
		return a
	}

	var pumpSum, soreSum float64
	var pumpN, soreN int
	trendCounts := map[models.PerformanceTrend]int{}
	seenLocations := map[string]bool{}

	for _, l := range logs {
		fb := l.Feedback
		if fb.PumpQuality != nil {
			pumpSum += float64(*fb.PumpQuality)
			pumpN++
		}
		if fb.Soreness24h != nil {
			soreSum += float64(*fb.Soreness24h)
			soreN++
		}
		if fb.PerformanceTrend != nil {
			trendCounts[*fb.PerformanceTrend]++
		}
		if fb.Pain.HasPain {
			a.PainReported = true
			if fb.Pain.Location != "" && !seenLocations[fb.Pain.Location] {
				seenLocations[fb.Pain.Location] = true
				a.PainLocations = append(a.PainLocations, fb.Pain.Location)
			}
		}
	}
	if pumpN > 0 {
		a.AvgPumpQuality = pumpSum / float64(pumpN)
	}
	if soreN > 0 {
		a.AvgSoreness = soreSum / float64(soreN)
	}

	a.PerformanceTrend = dominantTrend(trendCounts, logs)
	a.ConsecutiveLowPump = trailingRun(logs, func(fb models.SessionFeedback) bool {
		return fb.PumpQuality != nil && *fb.PumpQuality <= lowPumpThreshold
	})
	a.ConsecutiveHighSoreness = trailingRun(logs, func(fb models.SessionFeedback) bool {
		return fb.Soreness24h != nil && *fb.Soreness24h >= highSorenessThreshold
	})

	switch {
	case a.AvgPumpQuality <= lowPumpThreshold && a.PerformanceTrend != models.TrendDeclining:
		a.OverallStatus = StatusUnderStimulated
	case a.PerformanceTrend == models.TrendDeclining || a.ConsecutiveHighSoreness >= 2:
		a.OverallStatus = StatusUnderRecovered
	default:
		a.OverallStatus = StatusOptimal
	}
	return a
}

// dominantTrend applies majority-with-recency: declining wins when it
// appears at least twice in the window or is the most recent entry,
// improving wins on a plain majority, everything else is stable.
func dominantTrend(counts map[models.PerformanceTrend]int, logs []models.WorkoutLog) models.PerformanceTrend {
	latest := logs[len(logs)-1].Feedback.PerformanceTrend
	if counts[models.TrendDeclining] >= 2 || (latest != nil && *latest == models.TrendDeclining) {
		return models.TrendDeclining
	}
	if counts[models.TrendImproving] >= 2 {
		return models.TrendImproving
	}
	return models.TrendStable
}

// trailingRun counts how many logs at the end of the window satisfy the
// predicate, scanning backward and stopping at the first log that fails
// or has the field undefined. The oldest entry of the window is never
// examined, so a full window caps the run at window-1.
func trailingRun(logs []models.WorkoutLog, check func(models.SessionFeedback) bool) int {
	run := 0
	for i := len(logs) - 1; i > 0; i-- {
		if !check(logs[i].Feedback) {
			break
		}
		run++
	}
	return run
}

// Recommend maps an analysis onto the fixed adjustment table.
func Recommend(a Analysis) Recommendation {
	var rec Recommendation
	switch a.OverallStatus {
	case StatusUnderStimulated:
		rec.Adjustment = Adjustment{Type: AdjustIncrease, SetsChange: 1, WeightChange: 0}
		rec.Reason = "Pump quality is consistently low: current volume is not providing enough stimulus."
	case StatusUnderRecovered:
		rec.Adjustment = Adjustment{Type: AdjustDecrease, SetsChange: -1, WeightChange: -5}
		rec.Reason = "Performance is declining or soreness is persistent: reduce the load to recover."
		rec.Warnings = append(rec.Warnings, "Recovery looks incomplete. Prioritize sleep and nutrition this week.")
	default:
		rec.Adjustment = Adjustment{Type: AdjustMaintain}
		rec.Reason = "Recovery and stimulus are in balance: keep the current load."
		if a.PerformanceTrend == models.TrendImproving {
			rec.Suggestions = append(rec.Suggestions, "Performance is trending up. Consider small weight increases where sets feel easy.")
		}
	}

	// Pain never changes the volume decision here; exercise substitution
	// is handled upstream by the coaching layer.
	if a.PainReported {
		if len(a.PainLocations) > 0 {
			for _, loc := range a.PainLocations {
				rec.Warnings = append(rec.Warnings, fmt.Sprintf("Pain reported in %s. Avoid movements that aggravate it and get it assessed if it persists.", loc))
			}
		} else {
			rec.Warnings = append(rec.Warnings, "Pain reported. Avoid movements that aggravate it and get it assessed if it persists.")
		}
	}
	if a.ConsecutiveLowPump >= techniqueWarningRun {
		rec.Warnings = append(rec.Warnings, "Pump has been poor for several sessions. Review exercise technique and mind-muscle connection.")
	}
	return rec
}

// ReadinessScore computes the weighted 1-5 composite from a check-in.
func ReadinessScore(r models.Readiness) float64 {
	return readinessSleepWeight*float64(r.Sleep) +
		readinessFoodWeight*float64(r.Food) +
		readinessStressWeight*float64(r.Stress) +
		readinessSorenessWeight*float64(r.Soreness)
}

// Apply analyzes the trailing logs, derives a recommendation with
// readiness overrides, and returns the adjusted program. A maintain
// decision returns the identical program pointer so callers can skip
// persistence.
func Apply(p *models.Program, logs []models.WorkoutLog) (*models.Program, Recommendation) {
	a := Analyze(logs, DefaultWindow)
	rec := Recommend(a)

	latest, avg, haveLatest, haveAvg := readinessWindow(logs, DefaultWindow)
	if haveAvg {
		// Overrides only ever push toward caution; high readiness is
		// advisory and never changes the structural adjustment.
		if avg < lowReadinessAvg && rec.Adjustment.Type != AdjustDecrease {
			rec.Adjustment = Adjustment{Type: AdjustDecrease, SetsChange: 0, WeightChange: -10}
			rec.Warnings = append(rec.Warnings, "Readiness scores are low. Weight reduced this week; keep sets in reserve.")
		}
		if haveLatest && latest < veryLowReadiness {
			rec.Suggestions = append(rec.Suggestions, "Today's readiness is very low. Consider a light technique day instead of the planned session.")
		}
		if avg >= highReadinessAvg && a.OverallStatus == StatusOptimal && a.PerformanceTrend == models.TrendImproving {
			rec.Suggestions = append(rec.Suggestions, "Readiness is high and performance is improving. A harder push this week should be recoverable.")
		}
	}

	if rec.Adjustment.Type == AdjustMaintain || p == nil {
		return p, rec
	}

	adjusted := p.Clone()
	for si := range adjusted.Sessions {
		for ei := range adjusted.Sessions[si].Exercises {
			ex := &adjusted.Sessions[si].Exercises[ei]
			ex.Sets = clampSets(ex.Sets + rec.Adjustment.SetsChange)
			if ex.Weight > 0 {
				w := math.Round(ex.Weight * (1 + rec.Adjustment.WeightChange/100))
				if w < 0 {
					w = 0
				}
				ex.Weight = w
			}
		}
	}
	return adjusted, rec
}

// readinessWindow averages check-in scores over the window. latest is
// the final log's score and haveLatest is false when that log carries no
// check-in: a stale score must not drive the light-day suggestion.
func readinessWindow(logs []models.WorkoutLog, window int) (latest, avg float64, haveLatest, haveAvg bool) {
	if len(logs) > window {
		logs = logs[len(logs)-window:]
	}
	var sum float64
	var n int
	for i, l := range logs {
		if l.Feedback.Readiness == nil {
			continue
		}
		score := ReadinessScore(*l.Feedback.Readiness)
		sum += score
		n++
		if i == len(logs)-1 {
			latest = score
			haveLatest = true
		}
	}
	if n == 0 {
		return 0, 0, false, false
	}
	return latest, sum / float64(n), haveLatest, true
}

func clampSets(sets int) int {
	if sets < minSetsPerExercise {
		return minSetsPerExercise
	}
	if sets > maxSetsPerExercise {
		return maxSetsPerExercise
	}
	return sets
}
