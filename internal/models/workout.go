package models

import (
	"time"

	"github.com/google/uuid"
)

// PerformanceTrend is the lifter's own read on how the session went
// relative to recent history.
type PerformanceTrend string

const (
	TrendImproving PerformanceTrend = "improving"
	TrendStable    PerformanceTrend = "stable"
	TrendDeclining PerformanceTrend = "declining"
)

// CompletionStatus records how much of the planned session was done.
type CompletionStatus string

const (
	CompletionFull    CompletionStatus = "full"
	CompletionPartial CompletionStatus = "partial"
	CompletionSkipped CompletionStatus = "skipped"
)

// CompletedSet is one performed set.
type CompletedSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight_kg"`
	RIR    float64 `json:"rir"`
}

// CompletedExercise is one exercise within a logged session.
// DeclaredSets/DeclaredReps are what the plan called for; Sets holds what
// actually happened and may be shorter or empty.
type CompletedExercise struct {
	Name         string         `json:"name"`
	DeclaredSets int            `json:"declared_sets"`
	DeclaredReps int            `json:"declared_reps"`
	Sets         []CompletedSet `json:"sets,omitempty"`
	IsWarmup     bool           `json:"is_warmup,omitempty"`
}

// PainReport captures any pain mentioned in session feedback.
type PainReport struct {
	HasPain  bool   `json:"has_pain"`
	Location string `json:"location,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Readiness is the subjective 1-5 recovery check-in. Higher is always
// better: a stress of 5 means relaxed, a soreness of 5 means fresh.
type Readiness struct {
	Sleep    int `json:"sleep"`
	Food     int `json:"food"`
	Stress   int `json:"stress"`
	Soreness int `json:"soreness"`
}

// SessionFeedback is the subjective debrief attached to a workout log.
// Pointer fields are optional; the autoregulation engine substitutes
// neutral defaults where they are nil.
type SessionFeedback struct {
	Completion       CompletionStatus  `json:"completion"`
	Pain             PainReport        `json:"pain"`
	PumpQuality      *int              `json:"pump_quality,omitempty"`
	Soreness24h      *int              `json:"soreness_24h,omitempty"`
	PerformanceTrend *PerformanceTrend `json:"performance_trend,omitempty"`
	Readiness        *Readiness        `json:"readiness,omitempty"`
}

// WorkoutLog is one completed training session. Logs are append-only:
// once stored they are never edited.
type WorkoutLog struct {
	ID        uuid.UUID           `json:"id"`
	UserID    int                 `json:"user_id"`
	Date      time.Time           `json:"date"`
	Session   string              `json:"session"`
	Exercises []CompletedExercise `json:"exercises"`
	Feedback  SessionFeedback     `json:"feedback"`
}

// SetCount returns the number of working sets for volume accounting:
// the performed set count, falling back to the declared count when no
// sets were recorded.
func (e CompletedExercise) SetCount() int {
	if len(e.Sets) > 0 {
		return len(e.Sets)
	}
	return e.DeclaredSets
}
