package models

import "strings"

// Neutral defaults substituted when optional feedback fields are absent.
// The autoregulation engine documents and depends on these exact values.
const (
	DefaultPumpQuality = 3
	DefaultSoreness    = 3
)

// RawFeedback is the loose, optional-heavy shape clients send. Everything
// is normalized here, once, so partial fields never reach the engine.
type RawFeedback struct {
	Completion       string      `json:"completion"`
	Pain             *PainReport `json:"pain,omitempty"`
	PumpQuality      *int        `json:"pump_quality,omitempty"`
	Soreness24h      *int        `json:"soreness_24h,omitempty"`
	PerformanceTrend string      `json:"performance_trend,omitempty"`
	Readiness        *Readiness  `json:"readiness,omitempty"`
}

// NormalizeFeedback converts a raw client payload into strict internal
// feedback. Scale values are clamped to 1-5, enum strings mapped to their
// canonical form, and unrecognized values dropped rather than guessed.
func NormalizeFeedback(raw RawFeedback) SessionFeedback {
	fb := SessionFeedback{
		Completion: normalizeCompletion(raw.Completion),
	}
	if raw.Pain != nil {
		fb.Pain = *raw.Pain
		if !raw.Pain.HasPain {
			fb.Pain.Location = ""
			fb.Pain.Details = ""
		}
	}
	if raw.PumpQuality != nil {
		v := ClampScale(*raw.PumpQuality)
		fb.PumpQuality = &v
	}
	if raw.Soreness24h != nil {
		v := ClampScale(*raw.Soreness24h)
		fb.Soreness24h = &v
	}
	if trend, ok := ParseTrend(raw.PerformanceTrend); ok {
		fb.PerformanceTrend = &trend
	}
	if raw.Readiness != nil {
		r := Readiness{
			Sleep:    ClampScale(raw.Readiness.Sleep),
			Food:     ClampScale(raw.Readiness.Food),
			Stress:   ClampScale(raw.Readiness.Stress),
			Soreness: ClampScale(raw.Readiness.Soreness),
		}
		fb.Readiness = &r
	}
	return fb
}

// ParseTrend maps loose trend strings to the canonical enum. The second
// return is false when the value is empty or unrecognized.
func ParseTrend(s string) (PerformanceTrend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "improving", "better", "up":
		return TrendImproving, true
	case "stable", "same", "flat":
		return TrendStable, true
	case "declining", "worse", "down":
		return TrendDeclining, true
	}
	return "", false
}

func normalizeCompletion(s string) CompletionStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "partial", "incomplete":
		return CompletionPartial
	case "skipped", "missed":
		return CompletionSkipped
	default:
		return CompletionFull
	}
}

// ClampScale bounds a subjective rating to the 1-5 scale.
func ClampScale(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
