package models

import "testing"

func intPtr(v int) *int { return &v }

// TestNormalizeFeedbackClamps verifies scale values outside 1-5 are
// clamped rather than rejected.
func TestNormalizeFeedbackClamps(t *testing.T) {
	fb := NormalizeFeedback(RawFeedback{
		PumpQuality: intPtr(9),
		Soreness24h: intPtr(-2),
		Readiness:   &Readiness{Sleep: 0, Food: 6, Stress: 3, Soreness: 5},
	})

	if *fb.PumpQuality != 5 {
		t.Errorf("pump = %d, want 5", *fb.PumpQuality)
	}
	if *fb.Soreness24h != 1 {
		t.Errorf("soreness = %d, want 1", *fb.Soreness24h)
	}
	if fb.Readiness.Sleep != 1 || fb.Readiness.Food != 5 {
		t.Errorf("readiness = %+v, want sleep 1 food 5", fb.Readiness)
	}
}

// TestNormalizeFeedbackOptionalStayNil verifies absent optional fields
// are not filled in at the boundary; the engine substitutes defaults.
func TestNormalizeFeedbackOptionalStayNil(t *testing.T) {
	fb := NormalizeFeedback(RawFeedback{Completion: "full"})

	if fb.PumpQuality != nil {
		t.Error("pump should stay nil when absent")
	}
	if fb.Soreness24h != nil {
		t.Error("soreness should stay nil when absent")
	}
	if fb.PerformanceTrend != nil {
		t.Error("trend should stay nil when absent")
	}
	if fb.Readiness != nil {
		t.Error("readiness should stay nil when absent")
	}
}

// TestNormalizeFeedbackPainCleared verifies location and details are
// dropped when has_pain is false.
func TestNormalizeFeedbackPainCleared(t *testing.T) {
	fb := NormalizeFeedback(RawFeedback{
		Pain: &PainReport{HasPain: false, Location: "left knee", Details: "twinge"},
	})

	if fb.Pain.HasPain {
		t.Error("has_pain should stay false")
	}
	if fb.Pain.Location != "" || fb.Pain.Details != "" {
		t.Errorf("pain fields not cleared: %+v", fb.Pain)
	}
}

func TestParseTrend(t *testing.T) {
	cases := []struct {
		in   string
		want PerformanceTrend
		ok   bool
	}{
		{"improving", TrendImproving, true},
		{"Better", TrendImproving, true},
		{"up", TrendImproving, true},
		{"stable", TrendStable, true},
		{"same", TrendStable, true},
		{"FLAT", TrendStable, true},
		{"declining", TrendDeclining, true},
		{"worse", TrendDeclining, true},
		{"down", TrendDeclining, true},
		{"", "", false},
		{"sideways", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseTrend(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseTrend(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

// TestSetCountFallback verifies declared sets count when no performed
// sets were recorded.
func TestSetCountFallback(t *testing.T) {
	ex := CompletedExercise{Name: "Bench Press", DeclaredSets: 4}
	if got := ex.SetCount(); got != 4 {
		t.Errorf("SetCount() = %d, want 4 (declared)", got)
	}

	ex.Sets = []CompletedSet{{Reps: 8}, {Reps: 8}, {Reps: 6}}
	if got := ex.SetCount(); got != 3 {
		t.Errorf("SetCount() = %d, want 3 (performed)", got)
	}
}

func TestNormalizeCompletion(t *testing.T) {
	cases := []struct {
		in   string
		want CompletionStatus
	}{
		{"full", CompletionFull},
		{"", CompletionFull},
		{"partial", CompletionPartial},
		{"Incomplete", CompletionPartial},
		{"skipped", CompletionSkipped},
		{"missed", CompletionSkipped},
	}
	for _, tc := range cases {
		fb := NormalizeFeedback(RawFeedback{Completion: tc.in})
		if fb.Completion != tc.want {
			t.Errorf("completion %q = %q, want %q", tc.in, fb.Completion, tc.want)
		}
	}
}

func TestProgramClone(t *testing.T) {
	p := &Program{
		Name: "PPL",
		Sessions: []ProgramSession{
			{Name: "Push", Exercises: []ProgramExercise{{Name: "Bench Press", Sets: 4}}},
		},
	}

	c := p.Clone()
	c.Sessions[0].Exercises[0].Sets = 9

	if p.Sessions[0].Exercises[0].Sets != 4 {
		t.Error("Clone shares exercise backing array with original")
	}

	var nilP *Program
	if nilP.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
