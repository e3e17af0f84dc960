package llm

import (
	"strings"
	"testing"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/program"
)

const draftJSON = `{
  "name": "Upper/Lower",
  "sessions": [
    {"name": "Upper", "exercises": [{"name": "Bench Press", "sets": 4, "rep_range": "8-12"}]},
    {"name": "Lower", "exercises": [{"name": "Squat", "sets": 4, "rep_range": "6-10"}]}
  ]
}`

func TestParseProgram(t *testing.T) {
	p, err := ParseProgram(draftJSON)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if p.Name != "Upper/Lower" {
		t.Errorf("name = %q, want Upper/Lower", p.Name)
	}
	if len(p.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(p.Sessions))
	}
	if p.Sessions[0].Exercises[0].Sets != 4 {
		t.Errorf("sets = %d, want 4", p.Sessions[0].Exercises[0].Sets)
	}
}

// TestParseProgramCodeFence verifies markdown fences around the JSON are
// tolerated; models add them despite the JSON response mode.
func TestParseProgramCodeFence(t *testing.T) {
	fenced := "```json\n" + draftJSON + "\n```"
	p, err := ParseProgram(fenced)
	if err != nil {
		t.Fatalf("ParseProgram(fenced): %v", err)
	}
	if p.Name != "Upper/Lower" {
		t.Errorf("name = %q, want Upper/Lower", p.Name)
	}
}

func TestParseProgramInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", "the program is: bench press"},
		{"no sessions", `{"name": "Empty", "sessions": []}`},
		{"empty session", `{"name": "X", "sessions": [{"name": "A", "exercises": []}]}`},
	}
	for _, tc := range cases {
		if _, err := ParseProgram(tc.in); err == nil {
			t.Errorf("%s: ParseProgram succeeded, want error", tc.name)
		}
	}
}

// TestGapFillOnly verifies the repair loop's branch selection: a draft
// failing only on muscle coverage is patched via a gap-fill request,
// any other blocking error forces a full redraft.
func TestGapFillOnly(t *testing.T) {
	valid := program.Result{IsValid: true}
	if gapFillOnly(valid) {
		t.Error("valid result should not take the gap-fill path")
	}

	coverage := program.Result{Issues: []program.Issue{
		{Type: program.IssueMissingMuscle, Severity: program.SeverityError, Muscle: "core"},
		{Type: program.IssueLowVolume, Severity: program.SeverityWarning, Muscle: "calves"},
	}}
	if !gapFillOnly(coverage) {
		t.Error("coverage-only failure should take the gap-fill path")
	}

	mixed := program.Result{Issues: []program.Issue{
		{Type: program.IssueMissingMuscle, Severity: program.SeverityError, Muscle: "core"},
		{Type: program.IssueDuplicateExercise, Severity: program.SeverityError},
	}}
	if gapFillOnly(mixed) {
		t.Error("non-coverage error should force a redraft")
	}

	got := muscleNames([]knowledge.MuscleID{"chest", "hamstrings"})
	if len(got) != 2 || got[0] != "chest" || got[1] != "hamstrings" {
		t.Errorf("muscleNames = %v, want [chest hamstrings]", got)
	}
}

func TestBuildGeneratePrompt(t *testing.T) {
	profile := models.UserProfile{
		Experience: knowledge.TierAdvanced,
		Goal:       knowledge.GoalStrength,
		Injuries:   []string{"right shoulder"},
	}
	prompt := buildGeneratePrompt(profile, "WEEKLY TRAINING VOLUME\n...")

	for _, want := range []string{"advanced", "strength", "right shoulder", "WEEKLY TRAINING VOLUME"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
