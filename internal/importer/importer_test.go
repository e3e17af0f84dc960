package importer

import (
	"strings"
	"testing"

	"github.com/claude/trainload/internal/models"
)

const sampleCSV = `date,session,exercise,reps,weight_kg,rir,warmup,pump,trend
2026-08-17,Push A,Bench Press,5,60,,1,,
2026-08-17,Push A,Bench Press,8,100,2,,4,improving
2026-08-17,Push A,Bench Press,8,100,1,,,
2026-08-17,Push A,Overhead Press,10,50,2,,,
2026-08-19,Pull A,Barbell Row,8,90,2,,3,
`

// TestParseCSVGrouping verifies rows are grouped into one log per
// date+session with warmups kept separate from working sets.
func TestParseCSVGrouping(t *testing.T) {
	logs, err := ParseCSV(strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}

	push := logs[0]
	if push.Session != "Push A" {
		t.Fatalf("first log session = %q, want Push A (oldest first)", push.Session)
	}
	if len(push.Exercises) != 3 {
		t.Fatalf("got %d exercises, want 3 (warmup bench, working bench, OHP)", len(push.Exercises))
	}

	var warmup, working *models.CompletedExercise
	for i := range push.Exercises {
		ex := &push.Exercises[i]
		if ex.Name == "Bench Press" {
			if ex.IsWarmup {
				warmup = ex
			} else {
				working = ex
			}
		}
	}
	if warmup == nil || len(warmup.Sets) != 1 {
		t.Fatal("warmup bench press with 1 set not found")
	}
	if working == nil || len(working.Sets) != 2 {
		t.Fatal("working bench press with 2 sets not found")
	}
	if working.Sets[0].Weight != 100 {
		t.Errorf("working set weight = %v, want 100", working.Sets[0].Weight)
	}
}

// TestParseCSVFeedback verifies per-row feedback columns land on the
// session's normalized feedback.
func TestParseCSVFeedback(t *testing.T) {
	logs, err := ParseCSV(strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	fb := logs[0].Feedback
	if fb.PumpQuality == nil || *fb.PumpQuality != 4 {
		t.Errorf("pump quality = %v, want 4", fb.PumpQuality)
	}
	if fb.PerformanceTrend == nil || *fb.PerformanceTrend != models.TrendImproving {
		t.Errorf("trend = %v, want improving", fb.PerformanceTrend)
	}
	if fb.Soreness24h != nil {
		t.Errorf("soreness = %v, want nil (absent in csv)", fb.Soreness24h)
	}
}

// TestParseCSVStableIDs verifies re-parsing the same file yields the
// same log IDs, so duplicate imports collide on the primary key.
func TestParseCSVStableIDs(t *testing.T) {
	first, err := ParseCSV(strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseCSV(strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("log %d ID changed between parses: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}

	other, err := ParseCSV(strings.NewReader(sampleCSV), 2)
	if err != nil {
		t.Fatal(err)
	}
	if other[0].ID == first[0].ID {
		t.Error("different users produced the same log ID")
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("session,reps\nPush,5\n"), 1)
	if err == nil {
		t.Fatal("ParseCSV succeeded without date/exercise columns")
	}
}

func TestParseCSVBadDate(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("date,exercise\nnot-a-date,Bench Press\n"), 1)
	if err == nil {
		t.Fatal("ParseCSV succeeded with invalid date")
	}
}

// TestStateDBRoundTrip verifies files are remembered by path+size+hash
// and a changed hash forces a re-import.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	done, err := state.IsImported("a.csv", 100, "hash1")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh state reports file as imported")
	}

	if err := state.MarkImported("a.csv", 100, "hash1"); err != nil {
		t.Fatal(err)
	}

	done, err = state.IsImported("a.csv", 100, "hash1")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}

	done, err = state.IsImported("a.csv", 100, "hash2")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("changed hash should force re-import")
	}
}
