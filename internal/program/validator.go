// Package program validates generated training programs for structural
// coverage before they are accepted as a baseline.
//
// A program is a recurring weekly template, so validation counts declared
// sets, unlike the volume aggregator which counts performed history.
package program

import (
	"fmt"
	"sort"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/resolver"
)

// IssueType identifies a validation rule.
type IssueType string

const (
	IssueMissingMuscle     IssueType = "missing_muscle"
	IssueLowVolume         IssueType = "low_volume"
	IssueDuplicateExercise IssueType = "duplicate_exercise"
	IssueImbalance         IssueType = "imbalance"
)

// Severity grades an issue. Errors make the program invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Scoring weights.
const (
	errorPenalty   = 15
	warningPenalty = 5
)

// Antagonist ratio bounds: a pair's weekly volume ratio outside
// [minBalanceRatio, maxBalanceRatio] is flagged as imbalanced.
const (
	minBalanceRatio = 0.5
	maxBalanceRatio = 2.0
)

// requiredMuscles must each receive at least one weekly set.
var requiredMuscles = []knowledge.MuscleID{
	"chest", "back", "shoulders", "quads", "hamstrings", "biceps", "triceps", "core",
}

// antagonistPairs are checked for volume balance.
var antagonistPairs = [][2]knowledge.MuscleID{
	{"chest", "back"},
	{"quads", "hamstrings"},
	{"biceps", "triceps"},
}

// Issue is one validation finding.
type Issue struct {
	Type     IssueType          `json:"type"`
	Severity Severity           `json:"severity"`
	Muscle   knowledge.MuscleID `json:"muscle,omitempty"`
	Message  string             `json:"message"`
}

// MuscleCoverage is the per-muscle declared volume and session frequency.
type MuscleCoverage struct {
	Muscle     knowledge.MuscleID   `json:"muscle"`
	WeeklySets int                  `json:"weekly_sets"`
	Frequency  int                  `json:"frequency"`
	Target     knowledge.VolumeBand `json:"target"`
}

// Result is the validation outcome. Suggestions pair 1:1 with Issues.
type Result struct {
	IsValid     bool             `json:"is_valid"`
	Score       int              `json:"score"`
	Issues      []Issue          `json:"issues"`
	Suggestions []string         `json:"suggestions"`
	Coverage    []MuscleCoverage `json:"coverage"`
}

// MissingMuscles lists the required muscles with zero coverage, in the
// required-muscle order. The generation pipeline uses this to request an
// LLM gap-fill pass.
func (r Result) MissingMuscles() []knowledge.MuscleID {
	var missing []knowledge.MuscleID
	for _, issue := range r.Issues {
		if issue.Type == IssueMissingMuscle {
			missing = append(missing, issue.Muscle)
		}
	}
	return missing
}

// HasAllMajorMuscles reports whether every required muscle is covered.
func (r Result) HasAllMajorMuscles() bool {
	return len(r.MissingMuscles()) == 0
}

// Validator checks program structure against the knowledge base.
type Validator struct {
	kb  *knowledge.Base
	res *resolver.Resolver
}

// New creates a Validator.
func New(kb *knowledge.Base, res *resolver.Resolver) *Validator {
	return &Validator{kb: kb, res: res}
}

// Validate checks a program's weekly muscle coverage for the given
// profile. It is pure and total; a nil or empty program simply fails
// every required-muscle rule.
func (v *Validator) Validate(p *models.Program, profile models.UserProfile) Result {
	weeklySets := make(map[knowledge.MuscleID]int)
	frequency := make(map[knowledge.MuscleID]int)
	var issues []Issue

	if p != nil {
		for _, session := range p.Sessions {
			seenNames := make(map[string]bool)
			seenMuscles := make(map[knowledge.MuscleID]bool)
			for _, ex := range session.Exercises {
				normalized := resolver.Normalize(ex.Name)
				if seenNames[normalized] {
					issues = append(issues, Issue{
						Type:     IssueDuplicateExercise,
						Severity: SeverityWarning,
						Message:  fmt.Sprintf("%q appears more than once in session %q", ex.Name, session.Name),
					})
				}
				seenNames[normalized] = true

				res := v.res.Resolve(ex.Name)
				weeklySets[res.Primary] += ex.Sets
				seenMuscles[res.Primary] = true
			}
			// Frequency counts sessions, not exercises.
			for m := range seenMuscles {
				frequency[m]++
			}
		}
	}

	for _, id := range requiredMuscles {
		if weeklySets[id] == 0 {
			issues = append(issues, Issue{
				Type:     IssueMissingMuscle,
				Severity: SeverityError,
				Muscle:   id,
				Message:  fmt.Sprintf("no exercises target %s", v.muscleName(id)),
			})
		}
	}

	for _, m := range v.kb.Muscles {
		sets := weeklySets[m.ID]
		band := m.Bands[profile.Experience]
		// Zero-set muscles are covered by the required-muscle rule;
		// untrained optional muscles raise no issue.
		if sets > 0 && sets < band.Min {
			issues = append(issues, Issue{
				Type:     IssueLowVolume,
				Severity: SeverityWarning,
				Muscle:   m.ID,
				Message:  fmt.Sprintf("%s gets %d weekly sets, below the %d-set minimum", m.Name, sets, band.Min),
			})
		}
	}

	for _, pair := range antagonistPairs {
		a, b := weeklySets[pair[0]], weeklySets[pair[1]]
		if a == 0 || b == 0 {
			continue // missing_muscle already covers absent volume
		}
		ratio := float64(a) / float64(b)
		if ratio < minBalanceRatio || ratio > maxBalanceRatio {
			issues = append(issues, Issue{
				Type:     IssueImbalance,
				Severity: SeverityWarning,
				Muscle:   pair[0],
				Message: fmt.Sprintf("%s/%s volume ratio %.1f is outside the %.1f-%.1f balance range",
					v.muscleName(pair[0]), v.muscleName(pair[1]), ratio, minBalanceRatio, maxBalanceRatio),
			})
		}
	}

	result := Result{Issues: issues, Score: 100}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			result.Score -= errorPenalty
		case SeverityWarning:
			result.Score -= warningPenalty
		}
	}
	if result.Score < 0 {
		result.Score = 0
	}
	result.IsValid = true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			result.IsValid = false
			break
		}
	}
	result.Suggestions = suggestions(issues, v)

	for _, m := range v.kb.Muscles {
		result.Coverage = append(result.Coverage, MuscleCoverage{
			Muscle:     m.ID,
			WeeklySets: weeklySets[m.ID],
			Frequency:  frequency[m.ID],
			Target:     m.Bands[profile.Experience],
		})
	}
	sort.SliceStable(result.Coverage, func(i, j int) bool {
		return result.Coverage[i].WeeklySets < result.Coverage[j].WeeklySets
	})

	return result
}

func (v *Validator) muscleName(id knowledge.MuscleID) string {
	if m := v.kb.Muscle(id); m != nil {
		return m.Name
	}
	return string(id)
}

// suggestions derives one human-readable fix per issue, in issue order.
func suggestions(issues []Issue, v *Validator) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		switch issue.Type {
		case IssueMissingMuscle:
			out = append(out, fmt.Sprintf("Add an exercise that targets %s.", v.muscleName(issue.Muscle)))
		case IssueLowVolume:
			out = append(out, fmt.Sprintf("Add sets for %s to reach its weekly minimum.", v.muscleName(issue.Muscle)))
		case IssueDuplicateExercise:
			out = append(out, "Remove or replace the duplicated exercise within the session.")
		case IssueImbalance:
			out = append(out, fmt.Sprintf("Rebalance volume between %s and its antagonist.", v.muscleName(issue.Muscle)))
		}
	}
	return out
}
