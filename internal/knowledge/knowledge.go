package knowledge

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/muscles.yaml data/exercises.yaml
var dataFS embed.FS

// MuscleID identifies a muscle group in the taxonomy.
type MuscleID string

// Unknown is the sentinel bucket for exercises the resolver cannot place.
const Unknown MuscleID = "unknown"

// ExperienceTier buckets users by training history for volume band lookup.
type ExperienceTier string

const (
	TierBeginner     ExperienceTier = "beginner"
	TierIntermediate ExperienceTier = "intermediate"
	TierAdvanced     ExperienceTier = "advanced"
)

// ParseTier maps free-form input to a tier, defaulting to intermediate.
func ParseTier(s string) ExperienceTier {
	switch ExperienceTier(s) {
	case TierBeginner, TierIntermediate, TierAdvanced:
		return ExperienceTier(s)
	}
	return TierIntermediate
}

// Goal selects a rep range from an exercise definition.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
)

// MovementPattern classifies an exercise by its mechanical pattern.
type MovementPattern string

const (
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternIsolation      MovementPattern = "isolation"
	PatternCarry          MovementPattern = "carry"
	PatternRotation       MovementPattern = "rotation"
)

// VolumeBand is a weekly set target range for one (muscle, tier) pair.
// Min is the minimum effective volume, Max the maximum recoverable volume.
type VolumeBand struct {
	Min     int `yaml:"min" json:"min"`
	Optimal int `yaml:"optimal" json:"optimal"`
	Max     int `yaml:"max" json:"max"`
}

// MuscleGroup is one entry in the muscle taxonomy.
type MuscleGroup struct {
	ID            MuscleID   `yaml:"id" json:"id"`
	Name          string     `yaml:"name" json:"name"`
	Major         bool       `yaml:"major" json:"major"`
	WeeklyMinSets int        `yaml:"weekly_min_sets" json:"weekly_min_sets"`
	WeeklyMaxSets int        `yaml:"weekly_max_sets" json:"weekly_max_sets"`
	RecoveryHours int        `yaml:"recovery_hours" json:"recovery_hours"`
	Synergists    []MuscleID `yaml:"synergists,omitempty" json:"synergists,omitempty"`

	// Bands holds the weekly volume band per experience tier.
	Bands map[ExperienceTier]VolumeBand `yaml:"bands" json:"bands"`
}

// ExerciseDefinition is one catalog entry.
type ExerciseDefinition struct {
	ID         string          `yaml:"id" json:"id"`
	Name       string          `yaml:"name" json:"name"`
	Aliases    []string        `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Primary    MuscleID        `yaml:"primary" json:"primary"`
	Secondary  []MuscleID      `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Pattern    MovementPattern `yaml:"pattern" json:"pattern"`
	Equipment  []string        `yaml:"equipment,omitempty" json:"equipment,omitempty"`
	Difficulty ExperienceTier  `yaml:"difficulty" json:"difficulty"`

	// RepRanges maps a training goal to a rep range like "8-12".
	// Missing goals fall back to DefaultRepRanges.
	RepRanges map[Goal]string `yaml:"rep_ranges,omitempty" json:"rep_ranges,omitempty"`
}

// DefaultRepRanges is used when a catalog entry has no per-goal override.
var DefaultRepRanges = map[Goal]string{
	GoalStrength:    "3-5",
	GoalHypertrophy: "8-12",
	GoalEndurance:   "15-20",
}

// KeywordRule maps a short name stem to a muscle for resolver fallback.
type KeywordRule struct {
	Stem      string     `yaml:"stem" json:"stem"`
	Primary   MuscleID   `yaml:"primary" json:"primary"`
	Secondary []MuscleID `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// synergistOverride adjusts the partial-stimulus credit for one muscle pair.
type synergistOverride struct {
	Primary   MuscleID `yaml:"primary"`
	Secondary MuscleID `yaml:"secondary"`
	Credit    float64  `yaml:"credit"`
}

type musclesFile struct {
	Muscles            []MuscleGroup       `yaml:"muscles"`
	SynergistCredit    float64             `yaml:"synergist_credit"`
	SynergistOverrides []synergistOverride `yaml:"synergist_overrides"`
}

type exercisesFile struct {
	Exercises []ExerciseDefinition `yaml:"exercises"`
	Keywords  []KeywordRule        `yaml:"keywords"`
}

// Base holds the loaded, immutable knowledge tables.
type Base struct {
	Muscles   []MuscleGroup
	Exercises []ExerciseDefinition
	Keywords  []KeywordRule

	byID            map[MuscleID]*MuscleGroup
	synergistCredit float64
	synergistByPair map[[2]MuscleID]float64
}

// Load parses and validates the embedded knowledge tables.
// Call once at process start; the returned Base is read-only.
func Load() (*Base, error) {
	var mf musclesFile
	raw, err := dataFS.ReadFile("data/muscles.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading muscles table: %w", err)
	}
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("parsing muscles table: %w", err)
	}

	var ef exercisesFile
	raw, err = dataFS.ReadFile("data/exercises.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading exercise catalog: %w", err)
	}
	if err := yaml.Unmarshal(raw, &ef); err != nil {
		return nil, fmt.Errorf("parsing exercise catalog: %w", err)
	}

	b := &Base{
		Muscles:         mf.Muscles,
		Exercises:       ef.Exercises,
		Keywords:        ef.Keywords,
		byID:            make(map[MuscleID]*MuscleGroup, len(mf.Muscles)),
		synergistCredit: mf.SynergistCredit,
		synergistByPair: make(map[[2]MuscleID]float64, len(mf.SynergistOverrides)),
	}
	if b.synergistCredit <= 0 || b.synergistCredit >= 1 {
		return nil, fmt.Errorf("synergist_credit %v out of (0,1)", b.synergistCredit)
	}
	for i := range b.Muscles {
		m := &b.Muscles[i]
		if _, dup := b.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate muscle id %q", m.ID)
		}
		b.byID[m.ID] = m
	}
	for _, ov := range mf.SynergistOverrides {
		if ov.Credit <= 0 || ov.Credit >= 1 {
			return nil, fmt.Errorf("synergist override %s->%s credit %v out of (0,1)", ov.Primary, ov.Secondary, ov.Credit)
		}
		b.synergistByPair[[2]MuscleID{ov.Primary, ov.Secondary}] = ov.Credit
	}

	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("knowledge validation: %w", err)
	}
	return b, nil
}

func (b *Base) validate() error {
	tiers := []ExperienceTier{TierBeginner, TierIntermediate, TierAdvanced}
	for _, m := range b.Muscles {
		for _, tier := range tiers {
			band, ok := m.Bands[tier]
			if !ok {
				return fmt.Errorf("muscle %s: missing %s band", m.ID, tier)
			}
			if band.Min > band.Optimal || band.Optimal > band.Max {
				return fmt.Errorf("muscle %s tier %s: band %d/%d/%d violates min <= optimal <= max",
					m.ID, tier, band.Min, band.Optimal, band.Max)
			}
		}
		for _, syn := range m.Synergists {
			if _, ok := b.byID[syn]; !ok {
				return fmt.Errorf("muscle %s: unknown synergist %s", m.ID, syn)
			}
		}
	}
	for _, ex := range b.Exercises {
		if _, ok := b.byID[ex.Primary]; !ok {
			return fmt.Errorf("exercise %s: unknown primary muscle %s", ex.ID, ex.Primary)
		}
		for _, sec := range ex.Secondary {
			if _, ok := b.byID[sec]; !ok {
				return fmt.Errorf("exercise %s: unknown secondary muscle %s", ex.ID, sec)
			}
		}
	}
	for _, kw := range b.Keywords {
		if _, ok := b.byID[kw.Primary]; !ok {
			return fmt.Errorf("keyword %q: unknown muscle %s", kw.Stem, kw.Primary)
		}
	}
	return nil
}

// Muscle looks up a muscle group by id. Returns nil for unknown ids.
func (b *Base) Muscle(id MuscleID) *MuscleGroup {
	return b.byID[id]
}

// Band returns the weekly volume band for a muscle at an experience tier.
// Unknown muscles (including the Unknown sentinel) get a zero band.
func (b *Base) Band(id MuscleID, tier ExperienceTier) VolumeBand {
	m := b.byID[id]
	if m == nil {
		return VolumeBand{}
	}
	return m.Bands[tier]
}

// SynergistMultiplier returns the fractional set credit a secondary muscle
// receives when it assists the given primary. The per-pair overrides and the
// default are unreviewed legacy constants kept as data.
func (b *Base) SynergistMultiplier(primary, secondary MuscleID) float64 {
	if credit, ok := b.synergistByPair[[2]MuscleID{primary, secondary}]; ok {
		return credit
	}
	return b.synergistCredit
}

// RepRange returns the rep range for an exercise under a goal, falling back
// to the package defaults.
func (ex *ExerciseDefinition) RepRange(goal Goal) string {
	if r, ok := ex.RepRanges[goal]; ok {
		return r
	}
	if r, ok := DefaultRepRanges[goal]; ok {
		return r
	}
	return DefaultRepRanges[GoalHypertrophy]
}
