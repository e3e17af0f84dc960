// Package resolver maps free-text exercise names onto the muscle taxonomy.
//
// The matching is deliberately heuristic (substring containment plus shared
// significant tokens) and has no formal correctness guarantee. It lives
// behind a single type so the strategy can be swapped for something better
// without touching any caller. Callers must tolerate the Unknown bucket.
package resolver

import (
	"strings"

	"github.com/claude/trainload/internal/knowledge"
)

// Matching constants carried over from the original coaching tables.
// The shared-token threshold in particular is an unreviewed legacy value.
const (
	minSharedTokens   = 2
	significantLength = 3 // tokens shorter than this are ignored
)

// warmupMarker prefixes names like "warm-up: bench press".
var warmupMarkers = []string{"warm-up:", "warmup:", "warm up:"}

// qualifierCues begin equipment or location qualifiers that carry no
// muscle information ("press with dumbbells", "squat on smith machine").
var qualifierCues = []string{" with ", " on ", " using ", " at "}

// Resolution is the resolver output: a primary mover plus synergists.
type Resolution struct {
	Primary   knowledge.MuscleID   `json:"primary"`
	Secondary []knowledge.MuscleID `json:"secondary,omitempty"`
}

// Resolver matches exercise names against the knowledge base.
type Resolver struct {
	kb *knowledge.Base
}

// New creates a Resolver over the given knowledge base.
func New(kb *knowledge.Base) *Resolver {
	return &Resolver{kb: kb}
}

// Resolve maps an exercise name to its muscles. It is total: names that
// match nothing resolve to the Unknown muscle with no secondaries.
func (r *Resolver) Resolve(name string) Resolution {
	normalized := Normalize(name)
	if normalized == "" {
		return Resolution{Primary: knowledge.Unknown}
	}

	if def := r.matchCatalog(normalized); def != nil {
		return Resolution{Primary: def.Primary, Secondary: def.Secondary}
	}

	for _, kw := range r.kb.Keywords {
		if strings.Contains(normalized, kw.Stem) {
			return Resolution{Primary: kw.Primary, Secondary: kw.Secondary}
		}
	}

	return Resolution{Primary: knowledge.Unknown}
}

// Definition returns the catalog entry a name resolves to, or nil when
// only the keyword table (or nothing) matched.
func (r *Resolver) Definition(name string) *knowledge.ExerciseDefinition {
	return r.matchCatalog(Normalize(name))
}

func (r *Resolver) matchCatalog(normalized string) *knowledge.ExerciseDefinition {
	if normalized == "" {
		return nil
	}
	for i := range r.kb.Exercises {
		def := &r.kb.Exercises[i]
		if namesMatch(normalized, Normalize(def.Name)) {
			return def
		}
		for _, alias := range def.Aliases {
			if namesMatch(normalized, Normalize(alias)) {
				return def
			}
		}
	}
	return nil
}

// Normalize lowercases a name, strips warm-up markers and trailing
// equipment/location qualifiers, and collapses whitespace.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, marker := range warmupMarkers {
		if strings.HasPrefix(s, marker) {
			s = strings.TrimSpace(s[len(marker):])
			break
		}
	}
	for _, cue := range qualifierCues {
		if idx := strings.Index(s, cue); idx > 0 {
			s = s[:idx]
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// namesMatch reports whether two normalized names refer to the same
// exercise: equal, one contains the other, or they share at least
// minSharedTokens significant tokens.
func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return sharedSignificantTokens(a, b) >= minSharedTokens
}

func sharedSignificantTokens(a, b string) int {
	bTokens := make(map[string]bool)
	for _, tok := range strings.Fields(b) {
		if len(tok) >= significantLength {
			bTokens[tok] = true
		}
	}
	shared := 0
	for _, tok := range strings.Fields(a) {
		if len(tok) >= significantLength && bTokens[tok] {
			shared++
			delete(bTokens, tok) // count each token once
		}
	}
	return shared
}
