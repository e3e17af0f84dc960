package models

import (
	"time"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/google/uuid"
)

// ProgramExercise is one prescribed exercise in a session template.
type ProgramExercise struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	RepRange string  `json:"rep_range"`
	Weight   float64 `json:"weight_kg,omitempty"`
}

// ProgramSession is one recurring session in the weekly template.
type ProgramSession struct {
	Name      string            `json:"name"`
	Exercises []ProgramExercise `json:"exercises"`
}

// Program is the weekly training template. It is a recurring plan, not a
// history: declared sets count once per week per session.
type Program struct {
	ID        uuid.UUID        `json:"id"`
	UserID    int              `json:"user_id"`
	Name      string           `json:"name"`
	Sessions  []ProgramSession `json:"sessions"`
	CreatedAt time.Time        `json:"created_at"`
}

// Clone returns a deep copy so transforms can adjust sets and weights
// without touching the stored baseline.
func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	out := *p
	out.Sessions = make([]ProgramSession, len(p.Sessions))
	for i, s := range p.Sessions {
		cs := s
		cs.Exercises = make([]ProgramExercise, len(s.Exercises))
		copy(cs.Exercises, s.Exercises)
		out.Sessions[i] = cs
	}
	return &out
}

// UserProfile is the slice of profile data the engine cares about.
type UserProfile struct {
	UserID     int                      `json:"user_id"`
	Experience knowledge.ExperienceTier `json:"experience"`
	Goal       knowledge.Goal           `json:"goal"`
	Injuries   []string                 `json:"injuries,omitempty"`
}
