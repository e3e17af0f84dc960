package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetProfile returns the user's training profile. Users without a stored
// profile get intermediate/hypertrophy defaults rather than an error so
// analysis can run before onboarding finishes.
func (db *DB) GetProfile(ctx context.Context, userID int) (models.UserProfile, error) {
	p := models.UserProfile{
		UserID:     userID,
		Experience: knowledge.TierIntermediate,
		Goal:       knowledge.GoalHypertrophy,
	}
	var injuries []string
	err := db.Pool.QueryRow(ctx,
		`SELECT experience, goal, injuries FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.Experience, &p.Goal, &injuries)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("querying profile: %w", err)
	}
	p.Injuries = injuries
	return p, nil
}

// UpsertProfile stores the user's training profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.UserProfile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (user_id, experience, goal, injuries)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
			SET experience = $2, goal = $3, injuries = $4, updated_at = NOW()`,
		p.UserID, p.Experience, p.Goal, p.Injuries)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
