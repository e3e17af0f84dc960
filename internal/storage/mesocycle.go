package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/trainload/internal/mesocycle"
	"github.com/jackc/pgx/v5"
)

// GetMesocycle returns the user's periodization state. Users without a
// stored row get a fresh cycle starting now; callers persist it on the
// next advance.
func (db *DB) GetMesocycle(ctx context.Context, userID int, now time.Time) (mesocycle.State, error) {
	var s mesocycle.State
	err := db.Pool.QueryRow(ctx,
		`SELECT week_number, total_weeks, phase, volume_multiplier, start_date
		 FROM mesocycles WHERE user_id = $1`,
		userID).Scan(&s.WeekNumber, &s.TotalWeeks, &s.Phase, &s.VolumeMultiplier, &s.StartDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return mesocycle.NewState(now), nil
	}
	if err != nil {
		return s, fmt.Errorf("querying mesocycle: %w", err)
	}
	return s, nil
}

// SaveMesocycle stores the user's periodization state.
func (db *DB) SaveMesocycle(ctx context.Context, userID int, s mesocycle.State) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO mesocycles (user_id, week_number, total_weeks, phase, volume_multiplier, start_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
			SET week_number = $2, total_weeks = $3, phase = $4,
			    volume_multiplier = $5, start_date = $6, updated_at = NOW()`,
		userID, s.WeekNumber, s.TotalWeeks, s.Phase, s.VolumeMultiplier, s.StartDate)
	if err != nil {
		return fmt.Errorf("upserting mesocycle: %w", err)
	}
	return nil
}

// AdvanceAllMesocycles moves every stored cycle forward one week. Called
// by the weekly scheduler; returns the number of users advanced.
func (db *DB) AdvanceAllMesocycles(ctx context.Context) (int, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, week_number, total_weeks, phase, volume_multiplier, start_date FROM mesocycles`)
	if err != nil {
		return 0, fmt.Errorf("querying mesocycles: %w", err)
	}
	defer rows.Close()

	type userState struct {
		userID int
		state  mesocycle.State
	}
	var all []userState
	for rows.Next() {
		var us userState
		if err := rows.Scan(&us.userID, &us.state.WeekNumber, &us.state.TotalWeeks,
			&us.state.Phase, &us.state.VolumeMultiplier, &us.state.StartDate); err != nil {
			return 0, fmt.Errorf("scanning mesocycle: %w", err)
		}
		all = append(all, us)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	advanced := 0
	for _, us := range all {
		next := mesocycle.AdvanceWeek(us.state)
		if err := db.SaveMesocycle(ctx, us.userID, next); err != nil {
			return advanced, err
		}
		advanced++
	}
	return advanced, nil
}
