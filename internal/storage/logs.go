package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/trainload/internal/models"
	"github.com/google/uuid"
)

// LogStore is the append-only workout-log interface the analysis
// pipeline consumes. Logs are never updated or deleted.
type LogStore interface {
	AppendWorkoutLog(ctx context.Context, log models.WorkoutLog) error
	ListWorkoutLogs(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutLog, error)
}

// AppendWorkoutLog inserts one workout log. Exercises and feedback are
// stored as JSONB payloads; re-sending the same log ID is a no-op.
func (db *DB) AppendWorkoutLog(ctx context.Context, log models.WorkoutLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	exercises, err := json.Marshal(log.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	feedback, err := json.Marshal(log.Feedback)
	if err != nil {
		return fmt.Errorf("encoding feedback: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, user_id, logged_at, session_name, exercises, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT DO NOTHING`,
		log.ID, log.UserID, log.Date, log.Session, exercises, feedback)
	if err != nil {
		return fmt.Errorf("inserting workout log: %w", err)
	}
	return nil
}

// ListWorkoutLogs retrieves logs in a half-open date range, oldest first.
func (db *DB) ListWorkoutLogs(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, logged_at, session_name, exercises, feedback
		 FROM workout_logs
		 WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
		 ORDER BY logged_at ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		var exercises, feedback []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.Session, &exercises, &feedback); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		if err := json.Unmarshal(exercises, &l.Exercises); err != nil {
			return nil, fmt.Errorf("decoding exercises for log %s: %w", l.ID, err)
		}
		if err := json.Unmarshal(feedback, &l.Feedback); err != nil {
			return nil, fmt.Errorf("decoding feedback for log %s: %w", l.ID, err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// RecentWorkoutLogs returns the trailing weeks of logs, oldest first.
func (db *DB) RecentWorkoutLogs(ctx context.Context, userID, weeks int, now time.Time) ([]models.WorkoutLog, error) {
	return db.ListWorkoutLogs(ctx, userID, now.AddDate(0, 0, -7*weeks), now.AddDate(0, 0, 1))
}
