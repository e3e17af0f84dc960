package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/trainload/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SaveProgram stores a program version and marks it as the user's current
// baseline. Earlier versions stay in the table for history.
func (db *DB) SaveProgram(ctx context.Context, p *models.Program) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	sessions, err := json.Marshal(p.Sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE programs SET is_current = FALSE WHERE user_id = $1 AND is_current`,
		p.UserID); err != nil {
		return fmt.Errorf("clearing current program: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO programs (id, user_id, name, sessions, is_current, created_at)
		 VALUES ($1, $2, $3, $4, TRUE, $5)`,
		p.ID, p.UserID, p.Name, sessions, p.CreatedAt); err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return tx.Commit(ctx)
}

// CurrentProgram returns the user's baseline program, or ErrNotFound.
func (db *DB) CurrentProgram(ctx context.Context, userID int) (*models.Program, error) {
	var p models.Program
	var sessions []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, sessions, created_at
		 FROM programs
		 WHERE user_id = $1 AND is_current`,
		userID).Scan(&p.ID, &p.UserID, &p.Name, &sessions, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying current program: %w", err)
	}
	if err := json.Unmarshal(sessions, &p.Sessions); err != nil {
		return nil, fmt.Errorf("decoding sessions for program %s: %w", p.ID, err)
	}
	return &p, nil
}
