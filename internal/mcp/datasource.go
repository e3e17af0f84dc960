package mcp

import (
	"context"
	"time"

	"github.com/claude/trainload/internal/mesocycle"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	RecentWorkoutLogs(ctx context.Context, userID, weeks int, now time.Time) ([]models.WorkoutLog, error)
	CurrentProgram(ctx context.Context, userID int) (*models.Program, error)
	GetProfile(ctx context.Context, userID int) (models.UserProfile, error)
	GetMesocycle(ctx context.Context, userID int, now time.Time) (mesocycle.State, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
