// Package importer loads workout history from CSV exports into the
// append-only log store. A local SQLite state database remembers which
// files were already imported so repeated runs are cheap, and log IDs
// are content-derived so partial re-imports cannot duplicate sessions.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/trainload/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int
	LogsParsed     int
	LogsInserted   int
}

// Importer reads CSV exports from a directory and appends workout logs.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	userID int
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil to disable file skipping
// (every file is parsed each run; the stable log IDs still prevent
// duplicate rows).
func New(db *storage.DB, state *StateDB, userID int, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, userID: userID, log: log, dryRun: dryRun}
}

// Import processes all .csv files under dir.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return &imp.stats, err
	}

	for _, f := range files {
		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var hash string
	if imp.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		done, err := imp.state.IsImported(filepath.Base(path), info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	logs, err := ParseCSV(f, imp.userID)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	imp.stats.LogsParsed += len(logs)

	if imp.dryRun {
		imp.stats.FilesProcessed++
		imp.log.Info("dry run", "file", filepath.Base(path), "logs", len(logs))
		return nil
	}

	for _, log := range logs {
		if err := imp.db.AppendWorkoutLog(ctx, log); err != nil {
			return fmt.Errorf("inserting log %s: %w", log.ID, err)
		}
		imp.stats.LogsInserted++
	}

	if imp.state != nil {
		if err := imp.state.MarkImported(filepath.Base(path), info.Size(), hash); err != nil {
			return fmt.Errorf("marking state: %w", err)
		}
	}

	imp.stats.FilesProcessed++
	imp.log.Info("imported", "file", filepath.Base(path), "logs", len(logs))
	return nil
}
