package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/liftplan/internal/ingest"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
)

// SetWriter stores parsed set rows. Implemented by the Postgres and SQLite stores.
type SetWriter interface {
	DeleteWorkoutSets(ctx context.Context, userID int, sessionDate time.Time) (int64, error)
	InsertWorkoutSets(ctx context.Context, rows []models.WorkoutSetRow) (int64, error)
}

// ImportLogger records import outcomes. Optional on the writer.
type ImportLogger interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	w   SetWriter
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(w SetWriter, log *slog.Logger) *Provider {
	return &Provider{w: w, log: log}
}

// Ingest parses a CSV export and stores the workout set data.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	start := time.Now()
	result, err := p.ingest(ctx, r, userID)
	p.recordImport(ctx, userID, result, err, time.Since(start))
	return result, err
}

func (p *Provider) ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	var allRows []models.WorkoutSetRow

	// Delete existing sets per session so re-imports always reflect the latest parser output.
	for _, s := range sessions {
		replaced, err := p.w.DeleteWorkoutSets(ctx, userID, s.Date)
		if err != nil {
			return nil, fmt.Errorf("deleting existing sets for session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		result.SetsReplaced += replaced

		for _, ex := range s.Exercises {
			if t := ParseTechnique(ex.Technique); t != nil {
				if result.Techniques == nil {
					result.Techniques = make(map[string]int)
				}
				result.Techniques[string(t.Type())]++
			} else if ex.Technique != "" {
				p.log.Warn("unrecognized exercise modifier", "exercise", ex.Name, "modifier", ex.Technique)
			}
		}
		allRows = append(allRows, s.Rows(userID)...)
	}

	result.SetsReceived = len(allRows)
	if len(allRows) > 0 {
		inserted, err := p.w.InsertWorkoutSets(ctx, allRows)
		if err != nil {
			return nil, fmt.Errorf("inserting sets: %w", err)
		}
		result.SetsInserted = inserted
		result.SetsSkipped = int64(len(allRows)) - inserted
	}

	p.log.Info("alpha import complete",
		"sessions", result.SessionsReceived,
		"sets", result.SetsReceived,
		"inserted", result.SetsInserted,
	)
	return result, nil
}

func (p *Provider) recordImport(ctx context.Context, userID int, result *ingest.Result, ingestErr error, elapsed time.Duration) {
	logger, ok := p.w.(ImportLogger)
	if !ok {
		return
	}
	ms := int(elapsed.Milliseconds())
	entry := storage.ImportLog{
		UserID:     userID,
		Source:     "alpha_progression",
		Status:     "success",
		DurationMs: &ms,
	}
	if result != nil {
		entry.Sessions = result.SessionsReceived
		entry.SetsReceived = result.SetsReceived
		entry.SetsInserted = result.SetsInserted
	}
	if ingestErr != nil {
		msg := ingestErr.Error()
		entry.Status = "error"
		entry.ErrorMessage = &msg
	}
	if _, err := logger.InsertImportLog(ctx, entry); err != nil {
		p.log.Warn("failed to record import log", "error", err)
	}
}
