package alpha

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/technique"
)

type fakeWriter struct {
	rows      []models.WorkoutSetRow
	deleted   []time.Time
	insertErr error
	logs      []storage.ImportLog
}

func (f *fakeWriter) DeleteWorkoutSets(_ context.Context, _ int, d time.Time) (int64, error) {
	f.deleted = append(f.deleted, d)
	return 0, nil
}

func (f *fakeWriter) InsertWorkoutSets(_ context.Context, rows []models.WorkoutSetRow) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.rows = append(f.rows, rows...)
	return int64(len(rows)) - 1, nil
}

func (f *fakeWriter) InsertImportLog(_ context.Context, l storage.ImportLog) (int64, error) {
	f.logs = append(f.logs, l)
	return int64(len(f.logs)), nil
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestProviderIngest verifies a parsed export is flattened into rows, each
// session is cleared first, and the outcome is logged.
func TestProviderIngest(t *testing.T) {
	w := &fakeWriter{}
	p := NewProvider(w, quietLog())

	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.SessionsReceived != 2 || len(w.deleted) != 2 {
		t.Errorf("sessions = %d, deleted = %d, want 2/2", res.SessionsReceived, len(w.deleted))
	}
	// 5+3+4+3+4+3 in session one, 3 warmups + 3 working in session two.
	if res.SetsReceived != 28 || len(w.rows) != 28 {
		t.Errorf("sets = %d rows = %d, want 28", res.SetsReceived, len(w.rows))
	}
	if res.SetsInserted != 27 || res.SetsSkipped != 1 {
		t.Errorf("inserted = %d skipped = %d, want 27/1", res.SetsInserted, res.SetsSkipped)
	}
	if res.Techniques[string(technique.TypeDropSet)] != 1 {
		t.Errorf("techniques = %v, want one drop_set", res.Techniques)
	}
	for _, r := range w.rows {
		if r.UserID != 1 || r.CompletedAt.IsZero() {
			t.Fatalf("row = %+v, want user 1 with completion time", r)
		}
	}
	if len(w.logs) != 1 || w.logs[0].Status != "success" || w.logs[0].SetsInserted != 27 {
		t.Errorf("import logs = %+v", w.logs)
	}
}

// TestProviderIngestError verifies write failures are returned and logged.
func TestProviderIngestError(t *testing.T) {
	w := &fakeWriter{insertErr: errors.New("disk full")}
	p := NewProvider(w, quietLog())

	if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1); err == nil {
		t.Fatal("expected error")
	}
	if len(w.logs) != 1 || w.logs[0].Status != "error" || w.logs[0].ErrorMessage == nil {
		t.Errorf("import logs = %+v, want one error entry", w.logs)
	}
}

// TestParseTechnique verifies export modifiers map onto technique variants.
func TestParseTechnique(t *testing.T) {
	tests := []struct {
		in   string
		want technique.Technique
	}{
		{"", nil},
		{"2 dropsets", technique.DropSet{Drops: 2, DropPercentage: 20}},
		{"1 Drop Set", technique.DropSet{Drops: 1, DropPercentage: 20}},
		{"Myo-Reps", defaultMyoReps},
		{"rest-pause", defaultRestPause},
		{"cluster sets", defaultCluster},
		{"FST-7", defaultFST7},
		{"superset", technique.Superset{}},
		{"tempo 3-1-1", nil},
	}
	for _, tt := range tests {
		if got := ParseTechnique(tt.in); got != tt.want {
			t.Errorf("ParseTechnique(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
