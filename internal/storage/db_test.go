package storage

import "testing"

// TestPlaceholders verifies multi-row VALUES placeholders are numbered
// sequentially across rows.
func TestPlaceholders(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       string
	}{
		{0, 3, ""},
		{1, 1, "($1)"},
		{1, 3, "($1,$2,$3)"},
		{2, 3, "($1,$2,$3),($4,$5,$6)"},
		{3, 2, "($1,$2),($3,$4),($5,$6)"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.rows, tt.cols); got != tt.want {
			t.Errorf("placeholders(%d, %d) = %q, want %q", tt.rows, tt.cols, got, tt.want)
		}
	}
}

// TestPlaceholdersWorkoutSetWidth verifies the last placeholder of a batch
// matches the argument count InsertWorkoutSets builds.
func TestPlaceholdersWorkoutSetWidth(t *testing.T) {
	got := placeholders(4, workoutSetColumns)
	want := "$68)"
	if got[len(got)-len(want):] != want {
		t.Errorf("placeholders ends %q, want suffix %q", got[len(got)-10:], want)
	}
}
