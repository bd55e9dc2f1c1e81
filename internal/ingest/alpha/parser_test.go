package alpha

import (
	"strings"
	"testing"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/go-cmp/cmp"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions verifies a two-session export yields every
// exercise with its equipment, target reps and set counts.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	s1 := sessions[0]
	if s1.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" || s1.Duration != "1:02 hr" {
		t.Errorf("s1 = %q / %q", s1.Name, s1.Duration)
	}
	if s1.Date.Format("2006-01-02 15:04") != "2026-02-19 04:54" {
		t.Errorf("s1.Date = %v", s1.Date)
	}

	type summary struct {
		Name, Equipment string
		Target, Sets    int
	}
	var got []summary
	for _, ex := range s1.Exercises {
		got = append(got, summary{ex.Name, ex.Equipment, ex.TargetReps, len(ex.Sets)})
	}
	want := []summary{
		{"Hack Squats", "Machine", 8, 5},
		{"Sumo Squats", "Smith machine", 10, 3},
		{"Hyperextensions on Roman Chair", "Bodyweight", 10, 4},
		{"Reverse Lunges", "Dumbbells", 10, 3},
		{"Standing Calf Raises", "Machine", 12, 4},
		{"Hanging Leg Raises", "Bodyweight", 12, 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}

	bench := sessions[1].Exercises[0]
	if bench.Name != "Bench Press" || len(bench.Sets) != 6 {
		t.Errorf("bench = %q with %d sets, want Bench Press with 6", bench.Name, len(bench.Sets))
	}
	if last := bench.Sets[5]; last.WeightKg != 100 || last.Reps != 6 || last.RIR != 0 {
		t.Errorf("last bench set = %+v", last)
	}
}

// TestParseWeight verifies decimal commas and the +N bodyweight notation.
// "+0" is bodyweight only; negative loads are rejected.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		bw     bool
	}{
		{"102,5", 102.5, false},
		{"115", 115, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" 2,25 ", 2.25, false},
	}
	for _, tt := range tests {
		w, bw, err := parseWeight(tt.in)
		if err != nil {
			t.Errorf("parseWeight(%q) error: %v", tt.in, err)
			continue
		}
		if w != tt.weight || bw != tt.bw {
			t.Errorf("parseWeight(%q) = (%v, %v), want (%v, %v)", tt.in, w, bw, tt.weight, tt.bw)
		}
	}
	for _, bad := range []string{"-5", "heavy", ""} {
		if _, _, err := parseWeight(bad); err == nil {
			t.Errorf("parseWeight(%q) should fail", bad)
		}
	}
}

// TestParseRIR verifies half-RIR values and the untracked sentinel for
// blank or dashed cells.
func TestParseRIR(t *testing.T) {
	tests := map[string]float64{
		"0,5": 0.5,
		"2":   2,
		"0":   0,
		"":    untrackedRIR,
		"-":   untrackedRIR,
		"–":   untrackedRIR,
	}
	for in, want := range tests {
		if got := parseRIR(in); got != want {
			t.Errorf("parseRIR(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestUntrackedRIRSet verifies a set row with an empty RIR column still
// parses and converts to a record without RIR.
func TestUntrackedRIRSet(t *testing.T) {
	csv := `"Pull";"2026-03-02 18:10 h";"0:48 hr"
"1. Lat Pulldown · Cable · 10 reps"
#;KG;REPS;RIR
1;60;10;
2;60;9;-
`
	sessions, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	sets := sessions[0].Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	for _, row := range sessions[0].Rows(1) {
		if rec := row.ToSetRecord(); rec.RIR != nil {
			t.Errorf("set %d RIR = %v, want nil", row.SetNumber, *rec.RIR)
		}
	}
}

// TestWarmupParsing verifies warmup extraction from the exercise header's
// second field, including bodyweight-plus entries and junk between <br>s.
func TestWarmupParsing(t *testing.T) {
	sets := parseWarmups("WU1 · 37,5 kg · 9 reps<br>notes<br>WU2 · +0 kg · 7 reps")
	want := []models.AlphaSet{
		{Number: 1, WeightKg: 37.5, Reps: 9, RIR: untrackedRIR, IsWarmup: true},
		{Number: 2, WeightKg: 0, IsBodyweightPlus: true, Reps: 7, RIR: untrackedRIR, IsWarmup: true},
	}
	if diff := cmp.Diff(want, sets); diff != "" {
		t.Errorf("warmups mismatch (-want +got):\n%s", diff)
	}
	if parseWarmups("") != nil {
		t.Error("empty warmup field should yield nil")
	}
}

// TestSessionWithoutBlankLine verifies a new session header closes the
// previous session even without a separating blank line.
func TestSessionWithoutBlankLine(t *testing.T) {
	csv := `"A";"2026-03-01 9:00 h";"0:30 hr"
"1. Curl · Dumbbells · 12 reps"
1;14;12;2
"B";"2026-03-03 9:00 h";"0:30 hr"
"1. Dip · Bodyweight · 10 reps"
1;+10;10;1
`
	sessions, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 || sessions[0].Exercises[0].Name != "Curl" || sessions[1].Exercises[0].Name != "Dip" {
		t.Errorf("sessions = %+v", sessions)
	}
}

// TestParseErrorsCarryLineNumbers verifies structural errors name the line.
func TestParseErrorsCarryLineNumbers(t *testing.T) {
	tests := []struct {
		name, csv, want string
	}{
		{"exercise without session", "\n\"1. Curl · Dumbbells · 12 reps\"\n", "line 2: exercise without session"},
		{"set without exercise", "\"A\";\"2026-03-01 9:00 h\";\"0:30 hr\"\n1;14;12;2\n", "line 2: set data without exercise"},
		{"negative weight", "\"A\";\"2026-03-01 9:00 h\";\"0:30 hr\"\n\"1. Curl · Dumbbells · 12 reps\"\n1;-14;12;2\n", "line 3: invalid weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestParseModifier verifies the technique modifier is captured from the
// exercise header and plain headers carry none.
func TestParseModifier(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := sessions[0].Exercises[5].Technique; got != "2 dropsets" {
		t.Errorf("ex6.Technique = %q, want %q", got, "2 dropsets")
	}
	if got := sessions[0].Exercises[0].Technique; got != "" {
		t.Errorf("ex1.Technique = %q, want empty", got)
	}
}
