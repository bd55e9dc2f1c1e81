package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftplan/internal/models"
)

// untrackedRIR is stored when a set has no usable RIR column.
const untrackedRIR = -1

var (
	// "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionLine = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Exercise Name · Equipment · 8 reps[ · modifiers]"[;"warmups"]
	exerciseLine = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1 (RIR may be blank or "-")
	setLine = regexp.MustCompile(`^(\d+);([^;]+);(\d+);(.*)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupEntry = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
)

const columnHeader = "#;KG;REPS;RIR"

// Parse reads an Alpha Progression CSV export. Sessions are separated by
// blank lines or by the next session header; unknown lines are ignored.
func Parse(r io.Reader) ([]models.AlphaSession, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		if err := p.feed(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	p.endSession()
	return p.sessions, nil
}

type parser struct {
	line     int
	sessions []models.AlphaSession
	session  *models.AlphaSession
	exercise *models.AlphaExercise
}

func (p *parser) feed(line string) error {
	switch {
	case line == "":
		p.endSession()
		return nil
	case line == columnHeader:
		return nil
	}

	if m := sessionLine.FindStringSubmatch(line); m != nil {
		p.endSession()
		date, err := parseSessionDate(m[2])
		if err != nil {
			return err
		}
		p.session = &models.AlphaSession{Name: m[1], Date: date, Duration: m[3]}
		return nil
	}

	if m := exerciseLine.FindStringSubmatch(line); m != nil {
		if p.session == nil {
			return fmt.Errorf("exercise without session: %q", line)
		}
		p.endExercise()
		num, _ := strconv.Atoi(m[1])
		target, _ := strconv.Atoi(m[4])
		p.exercise = &models.AlphaExercise{
			Number:     num,
			Name:       strings.TrimSpace(m[2]),
			Equipment:  strings.TrimSpace(m[3]),
			TargetReps: target,
			Technique:  parseModifier(m[5]),
			Sets:       parseWarmups(m[6]),
		}
		return nil
	}

	if m := setLine.FindStringSubmatch(line); m != nil {
		if p.exercise == nil {
			return fmt.Errorf("set data without exercise: %q", line)
		}
		num, _ := strconv.Atoi(m[1])
		weight, bw, err := parseWeight(m[2])
		if err != nil {
			return err
		}
		reps, _ := strconv.Atoi(m[3])
		p.exercise.Sets = append(p.exercise.Sets, models.AlphaSet{
			Number:           num,
			WeightKg:         weight,
			IsBodyweightPlus: bw,
			Reps:             reps,
			RIR:              parseRIR(m[4]),
		})
	}
	return nil
}

func (p *parser) endExercise() {
	if p.session != nil && p.exercise != nil {
		p.session.Exercises = append(p.session.Exercises, *p.exercise)
	}
	p.exercise = nil
}

func (p *parser) endSession() {
	p.endExercise()
	if p.session != nil {
		p.sessions = append(p.sessions, *p.session)
	}
	p.session = nil
}

// parseSessionDate accepts both "2026-02-19 4:54" and "2026-02-19 16:54".
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing session date %q", s)
}

// parseModifier strips the separator from the text after "N reps",
// e.g. " · 2 dropsets" -> "2 dropsets".
func parseModifier(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "·"))
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · ..." into warmup sets.
// Malformed entries are dropped.
func parseWarmups(s string) []models.AlphaSet {
	if s == "" {
		return nil
	}
	var sets []models.AlphaSet
	for _, part := range strings.Split(s, "<br>") {
		m := warmupEntry.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		weight, bw, err := parseWeight(m[2])
		if err != nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, models.AlphaSet{
			Number:           num,
			WeightKg:         weight,
			IsBodyweightPlus: bw,
			Reps:             reps,
			RIR:              untrackedRIR,
			IsWarmup:         true,
		})
	}
	return sets
}

// parseWeight reads "102,5" or bodyweight-plus "+35". Negative loads are rejected.
func parseWeight(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	bw := strings.HasPrefix(s, "+")
	w, err := decimal(strings.TrimPrefix(s, "+"))
	if err != nil || w < 0 {
		return 0, false, fmt.Errorf("invalid weight %q", s)
	}
	return w, bw, nil
}

// parseRIR returns untrackedRIR for blank, dash or non-numeric cells.
func parseRIR(s string) float64 {
	r, err := decimal(s)
	if err != nil || r < 0 {
		return untrackedRIR
	}
	return r
}

// decimal parses a number written with a decimal comma.
func decimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
