package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/config"
	"github.com/claude/liftplan/internal/ingest/alpha"
	"github.com/claude/liftplan/internal/localstore"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// localUser owns all rows in the offline store.
const localUser = 1

var (
	_ coach.HistorySource = (*localstore.Store)(nil)
	_ alpha.SetWriter     = (*localstore.Store)(nil)
)

func main() {
	dataDir := flag.String("data", "", "data directory (default ~/.liftplan)")
	importPath := flag.String("import", "", "Alpha Progression CSV file or directory to import")
	musclesPath := flag.String("muscles", "", "YAML file mapping exercises to muscle set credit")
	target := flag.String("target", "", "print the progressive target for an exercise")
	minReps := flag.Int("min", 0, "rep range minimum for -target")
	maxReps := flag.Int("max", 0, "rep range maximum for -target")
	plateauExercise := flag.String("plateau", "", "print the plateau state for an exercise")
	expand := flag.String("expand", "", `technique JSON to expand, e.g. '{"type":"drop_set","config":{"drops":2}}'`)
	weight := flag.Float64("weight", 0, "base weight for -expand (default: progressive target)")
	reps := flag.Int("reps", 0, "base reps for -expand (default: progressive target)")
	sets := flag.Int("sets", 0, "base sets for -expand")
	exercise := flag.String("exercise", "", "exercise for -expand target lookup")
	deload := flag.Bool("deload", false, "print the deload assessment")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("liftplan-cli", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *importPath == "" && *musclesPath == "" && *target == "" && *plateauExercise == "" && *expand == "" && !*deload {
		fmt.Fprintf(os.Stderr, "Usage: liftplan-cli [-data DIR] [-import PATH] [-muscles FILE] [-target NAME] [-plateau NAME] [-expand JSON] [-deload]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	dir := *dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("cannot determine home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(home, ".liftplan")
	}

	store, err := localstore.Open(dir)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if *musclesPath != "" {
		if err := loadMuscles(ctx, store, *musclesPath); err != nil {
			log.Error("loading muscle map failed", "error", err)
			os.Exit(1)
		}
		log.Info("muscle map loaded", "path", *musclesPath)
	}

	if *importPath != "" {
		stats, err := importCSV(ctx, store, *importPath, log)
		printStats(log, stats)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
	}

	svc := coach.New(store, nil, nil, config.DefaultEngine(), log)

	switch {
	case *target != "":
		var rr *overload.RepRange
		if *minReps > 0 || *maxReps > 0 {
			rr = &overload.RepRange{Min: *minReps, Max: *maxReps}
		}
		t, err := svc.Target(ctx, localUser, *target, rr)
		emit(log, t, err)
	case *plateauExercise != "":
		res, err := svc.Plateau(ctx, localUser, *plateauExercise)
		emit(log, res, err)
	case *expand != "":
		res, err := svc.Expand(ctx, localUser, coach.ExpandRequest{
			Exercise:  *exercise,
			Technique: json.RawMessage(*expand),
			Weight:    *weight,
			Reps:      *reps,
			Sets:      *sets,
		})
		emit(log, res, err)
	case *deload:
		res, err := svc.Deload(ctx, localUser)
		emit(log, res, err)
	}
}

type importStats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int
	SetsInserted   int64
	SetsReplaced   int64
}

// importCSV ingests one CSV or every CSV in a directory, skipping files
// already imported with the same size and hash.
func importCSV(ctx context.Context, store *localstore.Store, path string, log *slog.Logger) (*importStats, error) {
	stats := &importStats{}

	info, err := os.Stat(path)
	if err != nil {
		return stats, fmt.Errorf("stat %s: %w", path, err)
	}
	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.csv"))
		if err != nil {
			return stats, fmt.Errorf("listing %s: %w", path, err)
		}
	}

	provider := alpha.NewProvider(store, log)
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			log.Warn("stat failed", "file", f, "error", err)
			stats.FilesErrored++
			continue
		}
		hash, err := localstore.HashFile(f)
		if err != nil {
			log.Warn("hashing failed", "file", f, "error", err)
			stats.FilesErrored++
			continue
		}
		done, err := store.IsImported(f, fi.Size(), hash)
		if err != nil {
			return stats, err
		}
		if done {
			stats.FilesSkipped++
			continue
		}

		fh, err := os.Open(f)
		if err != nil {
			log.Warn("open failed", "file", f, "error", err)
			stats.FilesErrored++
			continue
		}
		res, err := provider.Ingest(ctx, fh, localUser)
		fh.Close()
		if err != nil {
			log.Warn("ingest failed", "file", f, "error", err)
			stats.FilesErrored++
			continue
		}
		stats.FilesProcessed++
		stats.SetsInserted += res.SetsInserted
		stats.SetsReplaced += res.SetsReplaced

		if err := store.MarkImported(f, fi.Size(), hash); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// loadMuscles reads exercise -> muscle -> set credit from YAML:
//
//	Bench Press:
//	  chest: 1
//	  triceps: 0.5
func loadMuscles(ctx context.Context, store *localstore.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var raw map[string]map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for exercise, credits := range raw {
		credit := make(map[models.MuscleGroup]float64, len(credits))
		for name, c := range credits {
			m, err := models.ParseMuscleGroup(name)
			if err != nil {
				return fmt.Errorf("%s: %w", exercise, err)
			}
			credit[m] = c
		}
		if err := store.SetExerciseMuscles(ctx, exercise, credit); err != nil {
			return err
		}
	}
	return nil
}

func emit(log *slog.Logger, v any, err error) {
	if err != nil {
		log.Error("request failed", "error", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error("encoding output failed", "error", err)
		os.Exit(1)
	}
}

func printStats(log *slog.Logger, stats *importStats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"sets_inserted", stats.SetsInserted,
		"sets_replaced", stats.SetsReplaced,
	)
}
