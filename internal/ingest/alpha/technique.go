package alpha

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftplan/internal/technique"
)

// dropSetRe matches: "2 dropsets", "1 drop set", "3 drop-sets"
var dropSetRe = regexp.MustCompile(`(\d+)\s*drop[\s-]?sets?`)

const defaultDropPercentage = 20.0

// Defaults for modifiers the export names without configuration.
var (
	defaultRestPause = technique.RestPause{MiniSets: 2, RestSeconds: 15}
	defaultMyoReps   = technique.MyoReps{MiniSets: 3, MiniSetReps: 5, RestSeconds: 5}
	defaultCluster   = technique.ClusterSet{Clusters: 4, RepsPerCluster: 2, IntraRestSeconds: 20}
	defaultFST7      = technique.FST7{RestSeconds: 30}
)

// ParseTechnique maps an exercise modifier such as "2 dropsets" to a
// technique. Returns nil when the modifier names no known technique.
func ParseTechnique(modifier string) technique.Technique {
	m := strings.ToLower(strings.TrimSpace(modifier))
	if m == "" {
		return nil
	}

	if sm := dropSetRe.FindStringSubmatch(m); sm != nil {
		drops, _ := strconv.Atoi(sm[1])
		return technique.DropSet{Drops: drops, DropPercentage: defaultDropPercentage}
	}

	switch {
	case strings.Contains(m, "dropset") || strings.Contains(m, "drop set"):
		return technique.DropSet{Drops: 1, DropPercentage: defaultDropPercentage}
	case strings.Contains(m, "myo"):
		return defaultMyoReps
	case strings.Contains(m, "rest-pause") || strings.Contains(m, "rest pause"):
		return defaultRestPause
	case strings.Contains(m, "cluster"):
		return defaultCluster
	case strings.Contains(m, "fst"):
		return defaultFST7
	case strings.Contains(m, "superset"):
		return technique.Superset{}
	case strings.Contains(m, "giant"):
		return technique.GiantSet{}
	case strings.Contains(m, "pyramid"):
		return technique.Pyramid{}
	case strings.Contains(m, "partial"):
		return technique.LengthenedPartials{}
	}
	return nil
}
