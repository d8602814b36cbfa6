package dat

import (
	"fmt"
	"strconv"
	"strings"
)

// file objectives.go parses the objectives section. Each non-empty line is
// one objective, dispatched on its leading keyword.

// Objective is one win condition of a map. It is a tagged union: Kind says
// which variant the objective is, and only that variant's fields are
// meaningful.
type Objective interface {
	// Kind returns the variant keyword of the objective.
	Kind() string

	// SourceLine returns the 0-based absolute line the objective was parsed
	// from.
	SourceLine() int
}

// ResourcesObjective requires collecting amounts of each resource.
type ResourcesObjective struct {
	Line     int
	Crystals int
	Ore      int
	Studs    int
}

func (o ResourcesObjective) Kind() string    { return "resources" }
func (o ResourcesObjective) SourceLine() int { return o.Line }

// BuildingObjective requires constructing a building of the given type.
type BuildingObjective struct {
	Line     int
	Building string
}

func (o BuildingObjective) Kind() string    { return "building" }
func (o BuildingObjective) SourceLine() int { return o.Line }

// DiscoverTileObjective requires discovering the cavern containing a tile.
type DiscoverTileObjective struct {
	Line        int
	Row         int
	Col         int
	Description string
}

func (o DiscoverTileObjective) Kind() string    { return "discovertile" }
func (o DiscoverTileObjective) SourceLine() int { return o.Line }

// VariableObjective requires a script variable condition to become true.
type VariableObjective struct {
	Line        int
	Condition   string
	Description string
}

func (o VariableObjective) Kind() string    { return "variable" }
func (o VariableObjective) SourceLine() int { return o.Line }

// FindBuildingObjective requires finding a lost building at a tile.
type FindBuildingObjective struct {
	Line int
	Row  int
	Col  int
}

func (o FindBuildingObjective) Kind() string    { return "findbuilding" }
func (o FindBuildingObjective) SourceLine() int { return o.Line }

// FindMinerObjective requires rescuing the miner with the given ID.
type FindMinerObjective struct {
	Line    int
	MinerID string
}

func (o FindMinerObjective) Kind() string    { return "findminer" }
func (o FindMinerObjective) SourceLine() int { return o.Line }

func parseObjectives(sec *Section) ([]Objective, []Issue) {
	var objs []Objective
	var issues []Issue

	for rel, rawLine := range sec.Lines() {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		abs := sec.AbsLine(rel)

		keyword, rest, found := strings.Cut(line, ":")
		if !found {
			issues = append(issues, Issue{
				Kind:       KindBadLine,
				Section:    sec.Name,
				Line:       abs,
				Col:        leadingSpace(rawLine),
				Message:    fmt.Sprintf("objective line has no keyword: %q", line),
				sourceLine: rawLine,
			})
			continue
		}

		keyword = strings.ToLower(strings.TrimSpace(keyword))
		rest = strings.TrimSpace(rest)

		obj, err := parseObjectiveVariant(keyword, rest, abs)
		if err != nil {
			kind := KindBadLine
			warning := false
			if err == errUnknownObjective {
				// forward compat: a keyword from a newer format revision is
				// skipped, not fatal
				kind = KindUnknownObjective
				warning = true
				err = fmt.Errorf("unrecognized objective keyword %q", keyword)
			}
			issues = append(issues, Issue{
				Kind:       kind,
				Section:    sec.Name,
				Line:       abs,
				Col:        leadingSpace(rawLine),
				Warning:    warning,
				Message:    err.Error(),
				sourceLine: rawLine,
			})
			continue
		}

		objs = append(objs, obj)
	}

	return objs, issues
}

var errUnknownObjective = fmt.Errorf("unknown objective keyword")

func parseObjectiveVariant(keyword, rest string, line int) (Objective, error) {
	switch keyword {
	case "resources":
		counts, err := splitInts(rest, 3)
		if err != nil {
			return nil, fmt.Errorf("resources objective: %w", err)
		}
		return ResourcesObjective{Line: line, Crystals: counts[0], Ore: counts[1], Studs: counts[2]}, nil
	case "building":
		if rest == "" {
			return nil, fmt.Errorf("building objective: missing building type")
		}
		return BuildingObjective{Line: line, Building: rest}, nil
	case "discovertile":
		coords, desc, _ := strings.Cut(rest, "/")
		rc, err := splitInts(coords, 2)
		if err != nil {
			return nil, fmt.Errorf("discovertile objective: %w", err)
		}
		return DiscoverTileObjective{Line: line, Row: rc[0], Col: rc[1], Description: strings.TrimSpace(desc)}, nil
	case "variable":
		cond, desc, _ := strings.Cut(rest, "/")
		cond = strings.TrimSpace(cond)
		if cond == "" {
			return nil, fmt.Errorf("variable objective: missing condition")
		}
		return VariableObjective{Line: line, Condition: cond, Description: strings.TrimSpace(desc)}, nil
	case "findbuilding":
		rc, err := splitInts(rest, 2)
		if err != nil {
			return nil, fmt.Errorf("findbuilding objective: %w", err)
		}
		return FindBuildingObjective{Line: line, Row: rc[0], Col: rc[1]}, nil
	case "findminer":
		if rest == "" {
			return nil, fmt.Errorf("findminer objective: missing miner ID")
		}
		return FindMinerObjective{Line: line, MinerID: rest}, nil
	default:
		return nil, errUnknownObjective
	}
}

// splitInts reads exactly want comma-separated integers, tolerating fewer by
// zero-filling the remainder (the game treats omitted trailing counts as 0).
func splitInts(s string, want int) ([]int, error) {
	out := make([]int, want)
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("missing numeric values")
	}

	parts := strings.Split(s, ",")
	if len(parts) > want {
		return nil, fmt.Errorf("expected at most %d values, got %d", want, len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer", strings.TrimSpace(p))
		}
		out[i] = n
	}
	return out, nil
}
