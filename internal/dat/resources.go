package dat

import (
	"strings"
)

// file resources.go parses the resources section, which holds up to three
// labeled sub-grids marking where crystals, ore, and studs sit in the map.

// Resources holds the optional placement grids from a resources section. A
// nil grid means that label was not present in the section.
type Resources struct {
	Crystals *Grid
	Ore      *Grid
	Studs    *Grid
}

// resourceLabels are the recognized sub-grid labels, each expected on its own
// line followed by that label's grid rows.
var resourceLabels = map[string]bool{
	"crystals": true,
	"ore":      true,
	"studs":    true,
}

func parseResources(sec *Section) (*Resources, []Issue) {
	res := &Resources{}
	var issues []Issue

	lines := sec.Lines()

	// find each label line, then hand the span up to the next label to the
	// grid parser
	type span struct {
		label string
		start int // rel line index just after the label line
		end   int // rel line index one past the last grid row
	}
	var spans []span

	for rel, rawLine := range lines {
		line := strings.ToLower(strings.TrimSpace(rawLine))
		if !strings.HasSuffix(line, ":") {
			continue
		}
		label := strings.TrimSuffix(line, ":")
		if !resourceLabels[label] {
			issues = append(issues, Issue{
				Kind:       KindBadLine,
				Section:    sec.Name,
				Line:       sec.AbsLine(rel),
				Col:        leadingSpace(rawLine),
				Warning:    true,
				Message:    "unrecognized resource label " + label,
				sourceLine: rawLine,
			})
			continue
		}

		if len(spans) > 0 {
			spans[len(spans)-1].end = rel
		}
		spans = append(spans, span{label: label, start: rel + 1, end: len(lines)})
	}

	for _, sp := range spans {
		grid, gridIssues := parseGridLines(sec, lines[sp.start:sp.end], sp.start)
		issues = append(issues, gridIssues...)

		switch sp.label {
		case "crystals":
			res.Crystals = grid
		case "ore":
			res.Ore = grid
		case "studs":
			res.Studs = grid
		}
	}

	return res, issues
}
