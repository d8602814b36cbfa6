package dat

import (
	"fmt"
	"strconv"
	"strings"
)

// file info.go parses the info section, which holds map metadata as
// `key:value;` lines.

// Info holds the parsed metadata of a map. Known numeric fields get typed
// accessors; every field, known or not, is retained verbatim in Fields so
// values from newer format revisions pass through untouched.
type Info struct {
	// RowCount is the declared number of grid rows, or -1 if the field is
	// missing or unparsable.
	RowCount int

	// ColCount is the declared number of grid columns, or -1 if the field is
	// missing or unparsable.
	ColCount int

	// InitialCrystals is the declared starting crystal stockpile, or -1 if
	// not declared.
	InitialCrystals int

	// InitialOre is the declared starting ore stockpile, or -1 if not
	// declared.
	InitialOre int

	// Fields holds every key of the section mapped to its raw value, with
	// surrounding whitespace and the trailing semicolon removed.
	Fields map[string]string
}

// LevelName returns the declared level name, or "" if none was given.
func (inf *Info) LevelName() string {
	return inf.Fields["levelname"]
}

// Creator returns the declared map author, or "" if none was given.
func (inf *Info) Creator() string {
	return inf.Fields["creator"]
}

// Biome returns the declared biome, or "" if none was given.
func (inf *Info) Biome() string {
	return inf.Fields["biome"]
}

// numericInfoFields are the info keys whose values must parse as integers.
// A non-numeric value yields an issue and the typed field stays -1, but the
// raw value is still retained in Fields.
var numericInfoFields = map[string]bool{
	"rowcount":        true,
	"colcount":        true,
	"initialcrystals": true,
	"initialore":      true,
}

func parseInfo(sec *Section) (*Info, []Issue) {
	inf := &Info{
		RowCount:        -1,
		ColCount:        -1,
		InitialCrystals: -1,
		InitialOre:      -1,
		Fields:          map[string]string{},
	}
	var issues []Issue

	for rel, rawLine := range sec.Lines() {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		key, val, found := strings.Cut(line, ":")
		if !found {
			issues = append(issues, Issue{
				Kind:       KindBadLine,
				Section:    sec.Name,
				Line:       sec.AbsLine(rel),
				Col:        leadingSpace(rawLine),
				Message:    fmt.Sprintf("info line is not in 'key:value' form: %q", line),
				sourceLine: rawLine,
			})
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), ";"))
		inf.Fields[key] = val

		if !numericInfoFields[key] {
			continue
		}

		n, err := strconv.Atoi(val)
		if err != nil {
			issues = append(issues, Issue{
				Kind:       KindBadNumber,
				Section:    sec.Name,
				Line:       sec.AbsLine(rel),
				Col:        strings.Index(rawLine, ":") + 1,
				Message:    fmt.Sprintf("%s: value %q is not an integer", key, val),
				sourceLine: rawLine,
			})
			continue
		}

		switch key {
		case "rowcount":
			inf.RowCount = n
		case "colcount":
			inf.ColCount = n
		case "initialcrystals":
			inf.InitialCrystals = n
		case "initialore":
			inf.InitialOre = n
		}
	}

	return inf, issues
}

// leadingSpace gives the column of the first non-blank character of a line.
func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}
