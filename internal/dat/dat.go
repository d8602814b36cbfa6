// Package dat parses the DAT level-description format used by the mining
// game into a structured Document. The format is a sequence of named,
// brace-delimited sections in any order, with `#` line comments; see the
// parsers in this package for the per-section grammars.
//
// Parsing is total: recoverable problems are collected as Issues and returned
// alongside the Document rather than aborting, so a half-broken file still
// yields every section that could be read. Only structurally empty input is a
// hard error. Semantic checks beyond what is needed to build the model live
// in the check package, and reachability analysis in the reach package; both
// operate on the Document this package produces.
package dat

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyInput is the error returned by Parse when given input with no
// content at all. It is the only hard failure parsing has.
var ErrEmptyInput = errors.New("input is empty")

// knownSections are the section names this revision of the format defines.
// The scanner accepts anything; this set exists so the validator can warn on
// names from newer revisions instead of erroring.
var knownSections = map[string]bool{
	"comments":   true,
	"info":       true,
	"tiles":      true,
	"height":     true,
	"resources":  true,
	"objectives": true,
	"buildings":  true,
	"vehicles":   true,
	"creatures":  true,
	"miners":     true,
	"blocks":     true,
	"script":     true,
	"landslidefrequency": true,
	"lavaspread":         true,
}

// KnownSection returns whether name is a section this revision of the format
// defines. Like all section-name lookups, it is case-insensitive.
func KnownSection(name string) bool {
	return knownSections[strings.ToLower(name)]
}

// Parse reads a complete DAT document from source text. It returns the
// Document, every recoverable Issue found on the way, and an error only for
// input that is completely empty.
//
// A malformed section is reported as an Issue and does not prevent the other
// sections from being parsed.
func Parse(text string) (*Document, []Issue, error) {
	if len(text) == 0 {
		return nil, nil, ErrEmptyInput
	}

	sections, ordered, issues := scanSections(text)

	doc := &Document{
		source:   text,
		sections: sections,
		ordered:  ordered,
	}

	// info goes first so grid parsers and consumers can cross-check declared
	// dimensions
	if sec, ok := sections["info"]; ok {
		var iss []Issue
		doc.Info, iss = parseInfo(sec)
		issues = append(issues, iss...)
	}

	for _, name := range []string{"tiles", "height"} {
		sec, ok := sections[name]
		if !ok {
			continue
		}
		grid, iss := parseGrid(sec)
		issues = append(issues, iss...)
		if name == "tiles" {
			doc.Tiles = grid
		} else {
			doc.Height = grid
		}
	}

	if sec, ok := sections["resources"]; ok {
		var iss []Issue
		doc.Resources, iss = parseResources(sec)
		issues = append(issues, iss...)
	}

	if sec, ok := sections["objectives"]; ok {
		var iss []Issue
		doc.Objectives, iss = parseObjectives(sec)
		issues = append(issues, iss...)
	}

	for _, ent := range []struct {
		name string
		dest *[]Entity
	}{
		{"buildings", &doc.Buildings},
		{"vehicles", &doc.Vehicles},
		{"creatures", &doc.Creatures},
		{"miners", &doc.Miners},
	} {
		sec, ok := sections[ent.name]
		if !ok {
			continue
		}
		parsed, iss := parseEntities(sec)
		issues = append(issues, iss...)
		*ent.dest = parsed
	}

	if sec, ok := sections["script"]; ok {
		var iss []Issue
		doc.Script, iss = parseScript(sec)
		issues = append(issues, iss...)
	}

	return doc, issues, nil
}

// LoadFile reads and parses the DAT file at the given path.
func LoadFile(path string) (*Document, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	doc, issues, err := Parse(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%q: %w", path, err)
	}
	return doc, issues, nil
}
