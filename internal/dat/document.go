package dat

import "strings"

// file document.go holds the Document aggregate and its lookup operations.

// Document is the complete in-memory model of one parsed map file. Sections
// that were not present in the source are nil, never defaulted to empty; a
// consumer that needs to distinguish "empty" from "absent" can.
//
// A Document is immutable after Parse returns it. Validation and analysis
// passes read it; none of them write to it.
type Document struct {
	// Info is the parsed info section, or nil if the section is missing.
	Info *Info

	// Tiles is the parsed tiles grid, or nil.
	Tiles *Grid

	// Height is the parsed height grid, or nil.
	Height *Grid

	// Resources holds the crystal/ore/stud placement grids, or nil.
	Resources *Resources

	// Objectives holds the parsed objectives in source order, or nil.
	Objectives []Objective

	// Buildings, Vehicles, Creatures, and Miners hold the placed entities of
	// each section, or nil for a missing section.
	Buildings []Entity
	Vehicles  []Entity
	Creatures []Entity
	Miners    []Entity

	// Script is the structural model of the script section, or nil.
	Script *Script

	source   string
	sections map[string]*Section
	ordered  []*Section
}

// Source returns the exact source text the Document was parsed from.
func (d *Document) Source() string {
	return d.source
}

// Section returns the named section, case-insensitively, or nil if the
// source has no such section.
func (d *Document) Section(name string) *Section {
	return d.sections[strings.ToLower(name)]
}

// Sections returns every section in source order. The returned slice is a
// copy; the sections themselves are shared and must not be modified.
func (d *Document) Sections() []*Section {
	out := make([]*Section, len(d.ordered))
	copy(out, d.ordered)
	return out
}

// SectionAt returns the section whose line span contains the given 0-based
// line, or nil if the line falls outside every section. Spans are inclusive
// of the opening and closing brace lines.
func (d *Document) SectionAt(line int) *Section {
	for _, sec := range d.ordered {
		if line >= sec.StartLine && line <= sec.EndLine {
			return sec
		}
	}
	return nil
}

// SectionNames returns the lowercase names of every section in source order.
func (d *Document) SectionNames() []string {
	names := make([]string, len(d.ordered))
	for i, sec := range d.ordered {
		names[i] = sec.Name
	}
	return names
}
