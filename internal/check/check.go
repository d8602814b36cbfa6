// Package check runs structural validation over a parsed map Document and
// reports everything wrong with it as severity-tagged, position-tagged
// diagnostics. Every rule is independent: the set of diagnostics produced
// never depends on the order the rules run in, and validation never mutates
// the Document.
package check

import (
	"fmt"
	"sort"

	"github.com/dekarrin/cavern/internal/dat"
	"github.com/dekarrin/cavern/internal/tileset"
)

// Severity says how bad a diagnostic is. Errors mean the map is not playable
// or not well-formed; warnings mean style or likely-but-not-certain problems.
// Both are advisory; the Document stays usable either way.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Codes identify the rule a diagnostic came from, so callers (the fix engine
// in particular) can react to a diagnostic without parsing its message.
const (
	CodeMissingSection  = "missing-section"
	CodeRowCount        = "row-count"
	CodeRowLength       = "row-length"
	CodeBadTileCode     = "bad-tile-code"
	CodeHeightRange     = "height-range"
	CodeNoToolStore     = "no-tool-store"
	CodeObjectiveBounds = "objective-bounds"
	CodeObjectiveVar    = "objective-variable"
	CodeIDCollision     = "id-collision"
	CodeUnknownSection  = "unknown-section"
	CodeUndefinedEvent  = "undefined-event"
	CodeDuplicateEvent  = "duplicate-event"
	CodeVarBeforeDecl   = "variable-before-declaration"
)

// Diagnostic is one problem found by validation.
type Diagnostic struct {
	// Severity is Error or Warning.
	Severity Severity

	// Code identifies the rule that produced the diagnostic.
	Code string

	// Message describes the problem.
	Message string

	// Line is the 0-based line in the source the problem sits on.
	Line int

	// Col is the 0-based column, or -1 when no single column applies.
	Col int

	// Section is the lowercase name of the section involved, or "".
	Section string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line+1, d.Message)
}

// toolStoreType is the building class that makes a map playable; a map
// without one cannot teleport anything in.
const toolStoreType = "BuildingToolStore_C"

// Validate checks every structural rule against the Document and returns the
// diagnostics, sorted by line then column for presentation. A nil table
// means the built-in default tileset.
func Validate(doc *dat.Document, tbl *tileset.Table) []Diagnostic {
	if tbl == nil {
		tbl = tileset.Default()
	}

	var diags []Diagnostic

	diags = append(diags, checkRequiredSections(doc)...)
	diags = append(diags, checkDimensions(doc)...)
	diags = append(diags, checkTileCodes(doc, tbl)...)
	diags = append(diags, checkHeightRange(doc)...)
	diags = append(diags, checkToolStore(doc)...)
	diags = append(diags, checkObjectives(doc)...)
	diags = append(diags, checkEntityIDs(doc)...)
	diags = append(diags, checkSectionNames(doc)...)
	diags = append(diags, checkScript(doc)...)

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Col < diags[j].Col
	})

	return diags
}

func checkRequiredSections(doc *dat.Document) []Diagnostic {
	var diags []Diagnostic

	for _, name := range []string{"info", "tiles"} {
		if doc.Section(name) == nil {
			diags = append(diags, Diagnostic{
				Severity: Error,
				Code:     CodeMissingSection,
				Message:  fmt.Sprintf("required section %q is missing", name),
				Line:     0,
				Col:      -1,
				Section:  name,
			})
		}
	}

	return diags
}

// checkDimensions verifies that the tiles and height grids agree with the
// declared rowcount and colcount. Each offending row gets its own
// diagnostic so that a caller can point at, and fix, exactly that row.
func checkDimensions(doc *dat.Document) []Diagnostic {
	if doc.Info == nil || doc.Info.RowCount < 0 || doc.Info.ColCount < 0 {
		// without declared dimensions there is nothing to check against
		return nil
	}

	var diags []Diagnostic

	type checkedGrid struct {
		section string
		label   string
		g       *dat.Grid
	}

	grids := []checkedGrid{
		{"tiles", "tiles", doc.Tiles},
		{"height", "height", doc.Height},
	}
	if doc.Resources != nil {
		grids = append(grids,
			checkedGrid{"resources", "crystals", doc.Resources.Crystals},
			checkedGrid{"resources", "ore", doc.Resources.Ore},
			checkedGrid{"resources", "studs", doc.Resources.Studs},
		)
	}

	for _, gr := range grids {
		if gr.g == nil {
			continue
		}
		sec := doc.Section(gr.section)

		if gr.g.RowCount() != doc.Info.RowCount {
			line := 0
			if sec != nil {
				line = sec.StartLine
			}
			diags = append(diags, Diagnostic{
				Severity: Error,
				Code:     CodeRowCount,
				Message: fmt.Sprintf("%s grid has %d rows but info declares rowcount:%d",
					gr.label, gr.g.RowCount(), doc.Info.RowCount),
				Line:    line,
				Col:     -1,
				Section: gr.section,
			})
		}

		for r, row := range gr.g.Rows {
			if len(row) == doc.Info.ColCount {
				continue
			}
			diags = append(diags, Diagnostic{
				Severity: Error,
				Code:     CodeRowLength,
				Message: fmt.Sprintf("%s row %d has %d values but info declares colcount:%d",
					gr.label, r+1, len(row), doc.Info.ColCount),
				Line:    gr.g.RowLines[r],
				Col:     -1,
				Section: gr.section,
			})
		}
	}

	return diags
}

func checkTileCodes(doc *dat.Document, tbl *tileset.Table) []Diagnostic {
	if doc.Tiles == nil {
		return nil
	}

	var diags []Diagnostic

	for r, row := range doc.Tiles.Rows {
		for c, code := range row {
			if tbl.Valid(code) {
				continue
			}
			diags = append(diags, Diagnostic{
				Severity: Error,
				Code:     CodeBadTileCode,
				Message:  fmt.Sprintf("tile (%d,%d) has code %d, which is not a valid tile code", r, c, code),
				Line:     doc.Tiles.RowLines[r],
				Col:      -1,
				Section:  "tiles",
			})
		}
	}

	return diags
}

func checkHeightRange(doc *dat.Document) []Diagnostic {
	if doc.Height == nil {
		return nil
	}

	var diags []Diagnostic

	for r, row := range doc.Height.Rows {
		for c, h := range row {
			if h >= 0 && h <= 15 {
				continue
			}
			diags = append(diags, Diagnostic{
				Severity: Error,
				Code:     CodeHeightRange,
				Message:  fmt.Sprintf("height (%d,%d) is %d; elevations must be between 0 and 15", r, c, h),
				Line:     doc.Height.RowLines[r],
				Col:      -1,
				Section:  "height",
			})
		}
	}

	return diags
}

// checkToolStore enforces the single hard playability requirement: without a
// Tool Store the map cannot be played.
func checkToolStore(doc *dat.Document) []Diagnostic {
	for _, b := range doc.Buildings {
		if b.TypeName == toolStoreType {
			return nil
		}
	}

	line := 0
	if sec := doc.Section("buildings"); sec != nil {
		line = sec.StartLine
	}

	return []Diagnostic{{
		Severity: Error,
		Code:     CodeNoToolStore,
		Message:  "map has no " + toolStoreType + "; at least one Tool Store is required for the map to be playable",
		Line:     line,
		Col:      -1,
		Section:  "buildings",
	}}
}

func checkObjectives(doc *dat.Document) []Diagnostic {
	var diags []Diagnostic

	inBounds := func(row, col int) bool {
		if doc.Info == nil || doc.Info.RowCount < 0 || doc.Info.ColCount < 0 {
			// can't tell; don't guess
			return true
		}
		return row >= 0 && row < doc.Info.RowCount && col >= 0 && col < doc.Info.ColCount
	}

	outOfBounds := func(kind string, row, col, line int) Diagnostic {
		return Diagnostic{
			Severity: Error,
			Code:     CodeObjectiveBounds,
			Message: fmt.Sprintf("%s objective points at tile (%d,%d), which is outside the %dx%d grid",
				kind, row, col, doc.Info.RowCount, doc.Info.ColCount),
			Line:    line,
			Col:     -1,
			Section: "objectives",
		}
	}

	for _, obj := range doc.Objectives {
		switch o := obj.(type) {
		case dat.DiscoverTileObjective:
			if !inBounds(o.Row, o.Col) {
				diags = append(diags, outOfBounds(o.Kind(), o.Row, o.Col, o.Line))
			}
		case dat.FindBuildingObjective:
			if !inBounds(o.Row, o.Col) {
				diags = append(diags, outOfBounds(o.Kind(), o.Row, o.Col, o.Line))
			}
		case dat.VariableObjective:
			for _, ident := range dat.ConditionIdentifiers(o.Condition) {
				if doc.Script != nil && doc.Script.Variable(ident) != nil {
					continue
				}
				diags = append(diags, Diagnostic{
					Severity: Warning,
					Code:     CodeObjectiveVar,
					Message:  fmt.Sprintf("variable objective refers to %q, which the script never declares", ident),
					Line:     o.Line,
					Col:      -1,
					Section:  "objectives",
				})
			}
		}
	}

	return diags
}

func checkEntityIDs(doc *dat.Document) []Diagnostic {
	var diags []Diagnostic

	collections := []struct {
		name string
		ents []dat.Entity
	}{
		{"buildings", doc.Buildings},
		{"vehicles", doc.Vehicles},
		{"creatures", doc.Creatures},
		{"miners", doc.Miners},
	}

	for _, coll := range collections {
		seen := map[string]bool{}
		for _, ent := range coll.ents {
			if ent.ID == "" {
				continue
			}
			if seen[ent.ID] {
				diags = append(diags, Diagnostic{
					Severity: Error,
					Code:     CodeIDCollision,
					Message:  fmt.Sprintf("ID collision: %q is already used by another entity in %s", ent.ID, coll.name),
					Line:     ent.Line,
					Col:      -1,
					Section:  coll.name,
				})
				continue
			}
			seen[ent.ID] = true
		}
	}

	return diags
}

func checkSectionNames(doc *dat.Document) []Diagnostic {
	var diags []Diagnostic

	for _, sec := range doc.Sections() {
		if dat.KnownSection(sec.Name) {
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: Warning,
			Code:     CodeUnknownSection,
			Message:  fmt.Sprintf("unrecognized section %q; it may be from a newer format revision", sec.Name),
			Line:     sec.StartLine,
			Col:      -1,
			Section:  sec.Name,
		})
	}

	return diags
}

func checkScript(doc *dat.Document) []Diagnostic {
	if doc.Script == nil {
		return nil
	}
	sc := doc.Script

	var diags []Diagnostic

	// chain declared twice
	declared := map[string]int{}
	for _, ev := range sc.Events {
		if firstLine, dup := declared[ev.Name]; dup {
			diags = append(diags, Diagnostic{
				Severity: Error,
				Code:     CodeDuplicateEvent,
				Message:  fmt.Sprintf("event chain %q is already declared on line %d", ev.Name, firstLine+1),
				Line:     ev.Line,
				Col:      -1,
				Section:  "script",
			})
			continue
		}
		declared[ev.Name] = ev.Line
	}

	// every trigger target and call must resolve to exactly one chain
	for _, ref := range sc.EventRefs {
		if _, ok := declared[ref.Name]; ok {
			continue
		}
		what := "trigger"
		if ref.Call {
			what = "call"
		}
		diags = append(diags, Diagnostic{
			Severity: Error,
			Code:     CodeUndefinedEvent,
			Message:  fmt.Sprintf("%s refers to event chain %q, which is never declared", what, ref.Name),
			Line:     ref.Line,
			Col:      -1,
			Section:  "script",
		})
	}

	// variable used before (or without) declaration. The reference is still
	// recorded by the parser either way; ambiguity gets reported, not
	// guessed at.
	reported := map[string]bool{}
	for _, ref := range sc.VarRefs {
		decl := sc.Variable(ref.Name)
		if decl != nil && decl.Line < ref.Line {
			continue
		}
		if reported[ref.Name] {
			continue
		}
		reported[ref.Name] = true

		var msg string
		if decl == nil {
			msg = fmt.Sprintf("variable %q is never declared", ref.Name)
		} else {
			msg = fmt.Sprintf("variable %q is used before its declaration on line %d", ref.Name, decl.Line+1)
		}
		diags = append(diags, Diagnostic{
			Severity: Warning,
			Code:     CodeVarBeforeDecl,
			Message:  msg,
			Line:     ref.Line,
			Col:      -1,
			Section:  "script",
		})
	}

	return diags
}
