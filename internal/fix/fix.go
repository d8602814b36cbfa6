// Package fix proposes corrected documents for individual diagnostics. A fix
// is always the minimal source edit that resolves the diagnostic, applied to
// a copy; the input Document is never touched. When no safe automatic fix
// exists, Propose declines rather than guessing: a missing Tool Store, for
// example, is a placement decision only the map author can make.
package fix

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/cavern/internal/check"
	"github.com/dekarrin/cavern/internal/dat"
	"github.com/dekarrin/cavern/internal/tileset"
)

// default codes used when synthesizing grid content.
const (
	padFloorCode  = 1  // ground
	fillWallCode  = 38 // solid rock
	padHeightCode = 0
)

// Propose returns a new Document with the given diagnostic resolved, or nil
// if the diagnostic has no safe automatic fix. The proposed document is
// re-validated before being returned; a fix that does not actually resolve
// its diagnostic is discarded.
func Propose(doc *dat.Document, d check.Diagnostic, tbl *tileset.Table) *dat.Document {
	var newSrc string
	var ok bool

	switch d.Code {
	case check.CodeRowLength:
		newSrc, ok = padGridRow(doc, d)
	case check.CodeMissingSection:
		newSrc, ok = insertSection(doc, d)
	case check.CodeIDCollision:
		newSrc, ok = renameEntityID(doc, d)
	default:
		// everything else, no Tool Store above all, needs a human
		return nil
	}

	if !ok {
		return nil
	}

	fixed, _, err := dat.Parse(newSrc)
	if err != nil {
		return nil
	}

	// self-check: the fix must actually make the diagnostic go away
	for _, vd := range check.Validate(fixed, tbl) {
		if vd.Code == d.Code && vd.Section == d.Section && vd.Message == d.Message {
			return nil
		}
	}

	return fixed
}

// padGridRow extends a too-short grid row to the declared column count with
// a default code. Rows that are too long have no safe fix; there is no way
// to know which values are the extra ones.
func padGridRow(doc *dat.Document, d check.Diagnostic) (string, bool) {
	if doc.Info == nil || doc.Info.ColCount < 0 {
		return "", false
	}

	var grid *dat.Grid
	padCode := padFloorCode
	switch d.Section {
	case "tiles":
		grid = doc.Tiles
	case "height":
		grid = doc.Height
		padCode = padHeightCode
	default:
		return "", false
	}
	if grid == nil {
		return "", false
	}

	row := -1
	for r, ln := range grid.RowLines {
		if ln == d.Line {
			row = r
			break
		}
	}
	if row < 0 {
		return "", false
	}

	missing := doc.Info.ColCount - len(grid.Rows[row])
	if missing <= 0 {
		return "", false
	}

	newSrc := rosed.Edit(doc.Source()).Apply(func(idx int, line string) []string {
		if idx != d.Line {
			return []string{line}
		}

		padded := strings.TrimRight(line, " \t")
		if !strings.HasSuffix(padded, ",") {
			padded += ","
		}
		padded += strings.Repeat(fmt.Sprintf("%d,", padCode), missing)
		return []string{padded}
	}).String()

	return newSrc, true
}

// insertSection appends the missing section to the end of the source. A
// missing tiles section is synthesized as a solid-rock grid of the declared
// dimensions; a missing info section cannot be guessed at.
func insertSection(doc *dat.Document, d check.Diagnostic) (string, bool) {
	if d.Section != "tiles" {
		return "", false
	}
	if doc.Info == nil || doc.Info.RowCount < 1 || doc.Info.ColCount < 1 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("tiles{\n")
	rowText := strings.Repeat(fmt.Sprintf("%d,", fillWallCode), doc.Info.ColCount)
	for r := 0; r < doc.Info.RowCount; r++ {
		sb.WriteString(rowText)
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	src := doc.Source()
	sep := "\n"
	if strings.HasSuffix(src, "\n") {
		sep = ""
	}

	newSrc := rosed.Edit(src).
		Insert(rosed.End, sep+sb.String()+"\n").
		String()

	return newSrc, true
}

// renameEntityID gives the colliding entity a fresh ID by appending the
// first free numeric suffix.
func renameEntityID(doc *dat.Document, d check.Diagnostic) (string, bool) {
	ents := entitiesOf(doc, d.Section)
	if ents == nil {
		return "", false
	}

	var ent *dat.Entity
	for i := range ents {
		if ents[i].Line == d.Line {
			ent = &ents[i]
			break
		}
	}
	if ent == nil || ent.ID == "" {
		return "", false
	}

	used := map[string]bool{}
	for _, e := range ents {
		if e.ID != "" {
			used[e.ID] = true
		}
	}

	fresh := ""
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%d", ent.ID, n)
		if !used[candidate] {
			fresh = candidate
			break
		}
	}

	oldPair := "ID=" + ent.ID
	newPair := "ID=" + fresh

	newSrc := rosed.Edit(doc.Source()).Apply(func(idx int, line string) []string {
		if idx != d.Line {
			return []string{line}
		}
		return []string{strings.Replace(line, oldPair, newPair, 1)}
	}).String()

	return newSrc, true
}

func entitiesOf(doc *dat.Document, section string) []dat.Entity {
	switch section {
	case "buildings":
		return doc.Buildings
	case "vehicles":
		return doc.Vehicles
	case "creatures":
		return doc.Creatures
	case "miners":
		return doc.Miners
	default:
		return nil
	}
}
