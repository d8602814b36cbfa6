package dat

import (
	"fmt"
	"strconv"
	"strings"
)

// file grid.go parses 2D numeric grid sections (tiles, height, blocks, and
// the sub-grids of the resources section).

// Grid is a matrix of integers parsed from a grid section. Rows are kept
// exactly as parsed; a ragged row is preserved so the validator can report it
// rather than the parser silently padding it.
type Grid struct {
	// Rows holds the cell values, row-major.
	Rows [][]int

	// RowLines holds, for each row, the 0-based absolute source line it was
	// parsed from. len(RowLines) == len(Rows).
	RowLines []int
}

// RowCount returns the number of rows in the grid.
func (g *Grid) RowCount() int {
	return len(g.Rows)
}

// At returns the value at the given row and column and whether that cell
// exists. Ragged rows make column existence row-dependent.
func (g *Grid) At(row, col int) (int, bool) {
	if row < 0 || row >= len(g.Rows) {
		return 0, false
	}
	if col < 0 || col >= len(g.Rows[row]) {
		return 0, false
	}
	return g.Rows[row][col], true
}

// parseGrid reads newline-separated rows of comma-separated integers from a
// section. Blank tokens and trailing commas are ignored. A non-numeric token
// is reported and skipped; the row keeps its remaining values.
func parseGrid(sec *Section) (*Grid, []Issue) {
	return parseGridLines(sec, sec.Lines(), 0)
}

// parseGridLines is the shared worker for parseGrid and the resources
// sub-grids, which start at an offset into the section's lines.
func parseGridLines(sec *Section, lines []string, relOffset int) (*Grid, []Issue) {
	g := &Grid{}
	var issues []Issue

	for rel, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		var row []int
		colOffset := 0
		for _, tok := range strings.Split(line, ",") {
			trimmed := strings.TrimSpace(tok)
			tokCol := strings.Index(rawLine[colOffset:], tok) + colOffset
			colOffset += len(tok) + 1

			if trimmed == "" {
				continue
			}

			n, err := strconv.Atoi(trimmed)
			if err != nil {
				issues = append(issues, Issue{
					Kind:       KindBadNumber,
					Section:    sec.Name,
					Line:       sec.AbsLine(relOffset + rel),
					Col:        tokCol,
					Message:    fmt.Sprintf("grid value %q is not an integer", trimmed),
					sourceLine: rawLine,
				})
				continue
			}
			row = append(row, n)
		}

		if row != nil {
			g.Rows = append(g.Rows, row)
			g.RowLines = append(g.RowLines, sec.AbsLine(relOffset+rel))
		}
	}

	return g, issues
}
