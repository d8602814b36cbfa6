// Package cavern is a toolchain for the DAT level-description format used by
// the mining game: parsing, structural validation, reachability analysis,
// and automatic fixes. This root package is a facade over the internal
// packages so that common use needs only one import; the aliased types are
// the same types the internal packages produce.
//
// The core is pure: it reads no files (except via the Load helpers), holds
// no global state, and never mutates a Document once parsed, so every
// operation here is safe to run concurrently on different documents.
package cavern

import (
	"github.com/dekarrin/cavern/internal/check"
	"github.com/dekarrin/cavern/internal/dat"
	"github.com/dekarrin/cavern/internal/fix"
	"github.com/dekarrin/cavern/internal/reach"
	"github.com/dekarrin/cavern/internal/tileset"
)

// Document is a parsed map file. See the dat package for the model.
type Document = dat.Document

// Section is a named brace-delimited span of a map file.
type Section = dat.Section

// Issue is a recoverable problem found during parsing.
type Issue = dat.Issue

// Diagnostic is a problem found during validation.
type Diagnostic = check.Diagnostic

// TileTable is the immutable tile-code metadata table.
type TileTable = tileset.Table

// AnalysisOptions tunes reachability analysis.
type AnalysisOptions = reach.Options

// AnalysisResult is the outcome of a reachability analysis.
type AnalysisResult = reach.Result

// Point is one grid cell, by row and column.
type Point = reach.Point

// ErrEmptyInput is returned by Parse for input with no content; it is the
// only hard parse failure.
var ErrEmptyInput = dat.ErrEmptyInput

// Severity values for Diagnostics.
const (
	Error   = check.Error
	Warning = check.Warning
)

// Parse reads a DAT document from source text, returning the Document and
// every recoverable issue found.
func Parse(text string) (*Document, []Issue, error) {
	return dat.Parse(text)
}

// LoadFile reads and parses the DAT file at the given path.
func LoadFile(path string) (*Document, []Issue, error) {
	return dat.LoadFile(path)
}

// Validate checks every structural rule against the Document. A nil table
// means the built-in default tileset.
func Validate(doc *Document, tbl *TileTable) []Diagnostic {
	return check.Validate(doc, tbl)
}

// Analyze runs reachability analysis over the Document's tiles grid.
func Analyze(doc *Document, opts AnalysisOptions) AnalysisResult {
	return reach.Analyze(doc, opts)
}

// ProposeFix returns a new Document with the diagnostic resolved, or nil if
// no safe automatic fix exists. The input Document is never modified.
func ProposeFix(doc *Document, d Diagnostic, tbl *TileTable) *Document {
	return fix.Propose(doc, d, tbl)
}

// DefaultTiles returns the built-in tile table.
func DefaultTiles() *TileTable {
	return tileset.Default()
}

// LoadTilesFile reads a TOML tileset from the file at the given path.
func LoadTilesFile(path string) (*TileTable, error) {
	return tileset.LoadFile(path)
}
