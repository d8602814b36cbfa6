// Package tileset holds the authoritative table of cavern map tile codes. The
// table is the single source of truth for which integer codes are valid in a
// tiles grid, how each code classifies (floor, wall, seam, hazard), whether a
// wall can be drilled through and at what cost, and how reinforced and hidden
// variants map back to their base code.
//
// The table is immutable once built. Components that need tile metadata take a
// *Table; they never consult package-level mutable state. Default() returns the
// built-in table matching the published game tile reference, and Parse/LoadFile
// read a user-supplied TOML tileset that overlays or replaces entries.
package tileset

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Class is the broad category of a tile code. It decides traversability: floor
// and path tiles can be walked on, wall and seam tiles can potentially be
// drilled through, hazards and solid rock block movement entirely.
type Class int

const (
	ClassFloor Class = iota
	ClassPath
	ClassRubble
	ClassHazard
	ClassWall
	ClassSeam
	ClassSolid
)

// ClassesByString maps the lowercase TOML names of tile classes to their
// values.
var ClassesByString = map[string]Class{
	"floor":  ClassFloor,
	"path":   ClassPath,
	"rubble": ClassRubble,
	"hazard": ClassHazard,
	"wall":   ClassWall,
	"seam":   ClassSeam,
	"solid":  ClassSolid,
}

func (c Class) String() string {
	switch c {
	case ClassFloor:
		return "floor"
	case ClassPath:
		return "path"
	case ClassRubble:
		return "rubble"
	case ClassHazard:
		return "hazard"
	case ClassWall:
		return "wall"
	case ClassSeam:
		return "seam"
	case ClassSolid:
		return "solid"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Tile is the metadata for a single tile code.
type Tile struct {
	// ID is the integer code as it appears in a tiles grid cell.
	ID int

	// Name is the human-readable name from the game reference, e.g. "dirt".
	Name string

	// Class categorizes the tile.
	Class Class

	// DrillCost is the traversal weight applied when crossing this tile in
	// can-mine analysis mode. It is 0 for tiles that are walkable outright and
	// for tiles that cannot be drilled at all; Drillable distinguishes the
	// two.
	DrillCost int

	// Base is the code of the base tile this is a variant of, or 0 if the
	// tile is itself a base tile. Reinforced and hidden variants point at
	// their plain wall code.
	Base int
}

// Walkable returns whether a unit can cross this tile without doing any
// drilling.
func (t Tile) Walkable() bool {
	return t.Class == ClassFloor || t.Class == ClassPath || t.Class == ClassRubble
}

// Drillable returns whether the tile can be drilled through in can-mine mode.
func (t Tile) Drillable() bool {
	return (t.Class == ClassWall || t.Class == ClassSeam) && t.DrillCost > 0
}

// Table is an immutable lookup of tile metadata by code. The zero value is not
// usable; get one from Default, Parse, or LoadFile.
type Table struct {
	tiles map[int]Tile
}

// Get returns the metadata for a code along with whether the code is a valid
// member of the table. Validity is strictly table membership; the code bands
// have gaps, so range checks are never a substitute.
func (tb *Table) Get(code int) (Tile, bool) {
	t, ok := tb.tiles[code]
	return t, ok
}

// Valid returns whether the given code is a member of the table.
func (tb *Table) Valid(code int) bool {
	_, ok := tb.tiles[code]
	return ok
}

// BaseOf resolves a reinforced or hidden variant back to its base code. Codes
// that are already base tiles resolve to themselves. Unknown codes resolve to
// 0, false.
func (tb *Table) BaseOf(code int) (int, bool) {
	t, ok := tb.tiles[code]
	if !ok {
		return 0, false
	}
	if t.Base == 0 {
		return t.ID, true
	}
	return t.Base, true
}

// Len returns the number of codes in the table.
func (tb *Table) Len() int {
	return len(tb.tiles)
}

// tomlTile is the marshaled form of one [[tile]] entry in a TOML tileset
// file.
type tomlTile struct {
	ID    int    `toml:"id"`
	Name  string `toml:"name"`
	Class string `toml:"class"`
	Drill int    `toml:"drill"`
	Base  int    `toml:"base"`
}

type topLevelTileset struct {
	Format  string     `toml:"format"`
	Type    string     `toml:"type"`
	Overlay bool       `toml:"overlay"`
	Tiles   []tomlTile `toml:"tile"`
}

// Parse reads a TOML tileset from the given bytes. If the file sets
// overlay = true, the entries are applied on top of the built-in default
// table; otherwise the file must define every code itself.
func Parse(data []byte) (*Table, error) {
	var top topLevelTileset
	if err := toml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decoding tileset: %w", err)
	}

	if strings.ToUpper(top.Format) != "CAVERN" {
		return nil, fmt.Errorf("file does not have a 'format = \"CAVERN\"' entry")
	}
	if strings.ToUpper(top.Type) != "TILESET" {
		return nil, fmt.Errorf("file is not of type \"TILESET\"")
	}
	if len(top.Tiles) == 0 {
		return nil, fmt.Errorf("tileset defines no tiles")
	}

	tiles := map[int]Tile{}
	if top.Overlay {
		for id, t := range Default().tiles {
			tiles[id] = t
		}
	}

	for i, mt := range top.Tiles {
		if mt.ID < 1 {
			return nil, fmt.Errorf("tile[%d]: 'id' must be a positive integer", i)
		}
		cls, ok := ClassesByString[strings.ToLower(mt.Class)]
		if !ok {
			return nil, fmt.Errorf("tile[%d]: %q is not a tile class", i, mt.Class)
		}
		tiles[mt.ID] = Tile{
			ID:        mt.ID,
			Name:      mt.Name,
			Class:     cls,
			DrillCost: mt.Drill,
			Base:      mt.Base,
		}
	}

	// every variant must point at a code that exists
	for _, t := range tiles {
		if t.Base != 0 {
			if _, ok := tiles[t.Base]; !ok {
				return nil, fmt.Errorf("tile %d: base code %d is not in the tileset", t.ID, t.Base)
			}
		}
	}

	return &Table{tiles: tiles}, nil
}

// LoadFile reads a TOML tileset from the file at the given path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	tb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return tb, nil
}
