package tileset

// This file holds the built-in tile table. The membership list comes from the
// published game tile reference; the code bands have deliberate gaps, so the
// list is data, not something derived from ranges.

// wallDef describes one family of wall codes: the regular form plus its
// corner, edge, and intersect shape variants at consecutive codes.
type wallDef struct {
	id    int
	name  string
	class Class
	drill int
}

var defaultFloors = []Tile{
	{ID: 1, Name: "ground", Class: ClassFloor},
	{ID: 2, Name: "rubble 1", Class: ClassRubble},
	{ID: 3, Name: "rubble 2", Class: ClassRubble},
	{ID: 4, Name: "rubble 3", Class: ClassRubble},
	{ID: 5, Name: "rubble 4", Class: ClassRubble},
	{ID: 6, Name: "lava", Class: ClassHazard},
	{ID: 11, Name: "water", Class: ClassHazard},
	{ID: 12, Name: "slug hole", Class: ClassHazard},
	{ID: 13, Name: "power path in progress", Class: ClassPath},
	{ID: 14, Name: "power path", Class: ClassPath},
	{ID: 63, Name: "landslide rubble", Class: ClassRubble},
}

var defaultWalls = []wallDef{
	{id: 26, name: "dirt", class: ClassWall, drill: 1},
	{id: 30, name: "loose rock", class: ClassWall, drill: 2},
	{id: 34, name: "hard rock", class: ClassWall, drill: 4},
	{id: 38, name: "solid rock", class: ClassSolid},
	{id: 42, name: "crystal seam", class: ClassSeam, drill: 2},
	{id: 46, name: "ore seam", class: ClassSeam, drill: 2},
	{id: 50, name: "recharge seam", class: ClassSolid},
}

// shape variant names, offsets 0-3 from the regular code.
var wallShapes = []string{"", " corner", " edge", " intersect"}

// reinforced walls sit at base+50 and drill slower; hidden (undiscovered)
// tiles sit at base+100 and block everything until discovered.
const (
	reinforcedOffset = 50
	hiddenOffset     = 100
)

// hiddenFloorIDs are the floor codes that also have hidden variants.
var hiddenFloorIDs = []int{1, 6, 11, 12, 63}

var defaultTable = buildDefault()

// Default returns the built-in tile table. The returned Table is shared and
// immutable; callers must not retain any assumption beyond lookup.
func Default() *Table {
	return defaultTable
}

func buildDefault() *Table {
	tiles := map[int]Tile{}

	for _, t := range defaultFloors {
		tiles[t.ID] = t
	}

	for _, w := range defaultWalls {
		for off, shape := range wallShapes {
			base := 0
			if off != 0 {
				base = w.id
			}
			tiles[w.id+off] = Tile{
				ID:        w.id + off,
				Name:      w.name + shape,
				Class:     w.class,
				DrillCost: w.drill,
				Base:      base,
			}
		}

		// reinforced variant of the regular form only
		rDrill := 0
		if w.drill > 0 {
			rDrill = w.drill + 1
		}
		tiles[w.id+reinforcedOffset] = Tile{
			ID:        w.id + reinforcedOffset,
			Name:      "reinforced " + w.name,
			Class:     w.class,
			DrillCost: rDrill,
			Base:      w.id,
		}

		// hidden variant of the regular form only
		tiles[w.id+hiddenOffset] = Tile{
			ID:    w.id + hiddenOffset,
			Name:  "hidden " + w.name,
			Class: ClassSolid,
			Base:  w.id,
		}
	}

	for _, id := range hiddenFloorIDs {
		f := tiles[id]
		tiles[id+hiddenOffset] = Tile{
			ID:    id + hiddenOffset,
			Name:  "hidden " + f.Name,
			Class: ClassSolid,
			Base:  id,
		}
	}

	return &Table{tiles: tiles}
}
