package dat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// file entities.go parses the buildings, vehicles, creatures, and miners
// sections. Each non-empty line places one entity in the world.

// Coordinates is the full placement of an entity: translation, rotation, and
// scale, in world units.
type Coordinates struct {
	TX, TY, TZ float64
	RP, RY, RR float64
	SX, SY, SZ float64
}

// worldUnitsPerTile is the width of one grid tile in world units, used to map
// an entity's translation back to a grid cell.
const worldUnitsPerTile = 300.0

// Entity is one placed object. ID is optional and, when present, is how
// script commands and objectives refer to the entity.
type Entity struct {
	// TypeName is the class identifier, e.g. "BuildingToolStore_C".
	TypeName string

	// Coord is the entity's placement. A malformed coordinate block degrades
	// to the origin rather than dropping the entity.
	Coord Coordinates

	// ID is the declared script identifier, or "".
	ID string

	// Properties holds any further Key=Value pairs from the entity line,
	// other than ID.
	Properties map[string]string

	// Line is the 0-based absolute source line of the entity.
	Line int
}

// GridPos returns the grid cell the entity's translation falls in.
func (e Entity) GridPos() (row, col int) {
	return int(e.Coord.TY / worldUnitsPerTile), int(e.Coord.TX / worldUnitsPerTile)
}

const numPat = `-?[0-9]+(?:\.[0-9]+)?`

var coordRegexp = regexp.MustCompile(
	`Translation:\s*X=(` + numPat + `)\s+Y=(` + numPat + `)\s+Z=(` + numPat + `)\s*` +
		`Rotation:\s*P=(` + numPat + `)\s+Y=(` + numPat + `)\s+R=(` + numPat + `)\s*` +
		`Scale\s+X=(` + numPat + `)\s+Y=(` + numPat + `)\s+Z=(` + numPat + `)`)

// propKeyRegexp admits only identifier-shaped property keys, so fragments of
// a malformed coordinate block do not end up in the property bag.
var propKeyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func parseEntities(sec *Section) ([]Entity, []Issue) {
	var ents []Entity
	var issues []Issue

	for rel, rawLine := range sec.Lines() {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		abs := sec.AbsLine(rel)

		typeName, rest, _ := strings.Cut(line, ",")
		typeName = strings.TrimSpace(typeName)
		if typeName == "" {
			issues = append(issues, Issue{
				Kind:       KindBadLine,
				Section:    sec.Name,
				Line:       abs,
				Col:        leadingSpace(rawLine),
				Message:    "entity line has no type name",
				sourceLine: rawLine,
			})
			continue
		}

		ent := Entity{
			TypeName:   typeName,
			Line:       abs,
			Properties: map[string]string{},
		}

		coordEnd := 0
		if m := coordRegexp.FindStringSubmatchIndex(rest); m != nil {
			vals := make([]float64, 9)
			for vi := 0; vi < 9; vi++ {
				// the pattern only admits valid float syntax, so this cannot
				// fail
				vals[vi], _ = strconv.ParseFloat(rest[m[2+vi*2]:m[3+vi*2]], 64)
			}
			ent.Coord = Coordinates{
				TX: vals[0], TY: vals[1], TZ: vals[2],
				RP: vals[3], RY: vals[4], RR: vals[5],
				SX: vals[6], SY: vals[7], SZ: vals[8],
			}
			coordEnd = m[1]
		} else {
			issues = append(issues, Issue{
				Kind:       KindBadCoordinates,
				Section:    sec.Name,
				Line:       abs,
				Col:        leadingSpace(rawLine),
				Warning:    true,
				Message:    fmt.Sprintf("%s: coordinate block is malformed; placing at origin", typeName),
				sourceLine: rawLine,
			})
		}

		// anything after the coordinate block is ,Key=Value pairs
		for _, pair := range strings.Split(rest[coordEnd:], ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, val, found := strings.Cut(pair, "=")
			if !found {
				continue
			}
			key = strings.TrimSpace(key)
			val = strings.TrimSpace(val)
			if !propKeyRegexp.MatchString(key) {
				continue
			}
			if strings.EqualFold(key, "id") {
				ent.ID = val
			} else {
				ent.Properties[key] = val
			}
		}

		ents = append(ents, ent)
	}

	return ents, issues
}
