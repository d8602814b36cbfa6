package reach

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dekarrin/cavern/internal/dat"
	"github.com/stretchr/testify/assert"
)

// docWithTiles builds a parsed Document whose tiles grid is exactly the given
// rows.
func docWithTiles(t *testing.T, rows [][]int) *dat.Document {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("info{\n")
	fmt.Fprintf(&sb, "rowcount:%d;\n", len(rows))
	fmt.Fprintf(&sb, "colcount:%d;\n", len(rows[0]))
	sb.WriteString("}\ntiles{\n")
	for _, row := range rows {
		for _, v := range row {
			fmt.Fprintf(&sb, "%d,", v)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")

	doc, issues, err := dat.Parse(sb.String())
	if err != nil || len(issues) > 0 {
		t.Fatalf("building fixture: err=%v issues=%v", err, issues)
	}
	return doc
}

func Test_Analyze_openRoom(t *testing.T) {
	assert := assert.New(t)

	doc := docWithTiles(t, [][]int{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	})

	res := Analyze(doc, Options{Origin: &Point{Row: 1, Col: 1}})

	assert.Equal(Point{Row: 1, Col: 1}, res.Origin)
	assert.Len(res.Reachable, 9)
	assert.Equal(0, res.IsolatedRegions)
	assert.Empty(res.ChokePoints)
	assert.Equal(1.0, res.AccessibilityRatio)

	assert.Equal(0, res.Distances[Point{Row: 1, Col: 1}])
	assert.Equal(1, res.Distances[Point{Row: 0, Col: 1}])
	assert.Equal(2, res.Distances[Point{Row: 0, Col: 0}])
	assert.Equal(2, res.Distances[Point{Row: 2, Col: 2}])
}

func Test_Analyze_wallsBlock(t *testing.T) {
	assert := assert.New(t)

	// solid rock down the middle column
	doc := docWithTiles(t, [][]int{
		{1, 38, 1},
		{1, 38, 1},
		{1, 38, 1},
	})

	res := Analyze(doc, Options{Origin: &Point{Row: 0, Col: 0}})

	assert.Len(res.Reachable, 3)
	assert.True(res.Reachable[Point{Row: 2, Col: 0}])
	assert.False(res.Reachable[Point{Row: 0, Col: 2}])

	// the right column is a floor region the origin cannot get to
	assert.Equal(1, res.IsolatedRegions)
	assert.Equal(0.5, res.AccessibilityRatio)
}

func Test_Analyze_chokePoints(t *testing.T) {
	assert := assert.New(t)

	// two open pockets joined only through the bottom corridor
	doc := docWithTiles(t, [][]int{
		{1, 1, 38, 1, 1},
		{1, 1, 1, 1, 1},
	})

	res := Analyze(doc, Options{Origin: &Point{Row: 0, Col: 0}})

	assert.Len(res.Reachable, 9)
	assert.Equal([]Point{
		{Row: 1, Col: 1},
		{Row: 1, Col: 2},
		{Row: 1, Col: 3},
	}, res.ChokePoints)
}

func Test_Analyze_canMine(t *testing.T) {
	assert := assert.New(t)

	// ground, dirt wall, ground
	doc := docWithTiles(t, [][]int{{1, 26, 1}})

	walking := Analyze(doc, Options{Origin: &Point{Row: 0, Col: 0}})
	mining := Analyze(doc, Options{Origin: &Point{Row: 0, Col: 0}, CanMine: true})

	// on foot the dirt wall is a dead end
	assert.Len(walking.Reachable, 1)

	// with mining the wall is crossable at its drill cost
	assert.Len(mining.Reachable, 3)
	assert.Equal(0, mining.Distances[Point{Row: 0, Col: 0}])
	assert.Equal(2, mining.Distances[Point{Row: 0, Col: 1}])
	assert.Equal(3, mining.Distances[Point{Row: 0, Col: 2}])
}

func Test_Analyze_canMine_solidRockStillBlocks(t *testing.T) {
	assert := assert.New(t)

	doc := docWithTiles(t, [][]int{{1, 38, 1}})

	res := Analyze(doc, Options{Origin: &Point{Row: 0, Col: 0}, CanMine: true})

	assert.Len(res.Reachable, 1)
	assert.Equal(1, res.IsolatedRegions)
}

func Test_Analyze_originDefaultsToToolStore(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:3;
colcount:3;
}
tiles{
38,38,38,
38,1,38,
38,38,38,
}
buildings{
BuildingToolStore_C,Translation: X=450.0 Y=450.0 Z=0.0 Rotation: P=0.0 Y=0.0 R=0.0 Scale X=1.0 Y=1.0 Z=1.0,ID=base1
}
`
	doc, _, err := dat.Parse(src)
	assert.NoError(err)

	res := Analyze(doc, Options{})

	assert.Equal(Point{Row: 1, Col: 1}, res.Origin)
	assert.Len(res.Reachable, 1)
	assert.Equal(1.0, res.AccessibilityRatio)
}

func Test_Analyze_outOfBoundsOrigin(t *testing.T) {
	assert := assert.New(t)

	doc := docWithTiles(t, [][]int{{1, 1}})

	res := Analyze(doc, Options{Origin: &Point{Row: 5, Col: 5}})

	assert.NotNil(res.Reachable)
	assert.NotNil(res.Distances)
	assert.Empty(res.Reachable)
	assert.Empty(res.ChokePoints)
	assert.Zero(res.AccessibilityRatio)
}

func Test_Analyze_originOnWall(t *testing.T) {
	assert := assert.New(t)

	doc := docWithTiles(t, [][]int{
		{38, 1, 1},
	})

	res := Analyze(doc, Options{Origin: &Point{Row: 0, Col: 0}})

	assert.Empty(res.Reachable)
	// the floor pocket next door still counts as an isolated region
	assert.Equal(1, res.IsolatedRegions)
	assert.Zero(res.AccessibilityRatio)
}

func Test_Analyze_missingTilesGrid(t *testing.T) {
	assert := assert.New(t)

	doc, _, err := dat.Parse("info{\nrowcount:1;\n}\n")
	assert.NoError(err)

	res := Analyze(doc, Options{})

	assert.Empty(res.Reachable)
	assert.Zero(res.IsolatedRegions)
	assert.Zero(res.AccessibilityRatio)
}

func Test_Analyze_deterministic(t *testing.T) {
	assert := assert.New(t)

	rows := [][]int{
		{1, 1, 38, 1, 1},
		{1, 38, 1, 1, 26},
		{1, 1, 1, 38, 1},
	}

	for _, canMine := range []bool{false, true} {
		name := "walking"
		if canMine {
			name = "mining"
		}
		t.Run(name, func(t *testing.T) {
			doc := docWithTiles(t, rows)
			opts := Options{Origin: &Point{Row: 0, Col: 0}, CanMine: canMine}

			first := Analyze(doc, opts)
			second := Analyze(doc, opts)

			assert.Equal(first, second)
		})
	}
}
