package tileset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Default_membership(t *testing.T) {
	testCases := []struct {
		name        string
		code        int
		expectValid bool
	}{
		{name: "ground", code: 1, expectValid: true},
		{name: "lava", code: 6, expectValid: true},
		{name: "power path", code: 14, expectValid: true},
		{name: "landslide rubble", code: 63, expectValid: true},
		{name: "dirt", code: 26, expectValid: true},
		{name: "dirt intersect", code: 29, expectValid: true},
		{name: "solid rock", code: 38, expectValid: true},
		{name: "recharge seam", code: 50, expectValid: true},
		{name: "reinforced dirt", code: 76, expectValid: true},
		{name: "hidden dirt", code: 126, expectValid: true},
		{name: "hidden ground", code: 101, expectValid: true},
		{name: "zero", code: 0, expectValid: false},
		{name: "gap between floors and walls", code: 20, expectValid: false},
		{name: "gap in floor band", code: 7, expectValid: false},
		{name: "way out of range", code: 999, expectValid: false},
		{name: "negative", code: -1, expectValid: false},
	}

	tbl := Default()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expectValid, tbl.Valid(tc.code))
		})
	}
}

func Test_Default_classification(t *testing.T) {
	assert := assert.New(t)
	tbl := Default()

	ground, ok := tbl.Get(1)
	assert.True(ok)
	assert.Equal(ClassFloor, ground.Class)
	assert.True(ground.Walkable())
	assert.False(ground.Drillable())

	lava, _ := tbl.Get(6)
	assert.Equal(ClassHazard, lava.Class)
	assert.False(lava.Walkable())
	assert.False(lava.Drillable())

	dirt, _ := tbl.Get(26)
	assert.Equal(ClassWall, dirt.Class)
	assert.False(dirt.Walkable())
	assert.True(dirt.Drillable())
	assert.Equal(1, dirt.DrillCost)

	solid, _ := tbl.Get(38)
	assert.Equal(ClassSolid, solid.Class)
	assert.False(solid.Walkable())
	assert.False(solid.Drillable())

	seam, _ := tbl.Get(42)
	assert.Equal(ClassSeam, seam.Class)
	assert.True(seam.Drillable())

	// hidden tiles block everything until discovered, even hidden floors
	hiddenGround, _ := tbl.Get(101)
	assert.Equal(ClassSolid, hiddenGround.Class)
	assert.False(hiddenGround.Walkable())
}

func Test_Default_reinforcedDrillsSlower(t *testing.T) {
	assert := assert.New(t)
	tbl := Default()

	dirt, _ := tbl.Get(26)
	reinforced, _ := tbl.Get(76)

	assert.Greater(reinforced.DrillCost, dirt.DrillCost)
	assert.True(reinforced.Drillable())

	// reinforced solid rock stays undrillable
	reinforcedSolid, _ := tbl.Get(88)
	assert.False(reinforcedSolid.Drillable())
}

func Test_Table_BaseOf(t *testing.T) {
	testCases := []struct {
		name     string
		code     int
		expect   int
		expectOK bool
	}{
		{name: "base tile resolves to itself", code: 26, expect: 26, expectOK: true},
		{name: "shape variant", code: 27, expect: 26, expectOK: true},
		{name: "reinforced variant", code: 76, expect: 26, expectOK: true},
		{name: "hidden variant", code: 126, expect: 26, expectOK: true},
		{name: "hidden floor", code: 101, expect: 1, expectOK: true},
		{name: "unknown code", code: 999, expectOK: false},
	}

	tbl := Default()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			base, ok := tbl.BaseOf(tc.code)
			assert.Equal(tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(tc.expect, base)
			}
		})
	}
}

func Test_Parse(t *testing.T) {
	assert := assert.New(t)

	input := `format = "CAVERN"
type = "TILESET"

[[tile]]
id = 1
name = "ground"
class = "floor"

[[tile]]
id = 2
name = "soft wall"
class = "wall"
drill = 1

[[tile]]
id = 3
name = "soft wall corner"
class = "wall"
drill = 1
base = 2
`

	tbl, err := Parse([]byte(input))

	assert.NoError(err)
	if !assert.NotNil(tbl) {
		return
	}

	assert.Equal(3, tbl.Len())
	assert.True(tbl.Valid(1))
	assert.False(tbl.Valid(26))

	wall, ok := tbl.Get(2)
	assert.True(ok)
	assert.Equal(ClassWall, wall.Class)
	assert.Equal(1, wall.DrillCost)

	base, ok := tbl.BaseOf(3)
	assert.True(ok)
	assert.Equal(2, base)
}

func Test_Parse_overlay(t *testing.T) {
	assert := assert.New(t)

	input := `format = "CAVERN"
type = "TILESET"
overlay = true

[[tile]]
id = 26
name = "extra soft dirt"
class = "wall"
drill = 3
`

	tbl, err := Parse([]byte(input))

	assert.NoError(err)

	// the overlaid entry replaces the default
	dirt, ok := tbl.Get(26)
	assert.True(ok)
	assert.Equal(3, dirt.DrillCost)
	assert.Equal("extra soft dirt", dirt.Name)

	// everything else is still there
	assert.True(tbl.Valid(1))
	assert.True(tbl.Valid(38))
	assert.Equal(Default().Len(), tbl.Len())
}

func Test_Parse_errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "wrong format",
			input: "format = \"OTHER\"\ntype = \"TILESET\"\n[[tile]]\nid = 1\nname = \"x\"\nclass = \"floor\"\n",
		},
		{
			name:  "wrong type",
			input: "format = \"CAVERN\"\ntype = \"WORLD\"\n[[tile]]\nid = 1\nname = \"x\"\nclass = \"floor\"\n",
		},
		{
			name:  "no tiles",
			input: "format = \"CAVERN\"\ntype = \"TILESET\"\n",
		},
		{
			name:  "bad class",
			input: "format = \"CAVERN\"\ntype = \"TILESET\"\n[[tile]]\nid = 1\nname = \"x\"\nclass = \"spongy\"\n",
		},
		{
			name:  "non-positive id",
			input: "format = \"CAVERN\"\ntype = \"TILESET\"\n[[tile]]\nid = 0\nname = \"x\"\nclass = \"floor\"\n",
		},
		{
			name:  "dangling base reference",
			input: "format = \"CAVERN\"\ntype = \"TILESET\"\n[[tile]]\nid = 1\nname = \"x\"\nclass = \"wall\"\nbase = 99\n",
		},
		{
			name:  "not TOML at all",
			input: "{\"format\": \"CAVERN\"}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tbl, err := Parse([]byte(tc.input))
			assert.Error(err)
			assert.Nil(tbl)
		})
	}
}
