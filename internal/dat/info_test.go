package dat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseInfo(t *testing.T) {
	testCases := []struct {
		name         string
		content      string
		expect       *Info
		expectIssues int
	}{
		{
			name:    "all numeric fields",
			content: "\nrowcount:8;\ncolcount:8;\ninitialcrystals:5;\ninitialore:10;\n",
			expect: &Info{
				RowCount:        8,
				ColCount:        8,
				InitialCrystals: 5,
				InitialOre:      10,
				Fields: map[string]string{
					"rowcount": "8", "colcount": "8",
					"initialcrystals": "5", "initialore": "10",
				},
			},
		},
		{
			name:    "string fields",
			content: "\nlevelname:Deep Dig;\ncreator:someone;\nbiome:lava;\n",
			expect: &Info{
				RowCount: -1, ColCount: -1, InitialCrystals: -1, InitialOre: -1,
				Fields: map[string]string{
					"levelname": "Deep Dig", "creator": "someone", "biome": "lava",
				},
			},
		},
		{
			name:    "key is case-insensitive",
			content: "\nRowCount:4;\n",
			expect: &Info{
				RowCount: 4, ColCount: -1, InitialCrystals: -1, InitialOre: -1,
				Fields: map[string]string{"rowcount": "4"},
			},
		},
		{
			name:    "missing semicolon is tolerated",
			content: "\nrowcount:4\n",
			expect: &Info{
				RowCount: 4, ColCount: -1, InitialCrystals: -1, InitialOre: -1,
				Fields: map[string]string{"rowcount": "4"},
			},
		},
		{
			name:    "bad numeric value keeps raw field",
			content: "\nrowcount:eight;\n",
			expect: &Info{
				RowCount: -1, ColCount: -1, InitialCrystals: -1, InitialOre: -1,
				Fields: map[string]string{"rowcount": "eight"},
			},
			expectIssues: 1,
		},
		{
			name:    "line without colon",
			content: "\nthis is not a field\n",
			expect: &Info{
				RowCount: -1, ColCount: -1, InitialCrystals: -1, InitialOre: -1,
				Fields: map[string]string{},
			},
			expectIssues: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			sec := &Section{Name: "info", Content: tc.content}
			inf, issues := parseInfo(sec)

			assert.Equal(tc.expect, inf)
			assert.Len(issues, tc.expectIssues)
		})
	}
}

func Test_Info_accessors(t *testing.T) {
	assert := assert.New(t)

	inf := &Info{Fields: map[string]string{
		"levelname": "Deep Dig",
		"creator":   "someone",
	}}

	assert.Equal("Deep Dig", inf.LevelName())
	assert.Equal("someone", inf.Creator())
	assert.Equal("", inf.Biome())
}
