package dat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseGrid(t *testing.T) {
	testCases := []struct {
		name         string
		content      string
		expectRows   [][]int
		expectLines  []int
		expectIssues int
	}{
		{
			name:        "square grid with trailing commas",
			content:     "\n1,2,3,\n4,5,6,\n",
			expectRows:  [][]int{{1, 2, 3}, {4, 5, 6}},
			expectLines: []int{1, 2},
		},
		{
			name:        "no trailing commas",
			content:     "\n1,2\n3,4\n",
			expectRows:  [][]int{{1, 2}, {3, 4}},
			expectLines: []int{1, 2},
		},
		{
			name:        "ragged rows are preserved",
			content:     "\n1,2,3,\n4,5,\n",
			expectRows:  [][]int{{1, 2, 3}, {4, 5}},
			expectLines: []int{1, 2},
		},
		{
			name:        "blank lines are skipped",
			content:     "\n1,2,\n\n3,4,\n",
			expectRows:  [][]int{{1, 2}, {3, 4}},
			expectLines: []int{1, 3},
		},
		{
			name:         "bad token is skipped with issue",
			content:      "\n1,x,3,\n",
			expectRows:   [][]int{{1, 3}},
			expectLines:  []int{1},
			expectIssues: 1,
		},
		{
			name:       "negative values",
			content:    "\n-1,0,1,\n",
			expectRows: [][]int{{-1, 0, 1}},
			expectLines: []int{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			sec := &Section{Name: "tiles", Content: tc.content}
			g, issues := parseGrid(sec)

			assert.Equal(tc.expectRows, g.Rows)
			assert.Equal(tc.expectLines, g.RowLines)
			assert.Len(issues, tc.expectIssues)
		})
	}
}

func Test_Grid_At(t *testing.T) {
	assert := assert.New(t)

	g := &Grid{Rows: [][]int{{1, 2, 3}, {4, 5}}}

	v, ok := g.At(0, 2)
	assert.True(ok)
	assert.Equal(3, v)

	v, ok = g.At(1, 1)
	assert.True(ok)
	assert.Equal(5, v)

	// the second row is short
	_, ok = g.At(1, 2)
	assert.False(ok)

	_, ok = g.At(-1, 0)
	assert.False(ok)
	_, ok = g.At(2, 0)
	assert.False(ok)
}
