package check

import (
	"testing"

	"github.com/dekarrin/cavern/internal/dat"
	"github.com/stretchr/testify/assert"
)

const validMap = `info{
rowcount:3;
colcount:3;
levelname:Test Cavern;
}
tiles{
38,38,38,
38,1,38,
38,38,38,
}
height{
0,0,0,
0,0,0,
0,0,0,
}
buildings{
BuildingToolStore_C,Translation: X=450.0 Y=450.0 Z=0.0 Rotation: P=0.0 Y=0.0 R=0.0 Scale X=1.0 Y=1.0 Z=1.0,ID=base1
}
`

func mustParse(t *testing.T, src string) *dat.Document {
	t.Helper()
	doc, _, err := dat.Parse(src)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func codesOf(diags []Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}

func Test_Validate_cleanMap(t *testing.T) {
	assert := assert.New(t)

	doc := mustParse(t, validMap)
	diags := Validate(doc, nil)

	assert.Empty(diags)
}

func Test_Validate_missingSections(t *testing.T) {
	assert := assert.New(t)

	doc := mustParse(t, "script{\n}\n")
	diags := Validate(doc, nil)

	codes := codesOf(diags)
	assert.Contains(codes, CodeMissingSection)
	assert.Contains(codes, CodeNoToolStore)

	missing := 0
	for _, d := range diags {
		if d.Code == CodeMissingSection {
			missing++
			assert.Equal(Error, d.Severity)
		}
	}
	// both info and tiles are required
	assert.Equal(2, missing)
}

func Test_Validate_rowCountMismatch(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:3;
colcount:3;
}
tiles{
38,38,38,
38,38,38,
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var found *Diagnostic
	for i := range diags {
		if diags[i].Code == CodeRowCount {
			found = &diags[i]
		}
	}
	if assert.NotNil(found, "expected a row-count diagnostic") {
		assert.Equal(Error, found.Severity)
		assert.Equal("tiles", found.Section)
		// points at the tiles opening brace
		assert.Equal(4, found.Line)
	}
}

func Test_Validate_raggedRow(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:3;
colcount:3;
}
tiles{
38,38,38,
38,38,
38,38,38,
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var lengths []Diagnostic
	for _, d := range diags {
		if d.Code == CodeRowLength {
			lengths = append(lengths, d)
		}
	}
	if assert.Len(lengths, 1) {
		// the short row is on source line 6
		assert.Equal(6, lengths[0].Line)
		assert.Equal("tiles", lengths[0].Section)
	}
}

func Test_Validate_resourceGridDimensions(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:2;
colcount:2;
}
tiles{
1,1,
1,1,
}
resources{
crystals:
0,1,
0,
ore:
0,0,
0,0,
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var lengths []Diagnostic
	for _, d := range diags {
		if d.Code == CodeRowLength {
			lengths = append(lengths, d)
		}
	}
	// only the short crystals row, on source line 11
	if assert.Len(lengths, 1) {
		assert.Equal("resources", lengths[0].Section)
		assert.Equal(11, lengths[0].Line)
		assert.Contains(lengths[0].Message, "crystals")
	}
}

func Test_Validate_badTileCode(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:1;
colcount:3;
}
tiles{
38,999,38,
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var bad []Diagnostic
	for _, d := range diags {
		if d.Code == CodeBadTileCode {
			bad = append(bad, d)
		}
	}
	if assert.Len(bad, 1) {
		assert.Equal(Error, bad[0].Severity)
		assert.Contains(bad[0].Message, "999")
	}
}

func Test_Validate_heightRange(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:1;
colcount:3;
}
tiles{
38,38,38,
}
height{
0,16,-1,
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	count := 0
	for _, d := range diags {
		if d.Code == CodeHeightRange {
			count++
			assert.Equal(Error, d.Severity)
			assert.Equal(8, d.Line)
		}
	}
	assert.Equal(2, count)
}

func Test_Validate_noToolStore(t *testing.T) {
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
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	// dimensions are fine; the only problem is the missing Tool Store
	if assert.Len(diags, 1) {
		assert.Equal(CodeNoToolStore, diags[0].Code)
		assert.Equal(Error, diags[0].Severity)
	}
}

func Test_Validate_objectiveBounds(t *testing.T) {
	assert := assert.New(t)

	src := validMap + `objectives{
discovertile: 5,5/Too far out
findbuilding: 1,1
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var bounds []Diagnostic
	for _, d := range diags {
		if d.Code == CodeObjectiveBounds {
			bounds = append(bounds, d)
		}
	}
	// only the discovertile objective is out of the 3x3 grid
	if assert.Len(bounds, 1) {
		assert.Contains(bounds[0].Message, "(5,5)")
	}
}

func Test_Validate_objectiveVariable(t *testing.T) {
	assert := assert.New(t)

	declared := validMap + `objectives{
variable: rescued>=3/Rescue the miners
}
script{
int rescued=0
}
`
	undeclared := validMap + `objectives{
variable: rescued>=3/Rescue the miners
}
`

	diagsDeclared := Validate(mustParse(t, declared), nil)
	diagsUndeclared := Validate(mustParse(t, undeclared), nil)

	assert.NotContains(codesOf(diagsDeclared), CodeObjectiveVar)
	assert.Contains(codesOf(diagsUndeclared), CodeObjectiveVar)
}

func Test_Validate_idCollision(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:1;
colcount:1;
}
tiles{
1,
}
buildings{
BuildingToolStore_C,Translation: X=0.0 Y=0.0 Z=0.0 Rotation: P=0.0 Y=0.0 R=0.0 Scale X=1.0 Y=1.0 Z=1.0,ID=base1
BuildingPowerStation_C,Translation: X=0.0 Y=0.0 Z=0.0 Rotation: P=0.0 Y=0.0 R=0.0 Scale X=1.0 Y=1.0 Z=1.0,ID=base1
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var colls []Diagnostic
	for _, d := range diags {
		if d.Code == CodeIDCollision {
			colls = append(colls, d)
		}
	}
	if assert.Len(colls, 1) {
		// the second declaration is the offender
		assert.Equal(9, colls[0].Line)
		assert.Contains(colls[0].Message, "base1")
	}
}

func Test_Validate_unknownSection(t *testing.T) {
	assert := assert.New(t)

	src := validMap + "futurestuff{\n}\n"
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	var unknown []Diagnostic
	for _, d := range diags {
		if d.Code == CodeUnknownSection {
			unknown = append(unknown, d)
		}
	}
	if assert.Len(unknown, 1) {
		assert.Equal(Warning, unknown[0].Severity)
		assert.Equal("futurestuff", unknown[0].Section)
	}
}

func Test_Validate_script(t *testing.T) {
	testCases := []struct {
		name       string
		script     string
		expectCode string
		severity   Severity
	}{
		{
			name:       "undefined trigger target",
			script:     "when(crystals>5)[Nowhere]\n",
			expectCode: CodeUndefinedEvent,
			severity:   Error,
		},
		{
			name:       "undefined bare call",
			script:     "Go::\nNowhere;\n",
			expectCode: CodeUndefinedEvent,
			severity:   Error,
		},
		{
			name:       "duplicate event chain",
			script:     "Go::\nwin:;\nGo::\nlose:;\n",
			expectCode: CodeDuplicateEvent,
			severity:   Error,
		},
		{
			name:       "variable used before declaration",
			script:     "when(flag>0)\nint flag=0\n",
			expectCode: CodeVarBeforeDecl,
			severity:   Warning,
		},
		{
			name:       "variable never declared",
			script:     "when(flag>0)\n",
			expectCode: CodeVarBeforeDecl,
			severity:   Warning,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			src := validMap + "script{\n" + tc.script + "}\n"
			doc := mustParse(t, src)
			diags := Validate(doc, nil)

			var matched []Diagnostic
			for _, d := range diags {
				if d.Code == tc.expectCode {
					matched = append(matched, d)
				}
			}
			if assert.Len(matched, 1) {
				assert.Equal(tc.severity, matched[0].Severity)
				assert.Equal("script", matched[0].Section)
			}
		})
	}
}

func Test_Validate_sortedByPosition(t *testing.T) {
	assert := assert.New(t)

	src := `info{
rowcount:2;
colcount:2;
}
tiles{
999,1,
1,999,
}
`
	doc := mustParse(t, src)
	diags := Validate(doc, nil)

	for i := 1; i < len(diags); i++ {
		assert.LessOrEqual(diags[i-1].Line, diags[i].Line)
	}
}
