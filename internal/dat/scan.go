package dat

import (
	"regexp"
	"strings"
)

// file scan.go splits raw source text into named brace-delimited sections.
// Brace matching is depth-aware so that script blocks containing their own
// braces do not end a section early.

// Section is one named span of the source. Sections are created during
// scanning and immutable afterward.
type Section struct {
	// Name is the lowercased section identifier.
	Name string

	// StartLine is the 0-based line the opening brace appears on.
	StartLine int

	// EndLine is the 0-based line the closing brace appears on.
	EndLine int

	// Content is the text between the outermost braces, exactly as it
	// appears in the source, including the newline that usually follows the
	// opening brace.
	Content string
}

// Lines splits the section content on newlines. Element i of the result sits
// on absolute source line StartLine+i, which is what makes section-relative
// positions translate back to document positions.
func (s *Section) Lines() []string {
	return strings.Split(s.Content, "\n")
}

// AbsLine converts a 0-based index into Lines() to a 0-based absolute line in
// the source document.
func (s *Section) AbsLine(rel int) int {
	return s.StartLine + rel
}

var sectionOpenRegexp = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)[ \t]*\{`)

// blankComments replaces every `#` line comment with spaces. Lines are never
// removed, only their comment text, so line numbers in later passes match the
// original source.
func blankComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, ln := range lines {
		trimmed := strings.TrimLeft(ln, " \t")
		if strings.HasPrefix(trimmed, "#") {
			lines[i] = strings.Repeat(" ", len(ln))
		}
	}
	return strings.Join(lines, "\n")
}

// scanSections finds every `name{...}` block in the source. It returns the
// sections keyed by lowercase name, the same sections in source order, and
// any issues found. A section with an unterminated brace is reported and
// skipped; scanning resumes immediately after its opening brace so later
// sections are still found.
func scanSections(src string) (map[string]*Section, []*Section, []Issue) {
	named := map[string]*Section{}
	var ordered []*Section
	var issues []Issue

	cleaned := blankComments(src)
	srcLines := strings.Split(src, "\n")

	line := 0
	col := 0
	i := 0
	for i < len(cleaned) {
		ch := cleaned[i]
		if ch == '\n' {
			line++
			col = 0
			i++
			continue
		}

		m := sectionOpenRegexp.FindStringSubmatch(cleaned[i:])
		if m == nil {
			i++
			col++
			continue
		}

		name := strings.ToLower(m[1])
		openLine := line
		openCol := col
		contentStart := i + len(m[0])

		end, endLine := matchBrace(cleaned, contentStart, line)
		if end < 0 {
			issues = append(issues, Issue{
				Kind:       KindMalformedSection,
				Section:    name,
				Line:       openLine,
				Col:        openCol,
				Message:    "section has no matching closing brace",
				sourceLine: srcLines[openLine],
			})
			// resume right after the opening brace; any later well-formed
			// section still gets scanned
			i = contentStart
			col += len(m[0])
			continue
		}

		sec := &Section{
			Name:      name,
			StartLine: openLine,
			EndLine:   endLine,
			Content:   src[contentStart:end],
		}

		if _, dup := named[name]; dup {
			issues = append(issues, Issue{
				Kind:       KindDuplicateSection,
				Section:    name,
				Line:       openLine,
				Col:        openCol,
				Warning:    true,
				Message:    "section " + name + " is declared more than once; the first declaration is used",
				sourceLine: srcLines[openLine],
			})
		} else {
			named[name] = sec
			ordered = append(ordered, sec)
		}

		// skip past the closing brace
		i = end + 1
		line = endLine
		if nl := strings.LastIndexByte(cleaned[:i], '\n'); nl >= 0 {
			col = i - nl - 1
		} else {
			col = i
		}
	}

	return named, ordered, issues
}

// matchBrace finds the closing brace that balances the one just before
// start. It returns the index of the closing brace and the line it is on, or
// (-1, -1) if the braces never balance.
func matchBrace(s string, start int, startLine int) (end int, endLine int) {
	depth := 1
	line := startLine
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\n':
			line++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, line
			}
		}
	}
	return -1, -1
}
