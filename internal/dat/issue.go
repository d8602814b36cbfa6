package dat

import "fmt"

// file issue.go contains the recoverable-problem type produced while parsing.
// Parsing never throws for a recoverable problem; it records an Issue and
// keeps going, so one bad section never hides the rest of a file.

// IssueKind identifies the category of a parse issue.
type IssueKind int

const (
	// KindMalformedSection is an unbalanced or unterminated section block.
	KindMalformedSection IssueKind = iota

	// KindDuplicateSection is a section name that appears more than once; the
	// first occurrence wins.
	KindDuplicateSection

	// KindBadNumber is a token that should be numeric but is not.
	KindBadNumber

	// KindBadCoordinates is an entity coordinate block that could not be
	// read; the entity is kept with its coordinates defaulted to the origin.
	KindBadCoordinates

	// KindUnknownObjective is an objective line with an unrecognized leading
	// keyword; the line is skipped.
	KindUnknownObjective

	// KindBadLine is a line that does not match any shape its section
	// allows.
	KindBadLine
)

func (k IssueKind) String() string {
	switch k {
	case KindMalformedSection:
		return "malformed-section"
	case KindDuplicateSection:
		return "duplicate-section"
	case KindBadNumber:
		return "bad-number"
	case KindBadCoordinates:
		return "bad-coordinates"
	case KindUnknownObjective:
		return "unknown-objective"
	case KindBadLine:
		return "bad-line"
	default:
		return fmt.Sprintf("IssueKind(%d)", int(k))
	}
}

// Issue is one recoverable problem found while parsing. It carries enough
// position info to be placed back onto the original source without
// re-parsing.
type Issue struct {
	// Kind is the category of the problem.
	Kind IssueKind

	// Section is the lowercase name of the section the problem was found in,
	// or "" for problems outside any section.
	Section string

	// Line is the 0-based line in the complete source text.
	Line int

	// Col is the 0-based column in that line, or -1 when no particular
	// column caused the problem.
	Col int

	// Warning marks issues that are advisory rather than data-losing.
	Warning bool

	// Message describes the problem.
	Message string

	// sourceLine is the exact text of the offending line, for FullMessage.
	sourceLine string
}

func (is Issue) Error() string {
	if is.Section == "" {
		return fmt.Sprintf("%s: line %d: %s", is.Kind, is.Line+1, is.Message)
	}
	return fmt.Sprintf("%s: %s: line %d: %s", is.Kind, is.Section, is.Line+1, is.Message)
}

// FullMessage shows the complete message of the issue along with the
// offending line and a cursor to the problem position in a formatted way.
func (is Issue) FullMessage() string {
	errMsg := is.Error()

	if is.sourceLine == "" {
		return errMsg
	}

	cursorLine := ""
	if is.Col > 0 {
		for i := 0; i < is.Col; i++ {
			cursorLine += " "
		}
	}
	cursorLine += "^"

	return is.sourceLine + "\n" + cursorLine + "\n" + errMsg
}
