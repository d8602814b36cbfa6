package check

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// file report.go renders diagnostics as a human-readable problem report for
// terminal display.

var reportFormatOptions = rosed.Options{
	NoTrailingLineSeparators: true,
}

// RenderReport formats diagnostics against their source for terminal output,
// wrapped to the given width. Each diagnostic shows its position, severity,
// and message, followed by the offending source line with a cursor under the
// relevant column when one is known. Diagnostics must already be in the
// order they should appear; Validate returns them line-sorted.
func RenderReport(source string, diags []Diagnostic, width int) string {
	if len(diags) == 0 {
		return "No problems found.\n"
	}

	srcLines := strings.Split(source, "\n")

	ed := rosed.Edit("").WithOptions(reportFormatOptions)

	for _, d := range diags {
		header := fmt.Sprintf("line %d: %s: %s", d.Line+1, d.Severity, d.Message)
		wrapped := rosed.Edit(header).WithOptions(reportFormatOptions).Wrap(width).String()
		ed = ed.Insert(rosed.End, wrapped+"\n")

		if d.Line >= 0 && d.Line < len(srcLines) {
			ed = ed.Insert(rosed.End, "    "+srcLines[d.Line]+"\n")
			if d.Col >= 0 {
				ed = ed.Insert(rosed.End, "    "+strings.Repeat(" ", d.Col)+"^\n")
			}
		}
		ed = ed.Insert(rosed.End, "\n")
	}

	errs := 0
	warns := 0
	for _, d := range diags {
		if d.Severity == Error {
			errs++
		} else {
			warns++
		}
	}
	ed = ed.Insert(rosed.End, fmt.Sprintf("%d error(s), %d warning(s)\n", errs, warns))

	return ed.String()
}
