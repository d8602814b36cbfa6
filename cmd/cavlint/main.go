/*
Cavlint parses cavern DAT map files and reports every structural problem and
accessibility statistic it finds.

Usage:

	cavlint [flags] FILE [FILE ...]

For each file, cavlint parses it, validates it, and runs reachability
analysis from the map's first Tool Store. Problems print as a wrapped report
with the offending source lines; the exit code is non-zero if any file has
an error-severity diagnostic.

The flags are:

	-v, --version
		Give the current version of cavlint and then exit.

	-t, --tileset FILE
		Use the given TOML tileset instead of the built-in tile table.

	-o, --origin ROW,COL
		Start reachability analysis at the given cell instead of the first
		Tool Store.

	-m, --mine
		Treat drillable walls as traversable (weighted by drill cost) during
		reachability analysis.

	-c, --cache FILE
		Write a binary snapshot of the last file's lint run to FILE.

	-j, --json
		Print diagnostics as a JSON array instead of a wrapped report.

	-w, --width N
		Wrap report output at N columns. Defaults to 80.
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/cavern"
	"github.com/dekarrin/cavern/internal/check"
	"github.com/dekarrin/cavern/internal/reach"
	"github.com/dekarrin/cavern/internal/snapshot"
	"github.com/dekarrin/cavern/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitProblems indicates at least one file had an error-severity
	// diagnostic.
	ExitProblems

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue reading input or arguments.
	ExitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of cavlint and then exit.")
	flagTileset = pflag.StringP("tileset", "t", "", "Use the given TOML tileset file.")
	flagOrigin  = pflag.StringP("origin", "o", "", "Start analysis at ROW,COL instead of the first Tool Store.")
	flagMine    = pflag.BoolP("mine", "m", false, "Treat drillable walls as traversable during analysis.")
	flagCache   = pflag.StringP("cache", "c", "", "Write a binary snapshot of the lint run to the given file.")
	flagJSON    = pflag.BoolP("json", "j", false, "Print diagnostics as a JSON array instead of a report.")
	flagWidth   = pflag.IntP("width", "w", 80, "Wrap report output at the given number of columns.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println("cavlint " + version.Current)
		os.Exit(ExitSuccess)
	}

	files := pflag.Args()
	if len(files) < 1 {
		fmt.Fprintln(os.Stderr, "no input files; give at least one DAT map file")
		os.Exit(ExitInitError)
	}

	tbl := cavern.DefaultTiles()
	if *flagTileset != "" {
		var err error
		tbl, err = cavern.LoadTilesFile(*flagTileset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading tileset: %v\n", err)
			os.Exit(ExitInitError)
		}
	}

	origin, err := parseOrigin(*flagOrigin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad --origin: %v\n", err)
		os.Exit(ExitInitError)
	}

	returnCode := ExitSuccess
	for _, path := range files {
		hadErrors, err := lintFile(path, tbl, origin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			returnCode = ExitInitError
			continue
		}
		if hadErrors && returnCode == ExitSuccess {
			returnCode = ExitProblems
		}
	}

	os.Exit(returnCode)
}

func lintFile(path string, tbl *cavern.TileTable, origin *cavern.Point) (hadErrors bool, err error) {
	doc, issues, err := cavern.LoadFile(path)
	if err != nil {
		return false, err
	}

	for _, is := range issues {
		if !is.Warning {
			hadErrors = true
		}
	}

	diags := cavern.Validate(doc, tbl)
	for _, d := range diags {
		if d.Severity == check.Error {
			hadErrors = true
		}
	}

	if *flagJSON {
		if err := printJSON(path, issues, diags); err != nil {
			return hadErrors, err
		}
	} else {
		fmt.Printf("== %s\n", path)
		for _, is := range issues {
			fmt.Println(is.FullMessage())
		}
		fmt.Print(check.RenderReport(doc.Source(), diags, *flagWidth))
	}

	res := cavern.Analyze(doc, reach.Options{
		Origin:  origin,
		CanMine: *flagMine,
		Table:   tbl,
	})
	if !*flagJSON {
		fmt.Printf("reachability from (%d,%d): %d tile(s) reachable, %d isolated region(s), %d choke point(s), %.1f%% accessible\n",
			res.Origin.Row, res.Origin.Col, len(res.Reachable), res.IsolatedRegions,
			len(res.ChokePoints), res.AccessibilityRatio*100)
	}

	if *flagCache != "" {
		snap := snapshot.Snapshot{
			Name:        path,
			Source:      doc.Source(),
			Diagnostics: diags,
			Analysis:    &res,
		}
		if err := snap.SaveFile(*flagCache); err != nil {
			return hadErrors, fmt.Errorf("writing cache: %w", err)
		}
	}

	return hadErrors, nil
}

// jsonProblem is one parse issue or diagnostic in --json output.
type jsonProblem struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Section  string `json:"section,omitempty"`
}

func printJSON(path string, issues []cavern.Issue, diags []cavern.Diagnostic) error {
	probs := []jsonProblem{}

	for _, is := range issues {
		sev := "error"
		if is.Warning {
			sev = "warning"
		}
		probs = append(probs, jsonProblem{
			File:     path,
			Severity: sev,
			Code:     is.Kind.String(),
			Message:  is.Message,
			Line:     is.Line,
			Col:      is.Col,
			Section:  is.Section,
		})
	}

	for _, d := range diags {
		probs = append(probs, jsonProblem{
			File:     path,
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Line:     d.Line,
			Col:      d.Col,
			Section:  d.Section,
		})
	}

	out, err := json.MarshalIndent(probs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding problems: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func parseOrigin(s string) (*cavern.Point, error) {
	if s == "" {
		return nil, nil
	}

	rowStr, colStr, found := strings.Cut(s, ",")
	if !found {
		return nil, fmt.Errorf("must be in ROW,COL format")
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return nil, fmt.Errorf("row %q is not an integer", rowStr)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return nil, fmt.Errorf("col %q is not an integer", colStr)
	}

	return &cavern.Point{Row: row, Col: col}, nil
}
