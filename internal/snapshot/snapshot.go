// Package snapshot serializes the results of a lint run to a compact binary
// form: the source text, its diagnostics, and an optional reachability
// analysis. It is used for cache files on disk and for the map service's
// store. The Document itself is not encoded; it re-derives from the source
// exactly, so storing the text is both smaller and always canonical.
package snapshot

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/cavern/internal/check"
	"github.com/dekarrin/cavern/internal/reach"
)

// Snapshot is one saved lint run.
type Snapshot struct {
	// Name is the display name of the map, usually its file name.
	Name string

	// Source is the complete DAT source text.
	Source string

	// Diagnostics is the validation output for Source.
	Diagnostics []check.Diagnostic

	// Analysis is the reachability result, or nil if analysis was not run.
	Analysis *reach.Result
}

// MarshalBinary converts the snapshot to bytes.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(s.Name)...)
	data = append(data, rezi.EncString(s.Source)...)

	data = append(data, rezi.EncInt(len(s.Diagnostics))...)
	for _, d := range s.Diagnostics {
		data = append(data, rezi.EncBinary(binDiag(d))...)
	}

	data = append(data, rezi.EncBool(s.Analysis != nil)...)
	if s.Analysis != nil {
		data = append(data, rezi.EncBinary(binResult(*s.Analysis))...)
	}

	return data, nil
}

// UnmarshalBinary fills the snapshot from bytes produced by MarshalBinary.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	s.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	s.Source, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	data = data[n:]

	var count int
	count, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("diagnostic count: %w", err)
	}
	data = data[n:]

	s.Diagnostics = nil
	for i := 0; i < count; i++ {
		var bd binDiag
		n, err = rezi.DecBinary(data, &bd)
		if err != nil {
			return fmt.Errorf("diagnostics[%d]: %w", i, err)
		}
		data = data[n:]
		s.Diagnostics = append(s.Diagnostics, check.Diagnostic(bd))
	}

	var hasAnalysis bool
	hasAnalysis, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("analysis flag: %w", err)
	}
	data = data[n:]

	s.Analysis = nil
	if hasAnalysis {
		var br binResult
		_, err = rezi.DecBinary(data, &br)
		if err != nil {
			return fmt.Errorf("analysis: %w", err)
		}
		res := reach.Result(br)
		s.Analysis = &res
	}

	return nil
}

// SaveFile writes the snapshot to the file at path, replacing whatever is
// there.
func (s Snapshot) SaveFile(path string) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%q: writing to disk: %w", path, err)
	}
	return nil
}

// LoadFile reads a snapshot from the file at path.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	var s Snapshot
	if err := s.UnmarshalBinary(data); err != nil {
		return Snapshot{}, fmt.Errorf("%q: %w", path, err)
	}
	return s, nil
}

// binDiag is check.Diagnostic with a binary codec attached.
type binDiag check.Diagnostic

func (bd binDiag) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(int(bd.Severity))...)
	data = append(data, rezi.EncString(bd.Code)...)
	data = append(data, rezi.EncString(bd.Message)...)
	data = append(data, rezi.EncInt(bd.Line)...)
	data = append(data, rezi.EncInt(bd.Col)...)
	data = append(data, rezi.EncString(bd.Section)...)
	return data, nil
}

func (bd *binDiag) UnmarshalBinary(data []byte) error {
	var n int
	var err error
	var sev int

	if sev, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("severity: %w", err)
	}
	bd.Severity = check.Severity(sev)
	data = data[n:]

	if bd.Code, n, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("code: %w", err)
	}
	data = data[n:]

	if bd.Message, n, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("message: %w", err)
	}
	data = data[n:]

	if bd.Line, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("line: %w", err)
	}
	data = data[n:]

	if bd.Col, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("col: %w", err)
	}
	data = data[n:]

	if bd.Section, _, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("section: %w", err)
	}

	return nil
}

// binResult is reach.Result with a binary codec attached. Map contents are
// written sorted row-major so the encoding of a given Result is always
// byte-identical.
type binResult reach.Result

func (br binResult) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(br.Origin.Row)...)
	data = append(data, rezi.EncInt(br.Origin.Col)...)

	pts := make([]reach.Point, 0, len(br.Distances))
	for p := range br.Distances {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Row != pts[j].Row {
			return pts[i].Row < pts[j].Row
		}
		return pts[i].Col < pts[j].Col
	})

	data = append(data, rezi.EncInt(len(pts))...)
	for _, p := range pts {
		data = append(data, rezi.EncInt(p.Row)...)
		data = append(data, rezi.EncInt(p.Col)...)
		data = append(data, rezi.EncInt(br.Distances[p])...)
	}

	data = append(data, rezi.EncInt(br.IsolatedRegions)...)

	data = append(data, rezi.EncInt(len(br.ChokePoints))...)
	for _, p := range br.ChokePoints {
		data = append(data, rezi.EncInt(p.Row)...)
		data = append(data, rezi.EncInt(p.Col)...)
	}

	ratio := strconv.FormatFloat(br.AccessibilityRatio, 'g', -1, 64)
	data = append(data, rezi.EncString(ratio)...)

	return data, nil
}

func (br *binResult) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	if br.Origin.Row, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("origin row: %w", err)
	}
	data = data[n:]
	if br.Origin.Col, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("origin col: %w", err)
	}
	data = data[n:]

	var count int
	if count, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("reachable count: %w", err)
	}
	data = data[n:]

	br.Reachable = map[reach.Point]bool{}
	br.Distances = map[reach.Point]int{}
	for i := 0; i < count; i++ {
		var p reach.Point
		var d int
		if p.Row, n, err = rezi.DecInt(data); err != nil {
			return fmt.Errorf("reachable[%d] row: %w", i, err)
		}
		data = data[n:]
		if p.Col, n, err = rezi.DecInt(data); err != nil {
			return fmt.Errorf("reachable[%d] col: %w", i, err)
		}
		data = data[n:]
		if d, n, err = rezi.DecInt(data); err != nil {
			return fmt.Errorf("reachable[%d] dist: %w", i, err)
		}
		data = data[n:]

		br.Reachable[p] = true
		br.Distances[p] = d
	}

	if br.IsolatedRegions, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("isolated regions: %w", err)
	}
	data = data[n:]

	if count, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("choke point count: %w", err)
	}
	data = data[n:]

	br.ChokePoints = nil
	for i := 0; i < count; i++ {
		var p reach.Point
		if p.Row, n, err = rezi.DecInt(data); err != nil {
			return fmt.Errorf("chokepoints[%d] row: %w", i, err)
		}
		data = data[n:]
		if p.Col, n, err = rezi.DecInt(data); err != nil {
			return fmt.Errorf("chokepoints[%d] col: %w", i, err)
		}
		data = data[n:]
		br.ChokePoints = append(br.ChokePoints, p)
	}

	var ratio string
	if ratio, _, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("accessibility ratio: %w", err)
	}
	br.AccessibilityRatio, err = strconv.ParseFloat(ratio, 64)
	if err != nil {
		return fmt.Errorf("accessibility ratio: %w", err)
	}

	return nil
}
