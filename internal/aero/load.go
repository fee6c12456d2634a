package aero

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/aquasim/internal/sim"
)

//go:embed tables/default.csv
var defaultTable []byte

var fieldNames = [3]string{"mach", "unpowered cd", "powered cd"}

// MalformedEntryError reports the record that aborted a table load.
type MalformedEntryError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *MalformedEntryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: line %d: %v", sim.ErrMalformedDragEntry, e.Line, e.Err)
	}
	return fmt.Sprintf("%v: line %d: %s %q: %v", sim.ErrMalformedDragEntry, e.Line, e.Field, e.Value, e.Err)
}

func (e *MalformedEntryError) Unwrap() []error {
	return []error{sim.ErrMalformedDragEntry, e.Err}
}

// Load parses headerless Mach,unpowered,powered records. Fields past the third
// are ignored. The first malformed record fails the whole load.
func Load(r io.Reader) (*DragTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var entries []DragEntry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &MalformedEntryError{Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		if len(record) < 3 {
			return nil, &MalformedEntryError{Line: line, Err: fmt.Errorf("expected 3 fields, got %d", len(record))}
		}

		var vals [3]float64
		for i := range vals {
			raw := strings.TrimSpace(record[i])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &MalformedEntryError{Line: line, Field: fieldNames[i], Value: raw, Err: err}
			}
			vals[i] = v
		}
		entries = append(entries, DragEntry{Mach: vals[0], Unpowered: vals[1], Powered: vals[2]})
	}

	return &DragTable{entries: entries, Tolerance: DefaultTolerance}, nil
}

func LoadFile(path string) (*DragTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open drag table: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load drag table %s: %w", path, err)
	}
	return t, nil
}

// Default returns the built-in subsonic-to-supersonic table for a blunt-nosed
// bottle rocket.
func Default() *DragTable {
	t, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic(fmt.Sprintf("aero: embedded drag table: %v", err))
	}
	return t
}
