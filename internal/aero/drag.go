// Package aero holds the drag model: a table of drag coefficients indexed by
// Mach number with separate values for powered and coasting flight.
package aero

// DefaultTolerance is the symmetric percent error within which a table entry
// matches a queried Mach number.
const DefaultTolerance = 0.05

type DragEntry struct {
	Mach      float64
	Unpowered float64
	Powered   float64
}

// Coefficient selects the powered or unpowered Cd.
func (e DragEntry) Coefficient(powered bool) float64 {
	if powered {
		return e.Powered
	}
	return e.Unpowered
}

// DragTable is read-only after construction and safe for concurrent lookups.
type DragTable struct {
	entries   []DragEntry
	Tolerance float64
}

func New(entries ...DragEntry) *DragTable {
	e := make([]DragEntry, len(entries))
	copy(e, entries)
	return &DragTable{entries: e, Tolerance: DefaultTolerance}
}

func (t *DragTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the table rows in load order.
func (t *DragTable) Entries() []DragEntry {
	if t == nil {
		return nil
	}
	out := make([]DragEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the coefficient of the first entry whose Mach number is
// within Tolerance of mach, measured as |mach-m| / (mach+m). Entries whose
// denominator is not positive never match. Zero means no entry matched and no
// aerodynamic drag applies.
func (t *DragTable) Lookup(mach float64, powered bool) float64 {
	if t == nil {
		return 0
	}
	tol := t.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	for _, e := range t.entries {
		denom := mach + e.Mach
		if denom <= 0 {
			continue
		}
		diff := mach - e.Mach
		if diff < 0 {
			diff = -diff
		}
		if diff/denom <= tol {
			return e.Coefficient(powered)
		}
	}
	return 0
}
