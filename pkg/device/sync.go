package device

import "github.com/lbtools/gpsdoctl/pkg/registers"

// WriteSet is the set of register groups scheduled for re-transmission.
type WriteSet struct {
	PLL    bool
	Level  bool
	Output bool
}

// Empty reports whether no group needs to be written.
func (w WriteSet) Empty() bool {
	return !w.PLL && !w.Level && !w.Output
}

// PlanWrites compares the device's current register fields against the
// desired ones and schedules every group with at least one differing field.
// The three groups are independent on the wire, so an unchanged group is
// skipped entirely; overwrite schedules all groups regardless of match.
func PlanWrites(current, desired *registers.Fields, overwrite bool) WriteSet {
	if overwrite {
		return WriteSet{PLL: true, Level: true, Output: true}
	}

	return WriteSet{
		PLL: current.Fin != desired.Fin ||
			current.N3 != desired.N3 ||
			current.N2HS != desired.N2HS ||
			current.N2LS != desired.N2LS ||
			current.N1HS != desired.N1HS ||
			current.NC1LS != desired.NC1LS ||
			current.NC2LS != desired.NC2LS ||
			current.Skew != desired.Skew ||
			current.BW != desired.BW,
		Level:  current.Level != desired.Level,
		Output: current.Out1 != desired.Out1 || current.Out2 != desired.Out2,
	}
}
