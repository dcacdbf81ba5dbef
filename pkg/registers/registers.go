// Package registers maps GPSDO settings to and from the device's raw
// feature-report register images.
//
// The device uses two different fixed layouts. The read image (feature
// report 9) is a single buffer carrying every field; the write path uses
// three independent 60-byte reports, each selected by a command byte at
// offset 0. The read offsets are uniformly one byte higher than the write
// offsets because the read buffer has no leading command byte and exposes
// the output/level state up front. This asymmetry is the device's own
// protocol and is preserved verbatim; do not "fix" the tables to match.
package registers

import "fmt"

// Command selectors, byte 0 of every write report.
const (
	CommandOutput   = 1 // output enable flags
	CommandIdentify = 2 // blink an output channel LED
	CommandLevel    = 3 // drive level
	CommandPLL      = 4 // PLL divider block
)

// Report geometry.
const (
	WriteReportLen = 60 // every write report is exactly 60 bytes
	ConfigReportID = 9  // feature report ID of the configuration read
	ConfigReadLen  = 21 // minimum length of a decodable read image
	StatusReadLen  = 2  // interrupt read carrying lock status
)

// Output enable flags (read image byte 0, OUTPUT report byte 1).
const (
	FlagOutput1 = 0x01
	FlagOutput2 = 0x02
)

// Read image layout. Offsets are relative to the start of the feature
// report payload.
const (
	readOffFlags = 0  // bit 0 = out1, bit 1 = out2
	readOffLevel = 1  // raw
	readOffFin   = 2  // 3 bytes LE, raw
	readOffN3    = 5  // 3 bytes LE, stored as value-1
	readOffN2HS  = 8  // stored as value-4
	readOffN2LS  = 9  // 3 bytes LE, stored as value-1
	readOffN1HS  = 12 // stored as value-4
	readOffNC1LS = 13 // 3 bytes LE, stored as value-1
	readOffNC2LS = 16 // 3 bytes LE, stored as value-1
	readOffSkew  = 19 // raw
	readOffBW    = 20 // raw
)

// PLL write report layout. Offsets are relative to the report start; byte 0
// is the command selector, the payload begins at byte 1. Unused bytes stay
// zero.
const (
	pllOffFin   = 1  // 3 bytes LE, raw
	pllOffN3    = 4  // 3 bytes LE, value-1
	pllOffN2HS  = 7  // value-4
	pllOffN2LS  = 8  // 3 bytes LE, value-1
	pllOffN1HS  = 11 // value-4
	pllOffNC1LS = 12 // 3 bytes LE, value-1
	pllOffNC2LS = 15 // 3 bytes LE, value-1
	pllOffSkew  = 18 // raw
	pllOffBW    = 19 // raw
)

// LEVEL and OUTPUT write report layout.
const (
	levelOffLevel  = 1
	outputOffFlags = 1
)

// Fields is a fully-defined register-level view of the configuration, as
// decoded from a read image or derived from validated settings. Unlike
// gpsdo.Settings it has no undefined states: a device always reports a
// value for every field.
type Fields struct {
	Out1  bool
	Out2  bool
	Level int
	Fin   int
	N3    int
	N2HS  int
	N2LS  int
	N1HS  int
	NC1LS int
	NC2LS int
	Skew  int
	BW    int
}

func (f *Fields) String() string {
	return fmt.Sprintf("fin=%d n3=%d n2_hs=%d n2_ls=%d n1_hs=%d nc1_ls=%d nc2_ls=%d skew=%d bw=%d level=%d out1=%t out2=%t",
		f.Fin, f.N3, f.N2HS, f.N2LS, f.N1HS, f.NC1LS, f.NC2LS, f.Skew, f.BW, f.Level, f.Out1, f.Out2)
}
