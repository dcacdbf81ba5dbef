package registers

import (
	"fmt"

	"github.com/lbtools/gpsdoctl/pkg/gpsdo"
)

// uint24 decodes a 3-byte little-endian unsigned value.
func uint24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

// putUint24 encodes value as 3 bytes little-endian, failing when it does not
// fit 24 bits.
func putUint24(b []byte, field string, value int) error {
	if value < 0 || value > 0xFFFFFF {
		return &OutOfRangeError{Field: field, Value: value, Bits: 24}
	}
	b[0] = byte(value)
	b[1] = byte(value >> 8)
	b[2] = byte(value >> 16)
	return nil
}

// putUint8 encodes value as a single byte, failing when it does not fit.
func putUint8(b []byte, field string, value int) error {
	if value < 0 || value > 0xFF {
		return &OutOfRangeError{Field: field, Value: value, Bits: 8}
	}
	b[0] = byte(value)
	return nil
}

// DecodeConfig decodes a configuration read image into register fields. The
// buffer must hold at least ConfigReadLen bytes; trailing bytes beyond the
// layout are ignored.
func DecodeConfig(buf []byte) (*Fields, error) {
	if len(buf) < ConfigReadLen {
		return nil, ErrShortBuffer
	}

	return &Fields{
		Out1:  buf[readOffFlags]&FlagOutput1 != 0,
		Out2:  buf[readOffFlags]&FlagOutput2 != 0,
		Level: int(buf[readOffLevel]),
		Fin:   uint24(buf[readOffFin:]),
		N3:    uint24(buf[readOffN3:]) + 1,
		N2HS:  int(buf[readOffN2HS]) + 4,
		N2LS:  uint24(buf[readOffN2LS:]) + 1,
		N1HS:  int(buf[readOffN1HS]) + 4,
		NC1LS: uint24(buf[readOffNC1LS:]) + 1,
		NC2LS: uint24(buf[readOffNC2LS:]) + 1,
		Skew:  int(buf[readOffSkew]),
		BW:    int(buf[readOffBW]),
	}, nil
}

// FromSettings derives register fields from settings. Every field the write
// layout carries must be defined.
func FromSettings(s *gpsdo.Settings) (*Fields, error) {
	required := []struct {
		name  string
		value *int
	}{
		{"fin", s.Fin},
		{"n3", s.N3},
		{"n2_hs", s.N2HS},
		{"n2_ls", s.N2LS},
		{"n1_hs", s.N1HS},
		{"nc1_ls", s.NC1LS},
		{"nc2_ls", s.NC2LS},
		{"skew", s.Skew},
		{"bw", s.BW},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedField, r.name)
		}
	}

	return &Fields{
		Out1:  s.Out1,
		Out2:  s.Out2,
		Level: s.Level,
		Fin:   *s.Fin,
		N3:    *s.N3,
		N2HS:  *s.N2HS,
		N2LS:  *s.N2LS,
		N1HS:  *s.N1HS,
		NC1LS: *s.NC1LS,
		NC2LS: *s.NC2LS,
		Skew:  *s.Skew,
		BW:    *s.BW,
	}, nil
}

// Partial converts decoded register fields into a settings update, the
// inverse of FromSettings.
func (f *Fields) Partial() gpsdo.Partial {
	out1, out2, level := f.Out1, f.Out2, f.Level
	fin, n3, n2hs, n2ls := f.Fin, f.N3, f.N2HS, f.N2LS
	n1hs, nc1ls, nc2ls := f.N1HS, f.NC1LS, f.NC2LS
	skew, bw := f.Skew, f.BW
	return gpsdo.Partial{
		Out1: &out1, Out2: &out2, Level: &level,
		Fin: &fin, N3: &n3, N2HS: &n2hs, N2LS: &n2ls,
		N1HS: &n1hs, NC1LS: &nc1ls, NC2LS: &nc2ls,
		Skew: &skew, BW: &bw,
	}
}

// EncodePLL builds the PLL block write report: command selector followed by
// the divider chain with its offset encodings.
func (f *Fields) EncodePLL() ([]byte, error) {
	buf := make([]byte, WriteReportLen)
	buf[0] = CommandPLL

	steps := []struct {
		off   int
		field string
		value int
		wide  bool // 3-byte LE field
	}{
		{pllOffFin, "fin", f.Fin, true},
		{pllOffN3, "n3", f.N3 - 1, true},
		{pllOffN2HS, "n2_hs", f.N2HS - 4, false},
		{pllOffN2LS, "n2_ls", f.N2LS - 1, true},
		{pllOffN1HS, "n1_hs", f.N1HS - 4, false},
		{pllOffNC1LS, "nc1_ls", f.NC1LS - 1, true},
		{pllOffNC2LS, "nc2_ls", f.NC2LS - 1, true},
		{pllOffSkew, "skew", f.Skew, false},
		{pllOffBW, "bw", f.BW, false},
	}
	for _, st := range steps {
		var err error
		if st.wide {
			err = putUint24(buf[st.off:], st.field, st.value)
		} else {
			err = putUint8(buf[st.off:], st.field, st.value)
		}
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// EncodeLevel builds the drive level write report.
func (f *Fields) EncodeLevel() ([]byte, error) {
	buf := make([]byte, WriteReportLen)
	buf[0] = CommandLevel
	if err := putUint8(buf[levelOffLevel:], "level", f.Level); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeOutput builds the output enable write report.
func (f *Fields) EncodeOutput() []byte {
	buf := make([]byte, WriteReportLen)
	buf[0] = CommandOutput
	if f.Out1 {
		buf[outputOffFlags] |= FlagOutput1
	}
	if f.Out2 {
		buf[outputOffFlags] |= FlagOutput2
	}
	return buf
}

// EncodeIdentify builds the identify write report. channel is FlagOutput1,
// FlagOutput2 or 0 to stop blinking.
func EncodeIdentify(channel byte) []byte {
	buf := make([]byte, WriteReportLen)
	buf[0] = CommandIdentify
	buf[1] = channel
	return buf
}
