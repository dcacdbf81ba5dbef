// Package gpsdo models the frequency-synthesis configuration of the Leo
// Bodnar dual-output GPSDO and computes its frequency plan. All plan math is
// exact rational arithmetic; nothing in the validation path touches floating
// point.
package gpsdo

// Settings holds the PLL parameters of one device session. Divider and
// reference fields are pointers because they may be undefined (freshly
// created sessions have no divider values until they are set or read from a
// device) and zero is a legal value for some fields but not others.
//
// A Settings instance is not safe for concurrent mutation; callers serialize
// access, one instance per logical device session.
type Settings struct {
	Out1  bool
	Out2  bool
	Level int

	Fin   *int // GPS reference frequency in Hz
	N3    *int // input divider
	N2HS  *int // feedback high speed divider
	N2LS  *int // feedback low speed divider
	N1HS  *int // output common high speed divider
	NC1LS *int // output 1 low speed divider
	NC2LS *int // output 2 low speed divider
	Skew  *int // output 2 clock skew register value
	BW    *int // loop bandwidth selector
}

// NewSettings returns a settings instance with the device power-on defaults:
// outputs disabled, 8 mA drive, skew 0, bandwidth code 15, all dividers and
// the reference frequency undefined.
func NewSettings() *Settings {
	skew := 0
	bw := 15
	return &Settings{
		Skew: &skew,
		BW:   &bw,
	}
}

// Partial is a partial settings update. Nil fields are left untouched.
type Partial struct {
	Out1  *bool
	Out2  *bool
	Level *int

	Fin   *int
	N3    *int
	N2HS  *int
	N2LS  *int
	N1HS  *int
	NC1LS *int
	NC2LS *int
	Skew  *int
	BW    *int
}

// parity rules for the static field checks. The "1 or even" rule reflects a
// hardware bypass path present only on the low-speed per-output dividers:
// the literal value 1 is accepted in addition to any even value. The strict
// "even" rule on the feedback divider rejects 1.
type parity int

const (
	parityNone parity = iota
	parityEven
	parityEvenOrOne
)

// fieldLimit is one row of the static range table.
type fieldLimit struct {
	field     string
	label     string
	min, max  int
	parity    parity
	rangeText string
}

var staticLimits = []fieldLimit{
	{"fin", "GPS reference frequency", LimitFinMin, LimitFinMax, parityNone, "in the range of 10 kHz to 16 MHz"},
	{"n3", "Input divider N3", 1, 1 << 19, parityNone, "in the range of 1 to 524288"},
	{"n2_hs", "Feedback divider N2_HS", 4, 11, parityNone, "in the range of 4 to 11"},
	{"n2_ls", "Feedback divider N2_LS", 2, 1 << 20, parityEven, "in the range of 2 to 1048576"},
	{"n1_hs", "Output common divider N1_HS", 4, 11, parityNone, "in the range of 4 to 11"},
	{"nc1_ls", "Output 1 divider NC1_LS", 1, 1 << 20, parityEvenOrOne, "in the range of 1 to 1048576"},
	{"nc2_ls", "Output 2 divider NC2_LS", 1, 1 << 20, parityEvenOrOne, "in the range of 1 to 1048576"},
	{"skew", "SKEW", 0, 255, parityNone, "in the range of 0 to 255"},
	{"bw", "BWSEL", 0, 15, parityNone, "in the range of 0 to 15"},
}

// get returns the supplied value for one of the nine static fields, or nil.
func (p *Partial) get(field string) *int {
	switch field {
	case "fin":
		return p.Fin
	case "n3":
		return p.N3
	case "n2_hs":
		return p.N2HS
	case "n2_ls":
		return p.N2LS
	case "n1_hs":
		return p.N1HS
	case "nc1_ls":
		return p.NC1LS
	case "nc2_ls":
		return p.NC2LS
	case "skew":
		return p.Skew
	case "bw":
		return p.BW
	}
	return nil
}

// set stores a validated value into the settings.
func (s *Settings) set(field string, value int) {
	v := value
	switch field {
	case "fin":
		s.Fin = &v
	case "n3":
		s.N3 = &v
	case "n2_hs":
		s.N2HS = &v
	case "n2_ls":
		s.N2LS = &v
	case "n1_hs":
		s.N1HS = &v
	case "nc1_ls":
		s.NC1LS = &v
	case "nc2_ls":
		s.NC2LS = &v
	case "skew":
		s.Skew = &v
	case "bw":
		s.BW = &v
	}
}

// Update applies a partial update atomically. Every supplied field is
// validated against the static range table before any state is mutated; if
// any field fails the settings are left unchanged and the returned
// *ConfigError carries the complete field error map.
func (s *Settings) Update(p Partial) error {
	errs := map[string]string{}

	for _, lim := range staticLimits {
		vp := p.get(lim.field)
		if vp == nil {
			continue
		}
		value := *vp

		if value < lim.min || value > lim.max {
			errs[lim.field] = lim.label + " must be " + lim.rangeText + "."
		}

		if value%2 != 0 {
			switch lim.parity {
			case parityEven:
				errs[lim.field] = lim.label + " must be even."
			case parityEvenOrOne:
				if value != 1 {
					errs[lim.field] = lim.label + " must be 1 or even."
				}
			}
		}
	}

	if p.Level != nil && (*p.Level < 0 || *p.Level > 3) {
		errs["level"] = "Invalid drive level."
	}

	if len(errs) > 0 {
		return &ConfigError{Fields: errs}
	}

	for _, lim := range staticLimits {
		if vp := p.get(lim.field); vp != nil {
			s.set(lim.field, *vp)
		}
	}
	if p.Out1 != nil {
		s.Out1 = *p.Out1
	}
	if p.Out2 != nil {
		s.Out2 = *p.Out2
	}
	if p.Level != nil {
		s.Level = *p.Level
	}

	return nil
}

// FillUnusedDividers assigns default values to output dividers that are
// undefined because their channel is disabled, so that a write does not fail
// with bogus errors. A disabled channel mirrors the enabled channel's
// divider; if both channels are disabled an always-safe divider is used.
func (s *Settings) FillUnusedDividers() {
	if !s.Out1 && s.NC1LS == nil && s.Out2 {
		s.NC1LS = s.NC2LS
	}
	if !s.Out2 && s.NC2LS == nil && s.Out1 {
		s.NC2LS = s.NC1LS
	}

	if !s.Out1 && !s.Out2 {
		if s.NC1LS == nil {
			v := 5670
			s.NC1LS = &v
		}
		if s.NC2LS == nil {
			v := 5670
			s.NC2LS = &v
		}
	}
}

// Backup is an immutable, fully-defined copy of the settings, suitable for
// persistence. Its JSON field names match the configuration field names used
// in error maps and on the command line.
type Backup struct {
	Out1  bool `json:"out1"`
	Out2  bool `json:"out2"`
	Level int  `json:"level"`
	Fin   int  `json:"fin"`
	N3    int  `json:"n3"`
	N2HS  int  `json:"n2_hs"`
	N2LS  int  `json:"n2_ls"`
	N1HS  int  `json:"n1_hs"`
	NC1LS int  `json:"nc1_ls"`
	NC2LS int  `json:"nc2_ls"`
	Skew  int  `json:"skew"`
	BW    int  `json:"bw"`
}

// Snapshot returns an immutable copy of the settings for persistence. It
// fails with a *PlanError if any field is undefined or the frequency plan is
// invalid; with ignoreFreqLimits set, datasheet frequency ranges are not
// enforced (a backup of an out-of-range configuration is permitted, a write
// to hardware is not).
func (s *Settings) Snapshot(ignoreFreqLimits bool) (*Backup, error) {
	_, report := s.Evaluate(ignoreFreqLimits)
	if err := report.Err(); err != nil {
		return nil, err
	}

	return &Backup{
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

// Partial converts a backup into a partial update that restores it.
func (b *Backup) Partial() Partial {
	out1, out2, level := b.Out1, b.Out2, b.Level
	fin, n3, n2hs, n2ls := b.Fin, b.N3, b.N2HS, b.N2LS
	n1hs, nc1ls, nc2ls := b.N1HS, b.NC1LS, b.NC2LS
	skew, bw := b.Skew, b.BW
	return Partial{
		Out1: &out1, Out2: &out2, Level: &level,
		Fin: &fin, N3: &n3, N2HS: &n2hs, N2LS: &n2ls,
		N1HS: &n1hs, NC1LS: &nc1ls, NC2LS: &nc2ls,
		Skew: &skew, BW: &bw,
	}
}

// LevelFromMilliamps maps a drive current in mA (8, 16, 24 or 32) to its
// register code.
func LevelFromMilliamps(ma int) (int, bool) {
	level, ok := levelFromMilliamps[ma]
	return level, ok
}
