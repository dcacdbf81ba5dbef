package gpsdo

import (
	"fmt"

	"github.com/lbtools/gpsdoctl/pkg/rational"
)

// Plan is the frequency plan derived from one settings instance. Entries are
// nil when any of their inputs is undefined. All values are exact rationals;
// a presentation layer rounds them, the validation path never does.
type Plan struct {
	F3    *rational.Rat // phase detector frequency, Hz
	Fosc  *rational.Rat // oscillator (VCO) frequency, Hz
	Fout1 *rational.Rat // output 1 frequency, Hz
	Fout2 *rational.Rat // output 2 frequency, Hz

	Phase         *rational.Rat // phase offset of output 1 w.r.t. output 2, s
	PhaseRes      *rational.Rat // smallest representable phase offset step, s
	PhaseAngle    *rational.Rat // phase angle, fraction of a cycle in [0,1)
	PhaseAngleRes *rational.Rat // smallest phase angle step, fraction of a cycle
}

// Report is the validation result of a plan evaluation. It holds one message
// per problematic field; a field with no entry passed all its checks. The
// configuration is deployable iff the report is empty.
type Report struct {
	problems map[string]string
}

// OK reports whether the configuration is deployable.
func (r *Report) OK() bool {
	return len(r.problems) == 0
}

// Problem returns the message recorded for a field, or "" if the field
// passed.
func (r *Report) Problem(field string) string {
	return r.problems[field]
}

// Problems returns a copy of the field error map.
func (r *Report) Problems() map[string]string {
	out := make(map[string]string, len(r.problems))
	for k, v := range r.problems {
		out[k] = v
	}
	return out
}

// Err returns nil for a deployable configuration, otherwise a *PlanError
// carrying the full field error map.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &PlanError{Fields: r.Problems()}
}

// freqLimit is one row of the derived frequency check table.
type freqLimit struct {
	field    string
	label    string
	min, max int64
	rangeMsg string
}

var freqLimits = []freqLimit{
	{"f3", "Phase detector frequency", LimitF3Min, LimitF3Max, "must be in the range of 2 kHz to 2 MHz"},
	{"fosc", "Oscillator frequency", LimitFoscMin, LimitFoscMax, "must be in the range of 4.85 GHz to 5.67 GHz"},
	{"fout1", "Output 1 frequency", LimitFoutMin, LimitFoutMax, "must be in the range of 450 Hz to 808 MHz"},
	{"fout2", "Output 2 frequency", LimitFoutMin, LimitFoutMax, "must be in the range of 450 Hz to 808 MHz"},
}

// Evaluate computes the frequency plan and its validation report. It is pure
// and caches nothing; any field mutation can change every derived value, so
// callers re-evaluate after every update.
//
// An undefined settings field does not abort evaluation; the derived values
// depending on it simply stay undefined and are reported as such. With
// ignoreFreqLimits set the datasheet frequency ranges are not enforced; the
// skew ceiling is a correctness bound, not a datasheet range, and is checked
// regardless.
func (s *Settings) Evaluate(ignoreFreqLimits bool) (*Plan, *Report) {
	report := &Report{problems: map[string]string{}}

	for _, lim := range staticLimits {
		if s.fieldValue(lim.field) == nil {
			report.problems[lim.field] = lim.label + " undefined."
		}
	}

	plan := &Plan{}
	if s.Fin != nil && s.N3 != nil {
		plan.F3 = mustDiv(rational.FromInt(int64(*s.Fin)), rational.FromInt(int64(*s.N3)))
	}
	if plan.F3 != nil && s.N2HS != nil && s.N2LS != nil {
		plan.Fosc = plan.F3.MulInt(int64(*s.N2HS)).MulInt(int64(*s.N2LS))
	}
	if plan.Fosc != nil && s.N1HS != nil && s.NC1LS != nil {
		plan.Fout1 = mustDiv(plan.Fosc, rational.FromInt(int64(*s.N1HS)*int64(*s.NC1LS)))
	}
	if plan.Fosc != nil && s.N1HS != nil && s.NC2LS != nil {
		plan.Fout2 = mustDiv(plan.Fosc, rational.FromInt(int64(*s.N1HS)*int64(*s.NC2LS)))
	}
	if plan.Fosc != nil && s.N1HS != nil {
		plan.PhaseRes = mustDiv(rational.FromInt(int64(*s.N1HS)), plan.Fosc)
	}
	if plan.PhaseRes != nil && s.Skew != nil {
		plan.Phase = plan.PhaseRes.MulInt(int64(*s.Skew))
	}
	if s.NC2LS != nil {
		plan.PhaseAngleRes = mustRat(1, int64(*s.NC2LS))
	}
	if s.NC2LS != nil && s.Skew != nil {
		plan.PhaseAngle = mustRat(int64(*s.Skew%*s.NC2LS), int64(*s.NC2LS))
	}

	for _, lim := range freqLimits {
		value := plan.entry(lim.field)
		switch {
		case value == nil:
			report.problems[lim.field] = lim.label + " undefined."
		case ignoreFreqLimits:
			// No range check.
		case value.CmpInt(lim.min) < 0 || value.CmpInt(lim.max) > 0:
			report.problems[lim.field] = fmt.Sprintf("%s is %s, but %s.", lim.label, formatFreq(value), lim.rangeMsg)
		}
	}

	// The device produces wrong output waveforms for SKEW = NC2_LS - 1, so
	// the ceiling is NC2_LS - 2.
	if s.Skew != nil && s.NC2LS != nil {
		skewMax := *s.NC2LS - 2
		if skewMax < 0 {
			skewMax = 0
		}
		if *s.Skew > skewMax {
			report.problems["skew"] = fmt.Sprintf("SKEW must be in the range of 0 to %d (= NC2_LS - 2)", skewMax)
		}
	}

	return plan, report
}

// entry returns a derived frequency by its field name.
func (p *Plan) entry(field string) *rational.Rat {
	switch field {
	case "f3":
		return p.F3
	case "fosc":
		return p.Fosc
	case "fout1":
		return p.Fout1
	case "fout2":
		return p.Fout2
	}
	return nil
}

// fieldValue returns one of the nine static fields by name.
func (s *Settings) fieldValue(field string) *int {
	switch field {
	case "fin":
		return s.Fin
	case "n3":
		return s.N3
	case "n2_hs":
		return s.N2HS
	case "n2_ls":
		return s.N2LS
	case "n1_hs":
		return s.N1HS
	case "nc1_ls":
		return s.NC1LS
	case "nc2_ls":
		return s.NC2LS
	case "skew":
		return s.Skew
	case "bw":
		return s.BW
	}
	return nil
}

// mustDiv divides two plan values. Divisors are validated settings fields
// with strictly positive ranges, so a zero divisor is a broken invariant.
func mustDiv(x, y *rational.Rat) *rational.Rat {
	v, err := x.Div(y)
	if err != nil {
		panic(fmt.Sprintf("gpsdo: plan division by zero: %v", err))
	}
	return v
}

// mustRat builds num/den for validated settings fields.
func mustRat(num, den int64) *rational.Rat {
	v, err := rational.New(num, den)
	if err != nil {
		panic(fmt.Sprintf("gpsdo: plan division by zero: %v", err))
	}
	return v
}
