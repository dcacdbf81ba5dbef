package gpsdo

import (
	"fmt"
	"math"
	"strings"

	"github.com/lbtools/gpsdoctl/pkg/rational"
)

// scaleFreq picks a display unit for a frequency in Hz.
func scaleFreq(value float64) (float64, string) {
	units := []string{"Hz", "kHz", "MHz", "GHz"}
	for _, u := range units {
		if value < 1000 {
			return value, u
		}
		value /= 1000
	}
	return value, "GHz"
}

// scaleDuration picks a display unit for a duration in seconds.
func scaleDuration(value float64) (float64, string) {
	units := []string{"s", "ms", "µs", "ns", "ps"}
	v := value
	for _, u := range units {
		if math.Abs(v) >= 1 {
			return v, u
		}
		v *= 1000
	}
	return value, "s"
}

// formatFreq renders a frequency rounded to a convenient unit. Rounding
// happens here and only here; all comparisons upstream are exact.
func formatFreq(value *rational.Rat) string {
	num, unit := scaleFreq(value.Float64())
	return fmt.Sprintf("%7.3f %-3s", num, unit)
}

func formatFreqInt(value int64) string {
	num, unit := scaleFreq(float64(value))
	return fmt.Sprintf("%7.3f %-3s", num, unit)
}

func formatPhaseAngle(value *rational.Rat) string {
	return fmt.Sprintf("%7.3f °", value.Float64()*360)
}

// formatScalerLine renders one divider row of the PLL settings block.
func formatScalerLine(value *int, name, text string) string {
	v := "---"
	if value != nil {
		v = fmt.Sprintf("%d", *value)
	}
	return fmt.Sprintf("%-6s = %7s  %s\n", name, v, text)
}

// formatFreqLine renders one frequency plan row: the exact fraction, an
// equality marker ("=" when the value is a whole number of Hz, "≈" when the
// float column is rounded), the rounded value, an error marker and a label.
func formatFreqLine(value *rational.Rat, problem, name, text string, fraction bool) string {
	var valueFloat, valueFrac string
	valueExact := true

	if value != nil {
		valueFloat = fmt.Sprintf("%10.0f Hz", value.Float64())
		if fraction {
			valueFrac = fmt.Sprintf("%10s/%4s Hz", value.Num(), value.Denom())
			valueExact = value.IsInt()
		}
	} else {
		valueFloat = "---"
		if fraction {
			valueFrac = "---"
		}
	}

	marker := " "
	if fraction {
		if valueExact {
			marker = "="
		} else {
			marker = "≈"
		}
	}

	errMark := ""
	if problem != "" {
		errMark = "!!"
	}

	return fmt.Sprintf("%-6s = %18s %s %13s  %2s %s\n", name, valueFrac, marker, valueFloat, errMark, text)
}

// formatPhaseBlock renders the phase offset and resolution rows.
func formatPhaseBlock(plan *Plan) string {
	fracDur := func(v *rational.Rat) (string, string) {
		if v == nil {
			return "---", "---"
		}
		num, unit := scaleDuration(v.Float64())
		return fmt.Sprintf("%10s/%4s %-2s", v.Num(), v.Denom(), unit),
			fmt.Sprintf("%10.3f %-2s", num, unit)
	}
	fracAngle := func(v *rational.Rat) (string, string) {
		if v == nil {
			return "---", "---"
		}
		deg := v.MulInt(360)
		return fmt.Sprintf("%10s/%4s ° ", deg.Num(), deg.Denom()),
			fmt.Sprintf("%7.3f ° ", deg.Float64())
	}

	phaseFrac, phaseFloat := fracDur(plan.Phase)
	angleFrac, angleFloat := fracAngle(plan.PhaseAngle)
	resFrac, resFloat := fracDur(plan.PhaseRes)
	angleResFrac, angleResFloat := fracAngle(plan.PhaseAngleRes)

	var b strings.Builder
	fmt.Fprintf(&b, "phase  = %18s = %13s     Phase offset output 1 --> 2\n", phaseFrac, phaseFloat)
	fmt.Fprintf(&b, "       = %18s = %13s     Phase angle w.r.t output 2\n", angleFrac, angleFloat)
	fmt.Fprintf(&b, "pres   = %18s = %13s     Phase offset resolution\n", resFrac, resFloat)
	fmt.Fprintf(&b, "       = %18s = %13s\n", angleResFrac, angleResFloat)
	return b.String()
}

// InfoText returns the current configuration, frequency plan and error list
// as a formatted text block.
func (s *Settings) InfoText() string {
	plan, report := s.Evaluate(false)

	var b strings.Builder

	b.WriteString("Output settings\n")
	b.WriteString("---------------\n")
	out1 := ""
	if s.Out1 {
		out1 = "---    "
		if plan.Fout1 != nil {
			out1 = formatFreq(plan.Fout1)
		}
	}
	out2 := ""
	if s.Out2 {
		out2 = "---    "
		if plan.Fout2 != nil {
			out2 = formatFreq(plan.Fout2)
		}
	}
	phase := ""
	if s.Out1 && s.Out2 {
		phase = "---   "
		if plan.PhaseAngle != nil {
			phase = formatPhaseAngle(plan.PhaseAngle)
		}
	}
	fmt.Fprintf(&b, "Output 1:    %11s\n", out1)
	fmt.Fprintf(&b, "Output 2:    %11s\n", out2)
	fmt.Fprintf(&b, "Phase:       %9s  \n", phase)
	fmt.Fprintf(&b, "Drive level: %10s \n", LevelDisplay[s.Level])
	b.WriteString("\n")

	b.WriteString("PLL settings\n")
	b.WriteString("------------\n")
	b.WriteString(formatScalerLine(s.N3, "N3", "Input divider factor"))
	b.WriteString(formatScalerLine(s.N2HS, "N2_HS", "Feedback divider factor"))
	b.WriteString(formatScalerLine(s.N2LS, "N2_LS", ""))
	b.WriteString(formatScalerLine(s.N1HS, "N1_HS", "Output common divider factor"))
	b.WriteString(formatScalerLine(s.NC1LS, "NC1_LS", "Output 1 divider factor"))
	b.WriteString(formatScalerLine(s.NC2LS, "NC2_LS", "Output 2 divider factor"))
	if s.Skew != nil {
		fmt.Fprintf(&b, "SKEW   =    %+4d  Clock skew\n", *s.Skew)
	}
	if s.BW != nil {
		fmt.Fprintf(&b, "BWSEL  =     %3d  Loop bandwith code\n", *s.BW)
	}
	b.WriteString("\n")

	b.WriteString("Frequency plan\n")
	b.WriteString("--------------\n")
	var fin *rational.Rat
	if s.Fin != nil {
		fin = rational.FromInt(int64(*s.Fin))
	}
	b.WriteString(formatFreqLine(fin, report.Problem("fin"), "fin", "GPS reference frequency", false))
	b.WriteString(formatFreqLine(plan.F3, report.Problem("f3"), "f3", "Phase detector frequency", true))
	b.WriteString(formatFreqLine(plan.Fosc, report.Problem("fosc"), "fosc", "Oscillator frequency", true))
	b.WriteString(formatFreqLine(plan.Fout1, report.Problem("fout1"), "fout1", "Output 1 frequency", true))
	b.WriteString(formatFreqLine(plan.Fout2, report.Problem("fout2"), "fout2", "Output 2 frequency", true))
	b.WriteString(formatPhaseBlock(plan))

	if !report.OK() {
		b.WriteString("\n")
		b.WriteString("Errors\n")
		b.WriteString("------\n")
		b.WriteString(formatFieldErrors(report.Problems()))
	}

	return b.String()
}

// PLLText returns a diagram of the PLL topology together with the frequency
// constraints. The result is independent of the current configuration.
func PLLText() string {
	var b strings.Builder
	b.WriteString("  fin          f3   +-------+                                       fout1  \n")
	b.WriteString("------> ÷ N3 -----> |       |   fosc                 +-> ÷ NC1_LS -------->\n")
	b.WriteString("                    |  PLL  | --------+--> ÷ N1_HS --|                     \n")
	b.WriteString("          +-------> |       |         |              +-> ÷ NC2_LS -------->\n")
	b.WriteString("          |         +-------+         |                             fout2  \n")
	b.WriteString("          |                           |                                    \n")
	b.WriteString("          +-- ÷ N2_LS <--- ÷ N2_HS <--+                                    \n")
	b.WriteString("\n")

	formula := map[string]string{
		"f3":    "fin / N3",
		"fosc":  "fin * (N2_LS * N2_HS) / N3",
		"fout1": "fosc / (N1_HS * NC1_LS)",
		"fout2": "fosc / (N1_HS * NC2_LS)",
	}

	rows := []struct {
		name     string
		min, max int64
	}{
		{"fin", LimitFinMin, LimitFinMax},
		{"f3", LimitF3Min, LimitF3Max},
		{"fosc", LimitFoscMin, LimitFoscMax},
		{"fout1", LimitFoutMin, LimitFoutMax},
		{"fout2", LimitFoutMin, LimitFoutMax},
	}
	for _, row := range rows {
		marker := " "
		if _, ok := formula[row.name]; ok {
			marker = "="
		}
		fmt.Fprintf(&b, "%-5s = %-30s %s %s ... %s\n",
			row.name, formula[row.name], marker,
			formatFreqInt(row.min), formatFreqInt(row.max))
	}

	return b.String()
}
