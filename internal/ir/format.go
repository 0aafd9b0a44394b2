package ir

import (
	"math"
	"strconv"
	"strings"
)

// FormatDouble renders a double the way the host prints DOUBLE attributes:
// shortest round-trip digits, plain decimal notation with at least one
// fraction digit for 1e-3 <= |f| < 1e7, computerized scientific notation
// ("1.0E7", "-2.5E-4") outside that range, and NaN / Infinity / -Infinity
// for the IEEE-754 specials.
//
//	FormatDouble(175.61599999999996) // "175.61599999999996"
//	FormatDouble(1024)               // "1024.0"
//	FormatDouble(1e7)                // "1.0E7"
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if abs := math.Abs(f); f == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// 'e' gives "1.6777216e+07"; the host form is "1.6777216E7"
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}
