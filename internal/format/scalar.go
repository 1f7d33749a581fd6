package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/justinpbarnett/guildview/internal/run"
)

const scalarPrecision = 4

// FormatScalar renders a scalar for display. Integers are shown as
// JavaScript would print them (exponent notation from 1e21) and other
// finite values are rounded to 4 significant digits. Zero stays "0" and a
// missing value renders as "". Rounding matches JavaScript's
// Number.prototype.toPrecision so values read the same as in the web view.
func FormatScalar(s run.Scalar) string {
	if !s.Valid {
		return ""
	}
	v := s.Value
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	case v == math.Trunc(v) && math.Abs(v) >= 1e21:
		// JavaScript switches to exponent notation here
		return strconv.FormatFloat(v, 'g', -1, 64)
	case v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return toPrecision(v, scalarPrecision)
}

// toPrecision formats a finite non-zero x with p significant digits. Ties
// round away from zero and exponential notation is used when the decimal
// exponent is below -6 or at least p.
func toPrecision(x float64, p int) string {
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	// 800 digits is enough to hold the exact decimal expansion of any float64,
	// so the digit after the cut decides rounding without double rounding.
	exact := strconv.FormatFloat(x, 'e', 800, 64)
	mant, expStr, _ := strings.Cut(exact, "e")
	exp, _ := strconv.Atoi(expStr)
	digits := strings.Replace(mant, ".", "", 1)

	kept := []byte(digits[:p])
	if digits[p] >= '5' {
		i := p - 1
		for ; i >= 0; i-- {
			if kept[i] == '9' {
				kept[i] = '0'
				continue
			}
			kept[i]++
			break
		}
		if i < 0 {
			kept = append([]byte{'1'}, kept[:p-1]...)
			exp++
		}
	}

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case exp < -6 || exp >= p:
		b.WriteByte(kept[0])
		if p > 1 {
			b.WriteByte('.')
			b.Write(kept[1:])
		}
		b.WriteByte('e')
		if exp < 0 {
			b.WriteByte('-')
			exp = -exp
		} else {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(exp))
	case exp >= 0:
		b.Write(kept[:exp+1])
		if exp+1 < p {
			b.WriteByte('.')
			b.Write(kept[exp+1:])
		}
	default:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.Write(kept)
	}
	return b.String()
}
