package run

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Scalar is a nullable float as it appears in run data. The backend cannot
// put NaN or infinities in JSON, so it sends them as the strings "NaN",
// "Infinity" and "-Infinity"; Scalar decodes those back to floats.
type Scalar struct {
	Value float64
	Valid bool
}

// ScalarOf returns a valid Scalar holding v.
func ScalarOf(v float64) Scalar {
	return Scalar{Value: v, Valid: true}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*s = Scalar{}
	case float64:
		*s = ScalarOf(v)
	case string:
		sc, ok := SpecialScalar(v)
		if !ok {
			return fmt.Errorf("scalar: %q is not a number", v)
		}
		*s = sc
	default:
		return fmt.Errorf("scalar: unsupported JSON value %s", data)
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	switch {
	case math.IsNaN(s.Value):
		return []byte(`"NaN"`), nil
	case math.IsInf(s.Value, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(s.Value, -1):
		return []byte(`"-Infinity"`), nil
	}
	return []byte(strconv.FormatFloat(s.Value, 'g', -1, 64)), nil
}

// SpecialScalar decodes the exact strings the backend uses for
// non-finite values. Any other string, numeric or not, is not a scalar.
func SpecialScalar(s string) (Scalar, bool) {
	switch s {
	case "NaN":
		return ScalarOf(math.NaN()), true
	case "Infinity":
		return ScalarOf(math.Inf(1)), true
	case "-Infinity":
		return ScalarOf(math.Inf(-1)), true
	}
	return Scalar{}, false
}
