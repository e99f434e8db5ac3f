// Released under an MIT license. See LICENSE.

package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/common/validate"
)

// Number is an integer or floating-point operand.
type Number struct {
	Float   float64
	Int     int64
	IsFloat bool
}

// Bool converts s to a boolean. Numbers are true when non-zero.
func Bool(s string) (bool, error) {
	if n, ok := ParseNumber(s); ok {
		if n.IsFloat {
			return n.Float != 0, nil
		}

		return n.Int != 0, nil
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}

	return false, fmt.Errorf("expected boolean value but got \"%s\"", s)
}

// Float creates a floating-point Number.
func Float(f float64) Number {
	return Number{Float: f, IsFloat: true}
}

// Int creates an integer Number.
func Int(i int64) Number {
	return Number{Int: i}
}

// ParseNumber parses s as an integer or a floating-point number.
func ParseNumber(s string) (Number, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Number{}, false
	}

	if i, err := validate.ParseInteger(t); err == nil {
		return Int(i), true
	}

	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return Number{}, false
		}
	}

	return Float(f), true
}

// AsFloat returns n as a float64.
func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}

	return float64(n.Int)
}

func (n Number) String() string {
	if !n.IsFloat {
		return strconv.FormatInt(n.Int, 10)
	}

	switch {
	case math.IsInf(n.Float, 1):
		return "Inf"
	case math.IsInf(n.Float, -1):
		return "-Inf"
	case math.IsNaN(n.Float):
		return "NaN"
	}

	s := strconv.FormatFloat(n.Float, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}

	return s
}

func boolean(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
