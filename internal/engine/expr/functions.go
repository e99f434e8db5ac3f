// Released under an MIT license. See LICENSE.

package expr

import (
	"math"

	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

// Functions returns the math function implementations by name.
func Functions() map[string]interp.Executor {
	return map[string]interp.Executor{
		"abs":    unaryNumber(abs),
		"bool":   toBool,
		"ceil":   unaryFloat(math.Ceil),
		"cos":    unaryFloat(math.Cos),
		"double": unaryFloat(func(f float64) float64 { return f }),
		"entier": unaryNumber(toInt),
		"exp":    unaryFloat(math.Exp),
		"floor":  unaryFloat(math.Floor),
		"fmod":   binaryFloat(math.Mod),
		"hypot":  binaryFloat(math.Hypot),
		"int":    unaryNumber(toInt),
		"log":    unaryFloat(math.Log),
		"log10":  unaryFloat(math.Log10),
		"max":    extreme(func(a, b float64) bool { return a > b }),
		"min":    extreme(func(a, b float64) bool { return a < b }),
		"pow":    binaryFloat(math.Pow),
		"round":  unaryNumber(round),
		"sin":    unaryFloat(math.Sin),
		"sqrt":   unaryFloat(math.Sqrt),
		"tan":    unaryFloat(math.Tan),
		"wide":   unaryNumber(toInt),
	}
}

func abs(n Number) Number {
	if n.IsFloat {
		return Float(math.Abs(n.Float))
	}

	if n.Int < 0 {
		return Int(-n.Int)
	}

	return n
}

func arity(args []string, n int) result.T {
	switch {
	case len(args)-1 < n:
		return result.Errorf("too few arguments for math function \"%s\"", args[0])
	case len(args)-1 > n:
		return result.Errorf("too many arguments for math function \"%s\"", args[0])
	}

	return result.T{}
}

func binaryFloat(fn func(a, b float64) float64) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		if r := arity(args, 2); r.Code != result.Ok {
			return r
		}

		a, b, r := operands(args)
		if r.Code != result.Ok {
			return r
		}

		return result.Value(Float(fn(a.AsFloat(), b.AsFloat())).String())
	}
}

func extreme(better func(a, b float64) bool) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		if len(args) < 2 {
			return result.Errorf("too few arguments for math function \"%s\"", args[0])
		}

		var best Number

		for k, s := range args[1:] {
			n, ok := ParseNumber(s)
			if !ok {
				return nonNumeric(args[0], s)
			}

			if k == 0 || better(n.AsFloat(), best.AsFloat()) {
				best = n
			}
		}

		return result.Value(best.String())
	}
}

func round(n Number) Number {
	if !n.IsFloat {
		return n
	}

	return Int(int64(math.Round(n.Float)))
}

func toBool(_ *interp.T, _ any, args []string) result.T {
	if r := arity(args, 1); r.Code != result.Ok {
		return r
	}

	b, err := Bool(args[1])
	if err != nil {
		return result.FromError(err)
	}

	return result.Value(boolean(b))
}

func toInt(n Number) Number {
	if !n.IsFloat {
		return n
	}

	return Int(int64(n.Float))
}

func unaryFloat(fn func(float64) float64) interp.Executor {
	return unaryNumber(func(n Number) Number {
		return Float(fn(n.AsFloat()))
	})
}

func unaryNumber(fn func(Number) Number) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		if r := arity(args, 1); r.Code != result.Ok {
			return r
		}

		n, ok := ParseNumber(args[1])
		if !ok {
			return nonNumeric(args[0], args[1])
		}

		return result.Value(fn(n).String())
	}
}
