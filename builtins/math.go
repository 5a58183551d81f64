package builtins

import (
	"math"

	"github.com/example/esgo/runtime"
)

func (l *library) createMathObject() *runtime.Object {
	m := l.realm.NewPlainObject()

	setConstant(m, "PI", runtime.NewNumber(math.Pi))
	setConstant(m, "E", runtime.NewNumber(math.E))
	setConstant(m, "LN2", runtime.NewNumber(math.Ln2))
	setConstant(m, "SQRT2", runtime.NewNumber(math.Sqrt2))

	l.setMethod(m, "abs", 1, mathUnary(math.Abs))
	l.setMethod(m, "ceil", 1, mathUnary(math.Ceil))
	l.setMethod(m, "floor", 1, mathUnary(math.Floor))
	l.setMethod(m, "round", 1, mathUnary(mathRound))
	l.setMethod(m, "trunc", 1, mathUnary(math.Trunc))
	l.setMethod(m, "sign", 1, mathUnary(mathSign))
	l.setMethod(m, "sqrt", 1, mathUnary(math.Sqrt))
	l.setMethod(m, "log", 1, mathUnary(math.Log))
	l.setMethod(m, "exp", 1, mathUnary(math.Exp))
	l.setMethod(m, "max", 2, mathExtreme(math.Inf(-1), math.Max))
	l.setMethod(m, "min", 2, mathExtreme(math.Inf(1), math.Min))
	l.setMethod(m, "pow", 2, mathPow)

	return m
}

func mathUnary(fn func(float64) float64) runtime.CallableFunc {
	return func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewNumber(fn(argAt(args, 0).ToNumber())), nil
	}
}

// mathExtreme folds the arguments with pick, starting at init. Any NaN
// argument makes the result NaN.
func mathExtreme(init float64, pick func(a, b float64) float64) runtime.CallableFunc {
	return func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		result := init
		for _, a := range args {
			n := a.ToNumber()
			if math.IsNaN(n) {
				return runtime.NaN, nil
			}
			result = pick(result, n)
		}
		return runtime.NewNumber(result), nil
	}
}

func mathPow(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewNumber(math.Pow(argAt(args, 0).ToNumber(), argAt(args, 1).ToNumber())), nil
}

// mathRound rounds half up, so -2.5 becomes -2.
func mathRound(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

func mathSign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}
