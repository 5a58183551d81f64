package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/example/esgo/runtime"
)

func (l *library) createNumberConstructor() *runtime.Object {
	proto := l.realm.NewPlainObject()
	l.setMethod(proto, "toFixed", 1, numberToFixed)

	ctor := l.newConstructor("Number", 1, proto, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewNumber(0), nil
		}
		return runtime.NewNumber(args[0].ToNumber()), nil
	}, nil)

	setConstant(ctor, "MAX_SAFE_INTEGER", runtime.NewNumber(1<<53-1))
	setConstant(ctor, "MIN_SAFE_INTEGER", runtime.NewNumber(-(1<<53 - 1)))
	setConstant(ctor, "EPSILON", runtime.NewNumber(math.Nextafter(1, 2)-1))
	setConstant(ctor, "POSITIVE_INFINITY", runtime.PosInf)
	setConstant(ctor, "NEGATIVE_INFINITY", runtime.NewNumber(math.Inf(-1)))
	setConstant(ctor, "NaN", runtime.NaN)
	l.setMethod(ctor, "isInteger", 1, numberIsInteger)
	l.setMethod(ctor, "isNaN", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewBool(isNaN(argAt(args, 0))), nil
	})
	return ctor
}

func (l *library) createBooleanConstructor() *runtime.Object {
	proto := l.realm.NewPlainObject()
	return l.newConstructor("Boolean", 1, proto, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewBool(argAt(args, 0).ToBoolean()), nil
	}, nil)
}

// numberToFixed formats with a fixed count of decimals. Primitive numbers
// reach it only when called explicitly, e.g. Number.prototype.toFixed.call(x).
func numberToFixed(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if this.Type != runtime.TypeNumber {
		return nil, runtime.TypeErrorf("Number.prototype.toFixed requires that 'this' be a Number")
	}
	digits := toInteger(argAt(args, 0))
	if digits < 0 || digits > 100 {
		return nil, runtime.RangeErrorf("toFixed() digits argument must be between 0 and 100")
	}
	if math.IsNaN(this.Number) || math.IsInf(this.Number, 0) || math.Abs(this.Number) >= 1e21 {
		return runtime.NewString(this.ToString()), nil
	}
	return runtime.NewString(strconv.FormatFloat(this.Number, 'f', int(digits), 64)), nil
}

func numberIsInteger(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v := argAt(args, 0)
	if v.Type != runtime.TypeNumber || math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
		return runtime.False, nil
	}
	return runtime.NewBool(v.Number == math.Trunc(v.Number)), nil
}

func (l *library) globalFunctions() map[string]*runtime.Object {
	return map[string]*runtime.Object{
		"parseInt":   l.newFunc("parseInt", 2, globalParseInt),
		"parseFloat": l.newFunc("parseFloat", 1, globalParseFloat),
		"isNaN": l.newFunc("isNaN", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
			return runtime.NewBool(math.IsNaN(argAt(args, 0).ToNumber())), nil
		}),
		"isFinite": l.newFunc("isFinite", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
			n := argAt(args, 0).ToNumber()
			return runtime.NewBool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
		}),
	}
}

// globalParseInt parses the longest valid integer prefix in the given radix.
// A "0x" prefix selects radix 16 when no radix is given.
func globalParseInt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s := strings.TrimSpace(argAt(args, 0).ToString())
	radix := int(argAt(args, 1).ToInt32())

	sign := 1.0
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if radix == 0 {
		radix = 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			radix = 16
			s = s[2:]
		}
	} else if radix == 16 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
	}
	if radix < 2 || radix > 36 {
		return runtime.NaN, nil
	}

	result := 0.0
	digits := 0
	for _, c := range strings.ToLower(s) {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'z':
			d = int(c-'a') + 10
		default:
			d = radix
		}
		if d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return runtime.NaN, nil
	}
	return runtime.NewNumber(sign * result), nil
}

// globalParseFloat parses the longest prefix that forms a decimal literal.
func globalParseFloat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s := strings.TrimSpace(argAt(args, 0).ToString())
	for _, inf := range []string{"Infinity", "+Infinity"} {
		if strings.HasPrefix(s, inf) {
			return runtime.PosInf, nil
		}
	}
	if strings.HasPrefix(s, "-Infinity") {
		return runtime.NewNumber(math.Inf(-1)), nil
	}

	end := 0
	seenDot, seenExp, seenDigit := false, false, false
scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
			if seenDigit {
				end = i + 1
			}
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}
	}
	if !seenDigit {
		return runtime.NaN, nil
	}
	n, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return runtime.NaN, nil
	}
	return runtime.NewNumber(n), nil
}
