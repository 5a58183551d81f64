package builtins

import (
	"strings"
	"unicode/utf16"

	"github.com/example/esgo/runtime"
)

func (l *library) createStringConstructor() *runtime.Object {
	proto := l.realm.StringPrototype

	l.setMethod(proto, "charAt", 1, stringCharAt)
	l.setMethod(proto, "charCodeAt", 1, stringCharCodeAt)
	l.setMethod(proto, "indexOf", 1, stringIndexOf)
	l.setMethod(proto, "includes", 1, stringIncludes)
	l.setMethod(proto, "startsWith", 1, stringStartsWith)
	l.setMethod(proto, "endsWith", 1, stringEndsWith)
	l.setMethod(proto, "slice", 2, stringSlice)
	l.setMethod(proto, "substring", 2, stringSubstring)
	l.setMethod(proto, "toUpperCase", 0, stringMap("toUpperCase", strings.ToUpper))
	l.setMethod(proto, "toLowerCase", 0, stringMap("toLowerCase", strings.ToLower))
	l.setMethod(proto, "trim", 0, stringMap("trim", strings.TrimSpace))
	l.setMethod(proto, "repeat", 1, stringRepeat)
	l.setMethod(proto, "split", 2, l.stringSplit)
	l.setMethod(proto, "toString", 0, stringValueOf)
	l.setMethod(proto, "valueOf", 0, stringValueOf)

	ctor := l.newConstructor("String", 1, proto, stringConstructorCall, nil)
	l.setMethod(ctor, "fromCharCode", 1, stringFromCharCode)
	return ctor
}

// stringConstructorCall converts its argument to a string. String wrapper
// objects do not exist, so `new String` is rejected.
func stringConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) == 0 {
		return runtime.NewString(""), nil
	}
	return runtime.NewString(args[0].ToString()), nil
}

// thisString coerces the receiver the way String.prototype methods do.
func thisString(method string, this *runtime.Value) (string, error) {
	if this.IsNullish() {
		return "", runtime.TypeErrorf("String.prototype.%s called on null or undefined", method)
	}
	return this.ToString(), nil
}

// units returns the UTF-16 code units of s; string indices count these.
func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func fromUnits(u []uint16) string {
	return string(utf16.Decode(u))
}

func stringValueOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if this.Type != runtime.TypeString {
		return nil, runtime.TypeErrorf("String.prototype.valueOf requires that 'this' be a String")
	}
	return this, nil
}

func stringMap(method string, fn func(string) string) runtime.CallableFunc {
	return func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := thisString(method, this)
		if err != nil {
			return nil, err
		}
		return runtime.NewString(fn(s)), nil
	}
}

func stringCharAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("charAt", this)
	if err != nil {
		return nil, err
	}
	u := units(s)
	i := toInteger(argAt(args, 0))
	if i < 0 || i >= float64(len(u)) {
		return runtime.NewString(""), nil
	}
	return runtime.NewString(fromUnits(u[int(i) : int(i)+1])), nil
}

func stringCharCodeAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("charCodeAt", this)
	if err != nil {
		return nil, err
	}
	u := units(s)
	i := toInteger(argAt(args, 0))
	if i < 0 || i >= float64(len(u)) {
		return runtime.NaN, nil
	}
	return runtime.NewNumber(float64(u[int(i)])), nil
}

// indexOfUnits finds needle in hay at or after from, in code units.
func indexOfUnits(hay, needle []uint16, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func stringIndexOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("indexOf", this)
	if err != nil {
		return nil, err
	}
	hay := units(s)
	from := 0
	if pos := toInteger(argAt(args, 1)); pos > 0 {
		from = len(hay)
		if pos < float64(len(hay)) {
			from = int(pos)
		}
	}
	return runtime.NewNumber(float64(indexOfUnits(hay, units(argAt(args, 0).ToString()), from))), nil
}

func stringIncludes(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("includes", this)
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(strings.Contains(s, argAt(args, 0).ToString())), nil
}

func stringStartsWith(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("startsWith", this)
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(strings.HasPrefix(s, argAt(args, 0).ToString())), nil
}

func stringEndsWith(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("endsWith", this)
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(strings.HasSuffix(s, argAt(args, 0).ToString())), nil
}

func stringSlice(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("slice", this)
	if err != nil {
		return nil, err
	}
	u := units(s)
	start := relativeIndex(argAt(args, 0), len(u), 0)
	end := relativeIndex(argAt(args, 1), len(u), len(u))
	if start >= end {
		return runtime.NewString(""), nil
	}
	return runtime.NewString(fromUnits(u[start:end])), nil
}

// stringSubstring clamps negative and NaN bounds to 0 and swaps reversed
// bounds.
func stringSubstring(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("substring", this)
	if err != nil {
		return nil, err
	}
	u := units(s)
	clamp := func(v *runtime.Value, def int) int {
		if v.Type == runtime.TypeUndefined {
			return def
		}
		n := toInteger(v)
		switch {
		case n < 0:
			return 0
		case n > float64(len(u)):
			return len(u)
		}
		return int(n)
	}
	start := clamp(argAt(args, 0), 0)
	end := clamp(argAt(args, 1), len(u))
	if start > end {
		start, end = end, start
	}
	return runtime.NewString(fromUnits(u[start:end])), nil
}

func stringRepeat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("repeat", this)
	if err != nil {
		return nil, err
	}
	n := toInteger(argAt(args, 0))
	if n < 0 || n > 1<<28 {
		return nil, runtime.RangeErrorf("Invalid count value: %s", runtime.FormatNumber(n))
	}
	return runtime.NewString(strings.Repeat(s, int(n))), nil
}

func (l *library) stringSplit(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString("split", this)
	if err != nil {
		return nil, err
	}
	limit := -1
	if lv := argAt(args, 1); lv.Type != runtime.TypeUndefined {
		limit = int(lv.ToUint32())
	}
	sepArg := argAt(args, 0)
	var parts []string
	switch {
	case sepArg.Type == runtime.TypeUndefined:
		parts = []string{s}
	case sepArg.ToString() == "":
		for _, c := range units(s) {
			parts = append(parts, fromUnits([]uint16{c}))
		}
	default:
		parts = strings.Split(s, sepArg.ToString())
	}
	if limit >= 0 && len(parts) > limit {
		parts = parts[:limit]
	}
	out := make([]*runtime.Value, len(parts))
	for i, p := range parts {
		out[i] = runtime.NewString(p)
	}
	return l.realm.NewArray(out), nil
}

func stringFromCharCode(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	u := make([]uint16, len(args))
	for i, a := range args {
		u[i] = uint16(a.ToUint32())
	}
	return runtime.NewString(fromUnits(u)), nil
}
