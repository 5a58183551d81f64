package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ValueType represents the type of a JavaScript value.
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
)

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a JavaScript value. Values are shared by pointer and never
// mutated after construction; objects are mutated through Object.
type Value struct {
	Type   ValueType
	Bool   bool
	Number float64
	Str    string
	Object *Object
}

var (
	Undefined = &Value{Type: TypeUndefined}
	Null      = &Value{Type: TypeNull}
	True      = &Value{Type: TypeBoolean, Bool: true}
	False     = &Value{Type: TypeBoolean, Bool: false}
	NaN       = &Value{Type: TypeNumber, Number: math.NaN()}
	PosInf    = &Value{Type: TypeNumber, Number: math.Inf(1)}
	NegInf    = &Value{Type: TypeNumber, Number: math.Inf(-1)}
	Zero      = &Value{Type: TypeNumber, Number: 0}
)

func NewNumber(n float64) *Value {
	return &Value{Type: TypeNumber, Number: n}
}

func NewString(s string) *Value {
	return &Value{Type: TypeString, Str: s}
}

func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

func NewObject(obj *Object) *Value {
	return &Value{Type: TypeObject, Object: obj}
}

// IsNullish reports whether v is null or undefined.
func (v *Value) IsNullish() bool {
	return v == nil || v.Type == TypeUndefined || v.Type == TypeNull
}

// IsCallable reports whether v is a function object.
func (v *Value) IsCallable() bool {
	return v != nil && v.Type == TypeObject && v.Object != nil && v.Object.Callable != nil
}

// ToBoolean implements the ECMAScript ToBoolean abstract operation.
func (v *Value) ToBoolean() bool {
	switch v.Type {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.Bool
	case TypeNumber:
		return v.Number != 0 && !math.IsNaN(v.Number)
	case TypeString:
		return len(v.Str) > 0
	case TypeObject:
		return true
	default:
		return false
	}
}

// ToString implements ToString. Objects do not consult user-defined toString
// methods; arrays join their elements and errors render as "Name: message".
func (v *Value) ToString() string {
	switch v.Type {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeNumber:
		return FormatNumber(v.Number)
	case TypeString:
		return v.Str
	case TypeObject:
		return objectToString(v.Object, map[*Object]bool{})
	default:
		return "undefined"
	}
}

func objectToString(o *Object, seen map[*Object]bool) string {
	if o == nil {
		return "[object Object]"
	}
	switch o.Class {
	case ClassArray:
		if seen[o] {
			return ""
		}
		seen[o] = true
		parts := make([]string, len(o.Elements))
		for i, el := range o.Elements {
			if el.IsNullish() {
				continue
			}
			if el.Type == TypeObject {
				parts[i] = objectToString(el.Object, seen)
			} else {
				parts[i] = el.ToString()
			}
		}
		return strings.Join(parts, ",")
	case ClassError:
		name := o.dataString("name", "Error")
		msg := o.dataString("message", "")
		if msg == "" {
			return name
		}
		return name + ": " + msg
	case ClassFunction:
		return "function " + o.dataString("name", "") + "() { [native code] }"
	}
	return "[object Object]"
}

// ToNumber implements the ECMAScript ToNumber abstract operation.
func (v *Value) ToNumber() float64 {
	switch v.Type {
	case TypeUndefined:
		return math.NaN()
	case TypeNull:
		return 0
	case TypeBoolean:
		if v.Bool {
			return 1
		}
		return 0
	case TypeNumber:
		return v.Number
	case TypeString:
		return stringToNumber(v.Str)
	case TypeObject:
		if v.Object != nil && v.Object.Class == ClassArray {
			return stringToNumber(v.ToString())
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func stringToNumber(str string) float64 {
	s := strings.TrimSpace(str)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	// ParseFloat accepts forms JS rejects ("inf", "0x1p-2", "1_000").
	for _, r := range s {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return math.NaN()
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// ToInt32 converts to a signed 32-bit integer the way bitwise operators do.
func (v *Value) ToInt32() int32 {
	return int32(v.ToUint32())
}

// ToUint32 converts to an unsigned 32-bit integer.
func (v *Value) ToUint32() uint32 {
	n := v.ToNumber()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	n = math.Trunc(n)
	n = math.Mod(n, 4294967296)
	if n < 0 {
		n += 4294967296
	}
	return uint32(n)
}

// ToPropertyKey converts a computed key to the string used for lookup.
func ToPropertyKey(v *Value) string {
	return v.ToString()
}

// FormatNumber renders n the way Number.prototype.toString does for radix 10.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// arrayIndex parses a canonical array index key.
func arrayIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
