package runtime

import "math"

// StrictEquals implements === comparison.
func StrictEquals(a, b *Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return a.Bool == b.Bool
	case TypeNumber:
		if math.IsNaN(a.Number) || math.IsNaN(b.Number) {
			return false
		}
		return a.Number == b.Number
	case TypeString:
		return a.Str == b.Str
	case TypeObject:
		return a.Object == b.Object
	default:
		return false
	}
}

// LooseEquals implements == comparison.
func LooseEquals(a, b *Value) bool {
	if a.Type == b.Type {
		return StrictEquals(a, b)
	}
	if a.IsNullish() && b.IsNullish() {
		return true
	}
	if a.IsNullish() || b.IsNullish() {
		return false
	}
	if a.Type == TypeNumber && b.Type == TypeString {
		return LooseEquals(a, NewNumber(b.ToNumber()))
	}
	if a.Type == TypeString && b.Type == TypeNumber {
		return LooseEquals(NewNumber(a.ToNumber()), b)
	}
	if a.Type == TypeBoolean {
		return LooseEquals(NewNumber(a.ToNumber()), b)
	}
	if b.Type == TypeBoolean {
		return LooseEquals(a, NewNumber(b.ToNumber()))
	}
	if a.Type == TypeObject && b.Type != TypeObject {
		return LooseEquals(toPrimitive(a), b)
	}
	if b.Type == TypeObject && a.Type != TypeObject {
		return LooseEquals(a, toPrimitive(b))
	}
	return false
}

// toPrimitive converts an object to its string form. User-defined valueOf and
// toString are not consulted.
func toPrimitive(v *Value) *Value {
	if v.Type != TypeObject {
		return v
	}
	return NewString(v.ToString())
}
