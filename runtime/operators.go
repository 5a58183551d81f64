package runtime

import (
	"math"
	"strings"
)

// BinaryOp applies a binary operator. It covers arithmetic, comparison,
// equality, bitwise, `in` and `instanceof`; `&&`, `||` and `??` short-circuit
// and are handled by the evaluator.
func BinaryOp(op string, left, right *Value) (*Value, error) {
	switch op {
	case "+":
		l, r := toPrimitive(left), toPrimitive(right)
		if l.Type == TypeString || r.Type == TypeString {
			return NewString(l.ToString() + r.ToString()), nil
		}
		return NewNumber(l.ToNumber() + r.ToNumber()), nil
	case "-":
		return NewNumber(left.ToNumber() - right.ToNumber()), nil
	case "*":
		return NewNumber(left.ToNumber() * right.ToNumber()), nil
	case "/":
		return NewNumber(left.ToNumber() / right.ToNumber()), nil
	case "%":
		ln, rn := left.ToNumber(), right.ToNumber()
		if rn == 0 || math.IsInf(ln, 0) {
			return NaN, nil
		}
		return NewNumber(math.Mod(ln, rn)), nil
	case "**":
		return NewNumber(math.Pow(left.ToNumber(), right.ToNumber())), nil
	case "==":
		return NewBool(LooseEquals(left, right)), nil
	case "!=":
		return NewBool(!LooseEquals(left, right)), nil
	case "===":
		return NewBool(StrictEquals(left, right)), nil
	case "!==":
		return NewBool(!StrictEquals(left, right)), nil
	case "<":
		lt, ok := lessThan(left, right)
		return NewBool(ok && lt), nil
	case ">":
		lt, ok := lessThan(right, left)
		return NewBool(ok && lt), nil
	case "<=":
		lt, ok := lessThan(right, left)
		return NewBool(ok && !lt), nil
	case ">=":
		lt, ok := lessThan(left, right)
		return NewBool(ok && !lt), nil
	case "&":
		return NewNumber(float64(left.ToInt32() & right.ToInt32())), nil
	case "|":
		return NewNumber(float64(left.ToInt32() | right.ToInt32())), nil
	case "^":
		return NewNumber(float64(left.ToInt32() ^ right.ToInt32())), nil
	case "<<":
		return NewNumber(float64(left.ToInt32() << (right.ToUint32() & 0x1f))), nil
	case ">>":
		return NewNumber(float64(left.ToInt32() >> (right.ToUint32() & 0x1f))), nil
	case ">>>":
		return NewNumber(float64(left.ToUint32() >> (right.ToUint32() & 0x1f))), nil
	case "instanceof":
		ok, err := InstanceOf(left, right)
		if err != nil {
			return nil, err
		}
		return NewBool(ok), nil
	case "in":
		if right.Type != TypeObject || right.Object == nil {
			return nil, TypeErrorf("Cannot use 'in' operator to search for '%s' in %s", left.ToString(), right.ToString())
		}
		return NewBool(right.Object.HasProperty(ToPropertyKey(left))), nil
	}
	return nil, TypeErrorf("unknown binary operator %q", op)
}

// lessThan implements the abstract relational comparison. ok is false when
// either side is NaN.
func lessThan(a, b *Value) (lt bool, ok bool) {
	pa, pb := toPrimitive(a), toPrimitive(b)
	if pa.Type == TypeString && pb.Type == TypeString {
		return pa.Str < pb.Str, true
	}
	an, bn := pa.ToNumber(), pb.ToNumber()
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false, false
	}
	return an < bn, true
}

// InstanceOf walks left's prototype chain looking for right.prototype.
func InstanceOf(left, right *Value) (bool, error) {
	if !right.IsCallable() {
		return false, TypeErrorf("Right-hand side of 'instanceof' is not callable")
	}
	if left.Type != TypeObject || left.Object == nil {
		return false, nil
	}
	protoVal, err := right.Object.Get("prototype")
	if err != nil {
		return false, err
	}
	if protoVal.Type != TypeObject || protoVal.Object == nil {
		return false, TypeErrorf("Function has non-object prototype '%s' in instanceof check", protoVal.ToString())
	}
	for p := left.Object.Prototype; p != nil; p = p.Prototype {
		if p == protoVal.Object {
			return true, nil
		}
	}
	return false, nil
}

// UnaryOp applies a prefix operator other than delete.
func UnaryOp(op string, operand *Value) (*Value, error) {
	switch op {
	case "-":
		return NewNumber(-operand.ToNumber()), nil
	case "+":
		return NewNumber(operand.ToNumber()), nil
	case "!":
		return NewBool(!operand.ToBoolean()), nil
	case "~":
		return NewNumber(float64(^operand.ToInt32())), nil
	case "void":
		return Undefined, nil
	case "typeof":
		return NewString(TypeOf(operand)), nil
	}
	return nil, TypeErrorf("unknown unary operator %q", op)
}

// TypeOf returns the typeof string for v.
func TypeOf(v *Value) string {
	if v == nil {
		return "undefined"
	}
	switch v.Type {
	case TypeNull:
		return "object"
	case TypeObject:
		if v.Object != nil && v.Object.Callable != nil {
			return "function"
		}
		return "object"
	}
	return v.Type.String()
}

// CompoundBase returns the binary operator behind a compound assignment
// ("+=" gives "+"). Logical assignments return ok=false.
func CompoundBase(op string) (string, bool) {
	switch op {
	case "&&=", "||=", "??=":
		return "", false
	}
	base := strings.TrimSuffix(op, "=")
	if base == op || base == "" {
		return "", false
	}
	return base, true
}
