package runtime

import (
	"math"
	"strings"
)

const inspectDepth = 2

// Inspect renders v the way a REPL shows a result: strings quoted, nested
// objects and arrays expanded two levels deep, cycles marked [Circular].
// Output is always a single line.
func Inspect(v *Value) string {
	var b strings.Builder
	inspect(&b, v, 0, nil)
	return b.String()
}

// Display renders v for console output: a top-level string is written
// without quotes, anything else as Inspect.
func Display(v *Value) string {
	if v != nil && v.Type == TypeString {
		return v.Str
	}
	return Inspect(v)
}

func inspect(b *strings.Builder, v *Value, depth int, stack []*Object) {
	if v == nil {
		b.WriteString("undefined")
		return
	}
	switch v.Type {
	case TypeString:
		b.WriteString(quote(v.Str))
	case TypeNumber:
		if v.Number == 0 && math.Signbit(v.Number) {
			b.WriteString("-0")
			return
		}
		b.WriteString(FormatNumber(v.Number))
	case TypeObject:
		inspectObject(b, v.Object, depth, stack)
	default:
		b.WriteString(v.ToString())
	}
}

func inspectObject(b *strings.Builder, o *Object, depth int, stack []*Object) {
	for _, s := range stack {
		if s == o {
			b.WriteString("[Circular]")
			return
		}
	}
	switch {
	case o.Callable != nil:
		b.WriteString(functionTag(o))
		return
	case o.Class == ClassError:
		b.WriteString(objectToString(o, nil))
		return
	}
	if depth > inspectDepth {
		if o.Class == ClassArray {
			b.WriteString("[Array]")
		} else {
			b.WriteString("[Object]")
		}
		return
	}
	stack = append(stack, o)

	if o.Class == ClassArray {
		if len(o.Elements) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[ ")
		for i, el := range o.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			inspect(b, el, depth+1, stack)
		}
		b.WriteString(" ]")
		return
	}

	b.WriteString(instancePrefix(o))
	keys := o.OwnKeys(true)
	if len(keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(propertyKey(k))
		b.WriteString(": ")
		prop, _ := o.OwnProperty(k)
		switch {
		case prop.IsAccessor && prop.Getter != nil && prop.Setter != nil:
			b.WriteString("[Getter/Setter]")
		case prop.IsAccessor && prop.Getter != nil:
			b.WriteString("[Getter]")
		case prop.IsAccessor:
			b.WriteString("[Setter]")
		default:
			inspect(b, prop.Value, depth+1, stack)
		}
	}
	b.WriteString(" }")
}

func functionTag(o *Object) string {
	name := o.Name()
	if o.IsClass {
		tag := "[class " + name
		if name == "" {
			tag = "[class (anonymous)"
		}
		if parent := o.Prototype; parent != nil && parent.Callable != nil && parent.Name() != "" {
			tag += " extends " + parent.Name()
		}
		return tag + "]"
	}
	if name == "" {
		return "[Function (anonymous)]"
	}
	return "[Function: " + name + "]"
}

// instancePrefix names the constructor of objects built by a user class or
// function, e.g. "Point ".
func instancePrefix(o *Object) string {
	if o.Prototype == nil {
		return "[Object: null prototype] "
	}
	prop, ok := o.Prototype.OwnProperty("constructor")
	if !ok || prop.IsAccessor || !prop.Value.IsCallable() {
		return ""
	}
	name := prop.Value.Object.Name()
	if name == "" || name == "Object" {
		return ""
	}
	return name + " "
}

func propertyKey(k string) string {
	if isIdentifier(k) {
		return k
	}
	return quote(k)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch r {
		case rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
