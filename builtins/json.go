package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/example/esgo/runtime"
)

func (l *library) createJSONObject() *runtime.Object {
	j := l.realm.NewPlainObject()
	l.setMethod(j, "parse", 1, l.jsonParse)
	l.setMethod(j, "stringify", 3, jsonStringify)
	return j
}

func (l *library) jsonParse(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	text := argAt(args, 0).ToString()
	if !gjson.Valid(text) {
		return nil, &runtime.HostError{Name: "SyntaxError", Msg: "Unexpected token in JSON: " + strconv.Quote(text)}
	}
	return l.fromJSON(gjson.Parse(text)), nil
}

// fromJSON converts a parsed document. Object keys keep document order.
func (l *library) fromJSON(r gjson.Result) *runtime.Value {
	switch {
	case r.IsArray():
		var elems []*runtime.Value
		r.ForEach(func(_, v gjson.Result) bool {
			elems = append(elems, l.fromJSON(v))
			return true
		})
		return l.realm.NewArray(elems)
	case r.IsObject():
		obj := l.realm.NewPlainObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.DefineProperty(k.String(), &runtime.Property{Value: l.fromJSON(v), Writable: true, Enumerable: true})
			return true
		})
		return runtime.NewObject(obj)
	}
	switch r.Type {
	case gjson.String:
		return runtime.NewString(r.Str)
	case gjson.Number:
		return runtime.NewNumber(r.Num)
	case gjson.True:
		return runtime.True
	case gjson.False:
		return runtime.False
	}
	return runtime.Null
}

type jsonWriter struct {
	b      strings.Builder
	indent string
	stack  []*runtime.Object
}

func jsonStringify(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	w := &jsonWriter{}
	switch space := argAt(args, 2); space.Type {
	case runtime.TypeNumber:
		n := int(math.Min(10, toInteger(space)))
		if n > 0 {
			w.indent = strings.Repeat(" ", n)
		}
	case runtime.TypeString:
		w.indent = space.Str
		if len(w.indent) > 10 {
			w.indent = w.indent[:10]
		}
	}
	ok, err := w.write(argAt(args, 0), 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return runtime.Undefined, nil
	}
	return runtime.NewString(w.b.String()), nil
}

// write serializes v. It reports false for values JSON cannot represent
// (undefined, functions), which callers omit or turn into null.
func (w *jsonWriter) write(v *runtime.Value, depth int) (bool, error) {
	switch v.Type {
	case runtime.TypeUndefined:
		return false, nil
	case runtime.TypeNull:
		w.b.WriteString("null")
	case runtime.TypeBoolean, runtime.TypeString:
		if v.Type == runtime.TypeString {
			w.b.WriteString(jsonQuote(v.Str))
		} else {
			w.b.WriteString(v.ToString())
		}
	case runtime.TypeNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			w.b.WriteString("null")
		} else {
			w.b.WriteString(runtime.FormatNumber(v.Number))
		}
	case runtime.TypeObject:
		if v.IsCallable() {
			return false, nil
		}
		return true, w.writeObject(v.Object, depth)
	}
	return true, nil
}

func (w *jsonWriter) writeObject(o *runtime.Object, depth int) error {
	for _, s := range w.stack {
		if s == o {
			return runtime.TypeErrorf("Converting circular structure to JSON")
		}
	}
	w.stack = append(w.stack, o)
	defer func() { w.stack = w.stack[:len(w.stack)-1] }()

	if o.Class == runtime.ClassArray {
		if len(o.Elements) == 0 {
			w.b.WriteString("[]")
			return nil
		}
		w.b.WriteByte('[')
		for i, el := range o.Elements {
			if i > 0 {
				w.b.WriteByte(',')
			}
			w.newline(depth + 1)
			ok, err := w.write(el, depth+1)
			if err != nil {
				return err
			}
			if !ok {
				w.b.WriteString("null")
			}
		}
		w.newline(depth)
		w.b.WriteByte(']')
		return nil
	}

	w.b.WriteByte('{')
	wrote := false
	for _, k := range o.OwnKeys(true) {
		val, err := o.Get(k)
		if err != nil {
			return err
		}
		if val.Type == runtime.TypeUndefined || val.IsCallable() {
			continue
		}
		if wrote {
			w.b.WriteByte(',')
		}
		wrote = true
		w.newline(depth + 1)
		w.b.WriteString(jsonQuote(k))
		w.b.WriteByte(':')
		if w.indent != "" {
			w.b.WriteByte(' ')
		}
		if _, err := w.write(val, depth+1); err != nil {
			return err
		}
	}
	if wrote {
		w.newline(depth)
	}
	w.b.WriteByte('}')
	return nil
}

func (w *jsonWriter) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.b.WriteByte('\n')
	w.b.WriteString(strings.Repeat(w.indent, depth))
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				b.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
