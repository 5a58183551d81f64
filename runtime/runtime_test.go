package runtime

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(n float64) *Value { return NewNumber(n) }

func TestBinaryOpArithmetic(t *testing.T) {
	tests := []struct {
		op   string
		l, r *Value
		want float64
	}{
		{"+", num(1), num(2), 3},
		{"-", num(5), num(7), -2},
		{"*", num(3), num(4), 12},
		{"/", num(1), num(4), 0.25},
		{"%", num(7), num(3), 1},
		{"%", num(-7), num(3), -1},
		{"**", num(2), num(10), 1024},
		{"&", num(6), num(3), 2},
		{"|", num(6), num(3), 7},
		{"^", num(6), num(3), 5},
		{"<<", num(1), num(4), 16},
		{">>", num(-16), num(2), -4},
		{">>>", num(-1), num(28), 15},
		{"-", NewString("10"), num(1), 9},
		{"+", True, num(1), 2},
	}
	for _, tt := range tests {
		got, err := BinaryOp(tt.op, tt.l, tt.r)
		require.NoError(t, err, tt.op)
		assert.Equal(t, tt.want, got.Number, "%s %s %s", Inspect(tt.l), tt.op, Inspect(tt.r))
	}

	got, err := BinaryOp("%", num(1), num(0))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.Number))
}

func TestBinaryOpStringConcat(t *testing.T) {
	got, err := BinaryOp("+", NewString("a"), num(1))
	require.NoError(t, err)
	assert.Equal(t, "a1", got.Str)

	r := NewRealm()
	arr := r.NewArray([]*Value{num(1), num(2)})
	got, err = BinaryOp("+", arr, NewString("!"))
	require.NoError(t, err)
	assert.Equal(t, "1,2!", got.Str)
}

func TestBinaryOpComparison(t *testing.T) {
	tests := []struct {
		op   string
		l, r *Value
		want bool
	}{
		{"<", num(1), num(2), true},
		{">", num(1), num(2), false},
		{"<=", num(2), num(2), true},
		{">=", num(1), num(2), false},
		{"<", NewString("a"), NewString("b"), true},
		{"<", NaN, num(1), false},
		{">=", NaN, num(1), false},
		{"==", Null, Undefined, true},
		{"===", Null, Undefined, false},
		{"==", NewString("1"), num(1), true},
		{"!=", num(0), False, false},
		{"!==", NaN, NaN, true},
	}
	for _, tt := range tests {
		got, err := BinaryOp(tt.op, tt.l, tt.r)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Bool, "%s %s %s", Inspect(tt.l), tt.op, Inspect(tt.r))
	}
}

func TestBinaryOpInAndInstanceof(t *testing.T) {
	r := NewRealm()
	obj := r.NewPlainObject()
	require.NoError(t, obj.Set("k", num(1)))
	got, err := BinaryOp("in", NewString("k"), NewObject(obj))
	require.NoError(t, err)
	assert.True(t, got.Bool)

	_, err = BinaryOp("in", NewString("k"), num(1))
	var host *HostError
	require.True(t, errors.As(err, &host))
	assert.Equal(t, "TypeError", host.Name)

	ctor := r.NewFunction("C", 0, func(this *Value, args []*Value) (*Value, error) { return Undefined, nil })
	proto := r.NewPlainObject()
	ctor.DefineMethod("prototype", NewObject(proto))
	inst := NewObject(NewOrdinaryObject(proto))
	got, err = BinaryOp("instanceof", inst, NewObject(ctor))
	require.NoError(t, err)
	assert.True(t, got.Bool)

	got, err = BinaryOp("instanceof", NewObject(obj), NewObject(ctor))
	require.NoError(t, err)
	assert.False(t, got.Bool)

	_, err = BinaryOp("instanceof", inst, num(1))
	assert.True(t, errors.As(err, &host))
}

func TestUnaryOpAndTypeOf(t *testing.T) {
	r := NewRealm()
	fn := NewObject(r.NewFunction("f", 0, func(this *Value, args []*Value) (*Value, error) { return nil, nil }))

	v, _ := UnaryOp("-", NewString("3"))
	assert.Equal(t, -3.0, v.Number)
	v, _ = UnaryOp("!", NewString(""))
	assert.True(t, v.Bool)
	v, _ = UnaryOp("~", num(5))
	assert.Equal(t, -6.0, v.Number)
	v, _ = UnaryOp("void", num(5))
	assert.Equal(t, Undefined, v)

	assert.Equal(t, "object", TypeOf(Null))
	assert.Equal(t, "function", TypeOf(fn))
	assert.Equal(t, "number", TypeOf(NaN))
	assert.Equal(t, "string", TypeOf(NewString("")))
	assert.Equal(t, "undefined", TypeOf(Undefined))
}

func TestCompoundBase(t *testing.T) {
	base, ok := CompoundBase("+=")
	assert.True(t, ok)
	assert.Equal(t, "+", base)
	base, ok = CompoundBase(">>>=")
	assert.True(t, ok)
	assert.Equal(t, ">>>", base)
	_, ok = CompoundBase("??=")
	assert.False(t, ok)
	_, ok = CompoundBase("=")
	assert.False(t, ok)
}

func TestObjectPropertiesKeepInsertionOrder(t *testing.T) {
	r := NewRealm()
	o := r.NewPlainObject()
	for _, k := range []string{"z", "a", "m"} {
		require.NoError(t, o.Set(k, num(1)))
	}
	o.DefineMethod("hidden", num(2))
	assert.Equal(t, []string{"z", "a", "m"}, o.OwnKeys(true))
	assert.Equal(t, []string{"z", "a", "m", "hidden"}, o.OwnKeys(false))

	assert.True(t, o.Delete("a"))
	assert.Equal(t, []string{"z", "m"}, o.OwnKeys(true))
}

func TestObjectAccessors(t *testing.T) {
	r := NewRealm()
	o := r.NewPlainObject()
	store := num(0)
	getter := NewObject(r.NewFunction("get", 0, func(this *Value, args []*Value) (*Value, error) {
		return store, nil
	}))
	setter := NewObject(r.NewFunction("set", 1, func(this *Value, args []*Value) (*Value, error) {
		store = NewNumber(args[0].Number * 2)
		return Undefined, nil
	}))
	o.DefineAccessor("x", getter, nil, true)
	o.DefineAccessor("x", nil, setter, true)

	require.NoError(t, o.Set("x", num(21)))
	v, err := o.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Number)

	child := NewOrdinaryObject(o)
	require.NoError(t, child.Set("x", num(1)))
	assert.False(t, child.HasOwnProperty("x"), "inherited setter runs instead of shadowing")
	assert.Equal(t, 2.0, store.Number)
}

func TestArrayElements(t *testing.T) {
	r := NewRealm()
	arr := r.NewArray([]*Value{num(1)}).Object
	require.NoError(t, arr.Set("3", num(4)))
	assert.Len(t, arr.Elements, 4)
	assert.Equal(t, Undefined, arr.Elements[1])

	l, _ := arr.Get("length")
	assert.Equal(t, 4.0, l.Number)
	require.NoError(t, arr.Set("length", num(1)))
	assert.Len(t, arr.Elements, 1)
	assert.True(t, arr.HasOwnProperty("0"))
	assert.False(t, arr.HasOwnProperty("1"))
}

func TestGetVOnPrimitives(t *testing.T) {
	r := NewRealm()
	v, err := r.GetV(NewString("héllo"), "length")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Number)
	v, err = r.GetV(NewString("abc"), "1")
	require.NoError(t, err)
	assert.Equal(t, "b", v.Str)

	_, err = r.GetV(Null, "x")
	var host *HostError
	require.True(t, errors.As(err, &host))
	assert.Equal(t, "Cannot read properties of null (reading 'x')", host.Msg)

	assert.Error(t, r.PutV(Undefined, "x", num(1)))
	assert.NoError(t, r.PutV(num(1), "x", num(1)))
}

func TestIterateAndEnumerableKeys(t *testing.T) {
	r := NewRealm()
	els, ok := Iterate(r.NewArray([]*Value{num(1), num(2)}))
	require.True(t, ok)
	assert.Len(t, els, 2)
	els, ok = Iterate(NewString("ab"))
	require.True(t, ok)
	assert.Equal(t, "b", els[1].Str)
	_, ok = Iterate(num(1))
	assert.False(t, ok)

	parent := r.NewPlainObject()
	require.NoError(t, parent.Set("p", num(1)))
	require.NoError(t, parent.Set("shared", num(1)))
	child := NewOrdinaryObject(parent)
	require.NoError(t, child.Set("own", num(1)))
	child.DefineMethod("shared", num(2))
	assert.Equal(t, []string{"own", "p"}, EnumerableKeys(NewObject(child)))
	assert.Equal(t, []string{"0", "1"}, EnumerableKeys(NewString("ab")))
}

func TestConstruct(t *testing.T) {
	r := NewRealm()
	ctor := r.NewFunction("P", 1, func(this *Value, args []*Value) (*Value, error) {
		return Undefined, this.Object.Set("v", args[0])
	})
	proto := r.NewPlainObject()
	proto.DefineMethod("constructor", NewObject(ctor))
	ctor.DefineMethod("prototype", NewObject(proto))

	inst, err := r.Construct(NewObject(ctor), []*Value{num(7)})
	require.NoError(t, err)
	assert.Same(t, proto, inst.Object.Prototype)
	assert.Equal(t, "P { v: 7 }", Inspect(inst))

	arrow := r.NewFunction("", 0, func(this *Value, args []*Value) (*Value, error) { return nil, nil })
	arrow.NotConstructor = true
	_, err = r.Construct(NewObject(arrow), nil)
	assert.Error(t, err)

	_, err = Call(num(1), Undefined, nil)
	assert.EqualError(t, err, "TypeError: 1 is not a function")
}

func TestInspect(t *testing.T) {
	r := NewRealm()
	obj := r.NewPlainObject()
	require.NoError(t, obj.Set("a", num(1)))
	require.NoError(t, obj.Set("a.a", NewString("it's")))
	nested := r.NewArray([]*Value{num(1), r.NewArray(nil), NewObject(r.NewPlainObject())})
	require.NoError(t, obj.Set("list", nested))
	require.NoError(t, obj.Set("self", NewObject(obj)))

	assert.Equal(t, `{ a: 1, 'a.a': "it's", list: [ 1, [], {} ], self: [Circular] }`, Inspect(NewObject(obj)))
	assert.Equal(t, "'x'", Inspect(NewString("x")))
	assert.Equal(t, "x", Display(NewString("x")))
	assert.Equal(t, "-0", Inspect(NewNumber(math.Copysign(0, -1))))
	assert.Equal(t, "1e+21", Inspect(num(1e21)))
	assert.Equal(t, "undefined", Inspect(Undefined))
	assert.Equal(t, "TypeError: boom", Inspect(r.NewError("TypeError", "boom")))

	deep, _ := r.FromGo(map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": 1}}}})
	assert.Equal(t, "{ a: { b: { c: [Object] } } }", Inspect(deep))

	noop := func(this *Value, args []*Value) (*Value, error) { return nil, nil }
	fn := r.NewFunction("f", 0, noop)
	assert.Equal(t, "[Function: f]", Inspect(NewObject(fn)))
	anon := r.NewFunction("", 0, noop)
	assert.Equal(t, "[Function (anonymous)]", Inspect(NewObject(anon)))

	acc := r.NewPlainObject()
	acc.DefineAccessor("g", NewObject(anon), nil, true)
	acc.DefineAccessor("gs", NewObject(anon), NewObject(anon), true)
	assert.Equal(t, "{ g: [Getter], gs: [Getter/Setter] }", Inspect(NewObject(acc)))
}

func TestFaults(t *testing.T) {
	f := NewFault(NotIterable, "%s is not iterable", "1").At(3, 4)
	assert.Equal(t, "NotIterableError: 1 is not iterable (3:4)", f.Error())
	assert.True(t, errors.Is(f, ErrNotIterable))
	assert.False(t, errors.Is(f, ErrNullDestructure))
	assert.True(t, IsFault(errors.Wrap(f, "run")))

	k, ok := FaultKindByName("SuperConstraint")
	assert.True(t, ok)
	assert.Equal(t, SuperConstraint, k)

	ex := Throw(NewString("boom"))
	got, ok := AsException(errors.Wrap(ex, "ctx"))
	require.True(t, ok)
	assert.Equal(t, "boom", got.Value.Str)
	assert.False(t, IsFault(ex))
	assert.Equal(t, "Uncaught 'boom'", ex.Error())

	r := NewRealm()
	ev := r.ErrorValue(TypeErrorf("bad %d", 1))
	require.NotNil(t, ev)
	assert.Equal(t, ClassError, ev.Object.Class)
	assert.Equal(t, "TypeError: bad 1", ev.ToString())
	assert.Nil(t, r.ErrorValue(f))
}
