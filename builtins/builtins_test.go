package builtins

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esgo/interpreter"
	"github.com/example/esgo/jsparse"
	"github.com/example/esgo/runtime"
)

type session struct {
	interp *interpreter.Interpreter
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newSession(t *testing.T) *session {
	t.Helper()
	s := &session{interp: interpreter.New()}
	require.NoError(t, RegisterAll(s.interp, &s.out, &s.errOut))
	return s
}

func (s *session) run(t *testing.T, source string) *runtime.Value {
	t.Helper()
	prog, err := jsparse.Parse("builtins.js", source)
	require.NoError(t, err, "parse %q", source)
	val, err := s.interp.Run(prog)
	require.NoError(t, err, "run %q", source)
	return val
}

func eval(t *testing.T, source string) *runtime.Value {
	t.Helper()
	return newSession(t).run(t, source)
}

type inspectCase struct {
	source string
	want   string
}

func runInspectCases(t *testing.T, cases []inspectCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			assert.Equal(t, tc.want, runtime.Inspect(eval(t, tc.source)))
		})
	}
}

func TestRegisterAllDefinesGlobals(t *testing.T) {
	s := newSession(t)
	for _, name := range []string{
		"Object", "Function", "Array", "String", "Number", "Boolean", "Math", "JSON", "console",
		"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError",
		"parseInt", "parseFloat", "isNaN", "isFinite",
	} {
		v, err := s.interp.Scope().Lookup(s.interp.Global(), name)
		require.NoError(t, err, name)
		assert.Equal(t, runtime.TypeObject, v.Type, name)
	}
}

func TestRegisterAllTwiceFails(t *testing.T) {
	s := newSession(t)
	err := RegisterAll(s.interp, &s.out, &s.errOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "define Object")
}

func TestConsole(t *testing.T) {
	s := newSession(t)
	s.run(t, `
		console.log("hello", 1, {a: 1}, [1, "x"]);
		console.info("info");
		console.debug();
		console.warn("careful", null);
		console.error("bad", undefined);
	`)
	assert.Equal(t, "hello 1 { a: 1 } [ 1, 'x' ]\ninfo\n\n", s.out.String())
	assert.Equal(t, "careful null\nbad undefined\n", s.errOut.String())
}

func TestConsoleLogReturnsUndefined(t *testing.T) {
	assert.Equal(t, runtime.TypeUndefined, eval(t, `console.log("x")`).Type)
}

func TestObject(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`Object.keys({a: 1, b: 2})`, `[ 'a', 'b' ]`},
		{`Object.keys([5, 6])`, `[ '0', '1' ]`},
		{`Object.keys("ab")`, `[ '0', '1' ]`},
		{`Object.values({a: 1, b: "x"})`, `[ 1, 'x' ]`},
		{`Object.entries({a: 1})`, `[ [ 'a', 1 ] ]`},
		{`Object.assign({a: 1}, {b: 2}, null, {a: 3})`, `{ a: 3, b: 2 }`},
		{`Object.create(null)`, `[Object: null prototype] {}`},
		{`var p = {greet: 1}; var o = Object.create(p); o.greet`, `1`},
		{`Object.getPrototypeOf([]) === Array.prototype`, `true`},
		{`Object.getPrototypeOf(Object.create(null))`, `null`},
		{`Object({a: 1})`, `{ a: 1 }`},
		{`Object(1)`, `{}`},
		{`new Object()`, `{}`},
		{`({a: 1}).hasOwnProperty("a")`, `true`},
		{`({a: 1}).hasOwnProperty("toString")`, `false`},
		{`[1].hasOwnProperty(0)`, `true`},
		{`({}).toString()`, `'[object Object]'`},
		{`Object.prototype.toString.call([])`, `'[object Array]'`},
		{`Object.prototype.toString.call(null)`, `'[object Null]'`},
		{`Object.prototype.toString.call(function () {})`, `'[object Function]'`},
	})
}

func TestObjectKeysOfNullThrows(t *testing.T) {
	v := eval(t, `try { Object.keys(null) } catch (e) { e.name + ": " + e.message }`)
	assert.Equal(t, "TypeError: Cannot convert undefined or null to object", v.Str)
}

func TestFunctionPrototype(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`function f(a, b) { return this.x + a + b; } f.call({x: 1}, 2, 3)`, `6`},
		{`function f(a, b) { return this.x + a + b; } f.apply({x: 1}, [2, 3])`, `6`},
		{`function f() { return arguments; } typeof f.apply(null)`, `'object'`},
		{`Math.max.apply(null, [1, 5, 3])`, `5`},
		{`function f(a, b) { return this.x + a + b; } var g = f.bind({x: 10}, 5); g(1)`, `16`},
		{`function f(a, b) {} f.bind(null, 1).name`, `'bound f'`},
		{`function f(a, b) {} f.bind(null, 1).length`, `1`},
		{`function f() {} f.bind(null)`, `[Function: bound f]`},
	})
}

func TestFunctionPrototypeErrors(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`try { Function.prototype.bind.call(1) } catch (e) { e.message }`, `'Bind must be called on a function'`},
		{`try { Function("return 1") } catch (e) { e.name }`, `'TypeError'`},
		{`function f() {} var g = f.bind(null); try { new g() } catch (e) { e.name }`, `'TypeError'`},
	})
}

func TestArray(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`Array.isArray([])`, `true`},
		{`Array.isArray({length: 0})`, `false`},
		{`Array(3)`, `[ undefined, undefined, undefined ]`},
		{`new Array(1, 2)`, `[ 1, 2 ]`},
		{`Array.of(7)`, `[ 7 ]`},
		{`var a = [1]; a.push(2, 3)`, `3`},
		{`var a = [1]; a.push(2, 3); a`, `[ 1, 2, 3 ]`},
		{`var a = [1, 2]; a.pop()`, `2`},
		{`[].pop()`, `undefined`},
		{`var a = [1, 2]; a.shift(); a`, `[ 2 ]`},
		{`var a = [2]; a.unshift(0, 1); a`, `[ 0, 1, 2 ]`},
		{`[1, 2, 3, 4].slice(1, 3)`, `[ 2, 3 ]`},
		{`[1, 2, 3, 4].slice(-2)`, `[ 3, 4 ]`},
		{`[1, 2].slice(5)`, `[]`},
		{`[1, 2].concat([3], 4)`, `[ 1, 2, 3, 4 ]`},
		{`[1, null, undefined, "x"].join("-")`, `'1---x'`},
		{`[1, 2].join()`, `'1,2'`},
		{`[1, 2, 3].reverse()`, `[ 3, 2, 1 ]`},
		{`[1, 2, 1].indexOf(1, 1)`, `2`},
		{`[1, 2].indexOf(3)`, `-1`},
		{`[NaN].indexOf(NaN)`, `-1`},
		{`[NaN].includes(NaN)`, `true`},
		{`var s = 0; [1, 2, 3].forEach(function (x) { s += x; }); s`, `6`},
		{`[1, 2, 3].map(function (x, i) { return x * i; })`, `[ 0, 2, 6 ]`},
		{`[1, 2, 3, 4].filter(function (x) { return x % 2 === 0; })`, `[ 2, 4 ]`},
		{`[1, 2].some(function (x) { return x > 1; })`, `true`},
		{`[1, 2].every(function (x) { return x > 1; })`, `false`},
		{`[1, 2, 3].find(function (x) { return x > 1; })`, `2`},
		{`[1, 2, 3].reduce(function (a, b) { return a + b; })`, `6`},
		{`[1, 2, 3].reduce(function (a, b) { return a + b; }, 10)`, `16`},
		{`String([1, [2, 3]])`, `'1,2,3'`},
	})
}

func TestArrayErrors(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`try { Array(-1) } catch (e) { e.name + ": " + e.message }`, `'RangeError: Invalid array length'`},
		{`try { [].reduce(function () {}) } catch (e) { e.message }`, `'Reduce of empty array with no initial value'`},
		{`try { [1].map(3) } catch (e) { e.message }`, `'3 is not a function'`},
		{`try { Array.prototype.push.call({}, 1) } catch (e) { e.name }`, `'TypeError'`},
	})
}

func TestString(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`String(12)`, `'12'`},
		{`String()`, `''`},
		{`"hello".charAt(1)`, `'e'`},
		{`"hello".charAt(9)`, `''`},
		{`"A".charCodeAt(0)`, `65`},
		{`"hello".indexOf("l")`, `2`},
		{`"hello".indexOf("l", 3)`, `3`},
		{`"hello".indexOf("z")`, `-1`},
		{`"hello".includes("ell")`, `true`},
		{`"hello".startsWith("he")`, `true`},
		{`"hello".endsWith("lo")`, `true`},
		{`"hello".slice(1, 3)`, `'el'`},
		{`"hello".slice(-3)`, `'llo'`},
		{`"hello".substring(3, 1)`, `'el'`},
		{`"MiXed".toUpperCase()`, `'MIXED'`},
		{`"MiXed".toLowerCase()`, `'mixed'`},
		{`"  pad ".trim()`, `'pad'`},
		{`"ab".repeat(3)`, `'ababab'`},
		{`"a,b,c".split(",")`, `[ 'a', 'b', 'c' ]`},
		{`"a,b,c".split(",", 2)`, `[ 'a', 'b' ]`},
		{`"abc".split("")`, `[ 'a', 'b', 'c' ]`},
		{`"abc".split()`, `[ 'abc' ]`},
		{`String.fromCharCode(104, 105)`, `'hi'`},
	})
}

func TestStringConstructorRejectsNew(t *testing.T) {
	v := eval(t, `try { new String("x") } catch (e) { e.message }`)
	assert.Equal(t, "String is not a constructor", v.Str)
}

func TestNumberAndBoolean(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`Number("12")`, `12`},
		{`Number()`, `0`},
		{`Number.isInteger(5)`, `true`},
		{`Number.isInteger(5.5)`, `false`},
		{`Number.isNaN("x")`, `false`},
		{`Number.MAX_SAFE_INTEGER`, `9007199254740991`},
		{`Number.prototype.toFixed.call(3.14159, 2)`, `'3.14'`},
		{`Boolean("")`, `false`},
		{`Boolean("x")`, `true`},
	})
}

func TestGlobalFunctions(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`parseInt("42px")`, `42`},
		{`parseInt("  -17")`, `-17`},
		{`parseInt("ff", 16)`, `255`},
		{`parseInt("0x1A")`, `26`},
		{`parseInt("101", 2)`, `5`},
		{`parseInt("abc")`, `NaN`},
		{`parseFloat("3.14abc")`, `3.14`},
		{`parseFloat("-.5")`, `-0.5`},
		{`parseFloat("1e3x")`, `1000`},
		{`parseFloat("Infinity")`, `Infinity`},
		{`parseFloat("x")`, `NaN`},
		{`isNaN("x")`, `true`},
		{`isNaN("1")`, `false`},
		{`isFinite(1 / 0)`, `false`},
		{`isFinite("2")`, `true`},
	})
}

func TestMath(t *testing.T) {
	cases := []struct {
		source string
		want   float64
	}{
		{`Math.abs(-3)`, 3},
		{`Math.floor(2.7)`, 2},
		{`Math.ceil(2.1)`, 3},
		{`Math.round(2.5)`, 3},
		{`Math.round(-2.5)`, -2},
		{`Math.trunc(-2.7)`, -2},
		{`Math.sign(-4)`, -1},
		{`Math.max(1, 5, 3)`, 5},
		{`Math.min(1, 5, 3)`, 1},
		{`Math.max()`, math.Inf(-1)},
		{`Math.min()`, math.Inf(1)},
		{`Math.pow(2, 10)`, 1024},
		{`Math.sqrt(16)`, 4},
		{`Math.PI`, math.Pi},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			v := eval(t, tc.source)
			require.Equal(t, runtime.TypeNumber, v.Type)
			assert.Equal(t, tc.want, v.Number)
		})
	}

	assert.True(t, math.IsNaN(eval(t, `Math.max(1, "x")`).Number))
}

func TestJSON(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`JSON.parse('{"b": 1, "a": [1, 2], "c": {"d": null}}')`, `{ b: 1, a: [ 1, 2 ], c: { d: null } }`},
		{`JSON.parse('"x"')`, `'x'`},
		{`JSON.parse("true")`, `true`},
		{`JSON.stringify({a: [1, "x", null], b: true})`, `'{"a":[1,"x",null],"b":true}'`},
		{`JSON.stringify({a: undefined, f: function () {}, n: NaN})`, `'{"n":null}'`},
		{`JSON.stringify([undefined])`, `'[null]'`},
		{`JSON.stringify(undefined)`, `undefined`},
		{`JSON.stringify("a\"b")`, `'"a\\"b"'`},
		{`JSON.parse(JSON.stringify({k: [1, {v: 2}]})).k[1].v`, `2`},
	})
}

func TestJSONIndent(t *testing.T) {
	v := eval(t, `JSON.stringify({a: 1, b: [1]}, null, 2)`)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    1\n  ]\n}", v.Str)
}

func TestJSONErrors(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`try { JSON.parse("{bad") } catch (e) { e.name }`, `'SyntaxError'`},
		{`var o = {}; o.self = o; try { JSON.stringify(o) } catch (e) { e.message }`, `'Converting circular structure to JSON'`},
	})
}

func TestErrors(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`new Error("boom")`, `Error: boom`},
		{`TypeError("bad")`, `TypeError: bad`},
		{`new RangeError("r").message`, `'r'`},
		{`new ReferenceError().message`, `''`},
		{`new TypeError("t") instanceof Error`, `true`},
		{`new TypeError("t") instanceof TypeError`, `true`},
		{`new Error("e") instanceof TypeError`, `false`},
		{`String(new SyntaxError("s"))`, `'SyntaxError: s'`},
		{`new Error("x").toString()`, `'Error: x'`},
		{`new Error().toString()`, `'Error'`},
		{`new TypeError("t").constructor === TypeError`, `true`},
	})
}

func TestHostErrorsAreInstancesOfConstructors(t *testing.T) {
	runInspectCases(t, []inspectCase{
		{`try { null.x } catch (e) { e instanceof TypeError }`, `true`},
		{`try { undefined() } catch (e) { e instanceof Error }`, `true`},
	})
}

func TestThrownErrorIsUncaught(t *testing.T) {
	s := newSession(t)
	prog, err := jsparse.Parse("throw.js", `throw new RangeError("out of range")`)
	require.NoError(t, err)
	_, err = s.interp.Run(prog)
	require.Error(t, err)
	assert.Equal(t, "Uncaught RangeError: out of range", err.Error())
}

func TestIndependentSessions(t *testing.T) {
	a := newSession(t)
	b := newSession(t)
	a.run(t, `Array.prototype.extra = 1`)
	assert.Equal(t, "undefined", runtime.Inspect(b.run(t, `[].extra`)))
	assert.Equal(t, "1", runtime.Inspect(a.run(t, `[].extra`)))
}
