package runtime

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeLookupWalksOutward(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	require.NoError(t, s.Declare(root, "a", NewNumber(1), true))
	inner := s.Push(root, FrameBlock, false)
	require.NoError(t, s.Declare(inner, "b", NewNumber(2), true))

	v, err := s.Lookup(inner, "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Number)

	_, err = s.Lookup(root, "b")
	assert.True(t, errors.Is(err, ErrUndefinedReference))

	_, id, ok := s.Find(inner, "a")
	assert.True(t, ok)
	assert.Equal(t, root, id)
}

func TestScopeShadowing(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	require.NoError(t, s.Declare(root, "x", NewString("outer"), true))
	inner := s.Push(root, FrameBlock, false)
	require.NoError(t, s.Declare(inner, "x", NewString("inner"), true))

	v, _ := s.Lookup(inner, "x")
	assert.Equal(t, "inner", v.Str)
	v, _ = s.Lookup(root, "x")
	assert.Equal(t, "outer", v.Str)
}

func TestScopeDuplicateDeclaration(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	require.NoError(t, s.Declare(root, "a", Undefined, true))
	err := s.Declare(root, "a", Undefined, true)
	assert.True(t, errors.Is(err, ErrDuplicateDeclaration))
	err = s.DeclareConst(root, "a", Undefined)
	assert.True(t, errors.Is(err, ErrDuplicateDeclaration))
}

func TestScopeAssign(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	require.NoError(t, s.Declare(root, "m", Zero, true))
	require.NoError(t, s.DeclareConst(root, "c", Zero))
	inner := s.Push(root, FrameBlock, false)

	require.NoError(t, s.Assign(inner, "m", NewNumber(5)))
	v, _ := s.Lookup(root, "m")
	assert.Equal(t, 5.0, v.Number)

	err := s.Assign(inner, "c", NewNumber(5))
	assert.True(t, errors.Is(err, ErrConstAssignment))

	err = s.Assign(inner, "nope", NewNumber(5))
	assert.True(t, errors.Is(err, ErrUndefinedReference))
}

func TestScopeTransparentIsConsumedOnce(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	fn := s.Push(root, FrameFunction, true)
	assert.True(t, s.ConsumeTransparent(fn))
	assert.False(t, s.ConsumeTransparent(fn))
	assert.False(t, s.ConsumeTransparent(root))
}

func TestScopeReleaseAndPin(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	a := s.Push(root, FrameBlock, false)
	b := s.Push(a, FrameBlock, false)
	assert.Equal(t, 3, s.Live())

	s.Pin(b)
	s.Release(b)
	s.Release(a)
	assert.Equal(t, 3, s.Live(), "pinned frames and their ancestors survive release")

	c := s.Push(root, FrameLoop, false)
	s.Release(c)
	assert.Equal(t, 3, s.Live())

	d := s.Push(root, FrameBlock, false)
	assert.Equal(t, c, d, "released slots are reused")
}

type captures []FrameID

func (c captures) References() ([]FrameID, []*Object) { return c, nil }

func TestScopeCollect(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	kept := s.Push(root, FrameFunction, true)
	dropped := s.Push(root, FrameFunction, true)
	for _, id := range []FrameID{kept, dropped} {
		s.Pin(id)
		s.Release(id)
	}
	assert.Equal(t, 3, s.Live())

	fn := NewFunctionObject(nil, nil)
	fn.Internal = captures{kept}
	holder := NewOrdinaryObject(nil)
	holder.DefineMethod("f", NewObject(fn))
	require.NoError(t, s.Declare(root, "holder", NewObject(holder), true))

	assert.Equal(t, 1, s.Collect())
	assert.Equal(t, 2, s.Live())
	assert.Equal(t, -1, s.Generation(dropped))
	assert.NotEqual(t, -1, s.Generation(kept))

	// a root value keeps its frames without any binding
	require.NoError(t, s.Assign(root, "holder", Undefined))
	assert.Equal(t, 0, s.Collect(NewObject(fn)))

	gen := s.Generation(kept)
	assert.Equal(t, 1, s.Collect())
	reused := s.Push(root, FrameBlock, false)
	assert.Equal(t, kept, reused)
	assert.NotEqual(t, gen, s.Generation(reused))
	s.Release(reused)

	// a frame reachable only from its own bindings is garbage
	cycle := s.Push(root, FrameFunction, true)
	self := NewFunctionObject(nil, nil)
	self.Internal = captures{cycle}
	require.NoError(t, s.DeclareConst(cycle, "self", NewObject(self)))
	s.Pin(cycle)
	s.Release(cycle)
	assert.Equal(t, 1, s.Collect())
	assert.Equal(t, 1, s.Live())
}

func TestScopeCopyFrame(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	head := s.Push(root, FrameLoop, false)
	require.NoError(t, s.Declare(head, "i", Zero, true))

	next := s.CopyFrame(head)
	require.NoError(t, s.Assign(next, "i", NewNumber(1)))

	v, _ := s.Lookup(head, "i")
	assert.Equal(t, 0.0, v.Number)
	v, _ = s.Lookup(next, "i")
	assert.Equal(t, 1.0, v.Number)
	assert.Equal(t, root, s.Parent(next))
	assert.Equal(t, FrameLoop, s.Kind(next))
}

func TestScopeNearestFunctionAndHome(t *testing.T) {
	s := NewScope()
	root := s.Push(NoFrame, FrameProgram, false)
	class := s.Push(root, FrameClass, false)
	s.SetHome(class, "descriptor")
	fn := s.Push(class, FrameFunction, true)
	blk := s.Push(fn, FrameBlock, false)

	assert.Equal(t, fn, s.NearestFunction(blk))
	assert.Equal(t, root, s.NearestFunction(root))
	assert.Equal(t, "descriptor", s.Home(blk))
	assert.Nil(t, s.Home(root))

	plain := s.Push(blk, FrameFunction, true)
	s.IsolateHome(plain)
	assert.Nil(t, s.Home(s.Push(plain, FrameBlock, false)))
	assert.Equal(t, "descriptor", s.Home(s.Push(blk, FrameFunction, true)))
}
