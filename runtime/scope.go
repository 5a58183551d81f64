package runtime

// FrameID addresses a frame in a Scope arena.
type FrameID int

// NoFrame is the parent of the root frame.
const NoFrame FrameID = -1

// FrameKind tags what created a frame.
type FrameKind int

const (
	FrameProgram FrameKind = iota
	FrameBlock
	FrameFunction
	FrameLoop
	FrameSwitch
	FrameCatch
	FrameClass
)

func (k FrameKind) String() string {
	switch k {
	case FrameProgram:
		return "program"
	case FrameBlock:
		return "block"
	case FrameFunction:
		return "function"
	case FrameLoop:
		return "loop"
	case FrameSwitch:
		return "switch"
	case FrameCatch:
		return "catch"
	case FrameClass:
		return "class"
	}
	return "unknown"
}

// Binding is a named value slot.
type Binding struct {
	Value   *Value
	Mutable bool
}

type frame struct {
	parent      FrameID
	kind        FrameKind
	transparent bool
	pinned      bool
	released    bool
	live        bool
	gen         int
	home        any
	homeless    bool
	bindings    map[string]*Binding
}

// Scope is an index-addressed arena of binding frames. Frames are released
// when the construct that pushed them finishes, unless a closure pinned them.
// Pinned frames stay until Collect finds no reachable closure capturing them.
type Scope struct {
	frames []frame
	free   []FrameID
	live   int
}

func NewScope() *Scope {
	return &Scope{}
}

// Push allocates a frame under parent.
func (s *Scope) Push(parent FrameID, kind FrameKind, transparent bool) FrameID {
	f := frame{
		parent:      parent,
		kind:        kind,
		transparent: transparent,
		live:        true,
		bindings:    make(map[string]*Binding),
	}
	s.live++
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		f.gen = s.frames[id].gen
		s.frames[id] = f
		return id
	}
	s.frames = append(s.frames, f)
	return FrameID(len(s.frames) - 1)
}

// Release returns an unpinned frame's slot to the free list. A pinned frame
// is only marked released and left for Collect.
func (s *Scope) Release(id FrameID) {
	f := s.get(id)
	if f == nil {
		return
	}
	if f.pinned {
		f.released = true
		return
	}
	s.drop(id)
}

func (s *Scope) drop(id FrameID) {
	s.frames[id] = frame{gen: s.frames[id].gen + 1}
	s.free = append(s.free, id)
	s.live--
}

// Pin keeps id and all its ancestors past Release.
func (s *Scope) Pin(id FrameID) {
	for f := s.get(id); f != nil && !f.pinned; f = s.get(f.parent) {
		f.pinned = true
	}
}

// Find walks the chain from id outward and returns the first binding for name.
func (s *Scope) Find(id FrameID, name string) (*Binding, FrameID, bool) {
	for f := s.get(id); f != nil; id, f = f.parent, s.get(f.parent) {
		if b, ok := f.bindings[name]; ok {
			return b, id, true
		}
	}
	return nil, NoFrame, false
}

// Lookup resolves name to its value.
func (s *Scope) Lookup(id FrameID, name string) (*Value, error) {
	b, _, ok := s.Find(id, name)
	if !ok {
		return nil, NewFault(UndefinedReference, "%s is not defined", name)
	}
	return b.Value, nil
}

// Declare adds a binding to frame id itself.
func (s *Scope) Declare(id FrameID, name string, v *Value, mutable bool) error {
	f := s.get(id)
	if f == nil {
		return NewFault(UndefinedReference, "frame %d is not live", id)
	}
	if _, ok := f.bindings[name]; ok {
		return NewFault(DuplicateDeclaration, "Identifier '%s' has already been declared", name)
	}
	if v == nil {
		v = Undefined
	}
	f.bindings[name] = &Binding{Value: v, Mutable: mutable}
	return nil
}

// DeclareConst adds an immutable binding to frame id.
func (s *Scope) DeclareConst(id FrameID, name string, v *Value) error {
	return s.Declare(id, name, v, false)
}

// Assign updates the nearest binding for name.
func (s *Scope) Assign(id FrameID, name string, v *Value) error {
	b, _, ok := s.Find(id, name)
	if !ok {
		return NewFault(UndefinedReference, "%s is not defined", name)
	}
	if !b.Mutable {
		return NewFault(ConstAssignment, "Assignment to constant variable '%s'", name)
	}
	b.Value = v
	return nil
}

// ConsumeTransparent reports whether id was pushed transparent, clearing the
// flag so only the first nested block reuses the frame.
func (s *Scope) ConsumeTransparent(id FrameID) bool {
	f := s.get(id)
	if f == nil || !f.transparent {
		return false
	}
	f.transparent = false
	return true
}

// CopyFrame pushes a sibling of id holding copies of its bindings.
func (s *Scope) CopyFrame(id FrameID) FrameID {
	src := s.get(id)
	if src == nil {
		return NoFrame
	}
	parent, kind := src.parent, src.kind
	bindings := make(map[string]*Binding, len(src.bindings))
	for name, b := range src.bindings {
		bindings[name] = &Binding{Value: b.Value, Mutable: b.Mutable}
	}
	nid := s.Push(parent, kind, false)
	s.frames[nid].bindings = bindings
	return nid
}

// NearestFunction returns the closest function or program frame.
func (s *Scope) NearestFunction(id FrameID) FrameID {
	for f := s.get(id); f != nil; id, f = f.parent, s.get(f.parent) {
		if f.kind == FrameFunction || f.kind == FrameProgram {
			return id
		}
	}
	return NoFrame
}

// SetHome attaches an evaluator-defined value (a class descriptor) to id.
func (s *Scope) SetHome(id FrameID, home any) {
	if f := s.get(id); f != nil {
		f.home = home
	}
}

// IsolateHome stops Home lookups at id, so frames below it see no home from
// further out.
func (s *Scope) IsolateHome(id FrameID) {
	if f := s.get(id); f != nil {
		f.homeless = true
	}
}

// Home returns the nearest home value at or above id, up to the first frame
// marked with IsolateHome.
func (s *Scope) Home(id FrameID) any {
	for f := s.get(id); f != nil; f = s.get(f.parent) {
		if f.home != nil {
			return f.home
		}
		if f.homeless {
			return nil
		}
	}
	return nil
}

func (s *Scope) Parent(id FrameID) FrameID {
	if f := s.get(id); f != nil {
		return f.parent
	}
	return NoFrame
}

func (s *Scope) Kind(id FrameID) FrameKind {
	if f := s.get(id); f != nil {
		return f.kind
	}
	return FrameBlock
}

// Names lists the names bound directly in id.
func (s *Scope) Names(id FrameID) []string {
	f := s.get(id)
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.bindings))
	for n := range f.bindings {
		names = append(names, n)
	}
	return names
}

// Live counts frames not yet released.
func (s *Scope) Live() int {
	return s.live
}

// Generation identifies the current occupant of slot id, or -1 when the slot
// is free. A stale FrameID held past Collect no longer matches.
func (s *Scope) Generation(id FrameID) int {
	if f := s.get(id); f != nil {
		return f.gen
	}
	return -1
}

// Referrer is implemented by Object.Internal and frame home values that hold
// frames or objects the collector must follow.
type Referrer interface {
	References() ([]FrameID, []*Object)
}

// Collect frees released frames that no reachable closure captures. Frames
// not yet released and the given root values are live; everything reachable
// from their bindings, properties and Referrer data is kept. It returns the
// number of frames freed. Callers run it only when no evaluation is in
// flight, since values held on the Go stack are not roots.
func (s *Scope) Collect(roots ...*Value) int {
	m := &marker{scope: s, frames: make(map[FrameID]bool), objects: make(map[*Object]bool)}
	for id := range s.frames {
		if f := &s.frames[id]; f.live && !f.released {
			m.frame(FrameID(id))
		}
	}
	for _, v := range roots {
		m.value(v)
	}
	m.drain()

	freed := 0
	for id := range s.frames {
		fid := FrameID(id)
		if f := &s.frames[id]; f.live && f.released && !m.frames[fid] {
			s.drop(fid)
			freed++
		}
	}
	return freed
}

type marker struct {
	scope   *Scope
	frames  map[FrameID]bool
	objects map[*Object]bool
	pending []*Object
}

func (m *marker) frame(id FrameID) {
	for f := m.scope.get(id); f != nil && !m.frames[id]; id, f = f.parent, m.scope.get(f.parent) {
		m.frames[id] = true
		for _, b := range f.bindings {
			m.value(b.Value)
		}
		m.referrer(f.home)
	}
}

func (m *marker) value(v *Value) {
	if v != nil && v.Type == TypeObject {
		m.object(v.Object)
	}
}

func (m *marker) object(o *Object) {
	if o != nil && !m.objects[o] {
		m.objects[o] = true
		m.pending = append(m.pending, o)
	}
}

func (m *marker) referrer(x any) {
	r, ok := x.(Referrer)
	if !ok {
		return
	}
	frames, objects := r.References()
	for _, id := range frames {
		m.frame(id)
	}
	for _, o := range objects {
		m.object(o)
	}
}

func (m *marker) drain() {
	for len(m.pending) > 0 {
		o := m.pending[len(m.pending)-1]
		m.pending = m.pending[:len(m.pending)-1]
		m.object(o.Prototype)
		for _, el := range o.Elements {
			m.value(el)
		}
		if o.props != nil {
			it := o.props.Iterator()
			for it.Next() {
				prop := it.Value().(*Property)
				m.value(prop.Value)
				m.value(prop.Getter)
				m.value(prop.Setter)
			}
		}
		m.referrer(o.Internal)
	}
}

// ObjectsOf returns the objects among vals.
func ObjectsOf(vals ...*Value) []*Object {
	var out []*Object
	for _, v := range vals {
		if v != nil && v.Type == TypeObject && v.Object != nil {
			out = append(out, v.Object)
		}
	}
	return out
}

func (s *Scope) get(id FrameID) *frame {
	if id < 0 || int(id) >= len(s.frames) || !s.frames[id].live {
		return nil
	}
	return &s.frames[id]
}
