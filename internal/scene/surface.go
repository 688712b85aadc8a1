package scene

import "skyfx/internal/notify"

type PointerKind uint8

const (
	PointerEnter PointerKind = iota
	PointerLeave
	PointerMove
)

// PointerEvent is delivered in surface-local pixels.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

type Size struct {
	W, H float64
}

// Surface is the drawing area the engines render into: a root container,
// its size, and the pointer/resize/scroll notifications the host feeds it.
type Surface struct {
	Root *Container

	width, height float64
	scrollY       float64
	cursorHidden  bool

	pointer notify.Set[PointerEvent]
	resize  notify.Set[Size]
	scroll  notify.Set[float64]
}

func NewSurface(width, height float64) *Surface {
	root := NewContainer("stage")
	root.SortableChildren = true
	return &Surface{Root: root, width: width, height: height}
}

func (s *Surface) Width() float64 { return s.width }
func (s *Surface) Height() float64 { return s.height }
func (s *Surface) ScrollY() float64 { return s.scrollY }

// Resize updates the size and notifies resize listeners if it changed.
func (s *Surface) Resize(w, h float64) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.resize.Emit(Size{W: w, H: h})
}

func (s *Surface) DispatchPointer(ev PointerEvent) {
	s.pointer.Emit(ev)
}

// Scroll sets the absolute scroll offset and notifies scroll listeners.
func (s *Surface) Scroll(y float64) {
	s.scrollY = y
	s.scroll.Emit(y)
}

func (s *Surface) OnPointer(fn func(PointerEvent)) (cancel func()) { return s.pointer.Add(fn) }
func (s *Surface) OnResize(fn func(Size)) (cancel func()) { return s.resize.Add(fn) }
func (s *Surface) OnScroll(fn func(float64)) (cancel func()) { return s.scroll.Add(fn) }

// ListenerCount is the total number of registered listeners of all kinds.
func (s *Surface) ListenerCount() int {
	return s.pointer.Len() + s.resize.Len() + s.scroll.Len()
}

// SetCursorHidden asks the host to hide the system cursor while an engine
// draws its own glyph.
func (s *Surface) SetCursorHidden(hidden bool) { s.cursorHidden = hidden }
func (s *Surface) CursorHidden() bool { return s.cursorHidden }
